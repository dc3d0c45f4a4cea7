package main

import (
	"context"
	"fmt"
	"time"

	"github.com/orizon-lang/goanalyzer/internal/analyzer"
	"github.com/orizon-lang/goanalyzer/internal/report"
	"github.com/orizon-lang/goanalyzer/internal/watch"
)

func runWatch(ctx context.Context, e env, args []string) error {
	fs, c := newFlagSet(e, "watch")
	debounce := fs.Duration("debounce", 0, "quiet period before re-analyzing (default from config)")
	verbose := fs.Bool("verbose", false, "list recognized productions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, logger, err := c.setup(e)
	if err != nil {
		return err
	}
	if err := validateFiles(fs.Args()); err != nil {
		return err
	}
	if !isSet(fs, "debounce") {
		*debounce = time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	}
	if !isSet(fs, "verbose") {
		*verbose = cfg.Verbose
	}

	opts := report.Options{Color: colorFor(cfg, e.stdout)}
	show := func(res fileResult) {
		fmt.Fprintf(e.stdout, "[%s] ", time.Now().Format("15:04:05"))
		if res.err != nil {
			fmt.Fprintf(e.stdout, "%v\n", res.err)
			return
		}
		if err := report.WriteText(e.stdout, res.name, res.source, res.report, opts); err != nil {
			logger.Warn("write report", "err", err)
		}
		fmt.Fprintln(e.stdout)
	}

	for _, res := range analyzeFiles(ctx, fs.Args(), logger, analyzer.WithVerbose(*verbose)) {
		show(res)
	}

	logger.Info("watching", "files", fs.Args(), "debounce", *debounce)
	return watch.Run(ctx, fs.Args(), *debounce, logger, func(path string) {
		logger.Info("re-analyzing", "path", path)
		for _, res := range analyzeFiles(ctx, []string{path}, logger, analyzer.WithVerbose(*verbose)) {
			show(res)
		}
	})
}
