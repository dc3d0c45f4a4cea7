package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/goanalyzer/internal/analyzer"
	apperrors "github.com/orizon-lang/goanalyzer/internal/errors"
	"github.com/orizon-lang/goanalyzer/internal/report"
)

type fileResult struct {
	name   string
	source string
	report *analyzer.Report
	err    error
}

// analyzeFiles reads and analyzes files concurrently. Results keep the
// order of files; unreadable files carry err and no report.
func analyzeFiles(ctx context.Context, files []string, logger *slog.Logger, opts ...analyzer.Option) []fileResult {
	results := make([]fileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = fileResult{name: name, err: err}
				return nil
			}
			data, err := os.ReadFile(name)
			if err != nil {
				results[i] = fileResult{name: name, err: apperrors.ReadFailure(name, err)}
				return nil
			}
			source := string(data)
			fileOpts := append([]analyzer.Option{analyzer.WithLogger(logger.With("file", name))}, opts...)
			r := analyzer.Analyze(source, fileOpts...)
			results[i] = fileResult{name: name, source: source, report: r}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func runAnalyze(ctx context.Context, e env, args []string) error {
	fs, c := newFlagSet(e, "analyze")
	jsonOutput := fs.Bool("json", false, "print reports as JSON")
	verbose := fs.Bool("verbose", false, "list recognized productions")
	showSource := fs.Bool("source", false, "include a numbered source listing")
	contextLines := fs.Int("context", 0, "source lines shown around each diagnostic")
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
	if !isSet(fs, "verbose") {
		*verbose = cfg.Verbose
	}
	if !isSet(fs, "json") {
		*jsonOutput = cfg.Format == "json"
	}

	results := analyzeFiles(ctx, fs.Args(), logger, analyzer.WithVerbose(*verbose))

	var errs []error
	failed := false
	docs := make([]report.Document, 0, len(results))
	for _, res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		if !res.report.Success {
			failed = true
		}
		if *jsonOutput {
			docs = append(docs, report.NewDocument(res.name, res.report))
			continue
		}
		opts := report.Options{
			Color:   colorFor(cfg, e.stdout),
			Source:  *showSource,
			Context: *contextLines,
		}
		if err := report.WriteText(e.stdout, res.name, res.source, res.report, opts); err != nil {
			return err
		}
		fmt.Fprintln(e.stdout)
	}
	if *jsonOutput {
		if err := report.WriteJSON(e.stdout, docs...); err != nil {
			return err
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	if failed {
		return errFailed
	}
	return nil
}

func validateFiles(files []string) error {
	if len(files) == 0 {
		return errors.New("no input files")
	}
	return nil
}
