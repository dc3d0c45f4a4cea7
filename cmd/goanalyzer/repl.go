package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/orizon-lang/goanalyzer/internal/analyzer"
	"github.com/orizon-lang/goanalyzer/internal/cli"
	"github.com/orizon-lang/goanalyzer/internal/report"
)

const (
	replPrompt         = "Go > "
	replContinuePrompt = "...  "
	replName           = "<repl>"
)

// lineReader is the prompt side of the REPL; *liner.State implements it.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

type repl struct {
	in      lineReader
	out     io.Writer
	opts    report.Options
	verbose bool
	history func(string)
}

func runREPL(e env, args []string) error {
	fs, c := newFlagSet(e, "repl")
	historyFile := fs.String("history", defaultHistoryFile(), "history file path; empty disables history")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, _, err := c.setup(e)
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)

	if *historyFile != "" {
		if f, err := os.Open(*historyFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(*historyFile); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	info := cli.GetVersionInfo(toolName, analyzer.SchemaVersion)
	fmt.Fprintf(e.stdout, "%s v%s\nType :help for help, :quit to exit\n\n", info.Tool, info.Version)

	r := &repl{
		in:      line,
		out:     e.stdout,
		opts:    report.Options{Color: colorFor(cfg, e.stdout)},
		verbose: cfg.Verbose,
		history: line.AppendHistory,
	}
	return r.run()
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".goanalyzer_history")
}

// run reads snippets until EOF or :quit. A snippet continues over several
// lines while its braces are unbalanced.
func (r *repl) run() error {
	for {
		snippet, err := r.readSnippet()
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.out)
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			return err
		}

		trimmed := strings.TrimSpace(snippet)
		if trimmed == "" {
			continue
		}
		if r.history != nil {
			r.history(strings.ReplaceAll(trimmed, "\n", " "))
		}
		if strings.HasPrefix(trimmed, ":") {
			if r.command(trimmed) {
				return nil
			}
			continue
		}
		r.analyze(trimmed)
	}
}

func (r *repl) readSnippet() (string, error) {
	var b strings.Builder
	prompt := replPrompt
	depth := 0
	for {
		line, err := r.in.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) && b.Len() > 0 {
				return b.String(), nil
			}
			return "", err
		}
		b.WriteString(line)
		b.WriteString("\n")
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth <= 0 {
			return b.String(), nil
		}
		prompt = replContinuePrompt
	}
}

// command handles a ':' command and reports whether the REPL should exit.
func (r *repl) command(cmd string) bool {
	switch cmd {
	case ":quit", ":q", ":exit":
		return true
	case ":verbose":
		r.verbose = !r.verbose
		fmt.Fprintf(r.out, "verbose: %t\n", r.verbose)
	case ":help", ":h":
		fmt.Fprintln(r.out, "Enter Go source to analyze it. Snippets without a package clause")
		fmt.Fprintln(r.out, "are analyzed as part of package main.")
		fmt.Fprintln(r.out, "  :verbose   toggle the list of recognized productions")
		fmt.Fprintln(r.out, "  :quit      exit")
	default:
		fmt.Fprintf(r.out, "unknown command %s (try :help)\n", cmd)
	}
	return false
}

func (r *repl) analyze(snippet string) {
	source := snippetSource(snippet)
	rep := analyzer.Analyze(source, analyzer.WithVerbose(r.verbose))
	if err := report.WriteText(r.out, replName, source, rep, r.opts); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
	}
	fmt.Fprintln(r.out)
}

// snippetSource prefixes a package clause when the snippet has none.
func snippetSource(snippet string) string {
	if strings.HasPrefix(strings.TrimSpace(snippet), "package") {
		return snippet
	}
	return "package main\n" + snippet
}
