// Command goanalyzer checks Go source files against a subset of the Go
// grammar and a shallow set of semantic rules.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/orizon-lang/goanalyzer/internal/cli"
	"github.com/orizon-lang/goanalyzer/internal/configs"
	"github.com/orizon-lang/goanalyzer/internal/logs"
)

const toolName = "goanalyzer"

// errFailed marks a run that completed but found problems. It maps to exit
// status 1 without an extra error line.
var errFailed = errors.New("analysis reported errors")

var commands = []cli.CommandInfo{
	{
		Name:        "analyze",
		Usage:       "goanalyzer analyze [-json] [-verbose] [-source] [-config file] file...",
		Description: "Analyze source files and print a report",
		Examples:    []string{"goanalyzer analyze main.go", "goanalyzer analyze -json a.go b.go"},
	},
	{
		Name:        "tokens",
		Usage:       "goanalyzer tokens file",
		Description: "Print the token stream of a file",
	},
	{
		Name:        "watch",
		Usage:       "goanalyzer watch [-debounce 200ms] file...",
		Description: "Re-analyze files whenever they change",
	},
	{
		Name:        "serve",
		Usage:       "goanalyzer serve [-addr :8080] [-http3-addr :8443 -cert c -key k]",
		Description: "Serve POST /analyze over HTTP/1.1 and HTTP/3",
		Examples:    []string{"curl --data-binary @main.go localhost:8080/analyze"},
	},
	{
		Name:        "repl",
		Usage:       "goanalyzer repl",
		Description: "Analyze snippets interactively",
	},
	{
		Name:        "version",
		Usage:       "goanalyzer version [-json]",
		Description: "Show version information",
	},
	{
		Name:        "help",
		Usage:       "goanalyzer help [command]",
		Description: "Show help information",
	},
}

// env is the process surface a subcommand may touch.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	e := env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	err := run(ctx, e, os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, errFailed):
		os.Exit(1)
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	default:
		cli.ExitWithError("%v", err)
	}
}

func run(ctx context.Context, e env, args []string) error {
	if len(args) == 0 {
		cli.PrintUsage(e.stderr, toolName, commands)
		return errors.New("missing command")
	}

	sub, args := args[0], args[1:]
	switch sub {
	case "analyze":
		return runAnalyze(ctx, e, args)
	case "tokens":
		return runTokens(e, args)
	case "watch":
		return runWatch(ctx, e, args)
	case "serve":
		return runServe(ctx, e, args)
	case "repl":
		return runREPL(e, args)
	case "version", "-v", "--version":
		return runVersion(e, args)
	case "help", "-h", "--help":
		return runHelp(e, args)
	default:
		cli.PrintUsage(e.stderr, toolName, commands)
		return fmt.Errorf("unknown command %q", sub)
	}
}

func lookupCommand(name string) (cli.CommandInfo, bool) {
	for _, c := range commands {
		if c.Name == name {
			return c, true
		}
	}
	return cli.CommandInfo{}, false
}

func runHelp(e env, args []string) error {
	if len(args) > 0 {
		if c, ok := lookupCommand(args[0]); ok {
			cli.PrintCommandUsage(e.stdout, toolName, c)
			return nil
		}
		return fmt.Errorf("unknown command %q", args[0])
	}
	cli.PrintUsage(e.stdout, toolName, commands)
	return nil
}

// common holds the flags every subcommand accepts.
type common struct {
	configPath string
	logLevel   string
	noColor    bool
}

func newFlagSet(e env, name string) (*flag.FlagSet, *common) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	c := &common{}
	fs.StringVar(&c.configPath, "config", "", "CUE configuration file")
	fs.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	if info, ok := lookupCommand(name); ok {
		fs.Usage = func() {
			cli.PrintCommandUsage(e.stderr, toolName, info)
			fmt.Fprintf(e.stderr, "OPTIONS:\n")
			fs.PrintDefaults()
		}
	}
	return fs, c
}

// setup loads the configuration and builds the logger. Common flags win
// over configuration values.
func (c *common) setup(e env) (configs.Config, *slog.Logger, error) {
	cfg, err := configs.Load(c.configPath, cli.Version)
	if err != nil {
		return cfg, nil, err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.noColor {
		cfg.Color = false
	}
	level, err := logs.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logs.New(e.stderr, level), nil
}

// colorFor reports whether colors go to w under cfg.
func colorFor(cfg configs.Config, w io.Writer) bool {
	f, ok := w.(*os.File)
	return cfg.Color && ok && cli.ColorEnabled(f)
}

// isSet reports whether the named flag was given on the command line.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
