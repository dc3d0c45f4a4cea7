package main

import (
	"github.com/orizon-lang/goanalyzer/internal/analyzer"
	"github.com/orizon-lang/goanalyzer/internal/cli"
)

func runVersion(e env, args []string) error {
	fs, _ := newFlagSet(e, "version")
	jsonOutput := fs.Bool("json", false, "output version in JSON format")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return cli.PrintVersion(e.stdout, cli.GetVersionInfo(toolName, analyzer.SchemaVersion), *jsonOutput)
}
