// Package analyzer drives the tokenizer and the parser over one source
// buffer and gathers their diagnostics into a Report.
//
// Every call owns its collector, scope stack and loop stack, so calls are
// independent and may run concurrently.
package analyzer

import (
	"time"

	"github.com/orizon-lang/goanalyzer/internal/diagnostic"
	"github.com/orizon-lang/goanalyzer/internal/errors"
	"github.com/orizon-lang/goanalyzer/internal/lexer"
	"github.com/orizon-lang/goanalyzer/internal/parser"
	"github.com/orizon-lang/goanalyzer/internal/resolver"
)

// Analyze tokenizes and parses source, running the semantic checks as the
// parser recognizes each construct. It never panics: an internal fault is
// reported as an internal diagnostic and fails the report.
func Analyze(source string, opts ...Option) *Report {
	cfg := newConfig(opts)
	start := time.Now()

	diags := diagnostic.NewCollector()
	report := &Report{
		Symbols: resolver.Snapshot{
			Variables: map[string]string{},
			Consts:    []string{},
			Functions: []string{},
			Types:     []string{},
		},
		Features: []string{},
	}

	phase := "tokenize"
	func() {
		defer func() {
			if r := recover(); r != nil {
				err := errors.InternalFault(phase, r)
				diags.Add(diagnostic.New().Internal().Message(err.Message).Build())
				cfg.logger.Error("analysis aborted", "phase", phase, "error", err)
			}
		}()

		tokens, lexErrs := lexer.Tokenize(source)
		diags.AddAll(lexErrs)
		report.TokenCount = len(tokens) - 1 // EOF
		report.Features = DetectFeatures(tokens)

		phase = "parse"
		checker := resolver.NewChecker(diags)
		parser.Parse(tokens, checker, diags, parser.WithTrace(func(production string) {
			if cfg.verbose {
				report.Productions = append(report.Productions, production)
			}
			if cfg.trace != nil {
				cfg.trace(production)
			}
		}))

		phase = "snapshot"
		report.Symbols = checker.Snapshot()
	}()

	report.collect(diags)

	cfg.logger.Debug("analysis finished",
		"tokens", report.TokenCount,
		"lexical", len(report.LexicalDiagnostics),
		"syntax", len(report.SyntaxDiagnostics),
		"semantic", len(report.SemanticDiagnostics),
		"success", report.Success,
		"duration", time.Since(start),
	)
	return report
}
