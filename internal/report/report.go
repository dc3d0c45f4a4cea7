// Package report renders analysis reports for people and for programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/orizon-lang/goanalyzer/internal/analyzer"
	"github.com/orizon-lang/goanalyzer/internal/diagnostic"
	"github.com/orizon-lang/goanalyzer/internal/position"
)

// Options controls text rendering.
type Options struct {
	Color   bool // ANSI colors for the section markers
	Source  bool // include the numbered source listing
	Context int  // lines shown around each diagnostic
}

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

const rule = "----------------------------------------------------------------------"

type textWriter struct {
	b    strings.Builder
	opts Options
}

func (tw *textWriter) paint(color, s string) string {
	if !tw.opts.Color {
		return s
	}
	return color + s + ansiReset
}

func (tw *textWriter) heading(title string) {
	fmt.Fprintf(&tw.b, "%s\n%s\n", tw.paint(ansiBold, title), rule)
}

// WriteText renders r as a sectioned text report for the file name holding
// source.
func WriteText(w io.Writer, name, source string, r *analyzer.Report, opts Options) error {
	tw := &textWriter{opts: opts}
	file := position.NewSourceFile(name, source)
	highlighter := position.NewSpanHighlighter(file, opts.Context)

	fmt.Fprintf(&tw.b, "%s\n", tw.paint(ansiBold, "== "+name+" =="))
	if opts.Source {
		tw.heading("SOURCE")
		tw.b.WriteString(file.Listing())
		tw.b.WriteString("\n")
	}
	fmt.Fprintf(&tw.b, "Tokens: %d\n\n", r.TokenCount)

	sections := []struct {
		title string
		diags []diagnostic.Diagnostic
	}{
		{"LEXICAL ERRORS", r.LexicalDiagnostics},
		{"SYNTAX ERRORS", r.SyntaxDiagnostics},
		{"SEMANTIC ERRORS", r.SemanticDiagnostics},
	}
	for _, s := range sections {
		tw.heading(s.title)
		if len(s.diags) == 0 {
			fmt.Fprintf(&tw.b, "%s No %s\n\n", tw.paint(ansiGreen, "✓"), strings.ToLower(s.title))
			continue
		}
		for _, d := range s.diags {
			tw.diagnostic(highlighter, d)
		}
		tw.b.WriteString("\n")
	}

	if len(r.InternalDiagnostics) > 0 {
		tw.heading("INTERNAL ERRORS")
		for _, d := range r.InternalDiagnostics {
			fmt.Fprintf(&tw.b, "%s %s\n", tw.paint(ansiRed, "✗"), d.Message)
		}
		tw.b.WriteString("\n")
	}

	tw.heading("VALIDATED GRAMMAR RULES")
	for _, f := range r.Features {
		fmt.Fprintf(&tw.b, "✓ %s\n", f)
	}
	tw.b.WriteString("\n")

	if len(r.Productions) > 0 {
		tw.heading("PRODUCTIONS RECOGNIZED")
		for _, p := range r.Productions {
			fmt.Fprintf(&tw.b, "%s\n", p)
		}
		tw.b.WriteString("\n")
	}

	if r.Success {
		fmt.Fprintf(&tw.b, "%s\n", tw.paint(ansiGreen, "✅ ANALYSIS SUCCESSFUL"))
	} else {
		fmt.Fprintf(&tw.b, "%s (%s)\n", tw.paint(ansiRed, "⚠️  ANALYSIS COMPLETED WITH ERRORS"), r.Summary())
	}

	_, err := io.WriteString(w, tw.b.String())
	return err
}

func (tw *textWriter) diagnostic(h *position.SpanHighlighter, d diagnostic.Diagnostic) {
	fmt.Fprintf(&tw.b, "%s %s\n", tw.paint(ansiRed, "✗"), d.Message)
	if d.Line <= 0 {
		return
	}
	if d.Column > 0 {
		start := position.Position{Line: d.Line, Column: d.Column}
		tw.b.WriteString(h.HighlightSpan(position.Span{Start: start, End: start}))
		return
	}
	tw.b.WriteString(h.HighlightLine(d.Line))
}

// Document is the JSON form of one analyzed file.
type Document struct {
	File          string `json:"file"`
	SchemaVersion string `json:"schema_version"`
	*analyzer.Report
}

// NewDocument wraps r for JSON output.
func NewDocument(name string, r *analyzer.Report) Document {
	return Document{File: name, SchemaVersion: analyzer.SchemaVersion, Report: r}
}

// WriteJSON writes the reports as an indented JSON array.
func WriteJSON(w io.Writer, docs ...Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if docs == nil {
		docs = []Document{}
	}
	return enc.Encode(docs)
}
