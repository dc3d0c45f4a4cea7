package analyzer

import (
	"github.com/orizon-lang/goanalyzer/internal/diagnostic"
	"github.com/orizon-lang/goanalyzer/internal/resolver"
)

// SchemaVersion is the version of the Report JSON shape.
const SchemaVersion = "1.0.0"

// Report is the result of one analysis.
type Report struct {
	LexicalDiagnostics  []diagnostic.Diagnostic `json:"lexical_diagnostics"`
	SyntaxDiagnostics   []diagnostic.Diagnostic `json:"syntax_diagnostics"`
	SemanticDiagnostics []diagnostic.Diagnostic `json:"semantic_diagnostics"`
	InternalDiagnostics []diagnostic.Diagnostic `json:"internal_diagnostics"`

	Symbols     resolver.Snapshot `json:"symbols"`
	Success     bool              `json:"success"`
	TokenCount  int               `json:"token_count"`
	Features    []string          `json:"features"`
	Productions []string          `json:"productions,omitempty"`
}

// Diagnostics returns every diagnostic: lexical, syntax, semantic, then
// internal, each in discovery order.
func (r *Report) Diagnostics() []diagnostic.Diagnostic {
	var all []diagnostic.Diagnostic
	all = append(all, r.LexicalDiagnostics...)
	all = append(all, r.SyntaxDiagnostics...)
	all = append(all, r.SemanticDiagnostics...)
	all = append(all, r.InternalDiagnostics...)
	return all
}

// Summary formats the diagnostic counts, e.g. "1 syntax, 2 semantic".
func (r *Report) Summary() string {
	return diagnostic.Summarize(r.LexicalDiagnostics, r.SyntaxDiagnostics,
		r.SemanticDiagnostics, r.InternalDiagnostics)
}

func (r *Report) collect(diags *diagnostic.Collector) {
	r.LexicalDiagnostics = diags.Lexical()
	r.SyntaxDiagnostics = diags.Syntax()
	r.SemanticDiagnostics = diags.Semantic()
	r.InternalDiagnostics = diags.Internal()
	r.Success = !diags.HasErrors()
}
