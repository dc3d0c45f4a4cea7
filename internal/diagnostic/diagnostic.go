// Diagnostic collection for the analyzer.
// Lexical, syntax and semantic problems are recorded here in discovery
// order; nothing in this package ever fails or panics on input.

package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the phase that produced a diagnostic.
type Severity int

const (
	SeverityLexical Severity = iota
	SeveritySyntax
	SeveritySemantic
	SeverityInternal
)

func (s Severity) String() string {
	switch s {
	case SeverityLexical:
		return "lexical"
	case SeveritySyntax:
		return "syntax"
	case SeveritySemantic:
		return "semantic"
	case SeverityInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name so reports stay readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name produced by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "lexical":
		*s = SeverityLexical
	case "syntax":
		*s = SeveritySyntax
	case "semantic":
		*s = SeveritySemantic
	case "internal":
		*s = SeverityInternal
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Diagnostic represents a single reported problem.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Column   int      `json:"column,omitempty"`
}

// String formats the diagnostic as "severity: message (line N)". The
// suffix is left out when the message already names its line.
func (d Diagnostic) String() string {
	if d.Line > 0 && !namesLine(d.Message, d.Line) {
		return fmt.Sprintf("%s: %s (line %d)", d.Severity, d.Message, d.Line)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// namesLine reports whether msg contains "line N" for exactly line N.
func namesLine(msg string, line int) bool {
	needle := fmt.Sprintf("line %d", line)
	for i := strings.Index(msg, needle); i >= 0; {
		end := i + len(needle)
		if end == len(msg) || msg[end] < '0' || msg[end] > '9' {
			return true
		}
		next := strings.Index(msg[end:], needle)
		if next < 0 {
			break
		}
		i = end + next
	}
	return false
}

// Builder helps construct diagnostic messages with a fluent API.
type Builder struct {
	diagnostic Diagnostic
}

// New creates a new diagnostic builder.
func New() *Builder {
	return &Builder{}
}

func (b *Builder) Lexical() *Builder {
	b.diagnostic.Severity = SeverityLexical

	return b
}

func (b *Builder) Syntax() *Builder {
	b.diagnostic.Severity = SeveritySyntax

	return b
}

func (b *Builder) Semantic() *Builder {
	b.diagnostic.Severity = SeveritySemantic

	return b
}

func (b *Builder) Internal() *Builder {
	b.diagnostic.Severity = SeverityInternal

	return b
}

func (b *Builder) Message(message string) *Builder {
	b.diagnostic.Message = message

	return b
}

func (b *Builder) Messagef(format string, args ...any) *Builder {
	b.diagnostic.Message = fmt.Sprintf(format, args...)

	return b
}

func (b *Builder) Line(line int) *Builder {
	b.diagnostic.Line = line

	return b
}

func (b *Builder) Column(column int) *Builder {
	b.diagnostic.Column = column

	return b
}

func (b *Builder) Build() Diagnostic {
	return b.diagnostic
}

// Collector accumulates diagnostics in three independent ordered sequences
// plus a fourth one for engine faults.
type Collector struct {
	lexical  []Diagnostic
	syntax   []Diagnostic
	semantic []Diagnostic
	internal []Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add routes a diagnostic to the sequence matching its severity.
func (c *Collector) Add(d Diagnostic) {
	switch d.Severity {
	case SeverityLexical:
		c.lexical = append(c.lexical, d)
	case SeveritySyntax:
		c.syntax = append(c.syntax, d)
	case SeveritySemantic:
		c.semantic = append(c.semantic, d)
	default:
		d.Severity = SeverityInternal
		c.internal = append(c.internal, d)
	}
}

// AddAll adds every diagnostic in ds.
func (c *Collector) AddAll(ds []Diagnostic) {
	for _, d := range ds {
		c.Add(d)
	}
}

// Lexicalf records a lexical diagnostic.
func (c *Collector) Lexicalf(line int, format string, args ...any) {
	c.Add(New().Lexical().Line(line).Messagef(format, args...).Build())
}

// Syntaxf records a syntax diagnostic.
func (c *Collector) Syntaxf(line int, format string, args ...any) {
	c.Add(New().Syntax().Line(line).Messagef(format, args...).Build())
}

// Semanticf records a semantic diagnostic.
func (c *Collector) Semanticf(line int, format string, args ...any) {
	c.Add(New().Semantic().Line(line).Messagef(format, args...).Build())
}

// Lexical returns a copy of the lexical diagnostics.
func (c *Collector) Lexical() []Diagnostic { return clone(c.lexical) }

// Syntax returns a copy of the syntax diagnostics.
func (c *Collector) Syntax() []Diagnostic { return clone(c.syntax) }

// Semantic returns a copy of the semantic diagnostics.
func (c *Collector) Semantic() []Diagnostic { return clone(c.semantic) }

// Internal returns a copy of the internal diagnostics.
func (c *Collector) Internal() []Diagnostic { return clone(c.internal) }

// SyntaxCount returns the number of syntax diagnostics so far.
func (c *Collector) SyntaxCount() int { return len(c.syntax) }

// Len returns the total number of diagnostics collected.
func (c *Collector) Len() int {
	return len(c.lexical) + len(c.syntax) + len(c.semantic) + len(c.internal)
}

// HasErrors returns true if any diagnostic was collected.
func (c *Collector) HasErrors() bool {
	return c.Len() > 0
}

// Clear removes all diagnostics.
func (c *Collector) Clear() {
	c.lexical = c.lexical[:0]
	c.syntax = c.syntax[:0]
	c.semantic = c.semantic[:0]
	c.internal = c.internal[:0]
}

// Summary formats the per-severity counts, e.g. "1 lexical, 2 semantic".
func (c *Collector) Summary() string {
	return Summarize(c.lexical, c.syntax, c.semantic, c.internal)
}

// Summarize formats counts for the given diagnostic sequences.
func Summarize(groups ...[]Diagnostic) string {
	var parts []string
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s", len(group), group[0].Severity))
	}
	if len(parts) == 0 {
		return "no issues"
	}
	return strings.Join(parts, ", ")
}

func clone(ds []Diagnostic) []Diagnostic {
	out := make([]Diagnostic, len(ds))
	copy(out, ds)
	return out
}
