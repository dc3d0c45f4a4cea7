// Package position provides source code position tracking for the analyzer.
// Positions feed diagnostics, and SourceFile gives the report renderer
// line-oriented access to the analyzed text.
package position

import (
	"fmt"
	"strings"
)

// Position is a 1-based line and column in a source file.
type Position struct {
	Line   int
	Column int
}

// IsValid reports whether both line and column are set.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Span covers columns from Start up to, but not including, End.
type Span struct {
	Start Position
	End   Position
}

// SourceFile splits analyzed text into lines for the report renderer.
type SourceFile struct {
	Filename string
	Lines    []string
}

// NewSourceFile splits content on newlines. A trailing carriage return is
// dropped per line by GetLine.
func NewSourceFile(filename, content string) *SourceFile {
	return &SourceFile{
		Filename: filename,
		Lines:    strings.Split(content, "\n"),
	}
}

// LineCount returns the number of lines in the file
func (sf *SourceFile) LineCount() int {
	return len(sf.Lines)
}

// GetLine returns the specified line (1-based) or empty string if invalid
func (sf *SourceFile) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > len(sf.Lines) {
		return ""
	}
	return strings.TrimSuffix(sf.Lines[lineNum-1], "\r")
}

// Listing renders the file with right-aligned line numbers, one line per
// row, in the "   N | text" layout used by analysis reports.
func (sf *SourceFile) Listing() string {
	var b strings.Builder
	for i := range sf.Lines {
		fmt.Fprintf(&b, "%4d | %s\n", i+1, sf.GetLine(i+1))
	}
	return b.String()
}
