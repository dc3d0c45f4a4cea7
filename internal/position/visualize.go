// This file contains caret highlighting used when rendering diagnostics
// next to the offending source line.
package position

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SpanHighlighter highlights spans of a single source file.
type SpanHighlighter struct {
	file    *SourceFile
	context int
}

// NewSpanHighlighter creates a new span highlighter showing context lines
// above and below each highlighted span.
func NewSpanHighlighter(file *SourceFile, context int) *SpanHighlighter {
	if context < 0 {
		context = 0
	}
	return &SpanHighlighter{
		file:    file,
		context: context,
	}
}

// HighlightSpan returns the lines around span with carets under the
// highlighted columns.
func (sh *SpanHighlighter) HighlightSpan(span Span) string {
	if !span.Start.IsValid() {
		return ""
	}

	end := span.End
	if !end.IsValid() || end.Line < span.Start.Line {
		end = span.Start
	}

	var result strings.Builder

	startLine := max(1, span.Start.Line-sh.context)
	endLine := min(sh.file.LineCount(), end.Line+sh.context)

	for lineNum := startLine; lineNum <= endLine; lineNum++ {
		line := sh.file.GetLine(lineNum)
		fmt.Fprintf(&result, "%4d | %s\n", lineNum, line)

		if lineNum >= span.Start.Line && lineNum <= end.Line {
			sh.addHighlighting(&result, lineNum, line, span.Start, end)
		}
	}

	return result.String()
}

// HighlightLine underlines the whole trimmed content of a line. It is used
// for diagnostics that only carry a line number.
func (sh *SpanHighlighter) HighlightLine(lineNum int) string {
	line := sh.file.GetLine(lineNum)
	trimmed := strings.TrimLeft(line, " \t")
	startCol := len(line) - len(trimmed) + 1
	endCol := utf8.RuneCountInString(line) + 1
	if endCol <= startCol {
		endCol = startCol + 1
	}
	return sh.HighlightSpan(Span{
		Start: Position{Line: lineNum, Column: startCol},
		End:   Position{Line: lineNum, Column: endCol},
	})
}

// addHighlighting adds ASCII highlighting under the relevant part of the line.
func (sh *SpanHighlighter) addHighlighting(result *strings.Builder, lineNum int, line string, start, end Position) {
	result.WriteString("     | ")

	lineEnd := utf8.RuneCountInString(line) + 1
	switch {
	case lineNum == start.Line && lineNum == end.Line:
		endCol := end.Column
		if endCol <= start.Column {
			endCol = start.Column + 1
		}
		sh.addSingleLineHighlight(result, line, start.Column, endCol)
	case lineNum == start.Line:
		sh.addSingleLineHighlight(result, line, start.Column, lineEnd)
	case lineNum == end.Line:
		sh.addSingleLineHighlight(result, line, 1, end.Column)
	default:
		sh.addSingleLineHighlight(result, line, 1, lineEnd)
	}

	result.WriteString("\n")
}

// addSingleLineHighlight adds highlighting for a single line between given columns.
func (sh *SpanHighlighter) addSingleLineHighlight(result *strings.Builder, line string, startCol, endCol int) {
	runes := []rune(line)

	for i := 1; i < startCol; i++ {
		if i <= len(runes) && runes[i-1] == '\t' {
			result.WriteString("\t")
		} else {
			result.WriteString(" ")
		}
	}

	highlightLen := endCol - startCol
	if highlightLen > 0 {
		result.WriteString(strings.Repeat("^", highlightLen))
	}
}
