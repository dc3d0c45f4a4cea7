package diagnostic

import (
	"encoding/json"
	"testing"
)

func TestBuilder(t *testing.T) {
	d := New().Semantic().Line(4).Column(2).Messagef("Variable '%s' is not defined", "x").Build()

	if d.Severity != SeveritySemantic {
		t.Errorf("severity wrong. expected=%s, got=%s", SeveritySemantic, d.Severity)
	}
	if d.Message != "Variable 'x' is not defined" {
		t.Errorf("message wrong, got=%q", d.Message)
	}
	if d.Line != 4 || d.Column != 2 {
		t.Errorf("position wrong. expected=4:2, got=%d:%d", d.Line, d.Column)
	}
	if got := d.String(); got != "semantic: Variable 'x' is not defined (line 4)" {
		t.Errorf("String wrong, got=%q", got)
	}
}

func TestCollectorRoutesBySeverity(t *testing.T) {
	c := NewCollector()
	c.Lexicalf(1, "Illegal character '%s' on line %d", "@", 1)
	c.Syntaxf(2, "Syntax error at '%s' (line %d)", ")", 2)
	c.Semanticf(3, "Constant '%s' cannot be modified", "Y")
	c.Semanticf(4, "Variable '%s' is not defined", "z")
	c.Add(Diagnostic{Severity: Severity(42), Message: "boom"})

	tests := []struct {
		name     string
		got      []Diagnostic
		expected int
	}{
		{"lexical", c.Lexical(), 1},
		{"syntax", c.Syntax(), 1},
		{"semantic", c.Semantic(), 2},
		{"internal", c.Internal(), 1},
	}
	for _, tt := range tests {
		if len(tt.got) != tt.expected {
			t.Errorf("%s count wrong. expected=%d, got=%d", tt.name, tt.expected, len(tt.got))
		}
	}

	if c.Semantic()[0].Message != "Constant 'Y' cannot be modified" {
		t.Errorf("semantic order wrong, got=%q", c.Semantic()[0].Message)
	}
	if c.Internal()[0].Severity != SeverityInternal {
		t.Errorf("unknown severities should be stored as internal")
	}
	if c.Len() != 5 || !c.HasErrors() {
		t.Errorf("Len wrong. expected=5, got=%d", c.Len())
	}
	if got := c.Summary(); got != "1 lexical, 1 syntax, 2 semantic, 1 internal" {
		t.Errorf("Summary wrong, got=%q", got)
	}

	c.Clear()
	if c.HasErrors() || c.Summary() != "no issues" {
		t.Error("Clear should empty every sequence")
	}
}

func TestCollectorReturnsCopies(t *testing.T) {
	c := NewCollector()
	c.Semanticf(1, "first")
	got := c.Semantic()
	got[0].Message = "mutated"
	if c.Semantic()[0].Message != "first" {
		t.Error("accessor should not expose internal storage")
	}
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(New().Syntax().Line(7).Message("Syntax error at 'EOF' (line 7)").Build())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	expected := `{"severity":"syntax","message":"Syntax error at 'EOF' (line 7)","line":7}`
	if string(data) != expected {
		t.Errorf("json wrong. expected=%s, got=%s", expected, data)
	}

	var back Diagnostic
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.Severity != SeveritySyntax {
		t.Errorf("severity round trip wrong, got=%s", back.Severity)
	}

	var bad Severity
	if err := bad.UnmarshalText([]byte("fatal")); err == nil {
		t.Error("unknown severity name should fail")
	}
}

func TestStringOmitsRepeatedLine(t *testing.T) {
	tests := []struct {
		diag     Diagnostic
		expected string
	}{
		{New().Syntax().Line(6).Messagef("Syntax error at '%s' (line %d)", "}", 6).Build(),
			"syntax: Syntax error at '}' (line 6)"},
		{New().Lexical().Line(2).Message("Illegal character '@' on line 2").Build(),
			"lexical: Illegal character '@' on line 2"},
		{New().Syntax().Line(1).Message("Syntax error at ')' (line 12)").Build(),
			"syntax: Syntax error at ')' (line 12) (line 1)"},
		{New().Semantic().Line(3).Message("Variable 'x' is not defined").Build(),
			"semantic: Variable 'x' is not defined (line 3)"},
		{New().Internal().Message("Internal error during parse: boom").Build(),
			"internal: Internal error during parse: boom"},
	}

	for i, tt := range tests {
		if got := tt.diag.String(); got != tt.expected {
			t.Errorf("tests[%d] - String wrong. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}
