package lexer

import (
	"strings"
	"testing"
)

func TestBasicTokens(t *testing.T) {
	input := `func main() {
	fmt.Println("Hello, Go!");
}`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
		expectedLine    int
	}{
		{TokenFunc, "func", 1},
		{TokenIdentifier, "main", 1},
		{TokenLParen, "(", 1},
		{TokenRParen, ")", 1},
		{TokenLBrace, "{", 1},
		{TokenIdentifier, "fmt", 2},
		{TokenDot, ".", 2},
		{TokenIdentifier, "Println", 2},
		{TokenLParen, "(", 2},
		{TokenString, `"Hello, Go!"`, 2},
		{TokenRParen, ")", 2},
		{TokenSemicolon, ";", 2},
		{TokenRBrace, "}", 3},
		{TokenEOF, "", 3},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}

		if tok.Line != tt.expectedLine {
			t.Fatalf("tests[%d] - line wrong. expected=%d, got=%d",
				i, tt.expectedLine, tok.Line)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `package import var const func type struct map if else for range
switch case default return break continue true false int float64 string bool`

	expected := []TokenType{
		TokenPackage, TokenImport, TokenVar, TokenConst, TokenFunc, TokenTypeKeyword,
		TokenStruct, TokenMap, TokenIf, TokenElse, TokenFor, TokenRange,
		TokenSwitch, TokenCase, TokenDefault, TokenReturn, TokenBreak, TokenContinue,
		TokenTrue, TokenFalse, TokenIntType, TokenFloat64Type, TokenStringType, TokenBoolType,
		TokenEOF,
	}

	tokens, diags := Tokenize(input)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("token count wrong. expected=%d, got=%d", len(expected), len(tokens))
	}

	for i, tt := range expected {
		if tokens[i].Type != tt {
			t.Errorf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt, tokens[i].Type)
		}
		if tt != TokenEOF && !tokens[i].Type.IsKeyword() && tt != TokenTrue && tt != TokenFalse {
			t.Errorf("tests[%d] - %s should be a keyword", i, tokens[i].Type)
		}
	}
}

func TestOperatorsLongestMatch(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{"<<=", []TokenType{TokenShlAssign}},
		{">>=", []TokenType{TokenShrAssign}},
		{"&^=", []TokenType{TokenAndNotAssign}},
		{"&^", []TokenType{TokenAndNot}},
		{"&&", []TokenType{TokenAnd}},
		{"&=", []TokenType{TokenBitAndAssign}},
		{"&", []TokenType{TokenBitAnd}},
		{"||", []TokenType{TokenOr}},
		{"|=", []TokenType{TokenBitOrAssign}},
		{":=", []TokenType{TokenShortAssign}},
		{":", []TokenType{TokenColon}},
		{"...", []TokenType{TokenEllipsis}},
		{"..", []TokenType{TokenDot, TokenDot}},
		{"++", []TokenType{TokenIncrement}},
		{"+++", []TokenType{TokenIncrement, TokenPlus}},
		{"--", []TokenType{TokenDecrement}},
		{"==", []TokenType{TokenEq}},
		{"=", []TokenType{TokenAssign}},
		{"!=", []TokenType{TokenNe}},
		{"!", []TokenType{TokenNot}},
		{"<=", []TokenType{TokenLe}},
		{">=", []TokenType{TokenGe}},
		{"<<", []TokenType{TokenShl}},
		{">>", []TokenType{TokenShr}},
		{"%=", []TokenType{TokenModAssign}},
		{"*=", []TokenType{TokenMulAssign}},
		{"/=", []TokenType{TokenDivAssign}},
		{"^=", []TokenType{TokenBitXorAssign}},
		{"^", []TokenType{TokenBitXor}},
		{"x-1", []TokenType{TokenIdentifier, TokenMinus, TokenInt}},
	}

	for _, tt := range tests {
		tokens, diags := Tokenize(tt.input)
		if len(diags) != 0 {
			t.Errorf("%q: unexpected diagnostics: %v", tt.input, diags)
			continue
		}
		got := tokens[:len(tokens)-1]
		if len(got) != len(tt.expected) {
			t.Errorf("%q: token count wrong. expected=%d, got=%d (%v)", tt.input, len(tt.expected), len(got), got)
			continue
		}
		for i, tok := range got {
			if tok.Type != tt.expected[i] {
				t.Errorf("%q: tokens[%d] wrong. expected=%s, got=%s", tt.input, i, tt.expected[i], tok.Type)
			}
		}
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input         string
		expectedType  TokenType
		expectedValue any
	}{
		{"0", TokenInt, int64(0)},
		{"42", TokenInt, int64(42)},
		{"9223372036854775807", TokenInt, int64(9223372036854775807)},
		{"3.14", TokenFloat, 3.14},
		{"1e3", TokenFloat, 1000.0},
		{"2.5E-1", TokenFloat, 0.25},
	}

	for _, tt := range tests {
		tokens, diags := Tokenize(tt.input)
		if len(diags) != 0 {
			t.Errorf("%q: unexpected diagnostics: %v", tt.input, diags)
		}
		tok := tokens[0]
		if tok.Type != tt.expectedType {
			t.Errorf("%q: tokentype wrong. expected=%s, got=%s", tt.input, tt.expectedType, tok.Type)
		}
		if tok.Value != tt.expectedValue {
			t.Errorf("%q: value wrong. expected=%v, got=%v", tt.input, tt.expectedValue, tok.Value)
		}
	}
}

func TestIntegerOverflow(t *testing.T) {
	tokens, diags := Tokenize("x := 99999999999999999999")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	want := "Integer literal '99999999999999999999' out of range on line 1"
	if diags[0].Message != want {
		t.Errorf("message wrong. expected=%q, got=%q", want, diags[0].Message)
	}
	if tokens[2].Type != TokenInt || tokens[2].Value != int64(0) {
		t.Errorf("overflowing literal should still be an INT with value 0, got %v %v", tokens[2].Type, tokens[2].Value)
	}
}

func TestNumberFollowedByDot(t *testing.T) {
	tokens, _ := Tokenize("5.x")
	expected := []TokenType{TokenInt, TokenDot, TokenIdentifier, TokenEOF}
	for i, tt := range expected {
		if tokens[i].Type != tt {
			t.Errorf("tokens[%d] wrong. expected=%s, got=%s", i, tt, tokens[i].Type)
		}
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input           string
		expectedLiteral string
		expectedValue   string
	}{
		{`""`, `""`, ""},
		{`"hello"`, `"hello"`, "hello"},
		{`"a\"b"`, `"a\"b"`, `a\"b`},
		{`"tab\there"`, `"tab\there"`, `tab\there`},
	}

	for _, tt := range tests {
		tokens, diags := Tokenize(tt.input)
		if len(diags) != 0 {
			t.Errorf("%s: unexpected diagnostics: %v", tt.input, diags)
		}
		tok := tokens[0]
		if tok.Type != TokenString {
			t.Fatalf("%s: expected STRING, got %s", tt.input, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Errorf("%s: literal wrong. expected=%q, got=%q", tt.input, tt.expectedLiteral, tok.Literal)
		}
		if tok.Value != tt.expectedValue {
			t.Errorf("%s: value wrong. expected=%q, got=%q", tt.input, tt.expectedValue, tok.Value)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	tokens, diags := Tokenize("x := \"abc\ny")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].Message != `Illegal character '"' on line 1` {
		t.Errorf("unexpected message %q", diags[0].Message)
	}
	// The quote is skipped and scanning resumes with the rest of the text.
	expected := []TokenType{TokenIdentifier, TokenShortAssign, TokenIdentifier, TokenIdentifier, TokenEOF}
	if len(tokens) != len(expected) {
		t.Fatalf("token count wrong. expected=%d, got=%d (%v)", len(expected), len(tokens), tokens)
	}
	for i, tt := range expected {
		if tokens[i].Type != tt {
			t.Errorf("tokens[%d] wrong. expected=%s, got=%s", i, tt, tokens[i].Type)
		}
	}
	if tokens[3].Line != 2 {
		t.Errorf("identifier after newline should be on line 2, got %d", tokens[3].Line)
	}
}

func TestComments(t *testing.T) {
	input := `// leading comment
x /* inline */ y
/* spans
two lines */ z`

	tokens, diags := Tokenize(input)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	tests := []struct {
		literal string
		line    int
	}{
		{"x", 2},
		{"y", 2},
		{"z", 4},
	}
	for i, tt := range tests {
		if tokens[i].Literal != tt.literal || tokens[i].Line != tt.line {
			t.Errorf("tokens[%d] wrong. expected=%s@%d, got=%s@%d",
				i, tt.literal, tt.line, tokens[i].Literal, tokens[i].Line)
		}
	}
}

func TestUnterminatedComment(t *testing.T) {
	tokens, diags := Tokenize("a\n/* never closed\nb c")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].Message != "Unterminated comment on line 2" {
		t.Errorf("unexpected message %q", diags[0].Message)
	}
	if len(tokens) != 2 || tokens[1].Type != TokenEOF {
		t.Errorf("comment should consume the rest of the input, got %v", tokens)
	}
}

func TestIllegalCharacters(t *testing.T) {
	tests := []struct {
		input    string
		messages []string
		tokens   int
	}{
		{"x @ y", []string{"Illegal character '@' on line 1"}, 3},
		{"a\n$b", []string{"Illegal character '$' on line 2"}, 3},
		{"#?", []string{"Illegal character '#' on line 1", "Illegal character '?' on line 1"}, 1},
		{"x := 'c'", []string{"Illegal character ''' on line 1", "Illegal character ''' on line 1"}, 4},
		{"a € b", []string{"Illegal character '€' on line 1"}, 3},
	}

	for _, tt := range tests {
		tokens, diags := Tokenize(tt.input)
		if len(diags) != len(tt.messages) {
			t.Errorf("%q: diagnostic count wrong. expected=%d, got=%d (%v)", tt.input, len(tt.messages), len(diags), diags)
			continue
		}
		for i, msg := range tt.messages {
			if diags[i].Message != msg {
				t.Errorf("%q: diags[%d] wrong. expected=%q, got=%q", tt.input, i, msg, diags[i].Message)
			}
		}
		if len(tokens) != tt.tokens {
			t.Errorf("%q: token count wrong. expected=%d, got=%d", tt.input, tt.tokens, len(tokens))
		}
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	tokens, diags := Tokenize("héllo := 1")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tokens[0].Type != TokenIdentifier || tokens[0].Literal != "héllo" {
		t.Errorf("expected identifier héllo, got %v", tokens[0])
	}
}

func TestEOFAlwaysLast(t *testing.T) {
	inputs := []string{"", "   \n\t", "// only a comment", "x", "@@@"}
	for _, input := range inputs {
		tokens, _ := Tokenize(input)
		if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
			t.Errorf("%q: stream must end with EOF, got %v", input, tokens)
		}
		for _, tok := range tokens[:len(tokens)-1] {
			if tok.Type == TokenEOF {
				t.Errorf("%q: EOF appears before the end", input)
			}
		}
	}
}

func TestLiteralsRoundTrip(t *testing.T) {
	input := `package main

import "fmt"

func main() {
	var total int = 0
	for i := 0; i < 10; i++ {
		total += i * 2
	}
	fmt.Println("total:", total, 1.5)
}`

	tokens, diags := Tokenize(input)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	var parts []string
	for _, tok := range tokens[:len(tokens)-1] {
		parts = append(parts, tok.Literal)
	}
	got := strings.Join(parts, "")
	want := strings.Join(strings.Fields(input), "")
	if got != want {
		t.Errorf("literals do not reproduce the source.\nexpected=%q\ngot=%q", want, got)
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Type: TokenIdentifier, Literal: "x", Line: 3}
	if got := tok.String(); got != "IDENTIFIER(x) at line 3" {
		t.Errorf("unexpected token string %q", got)
	}
	if got := TokenType(-1).String(); got != "UNKNOWN(-1)" {
		t.Errorf("unexpected unknown name %q", got)
	}
}
