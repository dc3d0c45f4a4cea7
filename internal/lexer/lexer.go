// Package lexer implements the lexical analyzer for the Go subset.
// It turns source text into a token stream, tracking lines, converting
// literals, discarding comments and recovering from illegal characters.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/orizon-lang/goanalyzer/internal/diagnostic"
)

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // line of the current char
	column       int  // column of the current char

	diagnostics []diagnostic.Diagnostic
}

// New creates a new lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

// Tokenize scans the whole input. The returned slice always ends with a
// single EOF token; lexical problems are returned alongside and never stop
// the scan.
func Tokenize(source string) ([]Token, []diagnostic.Diagnostic) {
	l := New(source)
	tokens := make([]Token, 0, len(source)/3+1)
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return tokens, l.Diagnostics()
}

// Diagnostics returns the lexical diagnostics produced so far
func (l *Lexer) Diagnostics() []diagnostic.Diagnostic {
	out := make([]diagnostic.Diagnostic, len(l.diagnostics))
	copy(out, l.diagnostics)
	return out
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.ch == '\n' && l.position < len(l.input) {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		return
	}
	l.ch = l.input[l.readPosition]
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	return l.peekCharAt(0)
}

func (l *Lexer) peekCharAt(n int) byte {
	if l.readPosition+n >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition+n]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) errorf(line int, format string, args ...any) {
	l.diagnostics = append(l.diagnostics,
		diagnostic.New().Lexical().Line(line).Column(l.column).Messagef(format, args...).Build())
}

// skipWhitespace skips blanks, newlines and comments
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	startLine := l.line
	l.readChar() // '/'
	l.readChar() // '*'
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}
	l.errorf(startLine, "Unterminated comment on line %d", startLine)
}

// NextToken scans the input and returns the next significant token.
// Illegal characters are reported and skipped one at a time.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()
		if l.atEOF() {
			return Token{Type: TokenEOF, Line: l.line, Column: l.column + 1}
		}
		if tok, ok := l.scanToken(); ok {
			return tok
		}
	}
}

// scanToken scans one token at the current character. It returns false
// after reporting and skipping an illegal character.
func (l *Lexer) scanToken() (Token, bool) {
	start, line, column := l.position, l.line, l.column

	var tt TokenType
	switch l.ch {
	case '+':
		tt = l.pick(TokenPlus, "+=", TokenIncrement, TokenPlusAssign)
	case '-':
		tt = l.pick(TokenMinus, "-=", TokenDecrement, TokenMinusAssign)
	case '*':
		tt = l.pick(TokenMul, "=", TokenMulAssign)
	case '/':
		tt = l.pick(TokenDiv, "=", TokenDivAssign)
	case '%':
		tt = l.pick(TokenMod, "=", TokenModAssign)
	case '=':
		tt = l.pick(TokenAssign, "=", TokenEq)
	case '!':
		tt = l.pick(TokenNot, "=", TokenNe)
	case ':':
		tt = l.pick(TokenColon, "=", TokenShortAssign)
	case '<':
		if l.peekChar() == '<' {
			l.readChar()
			tt = l.pick(TokenShl, "=", TokenShlAssign)
		} else {
			tt = l.pick(TokenLt, "=", TokenLe)
		}
	case '>':
		if l.peekChar() == '>' {
			l.readChar()
			tt = l.pick(TokenShr, "=", TokenShrAssign)
		} else {
			tt = l.pick(TokenGt, "=", TokenGe)
		}
	case '&':
		if l.peekChar() == '^' {
			l.readChar()
			tt = l.pick(TokenAndNot, "=", TokenAndNotAssign)
		} else {
			tt = l.pick(TokenBitAnd, "&=", TokenAnd, TokenBitAndAssign)
		}
	case '|':
		tt = l.pick(TokenBitOr, "|=", TokenOr, TokenBitOrAssign)
	case '^':
		tt = l.pick(TokenBitXor, "=", TokenBitXorAssign)
	case '.':
		if l.peekChar() == '.' && l.peekCharAt(1) == '.' {
			l.readChar()
			l.readChar()
			tt = TokenEllipsis
		} else {
			tt = TokenDot
		}
	case '(':
		tt = TokenLParen
	case ')':
		tt = TokenRParen
	case '{':
		tt = TokenLBrace
	case '}':
		tt = TokenRBrace
	case '[':
		tt = TokenLBracket
	case ']':
		tt = TokenRBracket
	case ',':
		tt = TokenComma
	case ';':
		tt = TokenSemicolon
	case '"':
		return l.readString(line, column)
	default:
		if isDigit(l.ch) {
			return l.readNumber(line, column), true
		}
		if r := l.currentRune(); isLetter(r) {
			return l.readIdentifier(line, column), true
		}
		l.illegal()
		return Token{}, false
	}

	l.readChar()
	return Token{
		Type:    tt,
		Literal: l.input[start:l.position],
		Line:    line,
		Column:  column,
	}, true
}

// pick consumes the following character when it is one of chars and
// returns the token type at the same index, or def otherwise.
func (l *Lexer) pick(def TokenType, chars string, types ...TokenType) TokenType {
	if i := strings.IndexByte(chars, l.peekChar()); i >= 0 {
		l.readChar()
		return types[i]
	}
	return def
}

func (l *Lexer) currentRune() rune {
	if l.ch < utf8.RuneSelf {
		return rune(l.ch)
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.position:])
	return r
}

// illegal reports the current character and skips exactly one rune
func (l *Lexer) illegal() {
	r, size := utf8.DecodeRuneInString(l.input[l.position:])
	l.errorf(l.line, "Illegal character '%s' on line %d", string(r), l.line)
	for i := 0; i < size; i++ {
		l.readChar()
	}
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier(line, column int) Token {
	start := l.position
	for !l.atEOF() {
		r := l.currentRune()
		if !isLetter(r) && !unicode.IsDigit(r) {
			break
		}
		for i := utf8.RuneLen(r); i > 0; i-- {
			l.readChar()
		}
	}

	literal := l.input[start:l.position]
	tok := Token{
		Type:    LookupIdent(literal),
		Literal: literal,
		Value:   literal,
		Line:    line,
		Column:  column,
	}
	switch tok.Type {
	case TokenTrue:
		tok.Value = true
	case TokenFalse:
		tok.Value = false
	}
	return tok
}

// readNumber reads an integer or floating point literal. A leading sign is
// never part of the literal.
func (l *Lexer) readNumber(line, column int) Token {
	start := l.position
	isFloat := false

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(1))) {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	literal := l.input[start:l.position]
	tok := Token{Literal: literal, Line: line, Column: column}
	if isFloat {
		tok.Type = TokenFloat
		v, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			l.errorf(line, "Float literal '%s' out of range on line %d", literal, line)
		}
		tok.Value = v
		return tok
	}

	tok.Type = TokenInt
	v, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		l.errorf(line, "Integer literal '%s' out of range on line %d", literal, line)
		v = 0
	}
	tok.Value = v
	return tok
}

// readString reads a double-quoted string on a single line. Backslash
// escapes are passed through without interpretation. An unterminated
// string makes the opening quote an illegal character.
func (l *Lexer) readString(line, column int) (Token, bool) {
	start := l.position
	i := l.readPosition
	for i < len(l.input) {
		c := l.input[i]
		if c == '"' {
			break
		}
		if c == '\n' {
			i = len(l.input)
			break
		}
		if c == '\\' {
			if i+1 >= len(l.input) || l.input[i+1] == '\n' {
				i = len(l.input)
				break
			}
			i++
		}
		i++
	}
	if i >= len(l.input) {
		l.illegal()
		return Token{}, false
	}

	for l.position < i {
		l.readChar()
	}
	l.readChar() // closing quote

	literal := l.input[start:l.position]
	return Token{
		Type:    TokenString,
		Literal: literal,
		Value:   literal[1 : len(literal)-1],
		Line:    line,
		Column:  column,
	}, true
}

// isLetter checks if the rune may start an identifier
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' ||
		r >= utf8.RuneSelf && unicode.IsLetter(r)
}

// isDigit checks if character is ASCII digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
