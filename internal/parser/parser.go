// Package parser implements the syntax-directed parser for the Go subset.
// It is a recursive descent parser with Pratt precedence climbing for
// binary expressions. No tree is built: every recognized construct fires
// its semantic action on the resolver.Checker immediately, and expression
// parsers return the inferred type tag.
package parser

import (
	"github.com/orizon-lang/goanalyzer/internal/diagnostic"
	"github.com/orizon-lang/goanalyzer/internal/lexer"
	"github.com/orizon-lang/goanalyzer/internal/resolver"
)

// Parser represents the recursive descent parser
type Parser struct {
	tokens  []lexer.Token
	pos     int
	current lexer.Token
	peek    lexer.Token

	checker *resolver.Checker
	diags   *diagnostic.Collector

	// Parser state
	recovering  bool // a syntax error was reported and we have not resynced yet
	eofReported bool // unexpected EOF is reported once, not per open block
	noLiteral   int  // >0 inside for/if/switch headers where T{ is not a literal
	depth       int  // nesting of recursive productions
	trace       func(production string)

	// calls to names unknown at the call site; checked once all top-level
	// declarations have been seen
	pendingCalls []lexer.Token
}

// maxDepth bounds the nesting of expressions, types, blocks and
// statements. Deeper input is rejected with a syntax error.
const maxDepth = 1000

// Option configures a Parser.
type Option func(*Parser)

// WithTrace registers a callback receiving the name of every production
// the parser recognizes, in order.
func WithTrace(trace func(production string)) Option {
	return func(p *Parser) {
		p.trace = trace
	}
}

// bailout unwinds the parser to the nearest statement boundary after a
// syntax error. Deferred scope exits run on the way out.
type bailout struct{}

// New creates a parser over tokens. The stream is terminated with an EOF
// token if the caller did not supply one.
func New(tokens []lexer.Token, checker *resolver.Checker, diags *diagnostic.Collector, opts ...Option) *Parser {
	if n := len(tokens); n == 0 || tokens[n-1].Type != lexer.TokenEOF {
		line := 1
		if n > 0 {
			line = tokens[n-1].Line
		}
		tokens = append(tokens[:n:n], lexer.Token{Type: lexer.TokenEOF, Line: line})
	}
	if diags == nil {
		diags = diagnostic.NewCollector()
	}
	if checker == nil {
		checker = resolver.NewChecker(diags)
	}

	p := &Parser{
		tokens:  tokens,
		checker: checker,
		diags:   diags,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.pos = -1
	p.nextToken()
	return p
}

// Parse runs the parser over tokens, executing semantic actions on checker
// and recording syntax errors in diags. It reports whether the program was
// accepted without syntax errors.
func Parse(tokens []lexer.Token, checker *resolver.Checker, diags *diagnostic.Collector, opts ...Option) bool {
	p := New(tokens, checker, diags, opts...)
	return p.ParseProgram()
}

// ParseProgram parses the whole token stream.
func (p *Parser) ParseProgram() bool {
	before := p.diags.SyntaxCount()
	p.parseProgram()
	return p.diags.SyntaxCount() == before
}

// nextToken advances the parser to the next token
func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.current = p.tokens[p.pos]
	p.peek = p.tokenAt(p.pos + 1)
}

func (p *Parser) tokenAt(i int) lexer.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// previous returns the last consumed token
func (p *Parser) previous() lexer.Token {
	if p.pos == 0 {
		return lexer.Token{}
	}
	return p.tokens[p.pos-1]
}

// currentTokenIs checks if the current token is of the given type
func (p *Parser) currentTokenIs(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

// peekTokenIs checks if the peek token is of the given type
func (p *Parser) peekTokenIs(tokenType lexer.TokenType) bool {
	return p.peek.Type == tokenType
}

// expect consumes the current token if it has the given type and raises a
// syntax error otherwise.
func (p *Parser) expect(tokenType lexer.TokenType) lexer.Token {
	tok := p.current
	if tok.Type != tokenType {
		p.syntaxError()
	}
	p.nextToken()
	return tok
}

// skipSemicolon consumes an optional statement separator
func (p *Parser) skipSemicolon() {
	if p.currentTokenIs(lexer.TokenSemicolon) {
		p.nextToken()
	}
}

// atLineEnd reports whether a newline separates the current token from a
// previous token that may end a statement.
func (p *Parser) atLineEnd() bool {
	prev := p.previous()
	if p.current.Line <= prev.Line {
		return false
	}
	switch prev.Type {
	case lexer.TokenIdentifier, lexer.TokenInt, lexer.TokenFloat, lexer.TokenString,
		lexer.TokenTrue, lexer.TokenFalse,
		lexer.TokenIntType, lexer.TokenFloat64Type, lexer.TokenStringType, lexer.TokenBoolType,
		lexer.TokenReturn, lexer.TokenBreak, lexer.TokenContinue,
		lexer.TokenIncrement, lexer.TokenDecrement,
		lexer.TokenRParen, lexer.TokenRBracket, lexer.TokenRBrace:
		return true
	}
	return false
}

// reduce records a recognized production
func (p *Parser) reduce(production string) {
	if p.trace != nil {
		p.trace("✔ " + production)
	}
}

// ====== Error Handling ======

// syntaxError reports the current token and unwinds to the enclosing
// statement. Only the first error before a resync is reported.
func (p *Parser) syntaxError() {
	atEOF := p.current.Type == lexer.TokenEOF
	if !p.recovering && !(atEOF && p.eofReported) {
		literal := p.current.Literal
		if atEOF {
			literal = "EOF"
			p.eofReported = true
		}
		p.diags.Add(diagnostic.New().
			Syntax().
			Line(p.current.Line).
			Column(p.current.Column).
			Messagef("Syntax error at '%s' (line %d)", literal, p.current.Line).
			Build())
		p.recovering = true
	}
	panic(bailout{})
}

// enter records one level of nesting and returns the matching exit. Past
// maxDepth the current construct is abandoned with a syntax error.
//
//	defer p.enter()()
func (p *Parser) enter() func() {
	if p.depth >= maxDepth {
		p.syntaxError()
	}
	p.depth++
	return p.leave
}

func (p *Parser) leave() {
	p.depth--
}

// guard runs parse and reports whether it finished without a syntax error.
// Panics other than bailout propagate.
func (p *Parser) guard(parse func()) (ok bool) {
	noLiteral := p.noLiteral
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.noLiteral = noLiteral
			ok = false
		}
	}()
	parse()
	return true
}

// syncKeywords start a statement or declaration; resynchronization stops
// in front of them.
var syncKeywords = map[lexer.TokenType]bool{
	lexer.TokenPackage:     true,
	lexer.TokenImport:      true,
	lexer.TokenVar:         true,
	lexer.TokenConst:       true,
	lexer.TokenFunc:        true,
	lexer.TokenTypeKeyword: true,
	lexer.TokenIf:          true,
	lexer.TokenFor:         true,
	lexer.TokenSwitch:      true,
	lexer.TokenCase:        true,
	lexer.TokenDefault:     true,
	lexer.TokenReturn:      true,
	lexer.TokenBreak:       true,
	lexer.TokenContinue:    true,
}

// synchronize skips tokens up to the next statement boundary: a ';'
// (consumed), a '}' (left for the enclosing block), a statement keyword or
// the first token on a later line. A '{' met on the way is skipped together
// with its whole block.
func (p *Parser) synchronize(errLine int) {
	defer func() { p.recovering = false }()

	for !p.currentTokenIs(lexer.TokenEOF) {
		switch {
		case p.currentTokenIs(lexer.TokenSemicolon):
			p.nextToken()
			return
		case p.currentTokenIs(lexer.TokenRBrace):
			return
		case p.currentTokenIs(lexer.TokenLBrace):
			p.skipBlock()
			return
		case syncKeywords[p.current.Type], p.current.Line > errLine:
			return
		}
		p.nextToken()
	}
}

// skipBlock consumes a balanced {...} group starting at the current token
func (p *Parser) skipBlock() {
	depth := 0
	for !p.currentTokenIs(lexer.TokenEOF) {
		switch p.current.Type {
		case lexer.TokenLBrace:
			depth++
		case lexer.TokenRBrace:
			depth--
		}
		p.nextToken()
		if depth == 0 {
			return
		}
	}
}

// parseGuarded parses one construct with parse and resynchronizes when it
// fails. It always makes progress.
func (p *Parser) parseGuarded(parse func()) {
	start := p.pos
	if p.guard(parse) {
		return
	}
	p.synchronize(p.current.Line)
	if p.pos == start && !p.currentTokenIs(lexer.TokenEOF) {
		p.nextToken()
	}
}

// ====== Grammar Rules ======

// parseProgram parses the entire program
func (p *Parser) parseProgram() {
	p.parseGuarded(p.parsePackageClause)

	for p.currentTokenIs(lexer.TokenImport) {
		p.parseGuarded(p.parseImportDecl)
		p.skipSemicolon()
	}

	for !p.currentTokenIs(lexer.TokenEOF) {
		p.parseGuarded(p.parseTopLevelDecl)
	}

	p.checkPendingCalls()
}

// checkPendingCalls reports call targets that no top-level declaration
// introduced.
func (p *Parser) checkPendingCalls() {
	for _, tok := range p.pendingCalls {
		if _, ok := p.checker.Lookup(tok.Literal); !ok {
			p.diags.Semanticf(tok.Line, "Variable '%s' is not defined", tok.Literal)
		}
	}
	p.pendingCalls = nil
}

// parsePackageClause parses 'package' IDENT
func (p *Parser) parsePackageClause() {
	p.expect(lexer.TokenPackage)
	p.expect(lexer.TokenIdentifier)
	p.skipSemicolon()
	p.reduce("package_decl")
}

// parseImportDecl parses a single or grouped import
func (p *Parser) parseImportDecl() {
	p.expect(lexer.TokenImport)

	if !p.currentTokenIs(lexer.TokenLParen) {
		p.parseImportSpec()
		p.reduce("import")
		return
	}

	p.nextToken()
	for !p.currentTokenIs(lexer.TokenRParen) && !p.currentTokenIs(lexer.TokenEOF) {
		p.parseImportSpec()
		p.skipSemicolon()
	}
	p.expect(lexer.TokenRParen)
	p.reduce("import_group")
}

// parseImportSpec parses [name] "path"
func (p *Parser) parseImportSpec() {
	switch p.current.Type {
	case lexer.TokenIdentifier, lexer.TokenDot:
		p.nextToken()
	}
	p.expect(lexer.TokenString)
}

// parseTopLevelDecl parses a declaration or, as the grammar allows, a
// statement running in the global scope.
func (p *Parser) parseTopLevelDecl() {
	switch p.current.Type {
	case lexer.TokenFunc:
		p.parseFuncDecl()
	case lexer.TokenImport, lexer.TokenPackage:
		p.syntaxError()
	default:
		p.parseStatement()
	}
}
