package parser

import (
	"github.com/orizon-lang/goanalyzer/internal/lexer"
	"github.com/orizon-lang/goanalyzer/internal/resolver"
	"github.com/orizon-lang/goanalyzer/internal/types"
)

// ====== Statements ======

// parseBlock parses '{' statement* '}'. Function bodies share the scope
// holding the parameters, so they pass push=false.
func (p *Parser) parseBlock(push bool) {
	defer p.enter()()
	p.expect(lexer.TokenLBrace)
	if push {
		p.checker.EnterScope(resolver.ScopeKindBlock)
		defer p.checker.ExitScope()
	}

	p.parseStatementList()
	p.expect(lexer.TokenRBrace)
}

// parseStatementList parses statements up to a closing brace or, inside
// switch clauses, the next case.
func (p *Parser) parseStatementList(stop ...lexer.TokenType) {
	for !p.currentTokenIs(lexer.TokenRBrace) && !p.currentTokenIs(lexer.TokenEOF) {
		for _, tt := range stop {
			if p.currentTokenIs(tt) {
				return
			}
		}
		p.parseGuarded(p.parseStatement)
	}
}

// parseStatement parses a single statement
func (p *Parser) parseStatement() {
	defer p.enter()()
	switch p.current.Type {
	case lexer.TokenVar:
		p.parseVarDecl()
	case lexer.TokenConst:
		p.parseConstDecl()
	case lexer.TokenTypeKeyword:
		p.parseTypeDecl()
	case lexer.TokenReturn:
		p.parseReturnStatement()
	case lexer.TokenFor:
		p.parseForStatement()
	case lexer.TokenIf:
		p.parseIfStatement()
	case lexer.TokenSwitch:
		p.parseSwitchStatement()
	case lexer.TokenBreak, lexer.TokenContinue:
		p.parseBranchStatement()
	case lexer.TokenLBrace:
		p.parseBlock(true)
		p.reduce("block")
	case lexer.TokenSemicolon:
		// empty statement
	case lexer.TokenIdentifier:
		if p.peekTokenIs(lexer.TokenColon) {
			p.parseLabeledStatement()
			return
		}
		p.parseSimpleStatement()
	default:
		p.parseSimpleStatement()
	}
	p.skipSemicolon()
}

// parseLabeledStatement parses IDENT ':' statement
func (p *Parser) parseLabeledStatement() {
	p.nextToken()
	p.nextToken()
	p.reduce("label")
	if !p.currentTokenIs(lexer.TokenRBrace) && !p.currentTokenIs(lexer.TokenEOF) {
		p.parseStatement()
	}
}

// simpleKind classifies a parsed simple statement
type simpleKind int

const (
	simpleExpr simpleKind = iota
	simpleShortDecl
	simpleAssign
	simpleOpAssign
	simpleIncDec
)

// parseSimpleStatement parses an expression, assignment, short variable
// declaration, compound assignment or increment statement. For expression
// statements it also returns the expression's tag.
func (p *Parser) parseSimpleStatement() (simpleKind, types.Tag) {
	if p.isShortDecl() {
		p.parseShortDecl()
		return simpleShortDecl, types.Unknown
	}

	line := p.current.Line
	lhs := p.parseExpressionList()

	switch {
	case p.currentTokenIs(lexer.TokenAssign):
		p.nextToken()
		for _, target := range lhs {
			p.checkTarget(target, line)
		}
		p.parseExpressionList()
		p.reduce("assignment")
		return simpleAssign, types.Unknown

	case p.current.Type.IsAssignOp():
		p.nextToken()
		if len(lhs) != 1 {
			p.syntaxError()
		}
		p.checkTarget(lhs[0], line)
		p.parseExpression(LOWEST)
		p.reduce("compound_assignment")
		return simpleOpAssign, types.Unknown

	case (p.currentTokenIs(lexer.TokenIncrement) || p.currentTokenIs(lexer.TokenDecrement)) && !p.atLineEnd():
		p.nextToken()
		if len(lhs) != 1 {
			p.syntaxError()
		}
		p.checkTarget(lhs[0], line)
		p.reduce("inc_dec")
		return simpleIncDec, types.Unknown
	}

	if len(lhs) != 1 {
		p.syntaxError()
	}
	p.reduce("expr_stmt")
	return simpleExpr, lhs[0].tag
}

// checkTarget applies the constant immutability rule to an assignment target
func (p *Parser) checkTarget(target operand, line int) {
	if target.root != "" {
		p.checker.CheckAssignable(target.root, line)
	}
}

// isShortDecl looks ahead for IDENT {',' IDENT} ':='
func (p *Parser) isShortDecl() bool {
	i := p.pos
	for {
		if p.tokenAt(i).Type != lexer.TokenIdentifier {
			return false
		}
		i++
		switch p.tokenAt(i).Type {
		case lexer.TokenShortAssign:
			return true
		case lexer.TokenComma:
			i++
		default:
			return false
		}
	}
}

// parseShortDecl parses IDENT {',' IDENT} ':=' exprs. The right side is
// evaluated before the names come into scope.
func (p *Parser) parseShortDecl() {
	names := p.parseIdentList()
	p.expect(lexer.TokenShortAssign)
	values := p.parseExpressionList()

	p.declareShort(names, values)
	p.reduce("short_decl")
}

func (p *Parser) declareShort(names []lexer.Token, values []operand) {
	literals := make([]string, len(names))
	tags := make([]types.Tag, len(names))
	for i, name := range names {
		literals[i] = name.Literal
		tags[i] = types.Unknown
		if len(values) == len(names) {
			tags[i] = values[i].tag
		}
	}
	p.checker.DeclareShort(literals, tags, names[0].Line)
}

// parseReturnStatement parses 'return' [exprs]
func (p *Parser) parseReturnStatement() {
	p.expect(lexer.TokenReturn)
	if !p.endOfStatement() {
		p.parseExpressionList()
	}
	p.reduce("return")
}

// endOfStatement reports whether the current token cannot continue the
// statement begun by the previous one.
func (p *Parser) endOfStatement() bool {
	switch p.current.Type {
	case lexer.TokenSemicolon, lexer.TokenRBrace, lexer.TokenEOF,
		lexer.TokenCase, lexer.TokenDefault:
		return true
	}
	return p.atLineEnd()
}

// parseBranchStatement parses 'break' [label] and 'continue' [label]
func (p *Parser) parseBranchStatement() {
	tok := p.current
	p.nextToken()
	if p.currentTokenIs(lexer.TokenIdentifier) && !p.atLineEnd() {
		p.nextToken()
	}

	if tok.Type == lexer.TokenBreak {
		p.checker.Break(tok.Line)
		p.reduce("break")
		return
	}
	p.checker.Continue(tok.Line)
	p.reduce("continue")
}

// parseForStatement parses the infinite, condition, classic and range forms
func (p *Parser) parseForStatement() {
	p.expect(lexer.TokenFor)

	p.checker.EnterScope(resolver.ScopeKindLoop)
	defer p.checker.ExitScope()

	production := "for_infinite"
	if !p.currentTokenIs(lexer.TokenLBrace) {
		p.noLiteral++
		production = p.parseForHeader()
		p.noLiteral--
	}

	p.checker.EnterLoop(resolver.LoopContextLoop)
	defer p.checker.ExitLoop()

	p.parseBlock(true)
	p.reduce(production)
}

// parseForHeader parses everything between 'for' and the loop body
func (p *Parser) parseForHeader() string {
	if p.rangeAhead() {
		p.parseRangeClause()
		return "for_range"
	}

	var kind simpleKind
	if !p.currentTokenIs(lexer.TokenSemicolon) {
		kind, _ = p.parseSimpleStatement()
	}
	if !p.currentTokenIs(lexer.TokenSemicolon) {
		if kind != simpleExpr {
			p.syntaxError()
		}
		return "for_cond"
	}

	p.nextToken()
	if !p.currentTokenIs(lexer.TokenSemicolon) {
		p.parseExpression(LOWEST)
	}
	p.expect(lexer.TokenSemicolon)
	if !p.currentTokenIs(lexer.TokenLBrace) {
		p.parseSimpleStatement()
	}
	return "for_classic"
}

// rangeAhead reports whether a range clause precedes the loop body
func (p *Parser) rangeAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case lexer.TokenRange:
			if depth == 0 {
				return true
			}
		case lexer.TokenLParen, lexer.TokenLBracket:
			depth++
		case lexer.TokenRParen, lexer.TokenRBracket:
			depth--
		case lexer.TokenLBrace, lexer.TokenSemicolon, lexer.TokenEOF:
			return false
		}
	}
	return false
}

// parseRangeClause parses [exprs (':=' | '=')] 'range' expr
func (p *Parser) parseRangeClause() {
	var names []lexer.Token
	define := false

	switch {
	case p.currentTokenIs(lexer.TokenRange):
	case p.isShortDecl():
		names = p.parseIdentList()
		p.expect(lexer.TokenShortAssign)
		define = true
	default:
		line := p.current.Line
		for _, target := range p.parseExpressionList() {
			p.checkTarget(target, line)
		}
		p.expect(lexer.TokenAssign)
	}

	p.expect(lexer.TokenRange)
	x := p.parseExpression(LOWEST).tag

	if !define {
		return
	}

	u := p.checker.Underlying(x)
	key, value := types.Unknown, types.Unknown
	switch u.Kind {
	case types.KindSlice, types.KindArray, types.KindString:
		key, value = types.Int, u.ElemType()
	case types.KindMap:
		key, value = u.KeyType(), u.ElemType()
	case types.KindInt:
		key = types.Int
	}

	values := []operand{{tag: key}, {tag: value}}
	p.declareShort(names, values[:min(len(names), 2)])
}

// parseIfStatement parses 'if' [simple ';'] expr block ['else' (if | block)]
func (p *Parser) parseIfStatement() {
	defer p.enter()()
	p.expect(lexer.TokenIf)

	p.checker.EnterScope(resolver.ScopeKindConditional)
	defer p.checker.ExitScope()

	p.noLiteral++
	kind, _ := p.parseSimpleStatement()
	if p.currentTokenIs(lexer.TokenSemicolon) {
		p.nextToken()
		p.parseExpression(LOWEST)
	} else if kind != simpleExpr {
		p.syntaxError()
	}
	p.noLiteral--

	p.parseBlock(true)

	if p.currentTokenIs(lexer.TokenElse) {
		p.nextToken()
		switch {
		case p.currentTokenIs(lexer.TokenIf):
			p.parseIfStatement()
		case p.currentTokenIs(lexer.TokenLBrace):
			p.parseBlock(true)
		default:
			p.syntaxError()
		}
	}
	p.reduce("if")
}

// parseSwitchStatement parses 'switch' [simple ';'] [expr] '{' clause* '}'
func (p *Parser) parseSwitchStatement() {
	p.expect(lexer.TokenSwitch)

	p.checker.EnterScope(resolver.ScopeKindConditional)
	defer p.checker.ExitScope()

	p.noLiteral++
	tag := p.parseSwitchHeader()
	p.noLiteral--

	p.checker.BeginSwitch(tag)
	defer p.checker.EndSwitch()

	p.expect(lexer.TokenLBrace)

	p.checker.EnterLoop(resolver.LoopContextSwitch)
	defer p.checker.ExitLoop()

	for !p.currentTokenIs(lexer.TokenRBrace) && !p.currentTokenIs(lexer.TokenEOF) {
		start := p.pos
		if !p.guard(p.parseCaseClause) {
			p.synchronize(p.current.Line)
			p.parseStatementList(lexer.TokenCase, lexer.TokenDefault)
		}
		if p.pos == start {
			p.nextToken()
		}
	}
	p.expect(lexer.TokenRBrace)
	p.reduce("switch")
}

// parseSwitchHeader returns the tag case expressions are checked against
func (p *Parser) parseSwitchHeader() types.Tag {
	if p.currentTokenIs(lexer.TokenLBrace) {
		return types.Bool
	}
	if tag, ok := p.parseBareSwitchTag(); ok {
		return tag
	}

	kind, tag := p.parseSimpleStatement()
	if !p.currentTokenIs(lexer.TokenSemicolon) {
		switch {
		case kind == simpleShortDecl && p.currentTokenIs(lexer.TokenLBrace):
			// type switch guard: switch t := x.(type) {
			return types.Unknown
		case kind != simpleExpr:
			p.syntaxError()
		}
		return tag
	}

	p.nextToken()
	if p.currentTokenIs(lexer.TokenLBrace) {
		return types.Bool
	}
	if tag, ok := p.parseBareSwitchTag(); ok {
		return tag
	}
	return p.parseExpression(LOWEST).tag
}

// parseBareSwitchTag handles 'switch x {' where the tag is a lone
// identifier; it is looked up without reporting undefined names.
func (p *Parser) parseBareSwitchTag() (types.Tag, bool) {
	if !p.currentTokenIs(lexer.TokenIdentifier) || !p.peekTokenIs(lexer.TokenLBrace) {
		return types.Unknown, false
	}
	tag, _ := p.checker.Lookup(p.current.Literal)
	p.nextToken()
	return tag, true
}

// parseCaseClause parses 'case' exprs ':' stmts | 'default' ':' stmts
func (p *Parser) parseCaseClause() {
	production := "case_clause"
	switch p.current.Type {
	case lexer.TokenCase:
		p.nextToken()
		for _, value := range p.parseExpressionList() {
			p.checker.CheckCase(value.tag, value.line)
		}
	case lexer.TokenDefault:
		p.checker.DefaultClause(p.current.Line)
		p.nextToken()
		production = "default_clause"
	default:
		p.syntaxError()
	}
	p.expect(lexer.TokenColon)

	p.checker.EnterScope(resolver.ScopeKindCase)
	defer p.checker.ExitScope()

	p.parseStatementList(lexer.TokenCase, lexer.TokenDefault)
	p.reduce(production)
}
