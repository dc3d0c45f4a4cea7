package parser

import (
	"github.com/orizon-lang/goanalyzer/internal/lexer"
	"github.com/orizon-lang/goanalyzer/internal/resolver"
	"github.com/orizon-lang/goanalyzer/internal/types"
)

// ====== Expression Parsing (Pratt Parser) ======

// Precedence levels for binary operators, lowest first
type Precedence int

const (
	_ Precedence = iota
	LOWEST
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	RELATIONAL  // == != < <= > >=
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // & &^
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -X !X +X ^X
)

// precedences maps binary operator tokens to their precedence levels.
// All binary operators are left associative.
var precedences = map[lexer.TokenType]Precedence{
	lexer.TokenOr:  LOGICAL_OR,
	lexer.TokenAnd: LOGICAL_AND,

	lexer.TokenEq: RELATIONAL,
	lexer.TokenNe: RELATIONAL,
	lexer.TokenLt: RELATIONAL,
	lexer.TokenLe: RELATIONAL,
	lexer.TokenGt: RELATIONAL,
	lexer.TokenGe: RELATIONAL,

	lexer.TokenBitOr:  BITWISE_OR,
	lexer.TokenBitXor: BITWISE_XOR,
	lexer.TokenBitAnd: BITWISE_AND,
	lexer.TokenAndNot: BITWISE_AND,

	lexer.TokenShl: SHIFT,
	lexer.TokenShr: SHIFT,

	lexer.TokenPlus:  SUM,
	lexer.TokenMinus: SUM,

	lexer.TokenMul: PRODUCT,
	lexer.TokenDiv: PRODUCT,
	lexer.TokenMod: PRODUCT,
}

// operand is what the expression parsers know about a parsed expression
type operand struct {
	tag  types.Tag
	line int

	name     string    // bare identifier
	root     string    // root identifier of a selector or index chain
	unbound  bool      // bare identifier with no variable binding, e.g. a package
	recv     types.Tag // receiver of a selector
	member   string    // selected field or method name
	typeExpr bool      // the expression denotes a type
	bareType bool      // a type written as a plain name, T or pkg.T
}

// parseExpressionList parses expr {',' expr}
func (p *Parser) parseExpressionList() []operand {
	list := []operand{p.parseExpression(LOWEST)}
	for p.currentTokenIs(lexer.TokenComma) {
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	return list
}

// parseExpression parses a binary expression whose operators bind tighter
// than precedence. A newline after a complete operand ends the expression.
func (p *Parser) parseExpression(precedence Precedence) operand {
	defer p.enter()()
	left := p.parseUnaryExpression()

	for !p.atLineEnd() {
		prec, ok := precedences[p.current.Type]
		if !ok || prec <= precedence {
			break
		}
		op := p.current.Type
		p.nextToken()
		right := p.parseExpression(prec)
		left = operand{tag: binaryType(op, left.tag, right.tag), line: left.line}
	}

	return left
}

// binaryType infers the tag of a binary expression
func binaryType(op lexer.TokenType, left, right types.Tag) types.Tag {
	switch precedences[op] {
	case LOGICAL_OR, LOGICAL_AND, RELATIONAL:
		return types.Bool
	case SHIFT:
		return left
	}
	return types.Binary(left, right)
}

// parseUnaryExpression parses prefix operators
func (p *Parser) parseUnaryExpression() operand {
	defer p.enter()()
	line := p.current.Line
	switch p.current.Type {
	case lexer.TokenNot:
		p.nextToken()
		p.parseUnaryExpression()
		return operand{tag: types.Bool, line: line}
	case lexer.TokenMinus, lexer.TokenPlus, lexer.TokenBitXor:
		p.nextToken()
		x := p.parseUnaryExpression()
		return operand{tag: x.tag, line: line}
	case lexer.TokenBitAnd, lexer.TokenMul:
		// Pointers are not tracked: &x and *x keep the tag of x.
		p.nextToken()
		x := p.parseUnaryExpression()
		return operand{tag: x.tag, line: line, root: x.root}
	}
	return p.parsePostfixExpression(p.parsePrimaryExpression())
}

// parsePrimaryExpression parses literals, identifiers, parenthesized
// expressions, type expressions and function literals.
func (p *Parser) parsePrimaryExpression() operand {
	tok := p.current
	switch tok.Type {
	case lexer.TokenIdentifier:
		return p.parseIdentifier()
	case lexer.TokenInt:
		p.nextToken()
		return operand{tag: types.Int, line: tok.Line}
	case lexer.TokenFloat:
		p.nextToken()
		return operand{tag: types.Float64, line: tok.Line}
	case lexer.TokenString:
		p.nextToken()
		return operand{tag: types.String, line: tok.Line}
	case lexer.TokenTrue, lexer.TokenFalse:
		p.nextToken()
		return operand{tag: types.Bool, line: tok.Line}
	case lexer.TokenLParen:
		p.nextToken()
		saved := p.noLiteral
		p.noLiteral = 0
		x := p.parseExpression(LOWEST)
		p.noLiteral = saved
		p.expect(lexer.TokenRParen)
		return operand{tag: x.tag, line: tok.Line, root: x.root, typeExpr: x.typeExpr}
	case lexer.TokenIntType, lexer.TokenFloat64Type, lexer.TokenStringType, lexer.TokenBoolType,
		lexer.TokenLBracket, lexer.TokenMap, lexer.TokenStruct:
		tag, _ := p.parseType()
		return operand{tag: tag, line: tok.Line, typeExpr: true}
	case lexer.TokenFunc:
		return p.parseFuncLiteral()
	}

	p.syntaxError()
	return operand{}
}

// parseIdentifier resolves an identifier. Selector bases and composite
// literal types are looked up silently since they may name packages or
// types. Unknown call targets are checked after the last declaration.
func (p *Parser) parseIdentifier() operand {
	tok := p.current
	p.nextToken()

	op := operand{line: tok.Line, name: tok.Literal, root: tok.Literal}
	if p.checker.IsType(tok.Literal) {
		op.tag = types.Named(tok.Literal)
		op.typeExpr = true
		op.bareType = true
		return op
	}

	switch {
	case p.currentTokenIs(lexer.TokenLParen) && !p.atLineEnd():
		tag, ok := p.checker.Lookup(tok.Literal)
		if !ok {
			p.pendingCalls = append(p.pendingCalls, tok)
		}
		op.tag = tag
	case p.currentTokenIs(lexer.TokenDot) && !p.atLineEnd():
		tag, ok := p.checker.Lookup(tok.Literal)
		op.tag = tag
		op.unbound = !ok
	case p.currentTokenIs(lexer.TokenLBrace) && p.noLiteral == 0 && !p.atLineEnd():
		op.tag = p.namedType(tok.Literal)
		op.typeExpr = true
		op.bareType = true
	default:
		op.tag = p.checker.Resolve(tok.Literal, tok.Line)
	}
	return op
}

// parsePostfixExpression parses calls, index and slice expressions,
// selectors and composite literals following an operand.
func (p *Parser) parsePostfixExpression(op operand) operand {
	for !p.atLineEnd() {
		switch p.current.Type {
		case lexer.TokenLParen:
			op = p.parseCallExpression(op)
		case lexer.TokenLBracket:
			op = p.parseIndexExpression(op)
		case lexer.TokenDot:
			op = p.parseSelectorExpression(op)
		case lexer.TokenLBrace:
			if !op.typeExpr || (op.bareType && p.noLiteral > 0) {
				return op
			}
			op = p.parseCompositeLiteral(op.tag, op.line)
		default:
			return op
		}
	}
	return op
}

// parseCallExpression parses '(' [args] ')' after fn, including
// conversions and the builtins whose first argument is a type.
func (p *Parser) parseCallExpression(fn operand) operand {
	p.expect(lexer.TokenLParen)
	saved := p.noLiteral
	p.noLiteral = 0

	typeArg := types.Unknown
	if fn.name == "make" || fn.name == "new" {
		if !p.currentTokenIs(lexer.TokenRParen) {
			typeArg, _ = p.parseType()
			if p.currentTokenIs(lexer.TokenComma) {
				p.nextToken()
			}
		}
	}

	var args []operand
	for !p.currentTokenIs(lexer.TokenRParen) && !p.currentTokenIs(lexer.TokenEOF) {
		args = append(args, p.parseExpression(LOWEST))
		if p.currentTokenIs(lexer.TokenEllipsis) {
			p.nextToken()
		}
		if !p.currentTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	p.noLiteral = saved
	p.expect(lexer.TokenRParen)

	p.reduce("call")
	return operand{tag: p.callResult(fn, args, typeArg), line: fn.line}
}

// callResult infers the result tag of a call
func (p *Parser) callResult(fn operand, args []operand, typeArg types.Tag) types.Tag {
	switch {
	case fn.typeExpr:
		return fn.tag
	case fn.member != "":
		if tag, ok := p.checker.MethodResult(fn.recv, fn.member); ok {
			return tag
		}
		return types.Unknown
	case fn.name == "":
		return types.Unknown
	}

	if _, _, local := p.checker.Scopes().Lookup(fn.name); local {
		return types.Unknown
	}
	if tag, ok := p.checker.FuncResult(fn.name); ok {
		return tag
	}
	switch fn.name {
	case "len", "cap", "copy":
		return types.Int
	case "append":
		if len(args) > 0 {
			return args[0].tag
		}
	case "make":
		return typeArg
	}
	return types.Unknown
}

// parseIndexExpression parses a[i], a[i:j] and a[i:j:k]
func (p *Parser) parseIndexExpression(x operand) operand {
	p.expect(lexer.TokenLBracket)
	saved := p.noLiteral
	p.noLiteral = 0

	slicing := false
	if !p.currentTokenIs(lexer.TokenColon) {
		p.parseExpression(LOWEST)
	}
	for p.currentTokenIs(lexer.TokenColon) {
		slicing = true
		p.nextToken()
		if !p.currentTokenIs(lexer.TokenRBracket) && !p.currentTokenIs(lexer.TokenColon) {
			p.parseExpression(LOWEST)
		}
	}
	p.noLiteral = saved
	p.expect(lexer.TokenRBracket)

	u := p.checker.Underlying(x.tag)
	result := operand{line: x.line, root: x.root}
	switch {
	case !slicing:
		result.tag = u.ElemType()
	case u.Kind == types.KindArray:
		result.tag = types.SliceOf(u.ElemType())
	default:
		result.tag = x.tag
	}
	return result
}

// parseSelectorExpression parses x.name and the type assertion x.(T)
func (p *Parser) parseSelectorExpression(x operand) operand {
	p.expect(lexer.TokenDot)

	if p.currentTokenIs(lexer.TokenLParen) {
		p.nextToken()
		tag := types.Unknown
		if p.currentTokenIs(lexer.TokenTypeKeyword) {
			// x.(type) in a type switch header
			p.nextToken()
		} else {
			tag, _ = p.parseType()
		}
		p.expect(lexer.TokenRParen)
		return operand{tag: tag, line: x.line, root: x.root}
	}

	name := p.expect(lexer.TokenIdentifier)
	op := operand{
		tag:    p.checker.FieldType(x.tag, name.Literal),
		line:   x.line,
		root:   x.root,
		recv:   x.tag,
		member: name.Literal,
	}
	if x.unbound {
		// pkg.Name: a qualified identifier, possibly a type.
		op.recv = types.Unknown
		op.typeExpr = p.currentTokenIs(lexer.TokenLBrace)
		op.bareType = op.typeExpr
	}
	return op
}

// parseCompositeLiteral parses '{' elements '}' for a literal of type typ
// and applies the array literal checks.
func (p *Parser) parseCompositeLiteral(typ types.Tag, line int) operand {
	defer p.enter()()
	p.expect(lexer.TokenLBrace)
	saved := p.noLiteral
	p.noLiteral = 0

	u := p.checker.Underlying(typ)
	keyed := u.Kind == types.KindStruct || u.Kind == types.KindNamed

	var elems []types.Tag
	for !p.currentTokenIs(lexer.TokenRBrace) && !p.currentTokenIs(lexer.TokenEOF) {
		elems = append(elems, p.parseElement(typ, u, keyed))
		if !p.currentTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	p.noLiteral = saved
	p.expect(lexer.TokenRBrace)

	switch u.Kind {
	case types.KindArray:
		p.checker.CheckArrayLiteral(u.Len, u.ElemType(), elems, line)
		if typ.Kind == types.KindArray && typ.Len < 0 {
			typ = types.ArrayOf(len(elems), u.ElemType())
		}
	case types.KindSlice:
		p.checker.CheckArrayLiteral(-1, u.ElemType(), elems, line)
	}

	p.reduce("composite_literal")
	return operand{tag: typ, line: line}
}

// parseElement parses one composite literal element and returns the tag
// of its value. Struct literal keys are field names and are not resolved.
func (p *Parser) parseElement(typ, u types.Tag, keyed bool) types.Tag {
	elem := u.ElemType()

	if keyed && p.currentTokenIs(lexer.TokenIdentifier) && p.peekTokenIs(lexer.TokenColon) {
		field := p.current.Literal
		p.nextToken()
		p.nextToken()
		return p.parseElementValue(p.checker.FieldType(typ, field))
	}

	value := p.parseElementValue(elem)
	if p.currentTokenIs(lexer.TokenColon) {
		p.nextToken()
		value = p.parseElementValue(elem)
	}
	return value
}

// parseElementValue parses an expression or a literal with elided type
func (p *Parser) parseElementValue(elem types.Tag) types.Tag {
	if p.currentTokenIs(lexer.TokenLBrace) {
		return p.parseCompositeLiteral(elem, p.current.Line).tag
	}
	return p.parseExpression(LOWEST).tag
}

// parseFuncLiteral parses 'func' signature block. The body cannot break
// out of loops enclosing the literal.
func (p *Parser) parseFuncLiteral() operand {
	line := p.expect(lexer.TokenFunc).Line
	params, results := p.parseSignature()

	p.checker.EnterScope(resolver.ScopeKindFunction)
	defer p.checker.ExitScope()
	defer p.checker.SuspendLoops()()

	p.declareParams(params)
	p.declareParams(results)

	saved := p.noLiteral
	p.noLiteral = 0
	p.parseBlock(false)
	p.noLiteral = saved

	p.reduce("func_literal")
	return operand{tag: types.Unknown, line: line}
}
