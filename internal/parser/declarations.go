package parser

import (
	"github.com/orizon-lang/goanalyzer/internal/lexer"
	"github.com/orizon-lang/goanalyzer/internal/resolver"
	"github.com/orizon-lang/goanalyzer/internal/types"
)

// ====== Declarations ======

// parseGroup parses either a single spec or a parenthesized list of specs
func (p *Parser) parseGroup(spec func()) {
	if !p.currentTokenIs(lexer.TokenLParen) {
		spec()
		return
	}
	p.nextToken()
	for !p.currentTokenIs(lexer.TokenRParen) && !p.currentTokenIs(lexer.TokenEOF) {
		spec()
		p.skipSemicolon()
	}
	p.expect(lexer.TokenRParen)
}

// parseIdentList parses IDENT {',' IDENT}
func (p *Parser) parseIdentList() []lexer.Token {
	names := []lexer.Token{p.expect(lexer.TokenIdentifier)}
	for p.currentTokenIs(lexer.TokenComma) {
		p.nextToken()
		names = append(names, p.expect(lexer.TokenIdentifier))
	}
	return names
}

// parseVarDecl parses 'var' var_spec | 'var' '(' var_spec* ')'
func (p *Parser) parseVarDecl() {
	p.expect(lexer.TokenVar)
	p.parseGroup(p.parseVarSpec)
	p.reduce("var_decl")
}

// parseVarSpec parses IDENT {, IDENT} type ['=' exprs] | IDENT {, IDENT} '=' exprs
func (p *Parser) parseVarSpec() {
	names := p.parseIdentList()

	declared := types.Unknown
	hasType := false
	if !p.currentTokenIs(lexer.TokenAssign) {
		declared, _ = p.parseType()
		hasType = true
	}

	var values []operand
	if p.currentTokenIs(lexer.TokenAssign) {
		p.nextToken()
		values = p.parseExpressionList()
	}

	for i, name := range names {
		tag := declared
		if i < len(values) && len(values) == len(names) {
			if hasType {
				p.checker.CheckInit("variable", name.Literal, declared, values[i].tag, name.Line)
			} else {
				tag = values[i].tag
			}
		}
		p.checker.DeclareVar(name.Literal, tag, name.Line)
	}
}

// parseConstDecl parses 'const' const_spec | 'const' '(' const_spec* ')'
func (p *Parser) parseConstDecl() {
	p.expect(lexer.TokenConst)

	// Inside a group a spec without initializer repeats the previous one.
	previous := types.Unknown
	p.parseGroup(func() {
		previous = p.parseConstSpec(previous)
	})
	p.reduce("const_decl")
}

// parseConstSpec parses IDENT {, IDENT} [type] '=' exprs and returns the
// tag of its last value.
func (p *Parser) parseConstSpec(previous types.Tag) types.Tag {
	names := p.parseIdentList()

	declared := types.Unknown
	hasType := false
	if !p.currentTokenIs(lexer.TokenAssign) && !p.endOfSpec() {
		declared, _ = p.parseType()
		hasType = true
	}

	var values []operand
	switch {
	case p.currentTokenIs(lexer.TokenAssign):
		p.nextToken()
		values = p.parseExpressionList()
	case !hasType && p.endOfSpec():
		values = make([]operand, len(names))
		for i := range values {
			values[i].tag = previous
		}
	default:
		p.syntaxError()
	}

	last := previous
	for i, name := range names {
		tag := declared
		if i < len(values) && len(values) == len(names) {
			if hasType {
				p.checker.CheckInit("constant", name.Literal, declared, values[i].tag, name.Line)
			} else {
				tag = values[i].tag
			}
		}
		p.checker.DeclareConst(name.Literal, tag, name.Line)
		last = tag
	}
	return last
}

// endOfSpec reports whether a grouped spec ends at the current token
func (p *Parser) endOfSpec() bool {
	return p.currentTokenIs(lexer.TokenSemicolon) || p.currentTokenIs(lexer.TokenRParen) ||
		p.current.Line > p.previous().Line
}

// parseTypeDecl parses 'type' IDENT ['='] type | 'type' '(' ... ')'
func (p *Parser) parseTypeDecl() {
	p.expect(lexer.TokenTypeKeyword)
	p.parseGroup(p.parseTypeSpec)
	p.reduce("type_decl")
}

func (p *Parser) parseTypeSpec() {
	name := p.expect(lexer.TokenIdentifier)
	if p.currentTokenIs(lexer.TokenAssign) {
		p.nextToken()
	}
	underlying, fields := p.parseType()
	p.checker.DeclareType(name.Literal, underlying, fields, name.Line)
}

// param is one parameter or result collected from a signature
type param struct {
	name lexer.Token
	tag  types.Tag
}

// parseFuncDecl parses function and method declarations
func (p *Parser) parseFuncDecl() {
	line := p.expect(lexer.TokenFunc).Line

	var receiver *param
	if p.currentTokenIs(lexer.TokenLParen) {
		receiver = p.parseReceiver()
	}

	name := p.expect(lexer.TokenIdentifier)
	params, results := p.parseSignature()

	result := types.Unknown
	if len(results) == 1 {
		result = results[0].tag
	}

	production := "func_decl"
	if receiver != nil {
		production = "method_decl"
		p.checker.DeclareMethod(receiver.tag.String(), name.Literal, result, name.Line)
	} else {
		p.checker.DeclareFunc(name.Literal, result, line)
	}

	p.checker.EnterScope(resolver.ScopeKindFunction)
	defer p.checker.ExitScope()

	if receiver != nil && receiver.name.Literal != "" {
		p.checker.DeclareVar(receiver.name.Literal, receiver.tag, receiver.name.Line)
	}
	p.declareParams(params)
	p.declareParams(results)

	p.parseBlock(false)
	p.reduce(production)
}

// parseReceiver parses '(' [IDENT] ['*'] IDENT ')'
func (p *Parser) parseReceiver() *param {
	p.expect(lexer.TokenLParen)

	recv := &param{}
	if p.currentTokenIs(lexer.TokenIdentifier) && !p.peekTokenIs(lexer.TokenRParen) {
		recv.name = p.current
		p.nextToken()
	}
	if p.currentTokenIs(lexer.TokenMul) {
		p.nextToken()
	}
	recv.tag = types.Named(p.expect(lexer.TokenIdentifier).Literal)
	p.expect(lexer.TokenRParen)
	return recv
}

// parseSignature parses '(' params ')' [result]
func (p *Parser) parseSignature() (params, results []param) {
	params = p.parseParameters()

	switch {
	case p.currentTokenIs(lexer.TokenLParen):
		results = p.parseParameters()
	case p.startsType() && !p.atLineEnd():
		tag, _ := p.parseType()
		results = []param{{tag: tag}}
	}
	return params, results
}

// parseParameters parses a parenthesized parameter list. Names are
// optional; "a, b int" gives both names the type that follows them.
func (p *Parser) parseParameters() []param {
	p.expect(lexer.TokenLParen)

	type item struct {
		name    lexer.Token
		tag     types.Tag
		hasName bool
		hasType bool
	}
	var items []item
	named := false

	for !p.currentTokenIs(lexer.TokenRParen) && !p.currentTokenIs(lexer.TokenEOF) {
		var it item
		switch {
		case p.currentTokenIs(lexer.TokenIdentifier) &&
			(p.peekTokenIs(lexer.TokenComma) || p.peekTokenIs(lexer.TokenRParen)):
			// Either a name sharing a later type or an unnamed type.
			it.name = p.current
			it.hasName = true
			p.nextToken()
		case p.currentTokenIs(lexer.TokenIdentifier) && !p.peekTokenIs(lexer.TokenDot):
			it.name = p.current
			it.hasName = true
			it.hasType = true
			named = true
			p.nextToken()
			it.tag = p.parseParamType()
		default:
			it.hasType = true
			it.tag = p.parseParamType()
		}
		items = append(items, it)

		if !p.currentTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	p.expect(lexer.TokenRParen)

	params := make([]param, 0, len(items))
	if !named {
		// Only types, e.g. func(int, string) or (T1, T2) results.
		for _, it := range items {
			tag := it.tag
			if !it.hasType {
				tag = p.namedType(it.name.Literal)
			}
			params = append(params, param{tag: tag})
		}
		return params
	}

	for i, it := range items {
		tag := it.tag
		if !it.hasType {
			// Take the type of the next parameter that has one.
			for _, next := range items[i+1:] {
				if next.hasType {
					tag = next.tag
					break
				}
			}
		}
		params = append(params, param{name: it.name, tag: tag})
	}
	return params
}

// parseParamType parses a parameter type, including a variadic '...T'
func (p *Parser) parseParamType() types.Tag {
	if p.currentTokenIs(lexer.TokenEllipsis) {
		p.nextToken()
		elem, _ := p.parseType()
		return types.SliceOf(elem)
	}
	tag, _ := p.parseType()
	return tag
}

func (p *Parser) declareParams(params []param) {
	for _, prm := range params {
		if prm.name.Literal != "" {
			p.checker.DeclareVar(prm.name.Literal, prm.tag, prm.name.Line)
		}
	}
}

// ====== Types ======

// startsType reports whether the current token can begin a type
func (p *Parser) startsType() bool {
	switch p.current.Type {
	case lexer.TokenIntType, lexer.TokenFloat64Type, lexer.TokenStringType, lexer.TokenBoolType,
		lexer.TokenIdentifier, lexer.TokenLBracket, lexer.TokenMap, lexer.TokenStruct,
		lexer.TokenMul, lexer.TokenFunc:
		return true
	}
	return false
}

// parseType parses a type and, for struct types, returns its fields
func (p *Parser) parseType() (types.Tag, []resolver.Field) {
	defer p.enter()()
	switch p.current.Type {
	case lexer.TokenIntType, lexer.TokenFloat64Type, lexer.TokenStringType, lexer.TokenBoolType:
		tag, _ := types.FromName(p.current.Literal)
		p.nextToken()
		return tag, nil

	case lexer.TokenLBracket:
		p.nextToken()
		if p.currentTokenIs(lexer.TokenRBracket) {
			p.nextToken()
			elem, _ := p.parseType()
			return types.SliceOf(elem), nil
		}
		size := -1
		switch {
		case p.currentTokenIs(lexer.TokenEllipsis):
			p.nextToken()
		case p.currentTokenIs(lexer.TokenInt) && p.peekTokenIs(lexer.TokenRBracket):
			if v, ok := p.current.Value.(int64); ok {
				size = int(v)
			}
			p.nextToken()
		default:
			p.parseExpression(LOWEST)
		}
		p.expect(lexer.TokenRBracket)
		elem, _ := p.parseType()
		return types.ArrayOf(size, elem), nil

	case lexer.TokenMap:
		p.nextToken()
		p.expect(lexer.TokenLBracket)
		key, _ := p.parseType()
		p.expect(lexer.TokenRBracket)
		value, _ := p.parseType()
		return types.MapOf(key, value), nil

	case lexer.TokenStruct:
		return types.Struct, p.parseStructType()

	case lexer.TokenMul:
		p.nextToken()
		return p.parseType()

	case lexer.TokenFunc:
		p.nextToken()
		p.parseSignature()
		return types.Unknown, nil

	case lexer.TokenIdentifier:
		name := p.current.Literal
		p.nextToken()
		if name == "interface" && p.currentTokenIs(lexer.TokenLBrace) {
			p.skipBlock()
			return types.Unknown, nil
		}
		if p.currentTokenIs(lexer.TokenDot) {
			p.nextToken()
			name += "." + p.expect(lexer.TokenIdentifier).Literal
		}
		return p.namedType(name), nil
	}

	p.syntaxError()
	return types.Unknown, nil
}

// namedType returns the tag for a type referenced by name
func (p *Parser) namedType(name string) types.Tag {
	if tag, ok := types.FromName(name); ok {
		return tag
	}
	return types.Named(name)
}

// parseStructType parses 'struct' '{' field* '}'
func (p *Parser) parseStructType() []resolver.Field {
	p.expect(lexer.TokenStruct)
	p.expect(lexer.TokenLBrace)

	var fields []resolver.Field
	for !p.currentTokenIs(lexer.TokenRBrace) && !p.currentTokenIs(lexer.TokenEOF) {
		if p.currentTokenIs(lexer.TokenSemicolon) {
			p.nextToken()
			continue
		}
		fields = append(fields, p.parseFieldDecl()...)
		if p.currentTokenIs(lexer.TokenString) {
			p.nextToken() // field tag
		}
		p.skipSemicolon()
	}
	p.expect(lexer.TokenRBrace)
	return fields
}

// parseFieldDecl parses IDENT {, IDENT} type or an embedded type
func (p *Parser) parseFieldDecl() []resolver.Field {
	if p.currentTokenIs(lexer.TokenMul) {
		p.nextToken()
	}
	first := p.expect(lexer.TokenIdentifier)

	// Embedded field: the type name is the field name.
	if p.current.Line > first.Line || p.currentTokenIs(lexer.TokenSemicolon) ||
		p.currentTokenIs(lexer.TokenRBrace) || p.currentTokenIs(lexer.TokenString) {
		return []resolver.Field{{Name: first.Literal, Tag: p.namedType(first.Literal), Line: first.Line}}
	}
	if p.currentTokenIs(lexer.TokenDot) {
		p.nextToken()
		name := p.expect(lexer.TokenIdentifier)
		return []resolver.Field{{Name: name.Literal, Tag: types.Named(first.Literal + "." + name.Literal), Line: name.Line}}
	}

	names := []lexer.Token{first}
	for p.currentTokenIs(lexer.TokenComma) {
		p.nextToken()
		names = append(names, p.expect(lexer.TokenIdentifier))
	}
	tag, _ := p.parseType()

	fields := make([]resolver.Field, len(names))
	for i, name := range names {
		fields[i] = resolver.Field{Name: name.Literal, Tag: tag, Line: name.Line}
	}
	return fields
}
