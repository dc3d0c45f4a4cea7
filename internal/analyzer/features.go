package analyzer

import "github.com/orizon-lang/goanalyzer/internal/lexer"

// feature is a language construct reported when its tokens occur
type feature struct {
	name  string
	found func(tokens []lexer.Token, i int) bool
}

func tokenIs(types ...lexer.TokenType) func([]lexer.Token, int) bool {
	return func(tokens []lexer.Token, i int) bool {
		for _, tt := range types {
			if tokens[i].Type == tt {
				return true
			}
		}
		return false
	}
}

func bracketFollowedBy(next func(lexer.TokenType) bool) func([]lexer.Token, int) bool {
	return func(tokens []lexer.Token, i int) bool {
		return tokens[i].Type == lexer.TokenLBracket && i+1 < len(tokens) && next(tokens[i+1].Type)
	}
}

var features = []feature{
	{"Package declaration", tokenIs(lexer.TokenPackage)},
	{"Import statements", tokenIs(lexer.TokenImport)},
	{"Function declarations", tokenIs(lexer.TokenFunc)},
	{"Variable declarations", tokenIs(lexer.TokenVar)},
	{"Constant declarations", tokenIs(lexer.TokenConst)},
	{"Short variable declarations", tokenIs(lexer.TokenShortAssign)},
	{"If statements", tokenIs(lexer.TokenIf)},
	{"Else clauses", tokenIs(lexer.TokenElse)},
	{"For loops", tokenIs(lexer.TokenFor)},
	{"Break statements", tokenIs(lexer.TokenBreak)},
	{"Continue statements", tokenIs(lexer.TokenContinue)},
	{"Switch statements", tokenIs(lexer.TokenSwitch)},
	{"Struct type declarations", func(tokens []lexer.Token, i int) bool {
		return tokens[i].Type == lexer.TokenTypeKeyword && i+2 < len(tokens) &&
			tokens[i+2].Type == lexer.TokenStruct
	}},
	{"Map types", tokenIs(lexer.TokenMap)},
	{"Slice types", bracketFollowedBy(func(tt lexer.TokenType) bool {
		return tt == lexer.TokenRBracket
	})},
	{"Array types", bracketFollowedBy(func(tt lexer.TokenType) bool {
		return tt == lexer.TokenInt || tt == lexer.TokenEllipsis
	})},
	{"Post-increment/decrement", tokenIs(lexer.TokenIncrement, lexer.TokenDecrement)},
	{"Arithmetic expressions", tokenIs(lexer.TokenPlus, lexer.TokenMinus, lexer.TokenMul, lexer.TokenDiv, lexer.TokenMod)},
	{"Relational operators", tokenIs(lexer.TokenEq, lexer.TokenNe, lexer.TokenLt, lexer.TokenLe, lexer.TokenGt, lexer.TokenGe)},
	{"Logical operators", tokenIs(lexer.TokenAnd, lexer.TokenOr, lexer.TokenNot)},
}

// DetectFeatures lists the constructs present in a token stream, in a
// fixed order.
func DetectFeatures(tokens []lexer.Token) []string {
	found := []string{}
	for _, f := range features {
		for i := range tokens {
			if f.found(tokens, i) {
				found = append(found, f.name)
				break
			}
		}
	}
	return found
}
