package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types
const (
	// Special tokens
	TokenEOF TokenType = iota

	// Literals
	TokenIdentifier
	TokenInt
	TokenFloat
	TokenString
	TokenTrue
	TokenFalse

	// Keywords
	TokenPackage
	TokenImport
	TokenVar
	TokenConst
	TokenFunc
	TokenTypeKeyword
	TokenStruct
	TokenMap
	TokenIf
	TokenElse
	TokenFor
	TokenRange
	TokenSwitch
	TokenCase
	TokenDefault
	TokenReturn
	TokenBreak
	TokenContinue

	// Primitive type names
	TokenIntType
	TokenFloat64Type
	TokenStringType
	TokenBoolType

	// Operators
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenMod
	TokenAssign
	TokenShortAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenMulAssign
	TokenDivAssign
	TokenModAssign
	TokenBitAndAssign
	TokenBitOrAssign
	TokenBitXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenAndNotAssign
	TokenIncrement
	TokenDecrement
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenAndNot
	TokenShl
	TokenShr

	// Delimiters
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenSemicolon
	TokenColon
	TokenDot
	TokenEllipsis
)

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF: "EOF",

	TokenIdentifier: "IDENTIFIER",
	TokenInt:        "INT",
	TokenFloat:      "FLOAT64",
	TokenString:     "STRING",
	TokenTrue:       "TRUE",
	TokenFalse:      "FALSE",

	TokenPackage:     "PACKAGE",
	TokenImport:      "IMPORT",
	TokenVar:         "VAR",
	TokenConst:       "CONST",
	TokenFunc:        "FUNC",
	TokenTypeKeyword: "TYPE",
	TokenStruct:      "STRUCT",
	TokenMap:         "MAP",
	TokenIf:          "IF",
	TokenElse:        "ELSE",
	TokenFor:         "FOR",
	TokenRange:       "RANGE",
	TokenSwitch:      "SWITCH",
	TokenCase:        "CASE",
	TokenDefault:     "DEFAULT",
	TokenReturn:      "RETURN",
	TokenBreak:       "BREAK",
	TokenContinue:    "CONTINUE",

	TokenIntType:     "INT_TYPE",
	TokenFloat64Type: "FLOAT64_TYPE",
	TokenStringType:  "STRING_TYPE",
	TokenBoolType:    "BOOL_TYPE",

	TokenPlus:         "PLUS",
	TokenMinus:        "MINUS",
	TokenMul:          "TIMES",
	TokenDiv:          "DIVIDE",
	TokenMod:          "MODULE",
	TokenAssign:       "ASSIGN",
	TokenShortAssign:  "SHORT_ASSIGN",
	TokenPlusAssign:   "PLUS_ASSIGN",
	TokenMinusAssign:  "MINUS_ASSIGN",
	TokenMulAssign:    "MULT_ASSIGN",
	TokenDivAssign:    "DIV_ASSIGN",
	TokenModAssign:    "MOD_ASSIGN",
	TokenBitAndAssign: "AND_ASSIGN",
	TokenBitOrAssign:  "OR_ASSIGN",
	TokenBitXorAssign: "XOR_ASSIGN",
	TokenShlAssign:    "LSHIFT_ASSIGN",
	TokenShrAssign:    "RSHIFT_ASSIGN",
	TokenAndNotAssign: "AND_NOT_ASSIGN",
	TokenIncrement:    "PLUSPLUS",
	TokenDecrement:    "MINUSMINUS",
	TokenEq:           "EQ",
	TokenNe:           "NEQ",
	TokenLt:           "LT",
	TokenLe:           "LE",
	TokenGt:           "GT",
	TokenGe:           "GE",
	TokenAnd:          "LAND",
	TokenOr:           "LOR",
	TokenNot:          "LNOT",
	TokenBitAnd:       "AND",
	TokenBitOr:        "OR",
	TokenBitXor:       "XOR",
	TokenAndNot:       "AND_NOT",
	TokenShl:          "LSHIFT",
	TokenShr:          "RSHIFT",

	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenLBrace:    "LBRACE",
	TokenRBrace:    "RBRACE",
	TokenLBracket:  "LBRACKET",
	TokenRBracket:  "RBRACKET",
	TokenComma:     "COMMA",
	TokenSemicolon: "SEMICOLON",
	TokenColon:     "COLON",
	TokenDot:       "DOT",
	TokenEllipsis:  "ELLIPSIS",
}

// keywords maps string keywords to their token types
var keywords = map[string]TokenType{
	"package":  TokenPackage,
	"import":   TokenImport,
	"var":      TokenVar,
	"const":    TokenConst,
	"func":     TokenFunc,
	"type":     TokenTypeKeyword,
	"struct":   TokenStruct,
	"map":      TokenMap,
	"if":       TokenIf,
	"else":     TokenElse,
	"for":      TokenFor,
	"range":    TokenRange,
	"switch":   TokenSwitch,
	"case":     TokenCase,
	"default":  TokenDefault,
	"return":   TokenReturn,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"int":      TokenIntType,
	"float64":  TokenFloat64Type,
	"string":   TokenStringType,
	"bool":     TokenBoolType,
}

// LookupIdent checks if identifier is keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}

// Token represents a lexical token with position information.
// Literal is the exact source text of the token; Value holds the converted
// literal (int64, float64, string, bool or identifier text).
type Token struct {
	Type    TokenType
	Literal string
	Value   any
	Line    int
	Column  int
}

// String renders the token the way lexical listings print it
func (t Token) String() string {
	return fmt.Sprintf("%s(%s) at line %d", t.Type, t.Literal, t.Line)
}

// IsKeyword reports whether the token type is a reserved word
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenPackage && tt <= TokenBoolType
}

// IsPrimitiveType reports whether the token names a primitive type
func (tt TokenType) IsPrimitiveType() bool {
	return tt >= TokenIntType && tt <= TokenBoolType
}

// IsAssignOp reports whether the token is a compound assignment operator
func (tt TokenType) IsAssignOp() bool {
	return tt >= TokenPlusAssign && tt <= TokenAndNotAssign
}
