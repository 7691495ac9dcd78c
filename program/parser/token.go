// File: parser/token.go
package parser

import "strconv"

// Token represents a lexical token
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int
	Column int
}

// TokenKind represents the kind of a token
type TokenKind int

// Token kinds
const (
	TokenEOF TokenKind = iota
	TokenNewline

	literalBegin
	TokenNumber
	TokenIdent
	TokenString
	literalEnd

	keywordBegin
	TokenLabel
	TokenGoto
	TokenPrint
	TokenInput
	TokenLet
	TokenIf
	TokenThen
	TokenEndif
	TokenWhile
	TokenRepeat
	TokenEndwhile
	keywordEnd

	operatorBegin
	TokenEq       // =
	TokenPlus     // +
	TokenMinus    // -
	TokenAsterisk // *
	TokenSlash    // /
	TokenEqEq     // ==
	TokenNotEq    // !=
	TokenLT       // <
	TokenLTE      // <=
	TokenGT       // >
	TokenGTE      // >=
	operatorEnd
)

var kindNames = [...]string{
	TokenEOF:      "EOF",
	TokenNewline:  "NEWLINE",
	TokenNumber:   "NUMBER",
	TokenIdent:    "IDENT",
	TokenString:   "STRING",
	TokenLabel:    "LABEL",
	TokenGoto:     "GOTO",
	TokenPrint:    "PRINT",
	TokenInput:    "INPUT",
	TokenLet:      "LET",
	TokenIf:       "IF",
	TokenThen:     "THEN",
	TokenEndif:    "ENDIF",
	TokenWhile:    "WHILE",
	TokenRepeat:   "REPEAT",
	TokenEndwhile: "ENDWHILE",
	TokenEq:       "EQ",
	TokenPlus:     "PLUS",
	TokenMinus:    "MINUS",
	TokenAsterisk: "ASTERISK",
	TokenSlash:    "SLASH",
	TokenEqEq:     "EQEQ",
	TokenNotEq:    "NOTEQ",
	TokenLT:       "LT",
	TokenLTE:      "LTEQ",
	TokenGT:       "GT",
	TokenGTE:      "GTEQ",
}

// String returns the diagnostic name of the kind, e.g. "IDENT" or "LTEQ".
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// IsLiteral reports whether k is a number, identifier or string.
func (k TokenKind) IsLiteral() bool { return literalBegin < k && k < literalEnd }

// IsKeyword reports whether k is one of the statement keywords.
func (k TokenKind) IsKeyword() bool { return keywordBegin < k && k < keywordEnd }

// IsOperator reports whether k is an arithmetic, assignment or comparison operator.
func (k TokenKind) IsOperator() bool { return operatorBegin < k && k < operatorEnd }

// IsComparison reports whether k is a relational operator.
func (k TokenKind) IsComparison() bool {
	switch k {
	case TokenEqEq, TokenNotEq, TokenLT, TokenLTE, TokenGT, TokenGTE:
		return true
	}
	return false
}

// Keywords maps keyword spellings to token kinds. Matching is exact and
// case-sensitive.
var Keywords = map[string]TokenKind{}

func init() {
	for k := keywordBegin + 1; k < keywordEnd; k++ {
		Keywords[kindNames[k]] = k
	}
}

// LookupIdent returns the keyword kind for ident, or TokenIdent.
func LookupIdent(ident string) TokenKind {
	if kind, ok := Keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
