// File: parser/lexer.go
package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes Siren source text on demand
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

// NewLexer creates a new Lexer. A newline is appended to the input so the
// last line is always terminated.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input + "\n",
		line:  1,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// curRune decodes the character starting at the current position
func (l *Lexer) curRune() rune {
	if l.atEOF() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.position:])
	return r
}

// readRune advances past the current character, which may span several
// bytes, counting it as one column.
func (l *Lexer) readRune() {
	_, size := utf8.DecodeRuneInString(l.input[l.position:])
	for i := 0; i < size; i++ {
		l.readChar()
	}
	if size > 1 {
		l.column -= size - 1
	}
}

// peekChar returns the next character without advancing the position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0 // EOF
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next token. Once the input is exhausted every call
// returns a TokenEOF token.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	l.skipComment()

	tok := Token{Line: l.line, Column: l.column}
	if l.atEOF() {
		tok.Kind = TokenEOF
		return tok, nil
	}

	switch l.ch {
	case '+':
		tok.Kind, tok.Text = TokenPlus, "+"
	case '-':
		tok.Kind, tok.Text = TokenMinus, "-"
	case '*':
		tok.Kind, tok.Text = TokenAsterisk, "*"
	case '/':
		tok.Kind, tok.Text = TokenSlash, "/"
	case '=':
		tok.Kind, tok.Text = l.twoCharOperator(TokenEq, TokenEqEq)
	case '<':
		tok.Kind, tok.Text = l.twoCharOperator(TokenLT, TokenLTE)
	case '>':
		tok.Kind, tok.Text = l.twoCharOperator(TokenGT, TokenGTE)
	case '!':
		if l.peekChar() != '=' {
			return Token{}, l.errorf(ErrExpectedNotEqual, "!", "got %q", "!"+string(l.peekChar()))
		}
		l.readChar()
		tok.Kind, tok.Text = TokenNotEq, "!="
	case '"':
		text, err := l.readString()
		if err != nil {
			return Token{}, err
		}
		tok.Kind, tok.Text = TokenString, text
	case '\n':
		tok.Kind, tok.Text = TokenNewline, "\n"
	default:
		r := l.curRune()
		if isDigit(r) {
			text, err := l.readNumber()
			if err != nil {
				return Token{}, err
			}
			tok.Kind, tok.Text = TokenNumber, text
			return tok, nil
		}
		if isLetter(r) {
			tok.Text = l.readIdentifier()
			tok.Kind = LookupIdent(tok.Text)
			return tok, nil
		}
		return Token{}, l.errorf(ErrUnknownCharacter, string(r), "%q", r)
	}

	l.readChar()
	return tok, nil
}

// twoCharOperator consumes "<op>=" as long if present, else the single char.
func (l *Lexer) twoCharOperator(short, long TokenKind) (TokenKind, string) {
	if l.peekChar() == '=' {
		first := l.ch
		l.readChar()
		return long, string([]byte{first, l.ch})
	}
	return short, string(l.ch)
}

// readString reads the body of a string literal. The opening quote is the
// current char; on return the current char is the closing quote.
func (l *Lexer) readString() (string, error) {
	l.readChar()
	position := l.position
	for l.ch != '"' {
		switch l.ch {
		case '\r', '\n', '\t', '\\', '%':
			return "", l.errorf(ErrIllegalStringChar, string(l.ch), "%q", l.ch)
		}
		if l.atEOF() {
			return "", l.errorf(ErrIllegalStringChar, "", "unterminated string")
		}
		l.readRune()
	}
	return l.input[position:l.position], nil
}

// readNumber reads an integer or decimal literal
func (l *Lexer) readNumber() (string, error) {
	position := l.position
	for isDigit(l.curRune()) {
		l.readRune()
	}
	if l.ch == '.' {
		l.readChar()
		if !isDigit(l.curRune()) {
			return "", l.errorf(ErrIllegalNumber, l.input[position:l.position], "%q", l.input[position:l.position])
		}
		for isDigit(l.curRune()) {
			l.readRune()
		}
	}
	return l.input[position:l.position], nil
}

// readIdentifier reads an identifier or keyword spelling
func (l *Lexer) readIdentifier() string {
	position := l.position
	for r := l.curRune(); isLetter(r) || isDigit(r); r = l.curRune() {
		l.readRune()
	}
	return l.input[position:l.position]
}

// skipWhitespace skips spaces, tabs and carriage returns. Newlines are tokens.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment skips a '#' comment up to, not including, the newline
func (l *Lexer) skipComment() {
	if l.ch != '#' {
		return
	}
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}
}

func (l *Lexer) errorf(err error, text, format string, args ...any) error {
	return &Error{
		Phase:  PhaseLexical,
		Err:    err,
		Text:   text,
		Detail: fmt.Sprintf(format, args...),
		Line:   l.line,
		Column: l.column,
	}
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return unicode.IsDigit(r)
}

// Tokenize returns every token of input up to and including TokenEOF.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}
