// File: parser/parser.go
package parser

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dangerclosesec/siren/program/model"
)

// Parser checks a Siren token stream against the grammar and tracks the
// symbols and labels the program declares. A Parser performs one pass.
type Parser struct {
	l         *Lexer
	curToken  Token
	peekToken Token
	logger    *slog.Logger

	symbols        map[string]struct{} // LET and INPUT targets
	labelsDeclared map[string]struct{}
	labelsGotoed   []Token // GOTO targets in source order

	report *model.Report
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger traces every grammar rule the parser enters at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates a new Parser
func NewParser(l *Lexer, opts ...Option) *Parser {
	p := &Parser{
		l:              l,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		symbols:        make(map[string]struct{}),
		labelsDeclared: make(map[string]struct{}),
		report:         model.NewReport(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// nextToken advances to the next token
func (p *Parser) nextToken() error {
	p.curToken = p.peekToken
	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	p.peekToken = tok
	return nil
}

// Program checks a complete program:
//
//	program := nl* statement* EOF
//
// It returns the first error found. GOTO targets are resolved after the last
// statement, so a label may be declared after the GOTO that uses it.
func (p *Parser) Program() (*model.Report, error) {
	p.trace("PROGRAM")

	// Read two tokens, so curToken and peekToken are both set
	for i := 0; i < 2; i++ {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	for p.curTokenIs(TokenNewline) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	for !p.curTokenIs(TokenEOF) {
		if err := p.statement(); err != nil {
			return nil, err
		}
	}

	for _, label := range p.labelsGotoed {
		if _, ok := p.labelsDeclared[label.Text]; !ok {
			return nil, p.errorAt(label, ErrUndeclaredLabel, "%s", label.Text)
		}
	}

	gotos := make([]string, 0, len(p.labelsGotoed))
	for _, label := range p.labelsGotoed {
		gotos = append(gotos, label.Text)
	}
	p.report.SetSymbols(p.symbols)
	p.report.SetLabels(p.labelsDeclared)
	p.report.SetGotos(gotos)

	return p.report, nil
}

// statement parses one newline-terminated statement
func (p *Parser) statement() error {
	keyword := p.curToken.Kind
	p.trace("STATEMENT-" + keyword.String())

	var err error
	switch keyword {
	case TokenPrint:
		err = p.parsePrint()
	case TokenIf:
		err = p.parseBlock(TokenThen, TokenEndif)
	case TokenWhile:
		err = p.parseBlock(TokenRepeat, TokenEndwhile)
	case TokenLabel:
		err = p.parseLabel()
	case TokenGoto:
		err = p.parseGoto()
	case TokenLet:
		err = p.parseLet()
	case TokenInput:
		err = p.parseInput()
	default:
		return p.errorf(ErrInvalidStatement, "at %s (%s)", p.curToken.Text, p.curToken.Kind)
	}
	if err != nil {
		return err
	}

	p.report.AddStatement(keyword.String())
	return p.nl()
}

// parsePrint parses "PRINT" (STRING | expression)
func (p *Parser) parsePrint() error {
	if err := p.nextToken(); err != nil {
		return err
	}
	if p.curTokenIs(TokenString) {
		return p.nextToken()
	}
	return p.expression()
}

// parseBlock parses the IF and WHILE forms:
//
//	"IF" comparison "THEN" nl statement* "ENDIF"
//	"WHILE" comparison "REPEAT" nl statement* "ENDWHILE"
func (p *Parser) parseBlock(opener, closer TokenKind) error {
	if err := p.nextToken(); err != nil {
		return err
	}
	if err := p.comparison(); err != nil {
		return err
	}
	if err := p.match(opener); err != nil {
		return err
	}
	if err := p.nl(); err != nil {
		return err
	}

	for !p.curTokenIs(closer) {
		if err := p.statement(); err != nil {
			return err
		}
	}

	return p.match(closer)
}

// parseLabel parses "LABEL" IDENT. A label may be declared only once.
func (p *Parser) parseLabel() error {
	if err := p.nextToken(); err != nil {
		return err
	}

	// Before match, which lexes the first token of the next line
	if p.curTokenIs(TokenIdent) {
		if _, exists := p.labelsDeclared[p.curToken.Text]; exists {
			return p.errorf(ErrDuplicateLabel, "%s", p.curToken.Text)
		}
		p.labelsDeclared[p.curToken.Text] = struct{}{}
	}
	return p.match(TokenIdent)
}

// parseGoto parses "GOTO" IDENT. The target is resolved at end of program.
func (p *Parser) parseGoto() error {
	if err := p.nextToken(); err != nil {
		return err
	}

	name := p.curToken
	if err := p.match(TokenIdent); err != nil {
		return err
	}
	p.labelsGotoed = append(p.labelsGotoed, name)
	return nil
}

// parseLet parses "LET" IDENT "=" expression. The target counts as assigned
// before the expression is checked.
func (p *Parser) parseLet() error {
	if err := p.nextToken(); err != nil {
		return err
	}

	name := p.curToken
	if err := p.match(TokenIdent); err != nil {
		return err
	}
	p.symbols[name.Text] = struct{}{}

	if err := p.match(TokenEq); err != nil {
		return err
	}
	return p.expression()
}

// parseInput parses "INPUT" IDENT
func (p *Parser) parseInput() error {
	if err := p.nextToken(); err != nil {
		return err
	}

	name := p.curToken
	if err := p.match(TokenIdent); err != nil {
		return err
	}
	p.symbols[name.Text] = struct{}{}
	return nil
}

// comparison := expression comparisonOp expression (comparisonOp expression)*
func (p *Parser) comparison() error {
	p.trace("COMPARISON")

	if err := p.expression(); err != nil {
		return err
	}
	if !p.curToken.Kind.IsComparison() {
		return p.errorf(ErrExpectedComparison, "at %q", p.curToken.Text)
	}

	for p.curToken.Kind.IsComparison() {
		if err := p.nextToken(); err != nil {
			return err
		}
		if err := p.expression(); err != nil {
			return err
		}
	}
	return nil
}

// expression := term (("+"|"-") term)*
func (p *Parser) expression() error {
	p.trace("EXPRESSION")

	if err := p.term(); err != nil {
		return err
	}
	for p.curTokenIs(TokenPlus) || p.curTokenIs(TokenMinus) {
		if err := p.nextToken(); err != nil {
			return err
		}
		if err := p.term(); err != nil {
			return err
		}
	}
	return nil
}

// term := unary (("*"|"/") unary)*
func (p *Parser) term() error {
	p.trace("TERM")

	if err := p.unary(); err != nil {
		return err
	}
	for p.curTokenIs(TokenAsterisk) || p.curTokenIs(TokenSlash) {
		if err := p.nextToken(); err != nil {
			return err
		}
		if err := p.unary(); err != nil {
			return err
		}
	}
	return nil
}

// unary := ("+"|"-")? primary
func (p *Parser) unary() error {
	p.trace("UNARY")

	if p.curTokenIs(TokenPlus) || p.curTokenIs(TokenMinus) {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return p.primary()
}

// primary := NUMBER | IDENT
func (p *Parser) primary() error {
	p.trace("PRIMARY")

	switch p.curToken.Kind {
	case TokenNumber:
	case TokenIdent:
		if _, ok := p.symbols[p.curToken.Text]; !ok {
			return p.errorf(ErrUnassignedVariable, "%s", p.curToken.Text)
		}
	default:
		return p.errorf(ErrUnexpectedToken, "at %q", p.curToken.Text)
	}
	return p.nextToken()
}

// nl matches one or more newlines
func (p *Parser) nl() error {
	p.trace("NEWLINE")

	if err := p.match(TokenNewline); err != nil {
		return err
	}
	for p.curTokenIs(TokenNewline) {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return nil
}

// Helper methods for token checking
func (p *Parser) curTokenIs(k TokenKind) bool {
	return p.curToken.Kind == k
}

// match checks that the current token is of the expected kind and advances
func (p *Parser) match(k TokenKind) error {
	if !p.curTokenIs(k) {
		return p.errorf(ErrUnexpectedKind, "expected %s, got %s", k, p.curToken.Kind)
	}
	return p.nextToken()
}

func (p *Parser) trace(rule string) {
	p.logger.Debug(rule,
		"token", p.curToken.Text,
		"kind", p.curToken.Kind.String(),
		"line", p.curToken.Line,
	)
}

// errorf reports err at the current token
func (p *Parser) errorf(err error, format string, args ...any) error {
	return p.errorAt(p.curToken, err, format, args...)
}

func (p *Parser) errorAt(tok Token, err error, format string, args ...any) error {
	return &Error{
		Phase:  PhaseGrammar,
		Err:    err,
		Text:   tok.Text,
		Detail: fmt.Sprintf(format, args...),
		Line:   tok.Line,
		Column: tok.Column,
	}
}
