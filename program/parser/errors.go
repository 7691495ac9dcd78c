// File: parser/errors.go
package parser

import (
	"errors"
	"fmt"
)

var (
	// Lexical errors
	ErrIllegalStringChar = errors.New("illegal character in string")
	ErrIllegalNumber     = errors.New("illegal character in number")
	ErrExpectedNotEqual  = errors.New("expected !=")
	ErrUnknownCharacter  = errors.New("unknown character")

	// Grammar errors
	ErrUnexpectedKind     = errors.New("unexpected token kind")
	ErrInvalidStatement   = errors.New("invalid statement")
	ErrExpectedComparison = errors.New("expected comparison operator")
	ErrUnexpectedToken    = errors.New("unexpected token")

	// Semantic errors
	ErrDuplicateLabel     = errors.New("label already exists")
	ErrUnassignedVariable = errors.New("referencing variable before assignment")
	ErrUndeclaredLabel    = errors.New("attempting to GOTO undeclared label")
)

// Phase names the stage of the checking pass that produced an Error.
type Phase string

const (
	PhaseLexical Phase = "lexing"
	PhaseGrammar Phase = "parsing"
)

// Error is the single fatal diagnostic of a checking pass. Err is one of the
// sentinel errors above.
type Error struct {
	Phase  Phase
	Err    error
	Text   string // offending token text or character
	Detail string
	Line   int
	Column int
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("error while %s: %s (line %d, column %d)", e.Phase, msg, e.Line, e.Column)
}

func (e *Error) Unwrap() error {
	return e.Err
}
