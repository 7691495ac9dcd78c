package parser

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkError(t *testing.T, input string) *Error {
	t.Helper()

	_, err := Check(input)
	require.Error(t, err)

	var checkErr *Error
	require.True(t, errors.As(err, &checkErr), "expected *Error, got %T", err)
	return checkErr
}

func TestValidProgram(t *testing.T) {
	input := `LET a = 5
IF a == 5 THEN
PRINT "ok"
ENDIF`

	report, err := Check(input)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Statements)
	assert.Equal(t, []string{"a"}, report.Symbols)
	assert.Equal(t, 1, report.StatementCounts["IF"])
	assert.Equal(t, 1, report.StatementCounts["PRINT"])
}

func TestFullLanguage(t *testing.T) {
	input := `
# Fibonacci, with every statement form

PRINT "How many numbers?"
INPUT nums
LET a = 0
LET b = 1
WHILE nums > 0 REPEAT
    PRINT a
    LET c = a + b
    LET a = b
    LET b = c
    LET nums = nums - 1
    IF nums == 3 THEN
        GOTO done
    ENDIF
ENDWHILE

LET x = -a * +2 / 3.5 - b
IF x >= 1 != 0 <= 2 THEN
    PRINT x
ENDIF
LABEL done
GOTO done
`

	report, err := Check(input)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "nums", "x"}, report.Symbols)
	assert.Equal(t, []string{"done"}, report.Labels)
	assert.Equal(t, []string{"done"}, report.Gotos)
	assert.Equal(t, 2, report.StatementCounts["GOTO"])
	assert.Equal(t, 1, report.StatementCounts["WHILE"])
	assert.Equal(t, 17, report.Statements)
}

func TestEmptyProgram(t *testing.T) {
	for _, input := range []string{"", "\n\n", "# only a comment"} {
		report, err := Check(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, 0, report.Statements)
	}
}

func TestVariableBeforeAssignment(t *testing.T) {
	checkErr := checkError(t, "PRINT x")

	assert.ErrorIs(t, checkErr, ErrUnassignedVariable)
	assert.Equal(t, PhaseGrammar, checkErr.Phase)
	assert.Equal(t, "x", checkErr.Text)
	assert.Contains(t, checkErr.Error(), "referencing variable before assignment: x")

	_, err := Check("LET x = 1\nPRINT x")
	assert.NoError(t, err)

	_, err = Check("INPUT x\nIF x > 1 THEN\nPRINT x\nENDIF")
	assert.NoError(t, err)

	// Assignment is positional, not hoisted.
	checkErr = checkError(t, "PRINT y\nLET y = 2")
	assert.ErrorIs(t, checkErr, ErrUnassignedVariable)

	checkErr = checkError(t, "LET a = 1\nWHILE a < 10 REPEAT\nLET a = a + z\nENDWHILE")
	assert.ErrorIs(t, checkErr, ErrUnassignedVariable)
	assert.Equal(t, "z", checkErr.Text)
	assert.Equal(t, 3, checkErr.Line)
}

func TestLetTargetIsAssignedBeforeExpression(t *testing.T) {
	_, err := Check("LET a = a + 1")
	assert.NoError(t, err)
}

func TestUndeclaredGotoLabel(t *testing.T) {
	checkErr := checkError(t, "GOTO done\nPRINT \"never\"")

	assert.ErrorIs(t, checkErr, ErrUndeclaredLabel)
	assert.Equal(t, "done", checkErr.Text)
	assert.Equal(t, 1, checkErr.Line)

	// The first unresolved GOTO in source order is reported.
	checkErr = checkError(t, "LABEL a\nGOTO zeta\nGOTO a\nGOTO alpha")
	assert.ErrorIs(t, checkErr, ErrUndeclaredLabel)
	assert.Equal(t, "zeta", checkErr.Text)
}

func TestForwardLabelReference(t *testing.T) {
	report, err := Check("GOTO skip\nPRINT \"skipped\"\nLABEL skip\nGOTO skip")
	require.NoError(t, err)
	assert.Equal(t, []string{"skip"}, report.Gotos)
}

func TestUndeclaredLabelIsCheckedLast(t *testing.T) {
	checkErr := checkError(t, "GOTO nowhere\nPRINT x")
	assert.ErrorIs(t, checkErr, ErrUnassignedVariable)
}

func TestDuplicateLabel(t *testing.T) {
	checkErr := checkError(t, "LABEL x\nLABEL x")
	assert.ErrorIs(t, checkErr, ErrDuplicateLabel)
	assert.Equal(t, 2, checkErr.Line)

	input := `LET a = 1
IF a == 1 THEN
LABEL x
ENDIF
WHILE a < 1 REPEAT
LABEL x
ENDWHILE`

	checkErr = checkError(t, input)
	assert.ErrorIs(t, checkErr, ErrDuplicateLabel)
	assert.Equal(t, "x", checkErr.Text)
	assert.Equal(t, 6, checkErr.Line)

	// The duplicate precedes a bad character on the following line
	checkErr = checkError(t, "LABEL a\nLABEL a\n@")
	assert.ErrorIs(t, checkErr, ErrDuplicateLabel)
	assert.Equal(t, PhaseGrammar, checkErr.Phase)
	assert.Equal(t, 2, checkErr.Line)
	assert.Equal(t, 7, checkErr.Column)
}

func TestUnicodeProgram(t *testing.T) {
	report, err := Check("LET café = 1\nPRINT café")
	require.NoError(t, err)
	assert.Equal(t, []string{"café"}, report.Symbols)
}

func TestComparisonRequiresOperator(t *testing.T) {
	checkErr := checkError(t, "LET x = 1\nIF x THEN\nENDIF")
	assert.ErrorIs(t, checkErr, ErrExpectedComparison)
	assert.Equal(t, "THEN", checkErr.Text)

	checkErr = checkError(t, "LET x = 1\nWHILE x + 1 REPEAT\nENDWHILE")
	assert.ErrorIs(t, checkErr, ErrExpectedComparison)
}

func TestGrammarErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
		msg   string
	}{
		{"statement keyword", "ENDIF", ErrInvalidStatement, "at ENDIF (ENDIF)"},
		{"bare identifier", "x = 1", ErrInvalidStatement, "at x (IDENT)"},
		{"keyword as identifier", "LET PRINT = 1", ErrUnexpectedKind, "expected IDENT, got PRINT"},
		{"missing equals", "LET a 1", ErrUnexpectedKind, "expected EQ, got NUMBER"},
		{"missing newline", "PRINT 1 2", ErrUnexpectedKind, "expected NEWLINE, got NUMBER"},
		{"missing THEN", "LET a = 1\nIF a == 1\nENDIF", ErrUnexpectedKind, "expected THEN, got NEWLINE"},
		{"missing REPEAT", "LET a = 1\nWHILE a == 1 THEN\nENDWHILE", ErrUnexpectedKind, "expected REPEAT, got THEN"},
		{"unterminated IF", "LET a = 1\nIF a == 1 THEN\nPRINT a", ErrInvalidStatement, "(EOF)"},
		{"GOTO number", "GOTO 10", ErrUnexpectedKind, "expected IDENT, got NUMBER"},
		{"string in expression", "LET a = \"s\"", ErrUnexpectedToken, `at "s"`},
		{"double operator", "LET a = 1 + * 2", ErrUnexpectedToken, `at "*"`},
		{"double unary", "LET a = --1", ErrUnexpectedToken, `at "-"`},
		{"print nothing", "PRINT", ErrUnexpectedToken, `at "\n"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			checkErr := checkError(t, tc.input)
			assert.ErrorIs(t, checkErr, tc.err)
			assert.Contains(t, checkErr.Detail, tc.msg)
		})
	}
}

func TestLexicalErrorsAbortParsing(t *testing.T) {
	checkErr := checkError(t, "LET a = (1)")
	assert.ErrorIs(t, checkErr, ErrUnknownCharacter)
	assert.Equal(t, PhaseLexical, checkErr.Phase)

	// The lookahead token is lexed before the current token is checked.
	checkErr = checkError(t, "PRINT y @")
	assert.ErrorIs(t, checkErr, ErrUnknownCharacter)
}

func TestRepeatedGotoIsLegal(t *testing.T) {
	report, err := Check("LABEL top\nGOTO top\nGOTO top")
	require.NoError(t, err)
	assert.Equal(t, 2, report.StatementCounts["GOTO"])
	assert.Equal(t, []string{"top"}, report.Gotos)
}

func TestTraceLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Check("LET a = 1\nPRINT a", WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	for _, rule := range []string{"PROGRAM", "STATEMENT-LET", "STATEMENT-PRINT", "EXPRESSION", "TERM", "UNARY", "PRIMARY", "NEWLINE"} {
		assert.Contains(t, out, rule)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.siren")
	require.NoError(t, os.WriteFile(path, []byte("INPUT n\nPRINT n\n"), 0o644))

	report, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, report.Source)
	assert.Equal(t, 2, report.Statements)

	_, err = ParseFile(filepath.Join(dir, "missing.siren"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
