// File: parser/parse.go
package parser

import (
	"fmt"
	"os"

	"github.com/dangerclosesec/siren/program/model"
)

// Check lexes and checks source in a single pass
func Check(source string, opts ...Option) (*model.Report, error) {
	return NewParser(NewLexer(source), opts...).Program()
}

// ParseFile checks a .siren file
func ParseFile(filePath string, opts ...Option) (*model.Report, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	report, err := Check(string(content), opts...)
	if err != nil {
		return nil, err
	}
	report.Source = filePath

	return report, nil
}
