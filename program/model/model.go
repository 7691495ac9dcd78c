package model

import "sort"

// Report summarizes a program that passed checking
type Report struct {
	Source          string         `json:"source,omitempty"` // Source file path
	Statements      int            `json:"statements"`
	StatementCounts map[string]int `json:"statement_counts"` // Keyed by introducing keyword
	Symbols         []string       `json:"symbols"`          // Assigned variables
	Labels          []string       `json:"labels"`           // Declared labels
	Gotos           []string       `json:"gotos"`            // Labels targeted by GOTO
}

// NewReport creates an empty report
func NewReport() *Report {
	return &Report{
		StatementCounts: make(map[string]int),
		Symbols:         []string{},
		Labels:          []string{},
		Gotos:           []string{},
	}
}

// AddStatement counts one statement introduced by keyword
func (r *Report) AddStatement(keyword string) {
	r.Statements++
	r.StatementCounts[keyword]++
}

// SetSymbols replaces the symbol list with the sorted keys of set
func (r *Report) SetSymbols(set map[string]struct{}) {
	r.Symbols = sortedKeys(set)
}

// SetLabels replaces the label list with the sorted keys of set
func (r *Report) SetLabels(set map[string]struct{}) {
	r.Labels = sortedKeys(set)
}

// SetGotos replaces the goto list with the sorted, de-duplicated names
func (r *Report) SetGotos(names []string) {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	r.Gotos = sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
