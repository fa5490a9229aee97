// Package models provides the data structures used throughout the application.
package models

// RangeRule maps an inclusive account number range to a line item.
type RangeRule struct {
	LineItem LineItem `yaml:"line_item" json:"line_item"`
	Min      int      `yaml:"min" json:"min"`
	Max      int      `yaml:"max" json:"max"`
}

// AliasRule lists account name spellings for a line item.
type AliasRule struct {
	LineItem LineItem `yaml:"line_item" json:"line_item"`
	Aliases  []string `yaml:"aliases" json:"aliases"`
}

// DetectorRule matches an account name when every AllOf group has at least
// one keyword contained in the name and no NoneOf keyword is.
type DetectorRule struct {
	Name     string     `yaml:"name" json:"name"`
	LineItem LineItem   `yaml:"line_item" json:"line_item"`
	AllOf    [][]string `yaml:"all_of" json:"all_of"`
	NoneOf   []string   `yaml:"none_of,omitempty" json:"none_of,omitempty"`
}

// ClassificationRules is the read-only rule set of the account classifier,
// as stored in the rules YAML file.
type ClassificationRules struct {
	Precedence []string            `yaml:"precedence,omitempty"`
	Detectors  []DetectorRule      `yaml:"detectors,omitempty"`
	Aliases    []AliasRule         `yaml:"aliases,omitempty"`
	Ranges     []RangeRule         `yaml:"ranges,omitempty"`
	Synonyms   map[string][]string `yaml:"synonyms,omitempty"`
}
