// Package parsererror defines the typed errors returned by the ingestion,
// classification and statement pipeline.
package parsererror

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/fin-statements/internal/models"
)

var (
	// ErrGenerationBlocked is wrapped by BlockedError.
	ErrGenerationBlocked = errors.New("statement generation blocked")
	// ErrNoData is returned when a table has no usable rows.
	ErrNoData = errors.New("no data rows")
	// ErrUnsupportedFormat is returned for unknown input or output formats.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidMode is returned when the declared input mode disagrees with
	// the supplied tables.
	ErrInvalidMode = errors.New("invalid input mode")
)

// ParseError represents a cell that could not be parsed.
type ParseError struct {
	Source string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Source, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents an input that failed a structural check before
// the pipeline could run.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// ClassificationError represents an invalid classification rule set.
type ClassificationError struct {
	Rule string
	Err  error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("invalid classification rule %s: %v", e.Rule, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an input file that cannot be read as a table.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

func (e *InvalidFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// BlockedError is returned when Critical findings remain after the auto-fix
// step. It lists every blocking finding so the caller can explain which rows
// or periods must be corrected at the source.
type BlockedError struct {
	Findings models.Findings
}

func (e *BlockedError) Error() string {
	if len(e.Findings) == 0 {
		return ErrGenerationBlocked.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d critical finding(s)", ErrGenerationBlocked, len(e.Findings))
	for _, f := range e.Findings {
		fmt.Fprintf(&b, "\n  - %s %s: %s", f.Source.Label(), f.Kind, f.Summary)
	}
	return b.String()
}

func (e *BlockedError) Unwrap() error {
	return ErrGenerationBlocked
}

// IsBlocked reports whether err is, or wraps, a BlockedError and returns it.
func IsBlocked(err error) (*BlockedError, bool) {
	var blocked *BlockedError
	if errors.As(err, &blocked) {
		return blocked, true
	}
	return nil, false
}
