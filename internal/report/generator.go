// Package report renders pipeline results as JSON, CSV or aligned text.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/parsererror"
	"fjacquet/fin-statements/internal/pipeline"
)

// Format is an output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatCSV, FormatText:
		return f, nil
	case "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: report format %q", parsererror.ErrUnsupportedFormat, name)
	}
}

// Document is the serialized form of one run.
type Document struct {
	RunID      string                   `json:"run_id"`
	Mode       models.InputMode         `json:"mode"`
	Blocked    bool                     `json:"blocked"`
	Note       string                   `json:"note,omitempty"`
	Counts     map[string]int           `json:"finding_counts"`
	Sources    []*pipeline.SourceResult `json:"sources"`
	Blocking   models.Findings          `json:"blocking,omitempty"`
	Statements *models.StatementResult  `json:"statements,omitempty"`
}

// NewDocument builds the document of a result.
func NewDocument(result *pipeline.Result) Document {
	counts := map[string]int{}
	for sev, n := range result.Remaining().Counts() {
		counts[sev.String()] = n
	}
	return Document{
		RunID:      result.RunID,
		Mode:       result.Mode,
		Blocked:    len(result.Blocking) > 0,
		Note:       result.Policy().Note,
		Counts:     counts,
		Sources:    result.Sources,
		Blocking:   result.Blocking,
		Statements: result.Statements,
	}
}

// Generator renders results. The delimiter applies to CSV output.
type Generator struct {
	delimiter rune
	logger    logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(delimiter rune, logger logging.Logger) *Generator {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Generator{
		delimiter: delimiter,
		logger:    logging.OrDefault(logger).WithField(logging.FieldComponent, "report"),
	}
}

// GenerateReport renders the statements of a run in the given format. CSV
// holds the statements only, in long format; JSON and text include findings
// and reconciliation.
func (g *Generator) GenerateReport(result *pipeline.Result, format Format) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("cannot render a nil result")
	}
	switch format {
	case FormatJSON:
		return g.generateJSONReport(result)
	case FormatCSV:
		var buf bytes.Buffer
		if err := g.WriteStatementsCSV(&buf, result.Statements); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatText:
		var buf bytes.Buffer
		if err := WriteText(&buf, result); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: report format %q", parsererror.ErrUnsupportedFormat, format)
	}
}

func (g *Generator) generateJSONReport(result *pipeline.Result) ([]byte, error) {
	out, err := json.MarshalIndent(NewDocument(result), "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}
