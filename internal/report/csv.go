package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fjacquet/fin-statements/internal/classifier"
	"fjacquet/fin-statements/internal/models"

	"github.com/gocarina/gocsv"
)

// StatementRow is one statement value in long format.
type StatementRow struct {
	Statement string `csv:"statement"`
	Status    string `csv:"status"`
	Period    string `csv:"period"`
	Line      string `csv:"line"`
	Label     string `csv:"label"`
	Value     string `csv:"value"`
	Unit      string `csv:"unit"`
}

// FindingRow is one finding flattened for spreadsheet review.
type FindingRow struct {
	Source   string `csv:"source"`
	Severity string `csv:"severity"`
	Kind     string `csv:"kind"`
	Field    string `csv:"field"`
	RowCount int    `csv:"row_count"`
	Lines    string `csv:"lines"`
	Remedy   string `csv:"remedy"`
	Summary  string `csv:"summary"`
}

// StatementRows flattens the statements. Unavailable statements contribute
// no rows.
func StatementRows(result *models.StatementResult) []StatementRow {
	if result == nil {
		return nil
	}
	var rows []StatementRow
	for _, st := range result.Statements() {
		for _, line := range st.Lines {
			for i, period := range st.Periods {
				if i >= len(line.Values) {
					break
				}
				rows = append(rows, StatementRow{
					Statement: string(st.Kind),
					Status:    string(st.Status),
					Period:    period,
					Line:      line.Key,
					Label:     line.Label,
					Value:     line.Values[i].StringFixed(2),
					Unit:      result.UnitLabel,
				})
			}
		}
	}
	return rows
}

// FindingRows flattens findings, most severe first. Lines refers to the
// source line numbers of the sampled rows.
func FindingRows(findings models.Findings) []FindingRow {
	rows := make([]FindingRow, 0, len(findings))
	for _, f := range findings.Sorted() {
		lines := make([]string, len(f.Sample))
		for i, s := range f.Sample {
			lines[i] = strconv.Itoa(s.Line)
		}
		field := ""
		if f.Field != models.ColumnUnknown {
			field = f.Field.String()
		}
		rows = append(rows, FindingRow{
			Source:   string(f.Source),
			Severity: f.Severity.String(),
			Kind:     string(f.Kind),
			Field:    field,
			RowCount: len(f.Rows),
			Lines:    strings.Join(lines, " "),
			Remedy:   string(f.Remedy),
			Summary:  f.Summary,
		})
	}
	return rows
}

// WriteStatementsCSV writes the statements in long format.
func (g *Generator) WriteStatementsCSV(w io.Writer, result *models.StatementResult) error {
	rows := StatementRows(result)
	if rows == nil {
		rows = []StatementRow{}
	}
	return g.marshal(w, rows, "statements")
}

// WriteFindingsCSV writes one row per finding.
func (g *Generator) WriteFindingsCSV(w io.Writer, findings models.Findings) error {
	rows := FindingRows(findings)
	return g.marshal(w, rows, "findings")
}

// WriteMappingsCSV writes the account to line item mapping.
func (g *Generator) WriteMappingsCSV(w io.Writer, mappings []classifier.Mapping) error {
	if mappings == nil {
		mappings = []classifier.Mapping{}
	}
	return g.marshal(w, mappings, "mappings")
}

func (g *Generator) marshal(w io.Writer, rows interface{}, what string) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = g.delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return fmt.Errorf("error writing %s CSV: %w", what, err)
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("error writing %s CSV: %w", what, err)
	}
	return nil
}
