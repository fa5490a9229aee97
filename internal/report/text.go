package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fjacquet/fin-statements/internal/currencyutils"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/pipeline"
)

var statementTitles = map[models.StatementKind]string{
	models.StatementIncome:   "Income Statement",
	models.StatementBalance:  "Balance Sheet",
	models.StatementCashFlow: "Cash Flow Statement",
}

// WriteText renders a run for the terminal: a findings summary followed by
// each statement as an aligned table.
func WriteText(w io.Writer, result *pipeline.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Run %s (mode %s)\n", result.RunID, result.Mode)
	if note := result.Policy().Note; note != "" {
		fmt.Fprintf(bw, "Note: %s\n", note)
	}
	for _, sr := range result.Sources {
		writeSource(bw, sr)
	}

	if len(result.Blocking) > 0 {
		fmt.Fprintf(bw, "\nStatement generation blocked by %d critical finding(s):\n", len(result.Blocking))
		for _, f := range result.Blocking {
			fmt.Fprintf(bw, "  - %s\n", f)
		}
	}

	if result.Statements != nil {
		for _, st := range result.Statements.Statements() {
			if err := writeStatement(bw, st, result.Statements); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func writeSource(w io.Writer, sr *pipeline.SourceResult) {
	counts := sr.Remaining.Counts()
	fmt.Fprintf(w, "\n%s: %d critical, %d warning, %d info\n", sr.Source.Label(),
		counts[models.SeverityCritical], counts[models.SeverityWarning], counts[models.SeverityInfo])

	if rec := sr.Reconciliation; rec.Changed() > 0 {
		fmt.Fprintf(w, "  auto-fix: %d rows in, %d out, %d removed, %d modified\n",
			rec.OriginalRows, rec.CorrectedRows, rec.Removed, rec.Modified)
	}
	if stats := sr.Classification; stats != nil {
		fmt.Fprintf(w, "  classification: %d of %d rows mapped (%.1f%%)\n", stats.Mapped, stats.Total, stats.GetMappedRate())
	}
	for _, f := range sr.Remaining.Sorted() {
		if f.Severity == models.SeverityInfo {
			continue
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", f.Severity, f.Kind, f.Summary)
	}
}

func writeStatement(w io.Writer, st *models.Statement, result *models.StatementResult) error {
	fmt.Fprintf(w, "\n%s (%s, %s)\n", statementTitles[st.Kind], st.Status, result.UnitLabel)
	if st.Note != "" {
		fmt.Fprintf(w, "%s\n", st.Note)
	}
	if !st.Available() {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t\n", "", strings.Join(st.Periods, "\t"))
	for _, line := range st.Lines {
		label := "  " + line.Label
		if line.Subtotal {
			label = line.Label
		}
		values := make([]string, len(line.Values))
		for i, v := range line.Values {
			values[i] = currencyutils.FormatAmount(v)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", label, strings.Join(values, "\t"))
	}
	return tw.Flush()
}
