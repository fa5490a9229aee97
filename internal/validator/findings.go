package validator

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/fin-statements/internal/models"
)

// newFinding builds a finding over the given row indices and attaches a
// preview of the first affected rows.
func newFinding(table *models.LedgerTable, opts Options, kind models.FindingKind, sev models.Severity, rows []int, remedy models.Remedy, summary string) models.Finding {
	return models.Finding{
		Kind:     kind,
		Severity: sev,
		Source:   table.Source,
		Rows:     rows,
		Remedy:   remedy,
		Summary:  summary,
		Sample:   sample(table, rows, opts.SampleSize),
	}
}

func sample(table *models.LedgerTable, rows []int, n int) []models.SampleRow {
	if len(rows) < n {
		n = len(rows)
	}
	out := make([]models.SampleRow, 0, n)
	for _, idx := range rows[:n] {
		out = append(out, models.SampleOf(table.Rows[idx]))
	}
	return out
}

// describeLines renders the source lines of rows, e.g. "lines 2, 5 and 9".
func describeLines(table *models.LedgerTable, rows []int) string {
	const maxListed = 5
	if len(rows) == 0 {
		return "no lines"
	}
	lines := make([]string, 0, maxListed)
	for i, idx := range rows {
		if i == maxListed {
			break
		}
		lines = append(lines, fmt.Sprintf("%d", table.Rows[idx].Line))
	}
	switch {
	case len(rows) == 1:
		return "line " + lines[0]
	case len(rows) > maxListed:
		return fmt.Sprintf("lines %s and %d more", strings.Join(lines, ", "), len(rows)-maxListed)
	default:
		return fmt.Sprintf("lines %s and %s", strings.Join(lines[:len(lines)-1], ", "), lines[len(lines)-1])
	}
}

// rowsWhere returns the indices of the rows matching pred.
func rowsWhere(table *models.LedgerTable, pred func(models.LedgerRow) bool) []int {
	var out []int
	for i, r := range table.Rows {
		if pred(r) {
			out = append(out, i)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
