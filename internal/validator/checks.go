package validator

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/fin-statements/internal/dateutils"
	"fjacquet/fin-statements/internal/models"
)

func checkRequiredColumns(table *models.LedgerTable, opts Options) []models.Finding {
	var out []models.Finding
	if table.Len() == 0 {
		out = append(out, models.Finding{
			Kind:     models.KindEmptyTable,
			Severity: models.SeverityCritical,
			Source:   table.Source,
			Summary:  fmt.Sprintf("%s contains no data rows; upload a file with at least one posting", table.Source.Label()),
		})
	}
	for _, col := range table.MissingColumns() {
		out = append(out, models.Finding{
			Kind:     models.KindMissingRequiredColumn,
			Severity: models.SeverityCritical,
			Source:   table.Source,
			Field:    col,
			Summary:  fmt.Sprintf("required column %q is missing; rename a header or add a synonym for it", col),
		})
	}
	return out
}

func checkDates(table *models.LedgerTable, opts Options) []models.Finding {
	if !table.HasColumn(models.ColumnPeriodDate) {
		return nil
	}
	var out []models.Finding

	invalid := rowsWhere(table, func(r models.LedgerRow) bool { return !r.HasDate() })
	if len(invalid) > 0 {
		f := newFinding(table, opts, models.KindInvalidDate, models.SeverityWarning, invalid, models.RemedyDropRow,
			fmt.Sprintf("%d row(s) have a missing or unparseable period date (%s)", len(invalid), describeLines(table, invalid)))
		f.Field = models.ColumnPeriodDate
		out = append(out, f)
	}

	future := rowsWhere(table, func(r models.LedgerRow) bool {
		return r.HasDate() && dateutils.IsAfterDay(r.PeriodDate, opts.Now)
	})
	if len(future) > 0 {
		f := newFinding(table, opts, models.KindFutureDate, models.SeverityWarning, future, models.RemedyDropRow,
			fmt.Sprintf("%d row(s) are dated after %s (%s)", len(future), dateutils.ToISODate(opts.Now), describeLines(table, future)))
		f.Field = models.ColumnPeriodDate
		out = append(out, f)
	}
	return out
}

func checkAccountNumbers(table *models.LedgerTable, opts Options) []models.Finding {
	if !table.HasColumn(models.ColumnAccountNumber) {
		return nil
	}
	var out []models.Finding
	add := func(kind models.FindingKind, rows []int, remedy models.Remedy, summary string) {
		if len(rows) == 0 {
			return
		}
		f := newFinding(table, opts, kind, models.SeverityCritical, rows, remedy, summary)
		f.Field = models.ColumnAccountNumber
		out = append(out, f)
	}

	missing := rowsWhere(table, func(r models.LedgerRow) bool { return !r.HasAccountNumber() })
	add(models.KindMissingAccountNumber, missing, models.RemedyMapUnclassified,
		fmt.Sprintf("%d row(s) have a missing or non-numeric account number (%s)", len(missing), describeLines(table, missing)))

	negative := rowsWhere(table, func(r models.LedgerRow) bool { return r.HasAccountNumber() && r.AccountNumber < 0 })
	add(models.KindNegativeAccountNumber, negative, models.RemedyMakeNonNegative,
		fmt.Sprintf("%d row(s) have a negative account number (%s)", len(negative), describeLines(table, negative)))

	tooLarge := rowsWhere(table, func(r models.LedgerRow) bool {
		return r.HasAccountNumber() && r.AccountNumber > opts.MaxAccountNumber
	})
	add(models.KindAccountNumberOutOfRange, tooLarge, models.RemedyNone,
		fmt.Sprintf("%d row(s) have an account number above %d (%s); correct the chart of accounts at source",
			len(tooLarge), opts.MaxAccountNumber, describeLines(table, tooLarge)))
	return out
}

var amountColumns = []models.Column{models.ColumnDebit, models.ColumnCredit}

func checkAmounts(table *models.LedgerTable, opts Options) []models.Finding {
	var out []models.Finding
	for _, col := range amountColumns {
		if !table.HasColumn(col) {
			continue
		}
		col := col
		rows := rowsWhere(table, func(r models.LedgerRow) bool { return r.Invalid.Has(col) })
		if len(rows) == 0 {
			continue
		}
		f := newFinding(table, opts, models.KindInvalidAmount, models.SeverityWarning, rows, models.RemedyDropRow,
			fmt.Sprintf("%d row(s) have a non-numeric %s amount (%s)", len(rows), col, describeLines(table, rows)))
		f.Field = col
		out = append(out, f)
	}
	return out
}

func checkSigns(table *models.LedgerTable, opts Options) []models.Finding {
	var out []models.Finding
	for _, col := range amountColumns {
		if !table.HasColumn(col) {
			continue
		}
		col := col
		rows := rowsWhere(table, func(r models.LedgerRow) bool {
			if col == models.ColumnDebit {
				return r.Debit.IsNegative()
			}
			return r.Credit.IsNegative()
		})
		if len(rows) == 0 {
			continue
		}
		f := newFinding(table, opts, models.KindNegativeAmount, models.SeverityWarning, rows, models.RemedyMakeNonNegative,
			fmt.Sprintf("%d row(s) carry a negative %s amount (%s)", len(rows), col, describeLines(table, rows)))
		f.Field = col
		out = append(out, f)
	}
	return out
}

// checkMutualExclusivity flags rows posting to both sides. Trial balance
// rows must carry a single side; journal lines may legitimately carry both.
func checkMutualExclusivity(table *models.LedgerTable, opts Options) []models.Finding {
	rows := rowsWhere(table, func(r models.LedgerRow) bool {
		return !r.Debit.IsZero() && !r.Credit.IsZero()
	})
	if len(rows) == 0 {
		return nil
	}
	sev := models.SeverityInfo
	summary := fmt.Sprintf("%d row(s) post both a debit and a credit (%s)", len(rows), describeLines(table, rows))
	if table.Source == models.SourceTB {
		sev = models.SeverityCritical
		summary += "; trial balance rows must carry a single side"
	}
	return []models.Finding{newFinding(table, opts, models.KindBothSidesPosted, sev, rows, models.RemedyNone, summary)}
}

func checkZeroRows(table *models.LedgerTable, opts Options) []models.Finding {
	if !table.HasColumn(models.ColumnDebit) && !table.HasColumn(models.ColumnCredit) {
		return nil
	}
	rows := rowsWhere(table, func(r models.LedgerRow) bool {
		return r.IsZero() && !r.Invalid.Has(models.ColumnDebit) && !r.Invalid.Has(models.ColumnCredit)
	})
	if len(rows) == 0 {
		return nil
	}
	return []models.Finding{newFinding(table, opts, models.KindZeroRow, models.SeverityWarning, rows, models.RemedyDropRow,
		fmt.Sprintf("%d row(s) have zero debit and zero credit (%s)", len(rows), describeLines(table, rows)))}
}

func checkCurrency(table *models.LedgerTable, opts Options) []models.Finding {
	if !table.HasColumn(models.ColumnCurrency) {
		return nil
	}
	seen := map[string]bool{}
	rows := rowsWhere(table, func(r models.LedgerRow) bool {
		code := strings.ToUpper(r.Currency)
		if code == "" || code == opts.ReportingCurrency {
			return false
		}
		seen[code] = true
		return true
	})
	if len(rows) == 0 {
		return nil
	}
	f := newFinding(table, opts, models.KindNonReportingCurrency, models.SeverityCritical, rows, models.RemedyNone,
		fmt.Sprintf("%d row(s) are in %s but the reporting currency is %s (%s); convert amounts before upload",
			len(rows), strings.Join(sortedKeys(seen), ", "), opts.ReportingCurrency, describeLines(table, rows)))
	f.Field = models.ColumnCurrency
	return []models.Finding{f}
}

// checkDuplicates groups rows whose source text is identical. The first row
// of each group is kept by the drop_duplicate_rows remedy.
func checkDuplicates(table *models.LedgerTable, opts Options) []models.Finding {
	index := map[string]int{}
	var groups [][]int
	for i, r := range table.Rows {
		key := r.Key()
		if g, ok := index[key]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, []int{i})
	}

	var dupGroups [][]int
	var extra []int
	for _, g := range groups {
		if len(g) > 1 {
			dupGroups = append(dupGroups, g)
			extra = append(extra, g[1:]...)
		}
	}
	if len(dupGroups) == 0 {
		return nil
	}
	sort.Ints(extra)
	f := newFinding(table, opts, models.KindDuplicateRows, models.SeverityWarning, extra, models.RemedyDropDuplicateRows,
		fmt.Sprintf("%d duplicate row(s) in %d group(s) (%s)", len(extra), len(dupGroups), describeLines(table, extra)))
	f.Groups = dupGroups
	return []models.Finding{f}
}
