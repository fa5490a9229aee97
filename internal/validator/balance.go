package validator

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/fin-statements/internal/currencyutils"
	"fjacquet/fin-statements/internal/dateutils"
	"fjacquet/fin-statements/internal/models"

	"github.com/shopspring/decimal"
)

type balanceGroup struct {
	key    string
	rows   []int
	debit  decimal.Decimal
	credit decimal.Decimal
}

func (g *balanceGroup) add(idx int, r models.LedgerRow) {
	g.rows = append(g.rows, idx)
	g.debit = g.debit.Add(r.Debit)
	g.credit = g.credit.Add(r.Credit)
}

func (g *balanceGroup) balanced(opts Options) bool {
	return currencyutils.WithinTolerance(g.debit, g.credit, opts.ToleranceAbs, opts.ToleranceRel)
}

func (g *balanceGroup) imbalance() models.Imbalance {
	diff := g.debit.Sub(g.credit)
	return models.Imbalance{
		Key:        g.key,
		Debit:      g.debit,
		Credit:     g.credit,
		Difference: diff,
		Gap:        diff.Abs(),
	}
}

// groupRows sums rows by key in first-seen order. Rows for which key returns
// false are skipped.
func groupRows(table *models.LedgerTable, key func(models.LedgerRow) (string, bool)) []*balanceGroup {
	index := map[string]*balanceGroup{}
	var groups []*balanceGroup
	for i, r := range table.Rows {
		k, ok := key(r)
		if !ok {
			continue
		}
		g, found := index[k]
		if !found {
			g = &balanceGroup{key: k}
			index[k] = g
			groups = append(groups, g)
		}
		g.add(i, r)
	}
	return groups
}

func unbalanced(groups []*balanceGroup, opts Options) ([]models.Imbalance, []int) {
	var imbalances []models.Imbalance
	var rows []int
	for _, g := range groups {
		if g.balanced(opts) {
			continue
		}
		imbalances = append(imbalances, g.imbalance())
		rows = append(rows, g.rows...)
	}
	sort.Ints(rows)
	return imbalances, rows
}

// checkPeriodBalance requires trial balance debits to equal credits for each
// distinct period date.
func checkPeriodBalance(table *models.LedgerTable, opts Options) []models.Finding {
	if table.Source != models.SourceTB || table.Len() == 0 {
		return nil
	}
	groups := groupRows(table, func(r models.LedgerRow) (string, bool) {
		if !r.HasDate() {
			return "", false
		}
		return dateutils.ToISODate(r.PeriodDate), true
	})
	sort.Slice(groups, func(i, j int) bool { return groups[i].key < groups[j].key })

	imbalances, rows := unbalanced(groups, opts)
	if len(imbalances) == 0 {
		return nil
	}
	summary := fmt.Sprintf("trial balance does not balance for %d period(s):", len(imbalances))
	for _, im := range imbalances {
		summary += fmt.Sprintf(" %s debits %s credits %s out of balance by %s;",
			im.Key, im.Debit.StringFixed(2), im.Credit.StringFixed(2), im.Gap.StringFixed(2))
	}
	summary += " correct the export at source"

	f := newFinding(table, opts, models.KindPeriodImbalance, models.SeverityCritical, rows, models.RemedyNone, summary)
	f.Imbalances = imbalances
	return []models.Finding{f}
}

// checkTransactionBalance balances general ledger entries. With enough
// transaction ids every entry must balance; otherwise only the ledger as a
// whole is checked and the severity depends on how much grouping is possible.
func checkTransactionBalance(table *models.LedgerTable, opts Options) []models.Finding {
	if table.Source != models.SourceGL || table.Len() == 0 {
		return nil
	}
	var out []models.Finding
	coverage := table.TransactionIDCoverage()

	overallSeverity := models.SeverityCritical
	switch {
	case !table.HasColumn(models.ColumnTransactionID):
		out = append(out, models.Finding{
			Kind:     models.KindMissingTransactionIDs,
			Severity: models.SeverityInfo,
			Source:   table.Source,
			Field:    models.ColumnTransactionID,
			Summary:  "no transaction id column; entries cannot be balanced individually",
		})
	case coverage < opts.CoverageThreshold:
		out = append(out, models.Finding{
			Kind:     models.KindLowTransactionIDCoverage,
			Severity: models.SeverityInfo,
			Source:   table.Source,
			Field:    models.ColumnTransactionID,
			Summary: fmt.Sprintf("only %.0f%% of rows carry a transaction id (threshold %.0f%%); entries are not balanced individually",
				coverage*100, opts.CoverageThreshold*100),
		})
		if coverage > 0 {
			overallSeverity = models.SeverityInfo
		}
	default:
		overallSeverity = models.SeverityWarning
		groups := groupRows(table, func(r models.LedgerRow) (string, bool) {
			return r.TransactionID, r.TransactionID != ""
		})
		if imbalances, rows := unbalanced(groups, opts); len(imbalances) > 0 {
			keys := make([]string, len(imbalances))
			for i, im := range imbalances {
				keys[i] = im.Key
			}
			summary := fmt.Sprintf("%d transaction(s) do not balance: %s", len(imbalances), joinLimited(keys, 10))
			f := newFinding(table, opts, models.KindTransactionImbalance, models.SeverityCritical, rows, models.RemedyNone, summary)
			f.Field = models.ColumnTransactionID
			f.Imbalances = imbalances
			out = append(out, f)
		}
	}

	all := &balanceGroup{key: "total"}
	for i, r := range table.Rows {
		all.add(i, r)
	}
	if !all.balanced(opts) {
		im := all.imbalance()
		out = append(out, models.Finding{
			Kind:     models.KindOverallImbalance,
			Severity: overallSeverity,
			Source:   table.Source,
			Summary: fmt.Sprintf("total debits %s and credits %s differ by %s",
				im.Debit.StringFixed(2), im.Credit.StringFixed(2), im.Gap.StringFixed(2)),
			Imbalances: []models.Imbalance{im},
		})
	}
	return out
}

func joinLimited(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(items[:limit], ", "), len(items)-limit)
}
