// Package autofix applies caller-selected remedies to a ledger table. The
// input table is never modified; a corrected copy and a reconciliation of
// the changes are returned.
package autofix

import (
	"sort"
	"strconv"

	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
)

// UnclassifiedAccount is assigned by map_unclassified to rows without a
// usable account number.
const UnclassifiedAccount = 9999

// Engine applies remedies. It holds no per-run state.
type Engine struct {
	logger logging.Logger
}

// New creates an Engine.
func New(logger logging.Logger) *Engine {
	return &Engine{logger: logging.OrDefault(logger)}
}

// run tracks one application over a table. Row indices always refer to the
// original table; rows are only physically removed at the end.
type run struct {
	rows     []models.LedgerRow
	removed  map[int]bool
	modified map[int]bool
	rec      models.Reconciliation
}

// Apply runs every finding whose remedy is enabled in remedies against table.
// Findings for another source and findings without a remedy are ignored.
// Remedy kinds are applied in models.RemedyOrder; within drop_row, zero and
// invalid amount drops come before date drops.
func (e *Engine) Apply(table *models.LedgerTable, findings models.Findings, remedies models.RemedySet) (*models.LedgerTable, models.Reconciliation) {
	r := &run{
		rows:     make([]models.LedgerRow, len(table.Rows)),
		removed:  map[int]bool{},
		modified: map[int]bool{},
		rec:      models.NewReconciliation(table.Source, table.Len()),
	}
	copy(r.rows, table.Rows)

	for _, f := range plan(table.Source, findings, remedies) {
		var n int
		switch f.Remedy {
		case models.RemedyDropDuplicateRows:
			n = r.dropDuplicates(f)
			r.rec.Record(f.Remedy, n, "removed %d duplicate row(s)", n)
		case models.RemedyMakeNonNegative:
			n = r.makeNonNegative(f)
			r.rec.Record(f.Remedy, n, "made %s non-negative on %d row(s)", f.Field, n)
		case models.RemedyMapUnclassified:
			n = r.mapUnclassified(f)
			r.rec.Record(f.Remedy, n, "assigned account %d to %d row(s)", UnclassifiedAccount, n)
		case models.RemedyDropRow:
			n = r.drop(f.Rows)
			r.rec.Record(f.Remedy, n, "removed %d row(s) flagged %s", n, f.Kind)
		}
		if n > 0 {
			e.logger.Debug("Remedy applied",
				logging.F(logging.FieldSource, table.Source),
				logging.F(logging.FieldRemedy, f.Remedy),
				logging.F(logging.FieldKind, f.Kind),
				logging.F(logging.FieldCount, n))
		}
	}

	kept := make([]models.LedgerRow, 0, len(r.rows)-len(r.removed))
	for i, row := range r.rows {
		if !r.removed[i] {
			kept = append(kept, row)
		}
	}
	for i := range r.modified {
		if !r.removed[i] {
			r.rec.Modified++
		}
	}
	r.rec.Removed = len(r.removed)
	r.rec.CorrectedRows = len(kept)

	if r.rec.Changed() > 0 {
		e.logger.Info("Auto-fix applied",
			logging.F(logging.FieldSource, table.Source),
			logging.F("removed", r.rec.Removed),
			logging.F("modified", r.rec.Modified),
			logging.F(logging.FieldRows, r.rec.CorrectedRows))
	}
	return table.WithRows(kept), r.rec
}

// plan selects the applicable findings in application order.
func plan(source models.Source, findings models.Findings, remedies models.RemedySet) models.Findings {
	var selected models.Findings
	for _, f := range findings {
		if f.Source == source && f.Fixable() && remedies.Has(f.Remedy) {
			selected = append(selected, f)
		}
	}
	rank := func(f models.Finding) int {
		for i, r := range models.RemedyOrder {
			if r == f.Remedy {
				pos := i * 2
				if f.Remedy == models.RemedyDropRow && isDateKind(f.Kind) {
					pos++
				}
				return pos
			}
		}
		return len(models.RemedyOrder) * 2
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return rank(selected[i]) < rank(selected[j])
	})
	return selected
}

func isDateKind(kind models.FindingKind) bool {
	return kind == models.KindInvalidDate || kind == models.KindFutureDate
}

func (r *run) valid(idx int) bool {
	return idx >= 0 && idx < len(r.rows) && !r.removed[idx]
}

func (r *run) drop(indices []int) int {
	n := 0
	for _, idx := range indices {
		if r.valid(idx) {
			r.removed[idx] = true
			n++
		}
	}
	return n
}

func (r *run) dropDuplicates(f models.Finding) int {
	if len(f.Groups) == 0 {
		return r.drop(f.Rows)
	}
	n := 0
	for _, group := range f.Groups {
		if len(group) > 1 {
			n += r.drop(group[1:])
		}
	}
	return n
}

func (r *run) makeNonNegative(f models.Finding) int {
	n := 0
	for _, idx := range f.Rows {
		if !r.valid(idx) {
			continue
		}
		row := &r.rows[idx]
		changed := false
		switch f.Field {
		case models.ColumnDebit:
			if row.Debit.IsNegative() {
				row.Debit = row.Debit.Abs()
				row.Cells[models.ColumnDebit] = row.Debit.String()
				changed = true
			}
		case models.ColumnCredit:
			if row.Credit.IsNegative() {
				row.Credit = row.Credit.Abs()
				row.Cells[models.ColumnCredit] = row.Credit.String()
				changed = true
			}
		case models.ColumnAccountNumber:
			if row.AccountNumber < 0 {
				row.AccountNumber = -row.AccountNumber
				row.Cells[models.ColumnAccountNumber] = strconv.Itoa(row.AccountNumber)
				changed = true
			}
		}
		if changed {
			r.modified[idx] = true
			n++
		}
	}
	return n
}

func (r *run) mapUnclassified(f models.Finding) int {
	n := 0
	for _, idx := range f.Rows {
		if !r.valid(idx) {
			continue
		}
		row := &r.rows[idx]
		if row.HasAccountNumber() {
			continue
		}
		row.AccountNumber = UnclassifiedAccount
		row.Cells[models.ColumnAccountNumber] = strconv.Itoa(UnclassifiedAccount)
		row.Invalid = row.Invalid.Without(models.ColumnAccountNumber)
		r.modified[idx] = true
		n++
	}
	return n
}
