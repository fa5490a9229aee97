package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column identifies one field of the canonical ledger schema.
type Column int

const (
	ColumnUnknown Column = iota
	ColumnPeriodDate
	ColumnTransactionID
	ColumnAccountNumber
	ColumnAccountName
	ColumnDebit
	ColumnCredit
	ColumnCurrency

	numColumns
)

var columnNames = [numColumns]string{
	"",
	"period_date",
	"transaction_id",
	"account_number",
	"account_name",
	"debit",
	"credit",
	"currency",
}

// CanonicalColumns lists the canonical schema in display order.
var CanonicalColumns = []Column{
	ColumnPeriodDate,
	ColumnTransactionID,
	ColumnAccountNumber,
	ColumnAccountName,
	ColumnDebit,
	ColumnCredit,
	ColumnCurrency,
}

// RequiredColumns must be present after normalization for any workflow.
var RequiredColumns = []Column{
	ColumnAccountNumber,
	ColumnAccountName,
	ColumnDebit,
	ColumnCredit,
	ColumnPeriodDate,
}

func (c Column) String() string {
	if c <= ColumnUnknown || c >= numColumns {
		return "unknown"
	}
	return columnNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Column) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Column) UnmarshalText(text []byte) error {
	*c, _ = ParseColumn(string(text))
	return nil
}

// ParseColumn resolves a canonical column name.
func ParseColumn(name string) (Column, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := ColumnPeriodDate; i < numColumns; i++ {
		if columnNames[i] == name {
			return i, true
		}
	}
	return ColumnUnknown, false
}

// ColumnSet is a small bit set of canonical columns.
type ColumnSet uint16

// Has reports whether c is in the set.
func (s ColumnSet) Has(c Column) bool {
	return s&(1<<uint(c)) != 0
}

// With returns a copy of the set including c.
func (s ColumnSet) With(c Column) ColumnSet {
	return s | 1<<uint(c)
}

// Without returns a copy of the set excluding c.
func (s ColumnSet) Without(c Column) ColumnSet {
	return s &^ (1 << uint(c))
}

// Columns returns the members of the set in canonical order.
func (s ColumnSet) Columns() []Column {
	var out []Column
	for _, c := range CanonicalColumns {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Source tells which kind of export a table came from.
type Source string

const (
	SourceTB Source = "tb"
	SourceGL Source = "gl"
)

// Label returns the human-readable name of the source.
func (s Source) Label() string {
	switch s {
	case SourceTB:
		return "Trial Balance"
	case SourceGL:
		return "General Ledger"
	default:
		return string(s)
	}
}

// RawTable is an uploaded table before normalization: a header row and
// string records in file order.
type RawTable struct {
	Name    string
	Headers []string
	Records [][]string
}

// LedgerRow is one normalized line of input.
//
// Parsed fields hold the typed values; Cells keeps the trimmed source text for
// each canonical column and Invalid marks cells that were present but could
// not be parsed. A row with an invalid debit carries a zero Debit.
type LedgerRow struct {
	Line          int
	PeriodDate    time.Time
	TransactionID string
	AccountNumber int
	AccountName   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Currency      string

	Cells   [numColumns]string
	Invalid ColumnSet
}

// Text returns the source text of a canonical column.
func (r LedgerRow) Text(c Column) string {
	if c <= ColumnUnknown || c >= numColumns {
		return ""
	}
	return r.Cells[c]
}

// HasDate reports whether the row carries a usable period date.
func (r LedgerRow) HasDate() bool {
	return r.Cells[ColumnPeriodDate] != "" && !r.Invalid.Has(ColumnPeriodDate)
}

// HasAccountNumber reports whether the row carries a parseable account number.
func (r LedgerRow) HasAccountNumber() bool {
	return r.Cells[ColumnAccountNumber] != "" && !r.Invalid.Has(ColumnAccountNumber)
}

// IsZero reports whether both sides of the row are zero.
func (r LedgerRow) IsZero() bool {
	return r.Debit.IsZero() && r.Credit.IsZero()
}

// PostedAmount is the absolute value of the larger side of the row.
func (r LedgerRow) PostedAmount() decimal.Decimal {
	d, c := r.Debit.Abs(), r.Credit.Abs()
	if d.GreaterThan(c) {
		return d
	}
	return c
}

// Net returns debit minus credit.
func (r LedgerRow) Net() decimal.Decimal {
	return r.Debit.Sub(r.Credit)
}

// Key identifies the row by its full source text. Two rows with equal keys
// are exact duplicates.
func (r LedgerRow) Key() string {
	return strings.Join(r.Cells[1:], "\x1f")
}

// LedgerTable is an ordered sequence of rows plus the record of which
// canonical columns were present in the header. Tables are never mutated
// after construction; transformations build new tables.
type LedgerTable struct {
	Source  Source
	Name    string
	Columns ColumnSet
	Headers [numColumns]string
	Rows    []LedgerRow
}

// Len returns the number of rows.
func (t *LedgerTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the canonical column was present in the input.
func (t *LedgerTable) HasColumn(c Column) bool {
	return t.Columns.Has(c)
}

// Header returns the original header that was mapped onto c.
func (t *LedgerTable) Header(c Column) string {
	if c <= ColumnUnknown || c >= numColumns {
		return ""
	}
	return t.Headers[c]
}

// MissingColumns returns the required columns absent from the table.
func (t *LedgerTable) MissingColumns() []Column {
	var missing []Column
	for _, c := range RequiredColumns {
		if !t.Columns.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// TransactionIDCoverage is the share of rows with a non-empty transaction id.
func (t *LedgerTable) TransactionIDCoverage() float64 {
	if t.Len() == 0 || !t.Columns.Has(ColumnTransactionID) {
		return 0
	}
	populated := 0
	for _, r := range t.Rows {
		if r.TransactionID != "" {
			populated++
		}
	}
	return float64(populated) / float64(len(t.Rows))
}

// WithRows returns a new table with the same metadata and the given rows.
func (t *LedgerTable) WithRows(rows []LedgerRow) *LedgerTable {
	return &LedgerTable{
		Source:  t.Source,
		Name:    t.Name,
		Columns: t.Columns,
		Headers: t.Headers,
		Rows:    rows,
	}
}

// Clone returns a copy of the table that shares nothing with t.
func (t *LedgerTable) Clone() *LedgerTable {
	rows := make([]LedgerRow, len(t.Rows))
	copy(rows, t.Rows)
	return t.WithRows(rows)
}
