package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Severity ranks a finding. Critical findings block statement generation.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "critical":
		*s = SeverityCritical
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", string(text))
	}
	return nil
}

// FindingKind enumerates the validation checks.
type FindingKind string

const (
	KindEmptyTable               FindingKind = "empty_table"
	KindMissingRequiredColumn    FindingKind = "missing_required_column"
	KindInvalidDate              FindingKind = "invalid_date"
	KindFutureDate               FindingKind = "future_date"
	KindMissingAccountNumber     FindingKind = "missing_account_number"
	KindNegativeAccountNumber    FindingKind = "negative_account_number"
	KindAccountNumberOutOfRange  FindingKind = "account_number_out_of_range"
	KindInvalidAmount            FindingKind = "invalid_amount"
	KindNegativeAmount           FindingKind = "negative_amount"
	KindBothSidesPosted          FindingKind = "both_sides_posted"
	KindZeroRow                  FindingKind = "zero_row"
	KindNonReportingCurrency     FindingKind = "non_reporting_currency"
	KindDuplicateRows            FindingKind = "duplicate_rows"
	KindPeriodImbalance          FindingKind = "period_imbalance"
	KindTransactionImbalance     FindingKind = "transaction_imbalance"
	KindOverallImbalance         FindingKind = "overall_imbalance"
	KindMissingTransactionIDs    FindingKind = "missing_transaction_id_column"
	KindLowTransactionIDCoverage FindingKind = "low_transaction_id_coverage"
	KindAmountOutlier            FindingKind = "amount_outlier"
	KindUnmappedAccount          FindingKind = "unmapped_account"
)

// Remedy names an automated fix the Auto-Fix Engine knows how to apply.
type Remedy string

const (
	RemedyNone              Remedy = ""
	RemedyDropDuplicateRows Remedy = "drop_duplicate_rows"
	RemedyMakeNonNegative   Remedy = "make_nonnegative"
	RemedyMapUnclassified   Remedy = "map_unclassified"
	RemedyDropRow           Remedy = "drop_row"
)

// RemedyOrder is the fixed order in which remedy kinds are applied.
var RemedyOrder = []Remedy{
	RemedyDropDuplicateRows,
	RemedyMakeNonNegative,
	RemedyMapUnclassified,
	RemedyDropRow,
}

// ParseRemedy validates a remedy name.
func ParseRemedy(name string) (Remedy, error) {
	r := Remedy(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range RemedyOrder {
		if r == known {
			return r, nil
		}
	}
	return RemedyNone, fmt.Errorf("unknown remedy %q", name)
}

// RemedySet is the caller's selection of enabled remedy kinds.
type RemedySet map[Remedy]bool

// NewRemedySet builds a set from the given remedies.
func NewRemedySet(remedies ...Remedy) RemedySet {
	s := make(RemedySet, len(remedies))
	for _, r := range remedies {
		if r != RemedyNone {
			s[r] = true
		}
	}
	return s
}

// ParseRemedySet parses names such as "drop_row,make_nonnegative". The
// special name "all" enables every remedy.
func ParseRemedySet(names []string) (RemedySet, error) {
	s := RemedySet{}
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if strings.EqualFold(name, "all") {
				return NewRemedySet(RemedyOrder...), nil
			}
			r, err := ParseRemedy(name)
			if err != nil {
				return nil, err
			}
			s[r] = true
		}
	}
	return s, nil
}

// Has reports whether r is enabled.
func (s RemedySet) Has(r Remedy) bool {
	return s[r]
}

// List returns the enabled remedies in application order.
func (s RemedySet) List() []Remedy {
	var out []Remedy
	for _, r := range RemedyOrder {
		if s[r] {
			out = append(out, r)
		}
	}
	return out
}

// Imbalance reports a debit/credit mismatch for one group of rows.
// Difference is signed, debit minus credit, so a negative value means
// credits exceed debits. Gap is its absolute value.
type Imbalance struct {
	Key        string          `json:"key"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Difference decimal.Decimal `json:"difference"`
	Gap        decimal.Decimal `json:"gap"`
}

// SampleRow is a preview of an affected row for user review.
type SampleRow struct {
	Line          int    `json:"line"`
	PeriodDate    string `json:"period_date,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	Debit         string `json:"debit,omitempty"`
	Credit        string `json:"credit,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// SampleOf builds the preview of a row from its source text.
func SampleOf(r LedgerRow) SampleRow {
	return SampleRow{
		Line:          r.Line,
		PeriodDate:    r.Text(ColumnPeriodDate),
		TransactionID: r.Text(ColumnTransactionID),
		AccountNumber: r.Text(ColumnAccountNumber),
		AccountName:   r.Text(ColumnAccountName),
		Debit:         r.Text(ColumnDebit),
		Credit:        r.Text(ColumnCredit),
		Currency:      r.Text(ColumnCurrency),
	}
}

// Finding is one read-only validation result. Rows holds indices into the
// validated table's Rows; Groups is used by duplicate findings where the first
// index of each group is the occurrence that survives.
type Finding struct {
	Kind       FindingKind `json:"kind"`
	Severity   Severity    `json:"severity"`
	Source     Source      `json:"source"`
	Field      Column      `json:"field,omitempty"`
	Rows       []int       `json:"rows,omitempty"`
	Groups     [][]int     `json:"groups,omitempty"`
	Remedy     Remedy      `json:"remedy,omitempty"`
	Summary    string      `json:"summary"`
	Sample     []SampleRow `json:"sample,omitempty"`
	Imbalances []Imbalance `json:"imbalances,omitempty"`
}

// IsBlocking reports whether the finding blocks statement generation.
func (f Finding) IsBlocking() bool {
	return f.Severity == SeverityCritical
}

// Fixable reports whether the finding offers an automated remedy.
func (f Finding) Fixable() bool {
	return f.Remedy != RemedyNone
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s/%s: %s", f.Severity, f.Source, f.Kind, f.Summary)
}

// Findings is an ordered list of findings.
type Findings []Finding

// Critical returns the blocking findings.
func (fs Findings) Critical() Findings {
	return fs.BySeverity(SeverityCritical)
}

// BySeverity returns the findings with the given severity.
func (fs Findings) BySeverity(sev Severity) Findings {
	var out Findings
	for _, f := range fs {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// ByKind returns the findings of the given kind.
func (fs Findings) ByKind(kind FindingKind) Findings {
	var out Findings
	for _, f := range fs {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// HasCritical reports whether any finding is blocking.
func (fs Findings) HasCritical() bool {
	for _, f := range fs {
		if f.IsBlocking() {
			return true
		}
	}
	return false
}

// Counts returns the number of findings per severity.
func (fs Findings) Counts() map[Severity]int {
	counts := map[Severity]int{}
	for _, f := range fs {
		counts[f.Severity]++
	}
	return counts
}

// Sorted returns a copy ordered by descending severity, keeping check order
// within a severity.
func (fs Findings) Sorted() Findings {
	out := make(Findings, len(fs))
	copy(out, fs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity > out[j].Severity
	})
	return out
}
