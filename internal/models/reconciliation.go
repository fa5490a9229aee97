package models

import "fmt"

// Reconciliation records what the Auto-Fix Engine changed in one table.
type Reconciliation struct {
	Source        Source         `json:"source"`
	OriginalRows  int            `json:"original_rows"`
	CorrectedRows int            `json:"corrected_rows"`
	Added         int            `json:"added"`
	Removed       int            `json:"removed"`
	Modified      int            `json:"modified"`
	Applied       map[Remedy]int `json:"applied"`
	Changes       []string       `json:"changes,omitempty"`
}

// NewReconciliation starts an empty record for a table of n rows.
func NewReconciliation(source Source, n int) Reconciliation {
	return Reconciliation{
		Source:        source,
		OriginalRows:  n,
		CorrectedRows: n,
		Applied:       map[Remedy]int{},
	}
}

// Changed is the number of rows added, removed or modified.
func (r Reconciliation) Changed() int {
	return r.Added + r.Removed + r.Modified
}

// Record counts rows touched by a remedy and appends a change log line.
func (r *Reconciliation) Record(remedy Remedy, rows int, format string, args ...interface{}) {
	if rows == 0 {
		return
	}
	if r.Applied == nil {
		r.Applied = map[Remedy]int{}
	}
	r.Applied[remedy] += rows
	r.Changes = append(r.Changes, fmt.Sprintf(format, args...))
}
