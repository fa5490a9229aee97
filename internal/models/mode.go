package models

import (
	"fmt"
	"strings"
)

// InputMode is the combination of tables supplied for a run.
type InputMode string

const (
	ModeTBOnly  InputMode = "tb"
	ModeGLOnly  InputMode = "gl"
	ModeTBAndGL InputMode = "tb+gl"
)

// StatementStatus tells a renderer how far a statement can be trusted.
type StatementStatus string

const (
	StatusComplete    StatementStatus = "complete"
	StatusIncomplete  StatementStatus = "incomplete"
	StatusUnavailable StatementStatus = "unavailable"
)

// CompletenessPolicy declares, for one input mode, which table the statements
// are derived from and the status each statement carries when it can be
// computed at all.
type CompletenessPolicy struct {
	Mode            InputMode
	StatementSource Source
	Validated       []Source
	IncomeStatement StatementStatus
	BalanceSheet    StatementStatus
	CashFlow        StatementStatus
	Note            string
}

var policies = map[InputMode]CompletenessPolicy{
	ModeTBOnly: {
		Mode:            ModeTBOnly,
		StatementSource: SourceTB,
		Validated:       []Source{SourceTB},
		IncomeStatement: StatusComplete,
		BalanceSheet:    StatusComplete,
		CashFlow:        StatusComplete,
	},
	ModeGLOnly: {
		Mode:            ModeGLOnly,
		StatementSource: SourceGL,
		Validated:       []Source{SourceGL},
		IncomeStatement: StatusComplete,
		BalanceSheet:    StatusIncomplete,
		CashFlow:        StatusIncomplete,
		Note:            "balance sheet built from activity only: opening balances are unavailable without a trial balance",
	},
	ModeTBAndGL: {
		Mode:            ModeTBAndGL,
		StatementSource: SourceTB,
		Validated:       []Source{SourceTB, SourceGL},
		IncomeStatement: StatusComplete,
		BalanceSheet:    StatusComplete,
		CashFlow:        StatusComplete,
		Note:            "statements derived from the trial balance; general ledger used for transaction-level checks only",
	},
}

// ModeFor returns the input mode for the supplied tables.
func ModeFor(hasTB, hasGL bool) (InputMode, error) {
	switch {
	case hasTB && hasGL:
		return ModeTBAndGL, nil
	case hasTB:
		return ModeTBOnly, nil
	case hasGL:
		return ModeGLOnly, nil
	default:
		return "", fmt.Errorf("no input table supplied")
	}
}

// ParseInputMode accepts "tb", "gl", "tb+gl" and a few spellings of each.
func ParseInputMode(s string) (InputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tb", "tb-only", "trial_balance", "trial-balance":
		return ModeTBOnly, nil
	case "gl", "gl-only", "general_ledger", "general-ledger":
		return ModeGLOnly, nil
	case "tb+gl", "both", "tb_gl", "tbgl":
		return ModeTBAndGL, nil
	default:
		return "", fmt.Errorf("unknown input mode %q", s)
	}
}

// Policy returns the completeness policy of the mode.
func (m InputMode) Policy() CompletenessPolicy {
	return policies[m]
}

// Valid reports whether m is a known mode.
func (m InputMode) Valid() bool {
	_, ok := policies[m]
	return ok
}
