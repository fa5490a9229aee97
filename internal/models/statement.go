package models

import "github.com/shopspring/decimal"

// StatementKind names one of the three financial statements.
type StatementKind string

const (
	StatementIncome   StatementKind = "income_statement"
	StatementBalance  StatementKind = "balance_sheet"
	StatementCashFlow StatementKind = "cash_flow"
)

// Derived statement lines. Plain line item lines use the LineItem value as key.
const (
	LineGrossProfit              = "gross_profit"
	LineTotalOperatingExpenses   = "total_operating_expenses"
	LineOperatingIncome          = "operating_income"
	LinePreTaxIncome             = "pretax_income"
	LineNetIncome                = "net_income"
	LineTotalCurrentAssets       = "total_current_assets"
	LineTotalAssets              = "total_assets"
	LineTotalCurrentLiabilities  = "total_current_liabilities"
	LineTotalLiabilities         = "total_liabilities"
	LineCurrentPeriodEarnings    = "current_period_earnings"
	LineTotalEquity              = "total_equity"
	LineTotalLiabilitiesEquity   = "total_liabilities_and_equity"
	LineBalanceCheck             = "balance_check"
	LineDepreciation             = "depreciation"
	LineCashFromOperations       = "cash_from_operations"
	LineCapitalExpenditure       = "capital_expenditure"
	LineOtherInvesting           = "other_investing"
	LineCashFromInvesting        = "cash_from_investing"
	LineChangeInDebt             = "change_in_debt"
	LineStockIssuance            = "stock_issuance"
	LineDividendsPaid            = "dividends_paid"
	LineCashFromFinancing        = "cash_from_financing"
	LineNetChangeInCash          = "net_change_in_cash"
	LineChangeInCashBalanceSheet = "change_in_cash_per_balance_sheet"
	LineCashReconciliation       = "cash_reconciliation_difference"
)

// ChangeLine is the cash flow key for the working-capital change of an item.
func ChangeLine(li LineItem) string {
	return "change_" + string(li)
}

// StatementLine is one row of a statement with a value per period.
type StatementLine struct {
	Key      string            `json:"key"`
	Label    string            `json:"label"`
	Values   []decimal.Decimal `json:"values"`
	Subtotal bool              `json:"subtotal,omitempty"`
}

// Statement is one financial statement. Values of every line are aligned
// with Periods, oldest first.
type Statement struct {
	Kind    StatementKind   `json:"kind"`
	Status  StatementStatus `json:"status"`
	Note    string          `json:"note,omitempty"`
	Periods []string        `json:"periods"`
	Lines   []StatementLine `json:"lines"`
}

// Line looks up a line by key.
func (s *Statement) Line(key string) (StatementLine, bool) {
	for _, l := range s.Lines {
		if l.Key == key {
			return l, true
		}
	}
	return StatementLine{}, false
}

// Value returns the value of a line for one period.
func (s *Statement) Value(key, period string) (decimal.Decimal, bool) {
	line, ok := s.Line(key)
	if !ok {
		return decimal.Zero, false
	}
	for i, p := range s.Periods {
		if p == period && i < len(line.Values) {
			return line.Values[i], true
		}
	}
	return decimal.Zero, false
}

// Available reports whether the statement has any values.
func (s *Statement) Available() bool {
	return s.Status != StatusUnavailable && len(s.Periods) > 0
}

// StatementResult holds the three statements and their metadata.
type StatementResult struct {
	Mode            InputMode       `json:"mode"`
	Source          Source          `json:"source"`
	Periods         []string        `json:"periods"`
	Truncated       bool            `json:"truncated"`
	DroppedPeriods  []string        `json:"dropped_periods,omitempty"`
	UnitScale       decimal.Decimal `json:"unit_scale"`
	UnitLabel       string          `json:"unit_label"`
	IncomeStatement Statement       `json:"income_statement"`
	BalanceSheet    Statement       `json:"balance_sheet"`
	CashFlow        Statement       `json:"cash_flow"`
}

// Statements returns the three statements in presentation order.
func (r *StatementResult) Statements() []*Statement {
	return []*Statement{&r.IncomeStatement, &r.BalanceSheet, &r.CashFlow}
}
