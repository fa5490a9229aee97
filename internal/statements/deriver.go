// Package statements derives the income statement, balance sheet and cash
// flow statement from classified ledger rows.
package statements

import (
	"fmt"

	"fjacquet/fin-statements/internal/currencyutils"
	"fjacquet/fin-statements/internal/dateutils"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Options controls period grouping and presentation.
type Options struct {
	Granularity dateutils.Granularity
	// MaxPeriods is the number of most recent periods reported.
	MaxPeriods int
	// UnitScale divides every reported amount, e.g. 1000 for thousands.
	UnitScale decimal.Decimal
}

// DefaultOptions returns yearly periods, three columns and no scaling.
func DefaultOptions() Options {
	return Options{
		Granularity: dateutils.GranularityYear,
		MaxPeriods:  models.DefaultMaxPeriods,
		UnitScale:   decimal.NewFromInt(1),
	}
}

// Deriver builds statements. It holds no per-run state.
type Deriver struct {
	opts   Options
	logger logging.Logger
}

// New creates a Deriver, filling unset options with defaults.
func New(opts Options, logger logging.Logger) *Deriver {
	defaults := DefaultOptions()
	if opts.Granularity == "" {
		opts.Granularity = defaults.Granularity
	}
	if opts.MaxPeriods <= 0 {
		opts.MaxPeriods = defaults.MaxPeriods
	}
	if opts.UnitScale.LessThanOrEqual(decimal.Zero) {
		opts.UnitScale = defaults.UnitScale
	}
	return &Deriver{opts: opts, logger: logging.OrDefault(logger)}
}

// Options returns the effective options.
func (d *Deriver) Options() Options {
	return d.opts
}

// Derive builds the statements for mode from the rows of the mode's
// statement source. It refuses to run while any Critical finding remains,
// returning a *parsererror.BlockedError. Rows without a usable date or line
// item are ignored; when none remain parsererror.ErrNoData is returned.
func (d *Deriver) Derive(mode models.InputMode, rows []models.ClassifiedRow, findings models.Findings) (*models.StatementResult, error) {
	if findings.HasCritical() {
		return nil, &parsererror.BlockedError{Findings: findings.Critical()}
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", parsererror.ErrInvalidMode, mode)
	}
	policy := mode.Policy()

	var all []PeriodAggregate
	if policy.StatementSource == models.SourceGL {
		all = aggregateLedger(rows, d.opts.Granularity)
	} else {
		all = aggregateTrialBalance(rows, d.opts.Granularity)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("deriving statements from %s: %w", policy.StatementSource.Label(), parsererror.ErrNoData)
	}

	// The period before the first retained one stays available as the
	// opening balance of the first cash flow column.
	start := 0
	if len(all) > d.opts.MaxPeriods {
		start = len(all) - d.opts.MaxPeriods
	}
	retained := all[start:]

	result := &models.StatementResult{
		Mode:      mode,
		Source:    policy.StatementSource,
		UnitScale: d.opts.UnitScale,
		UnitLabel: currencyutils.UnitLabel(d.opts.UnitScale),
		Truncated: start > 0,
	}
	for _, p := range all[:start] {
		result.DroppedPeriods = append(result.DroppedPeriods, p.Key)
	}

	var incomes, positions []values
	for _, p := range retained {
		result.Periods = append(result.Periods, p.Key)
		incomes = append(incomes, incomeValues(p.Activity))
		positions = append(positions, balanceValues(p.Position))
	}

	result.IncomeStatement = models.Statement{
		Kind:    models.StatementIncome,
		Status:  policy.IncomeStatement,
		Periods: result.Periods,
		Lines:   assemble(incomeLayout, incomes, d.opts.UnitScale),
	}
	result.BalanceSheet = models.Statement{
		Kind:    models.StatementBalance,
		Status:  policy.BalanceSheet,
		Note:    balanceNote(policy),
		Periods: result.Periods,
		Lines:   assemble(balanceLayout, positions, d.opts.UnitScale),
	}
	result.CashFlow = d.cashFlow(policy, all, start)

	d.logger.Info("Statements derived",
		logging.F(logging.FieldMode, mode),
		logging.F(logging.FieldSource, policy.StatementSource),
		logging.F(logging.FieldPeriod, result.Periods),
		logging.F("truncated", result.Truncated),
		logging.F("cash_flow", result.CashFlow.Status))
	return result, nil
}

func (d *Deriver) cashFlow(policy models.CompletenessPolicy, all []PeriodAggregate, start int) models.Statement {
	st := models.Statement{Kind: models.StatementCashFlow, Status: policy.CashFlow}

	first := start
	if first == 0 {
		first = 1
	}
	var flows []values
	for i := first; i < len(all); i++ {
		st.Periods = append(st.Periods, all[i].Key)
		flows = append(flows, cashFlowValues(all[i-1], all[i]))
	}
	if len(flows) == 0 {
		st.Status = models.StatusUnavailable
		st.Note = "cash flow requires at least two periods"
		st.Periods = []string{}
		return st
	}
	if policy.CashFlow == models.StatusIncomplete {
		st.Note = "changes computed from activity only: opening balances are unavailable without a trial balance"
	}
	st.Lines = assemble(cashFlowLayout, flows, d.opts.UnitScale)
	return st
}

func balanceNote(policy models.CompletenessPolicy) string {
	if policy.BalanceSheet == models.StatusIncomplete {
		return policy.Note
	}
	return ""
}
