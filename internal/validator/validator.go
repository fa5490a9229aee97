// Package validator runs the integrity checks over a normalized ledger table
// and reports findings. Validation never fails: every check runs and all
// findings are collected.
package validator

import (
	"time"

	"fjacquet/fin-statements/internal/currencyutils"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"

	"github.com/shopspring/decimal"
)

// Options tunes the checks.
type Options struct {
	ReportingCurrency string
	// Balance tolerance: a difference passes when it is within ToleranceAbs
	// or within ToleranceRel times the larger side.
	ToleranceAbs decimal.Decimal
	ToleranceRel decimal.Decimal
	// CoverageThreshold is the transaction id fill ratio from which GL
	// transactions are balanced individually.
	CoverageThreshold float64
	// OutlierSigma flags posted amounts above mean + OutlierSigma * stddev.
	// Zero disables the check.
	OutlierSigma     float64
	MaxAccountNumber int
	SampleSize       int
	// Now is the reference for the future date check. Zero means time.Now.
	Now time.Time
}

// DefaultOptions returns the defaults used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ReportingCurrency: "USD",
		ToleranceAbs:      decimal.RequireFromString("0.01"),
		ToleranceRel:      decimal.RequireFromString("0.0001"),
		CoverageThreshold: 0.5,
		OutlierSigma:      3,
		MaxAccountNumber:  99999,
		SampleSize:        10,
	}
}

// Check is one independent integrity check.
type Check interface {
	Name() string
	Run(table *models.LedgerTable, opts Options) []models.Finding
}

type checkFunc struct {
	name string
	run  func(*models.LedgerTable, Options) []models.Finding
}

func (c checkFunc) Name() string { return c.name }

func (c checkFunc) Run(table *models.LedgerTable, opts Options) []models.Finding {
	return c.run(table, opts)
}

// NewCheck wraps a function as a Check.
func NewCheck(name string, run func(*models.LedgerTable, Options) []models.Finding) Check {
	return checkFunc{name: name, run: run}
}

// DefaultChecks returns the standard battery in reporting order.
func DefaultChecks() []Check {
	return []Check{
		NewCheck("required_columns", checkRequiredColumns),
		NewCheck("dates", checkDates),
		NewCheck("account_numbers", checkAccountNumbers),
		NewCheck("amounts", checkAmounts),
		NewCheck("signs", checkSigns),
		NewCheck("mutual_exclusivity", checkMutualExclusivity),
		NewCheck("zero_rows", checkZeroRows),
		NewCheck("currency", checkCurrency),
		NewCheck("duplicates", checkDuplicates),
		NewCheck("period_balance", checkPeriodBalance),
		NewCheck("transaction_balance", checkTransactionBalance),
		NewCheck("outliers", checkOutliers),
	}
}

// Validator runs a fixed battery of checks. It is stateless and safe for
// concurrent use.
type Validator struct {
	checks []Check
	opts   Options
	logger logging.Logger
}

// New creates a Validator with the default checks.
func New(opts Options, logger logging.Logger) *Validator {
	return NewWithChecks(opts, DefaultChecks(), logger)
}

// NewWithChecks creates a Validator running the given checks in order.
func NewWithChecks(opts Options, checks []Check, logger logging.Logger) *Validator {
	defaults := DefaultOptions()
	if opts.ReportingCurrency == "" {
		opts.ReportingCurrency = defaults.ReportingCurrency
	}
	opts.ReportingCurrency = currencyutils.NormalizeCode(opts.ReportingCurrency)
	if opts.CoverageThreshold <= 0 || opts.CoverageThreshold > 1 {
		opts.CoverageThreshold = defaults.CoverageThreshold
	}
	if opts.MaxAccountNumber <= 0 {
		opts.MaxAccountNumber = defaults.MaxAccountNumber
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = defaults.SampleSize
	}
	return &Validator{checks: checks, opts: opts, logger: logging.OrDefault(logger)}
}

// Options returns the effective options.
func (v *Validator) Options() Options {
	return v.opts
}

// Validate runs every check against table. The table's Source decides
// whether trial balance or general ledger rules apply.
func (v *Validator) Validate(table *models.LedgerTable) models.Findings {
	opts := v.opts
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	log := v.logger.WithFields(
		logging.F(logging.FieldSource, table.Source),
		logging.F(logging.FieldRows, table.Len()),
	)

	var findings models.Findings
	for _, check := range v.checks {
		found := check.Run(table, opts)
		for _, f := range found {
			log.Debug("Finding",
				logging.F(logging.FieldOperation, check.Name()),
				logging.F(logging.FieldKind, f.Kind),
				logging.F(logging.FieldSeverity, f.Severity.String()),
				logging.F(logging.FieldCount, len(f.Rows)))
		}
		findings = append(findings, found...)
	}

	counts := findings.Counts()
	log.Info("Validation complete",
		logging.F("critical", counts[models.SeverityCritical]),
		logging.F("warning", counts[models.SeverityWarning]),
		logging.F("info", counts[models.SeverityInfo]))
	return findings
}
