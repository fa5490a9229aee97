// Package pipeline runs one complete, synchronous pass over the uploaded
// tables: normalize, validate, fix, re-validate, classify and derive.
package pipeline

import (
	"fmt"
	"time"

	"fjacquet/fin-statements/internal/autofix"
	"fjacquet/fin-statements/internal/classifier"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/normalizer"
	"fjacquet/fin-statements/internal/parsererror"
	"fjacquet/fin-statements/internal/statements"
	"fjacquet/fin-statements/internal/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Input is the set of raw tables of one run. Mode is optional; when set it
// must agree with the supplied tables.
type Input struct {
	TB   *models.RawTable
	GL   *models.RawTable
	Mode models.InputMode
}

// Options are the per-run choices of the caller.
type Options struct {
	Remedies models.RemedySet
	// UnitScale overrides the configured scale when positive.
	UnitScale decimal.Decimal
	// ValidateOnly stops after classification.
	ValidateOnly bool
}

// SourceResult is the outcome for one input table.
type SourceResult struct {
	Source         models.Source               `json:"source"`
	Findings       models.Findings             `json:"findings"`
	Remaining      models.Findings             `json:"remaining"`
	Reconciliation models.Reconciliation       `json:"reconciliation"`
	Classification *models.ClassificationStats `json:"classification,omitempty"`

	Original  *models.LedgerTable    `json:"-"`
	Corrected *models.LedgerTable    `json:"-"`
	Rows      []models.ClassifiedRow `json:"-"`
}

// Result is everything a run produced. It is returned even when statement
// generation is blocked.
type Result struct {
	RunID      string                  `json:"run_id"`
	Mode       models.InputMode        `json:"mode"`
	Sources    []*SourceResult         `json:"sources"`
	Statements *models.StatementResult `json:"statements,omitempty"`
	Blocking   models.Findings         `json:"blocking,omitempty"`

	policy models.CompletenessPolicy
}

// Source returns the result for one table, or nil.
func (r *Result) Source(s models.Source) *SourceResult {
	for _, sr := range r.Sources {
		if sr.Source == s {
			return sr
		}
	}
	return nil
}

// Findings returns the initial findings of every table.
func (r *Result) Findings() models.Findings {
	var out models.Findings
	for _, sr := range r.Sources {
		out = append(out, sr.Findings...)
	}
	return out
}

// Remaining returns the findings left after auto-fix and classification.
func (r *Result) Remaining() models.Findings {
	var out models.Findings
	for _, sr := range r.Sources {
		out = append(out, sr.Remaining...)
	}
	return out
}

// Policy returns the completeness policy of the run's mode.
func (r *Result) Policy() models.CompletenessPolicy {
	return r.policy
}

// Pipeline wires the stages together. Every stage is stateless, so one
// Pipeline serves concurrent runs.
type Pipeline struct {
	normalizer   *normalizer.Normalizer
	validator    *validator.Validator
	fixer        *autofix.Engine
	classifier   *classifier.Classifier
	deriverOpts  statements.Options
	warnUnmapped bool
	logger       logging.Logger
	newID        func() string
}

// New creates a Pipeline from its stages.
func New(n *normalizer.Normalizer, v *validator.Validator, f *autofix.Engine, c *classifier.Classifier,
	deriverOpts statements.Options, warnUnmapped bool, logger logging.Logger) *Pipeline {
	return &Pipeline{
		normalizer:   n,
		validator:    v,
		fixer:        f,
		classifier:   c,
		deriverOpts:  deriverOpts,
		warnUnmapped: warnUnmapped,
		logger:       logging.OrDefault(logger),
		newID:        uuid.NewString,
	}
}

// Process runs the pipeline. Errors in reading the input are returned
// without a result. When Critical findings remain after auto-fix the result
// is returned together with a *parsererror.BlockedError.
func (p *Pipeline) Process(in Input, opts Options) (*Result, error) {
	mode, err := models.ModeFor(in.TB != nil, in.GL != nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", parsererror.ErrInvalidMode, err)
	}
	if in.Mode != "" && in.Mode != mode {
		return nil, fmt.Errorf("%w: declared %s but supplied %s", parsererror.ErrInvalidMode, in.Mode, mode)
	}
	policy := mode.Policy()

	result := &Result{RunID: p.newID(), Mode: mode, policy: policy}
	log := p.logger.WithFields(
		logging.F(logging.FieldRunID, result.RunID),
		logging.F(logging.FieldMode, mode),
	)
	started := time.Now()

	for _, source := range policy.Validated {
		raw := in.TB
		if source == models.SourceGL {
			raw = in.GL
		}
		sr, err := p.processSource(raw, source, opts, source == policy.StatementSource, log)
		if err != nil {
			return nil, err
		}
		result.Sources = append(result.Sources, sr)
	}

	remaining := result.Remaining()
	if opts.ValidateOnly {
		result.Blocking = remaining.Critical()
		log.Info("Validation run complete", logging.F(logging.FieldDuration, time.Since(started).Milliseconds()))
		return result, nil
	}

	deriverOpts := p.deriverOpts
	if opts.UnitScale.GreaterThan(decimal.Zero) {
		deriverOpts.UnitScale = opts.UnitScale
	}
	deriver := statements.New(deriverOpts, log)

	st, err := deriver.Derive(mode, result.Source(policy.StatementSource).Rows, remaining)
	if err != nil {
		if blocked, ok := parsererror.IsBlocked(err); ok {
			result.Blocking = blocked.Findings
			log.Warn("Statement generation blocked", logging.F(logging.FieldCount, len(blocked.Findings)))
		}
		return result, err
	}
	result.Statements = st

	log.Info("Run complete",
		logging.F(logging.FieldPeriod, st.Periods),
		logging.F(logging.FieldDuration, time.Since(started).Milliseconds()))
	return result, nil
}

func (p *Pipeline) processSource(raw *models.RawTable, source models.Source, opts Options, classify bool, log logging.Logger) (*SourceResult, error) {
	log = log.WithField(logging.FieldSource, source)

	table, err := p.normalizer.Normalize(raw, source)
	if err != nil {
		return nil, fmt.Errorf("normalizing %s: %w", source.Label(), err)
	}
	sr := &SourceResult{Source: source, Original: table}

	sr.Findings = p.validator.Validate(table)
	sr.Corrected, sr.Reconciliation = p.fixer.Apply(table, sr.Findings, opts.Remedies)
	if sr.Reconciliation.Changed() > 0 {
		sr.Remaining = p.validator.Validate(sr.Corrected)
	} else {
		sr.Remaining = sr.Findings
	}

	if classify {
		sr.Rows, sr.Classification = p.classifier.ClassifyTable(sr.Corrected)
		if p.warnUnmapped && sr.Classification.Unmapped > 0 {
			warning := unmappedFinding(source, sr.Rows, len(sr.Classification.UnmappedAccounts))
			sr.Remaining = append(append(models.Findings(nil), sr.Remaining...), warning)
		}
	}

	log.Info("Table processed",
		logging.F(logging.FieldRows, table.Len()),
		logging.F("findings", len(sr.Findings)),
		logging.F("remaining", len(sr.Remaining)),
		logging.F("changed", sr.Reconciliation.Changed()))
	return sr, nil
}

const unmappedSampleSize = 10

func unmappedFinding(source models.Source, rows []models.ClassifiedRow, accounts int) models.Finding {
	f := models.Finding{
		Kind:     models.KindUnmappedAccount,
		Severity: models.SeverityWarning,
		Source:   source,
		Field:    models.ColumnAccountNumber,
	}
	for i, r := range rows {
		if r.LineItem != models.LineItemUnmapped {
			continue
		}
		f.Rows = append(f.Rows, i)
		if len(f.Sample) < unmappedSampleSize {
			f.Sample = append(f.Sample, models.SampleOf(r.LedgerRow))
		}
	}
	f.Summary = fmt.Sprintf("%d row(s) in %d account(s) match no classification rule and are excluded from the statements",
		len(f.Rows), accounts)
	return f
}
