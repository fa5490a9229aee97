// Package container provides dependency injection for the fin-statements
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"
	"sort"

	"fjacquet/fin-statements/internal/autofix"
	"fjacquet/fin-statements/internal/classifier"
	"fjacquet/fin-statements/internal/config"
	"fjacquet/fin-statements/internal/ingest"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/normalizer"
	"fjacquet/fin-statements/internal/pipeline"
	"fjacquet/fin-statements/internal/report"
	"fjacquet/fin-statements/internal/statements"
	"fjacquet/fin-statements/internal/store"
	"fjacquet/fin-statements/internal/validator"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies and provides methods to access them.
// It acts as the central registry for dependency injection, ensuring that all
// components receive their required dependencies through constructors.
//
// Container is immutable after creation. Every component it holds is
// stateless per run, so one Container serves concurrent requests.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      *store.RuleStore
	rules      *models.ClassificationRules
	reader     *ingest.Reader
	normalizer *normalizer.Normalizer
	validator  *validator.Validator
	fixer      *autofix.Engine
	classifier *classifier.Classifier
	pipeline   *pipeline.Pipeline
	report     *report.Generator
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)
	ruleStore := store.NewRuleStore(cfg.Classification.RulesFile, logger)
	ruleStore.Precedence = cfg.Classification.Precedence
	return NewContainerWithLoader(cfg, logger, ruleStore)
}

// NewContainerWithLoader wires the dependencies around rules supplied by
// loader. The rule store used to export rules still follows cfg.
func NewContainerWithLoader(cfg *config.Config, logger logging.Logger, loader store.RuleLoader) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	ruleStore, ok := loader.(*store.RuleStore)
	if !ok {
		ruleStore = store.NewRuleStore(cfg.Classification.RulesFile, logger)
	}
	rules, err := loader.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load classification rules: %w", err)
	}

	synonyms, err := synonymsFrom(rules.Synonyms)
	if err != nil {
		return nil, err
	}

	cls, err := classifier.New(rules, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	norm := normalizer.New(normalizer.DefaultSynonyms().Merge(synonyms), cfg.Reporting.Currency, logger)
	val := validator.New(validatorOptions(cfg), logger)
	fixer := autofix.New(logger)

	deriverOpts := statements.Options{
		Granularity: cfg.Granularity(),
		MaxPeriods:  cfg.Reporting.MaxPeriods,
		UnitScale:   cfg.UnitScale(),
	}
	pipe := pipeline.New(norm, val, fixer, cls, deriverOpts, cfg.Classification.WarnUnmapped, logger)

	logger.Info("Container initialized successfully",
		logging.F("strategies", cls.Strategies()),
		logging.F("currency", cfg.Reporting.Currency),
		logging.F(logging.FieldPeriod, cfg.Reporting.Period))

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      ruleStore,
		rules:      rules,
		reader:     ingest.NewReader(cfg.Delimiter(), cfg.Input.Sheet, logger),
		normalizer: norm,
		validator:  val,
		fixer:      fixer,
		classifier: cls,
		pipeline:   pipe,
		report:     report.NewGenerator(cfg.Delimiter(), logger),
	}, nil
}

func validatorOptions(cfg *config.Config) validator.Options {
	opts := validator.DefaultOptions()
	opts.ReportingCurrency = cfg.Reporting.Currency
	opts.ToleranceAbs = decimal.NewFromFloat(cfg.Validation.ToleranceAbs)
	opts.ToleranceRel = decimal.NewFromFloat(cfg.Validation.ToleranceRel)
	opts.CoverageThreshold = cfg.Validation.TxnCoverageThreshold
	opts.OutlierSigma = cfg.Validation.OutlierSigma
	opts.SampleSize = cfg.Validation.SampleSize
	return opts
}

// synonymsFrom converts the rules file synonym block, keyed by canonical
// column name, into a normalizer table.
func synonymsFrom(raw map[string][]string) (normalizer.Synonyms, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(normalizer.Synonyms, len(raw))
	for _, name := range names {
		col, ok := models.ParseColumn(name)
		if !ok {
			return nil, fmt.Errorf("synonyms: unknown column %q", name)
		}
		out[col] = append(out[col], raw[name]...)
	}
	return out, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the classification rule store.
func (c *Container) GetStore() *store.RuleStore {
	return c.store
}

// GetRules returns the classification rules in effect.
func (c *Container) GetRules() *models.ClassificationRules {
	return c.rules
}

// GetReader returns the input file reader.
func (c *Container) GetReader() *ingest.Reader {
	return c.reader
}

// GetNormalizer returns the column normalizer.
func (c *Container) GetNormalizer() *normalizer.Normalizer {
	return c.normalizer
}

// GetValidator returns the integrity validator.
func (c *Container) GetValidator() *validator.Validator {
	return c.validator
}

// GetClassifier returns the account classifier.
func (c *Container) GetClassifier() *classifier.Classifier {
	return c.classifier
}

// GetPipeline returns the processing pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.report
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
