// Package batch runs the pipeline over every ledger export in a directory.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"fjacquet/fin-statements/internal/fileutils"
	"fjacquet/fin-statements/internal/ingest"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/parsererror"
	"fjacquet/fin-statements/internal/pipeline"
	"fjacquet/fin-statements/internal/report"
)

// TableReader reads one input file into a raw table.
type TableReader interface {
	ReadFile(path string) (*models.RawTable, error)
}

// Options controls one batch run.
type Options struct {
	Source models.Source
	Format report.Format
	Run    pipeline.Options
	OutDir string
	Suffix string
}

// FileResult is the outcome for one input file. A blocked file still has a
// report; a failed one has none.
type FileResult struct {
	Input   string
	Output  string
	RunID   string
	Blocked bool
	Err     error
}

// Summary aggregates the outcome of a batch run.
type Summary struct {
	Files     []FileResult
	Processed int
	Blocked   int
	Failed    int
}

// Processor processes directories of exports.
type Processor struct {
	reader    TableReader
	pipeline  *pipeline.Pipeline
	generator *report.Generator
	logger    logging.Logger
}

// NewProcessor creates a new instance of Processor.
func NewProcessor(reader TableReader, p *pipeline.Pipeline, g *report.Generator, logger logging.Logger) *Processor {
	return &Processor{
		reader:    reader,
		pipeline:  p,
		generator: g,
		logger:    logging.OrDefault(logger).WithField(logging.FieldComponent, "batch"),
	}
}

// FindInputs lists the files of dir with a readable extension, sorted by
// name. Subdirectories are not descended.
func FindInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := ingest.DetectFormat(entry.Name()); err != nil {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Run processes every input file of dir. Per-file failures are recorded in
// the summary; only an unreadable directory fails the run.
func (p *Processor) Run(dir string, opts Options) (*Summary, error) {
	if opts.Source != models.SourceTB && opts.Source != models.SourceGL {
		return nil, fmt.Errorf("batch source must be tb or gl, got %q", opts.Source)
	}
	if opts.Suffix == "" {
		opts.Suffix = "statements"
	}

	files, err := FindInputs(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		p.logger.Warn("No supported files found in input directory", logging.F(logging.FieldFile, dir))
		return &Summary{}, nil
	}
	if opts.OutDir != "" {
		if err := fileutils.EnsureDirectoryExists(opts.OutDir); err != nil {
			return nil, err
		}
	}

	started := time.Now()
	p.logger.Info("Found files for processing", logging.F(logging.FieldCount, len(files)))

	summary := &Summary{Files: make([]FileResult, 0, len(files))}
	for _, file := range files {
		fr := p.processFile(file, opts)
		switch {
		case fr.Err != nil:
			summary.Failed++
			p.logger.WithError(fr.Err).Warn("Failed to process file", logging.F(logging.FieldFile, file))
		case fr.Blocked:
			summary.Blocked++
		default:
			summary.Processed++
		}
		summary.Files = append(summary.Files, fr)
	}

	p.logger.Info("Batch processing completed",
		logging.F("processed", summary.Processed),
		logging.F("blocked", summary.Blocked),
		logging.F("failed", summary.Failed),
		logging.F(logging.FieldDuration, time.Since(started).Milliseconds()))
	return summary, nil
}

func (p *Processor) processFile(file string, opts Options) FileResult {
	fr := FileResult{Input: file}

	raw, err := p.reader.ReadFile(file)
	if err != nil {
		fr.Err = err
		return fr
	}

	var in pipeline.Input
	if opts.Source == models.SourceGL {
		in.GL = raw
	} else {
		in.TB = raw
	}

	result, runErr := p.pipeline.Process(in, opts.Run)
	if result == nil {
		fr.Err = runErr
		return fr
	}
	fr.RunID = result.RunID
	if _, blocked := parsererror.IsBlocked(runErr); runErr != nil && !blocked {
		fr.Err = runErr
		return fr
	}
	fr.Blocked = len(result.Blocking) > 0

	data, err := p.generator.GenerateReport(result, opts.Format)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Output = fileutils.OutputPath(opts.OutDir, file, opts.Suffix, opts.Format.Extension())
	if err := fileutils.WriteFile(fr.Output, data, models.PermissionReportFile); err != nil {
		fr.Err = err
		fr.Output = ""
	}
	return fr
}
