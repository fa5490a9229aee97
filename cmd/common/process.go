// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/fin-statements/internal/fileutils"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/pipeline"

	"github.com/shopspring/decimal"
)

// TableReader reads one input file into a raw table.
type TableReader interface {
	ReadFile(path string) (*models.RawTable, error)
}

// InputFiles names the files of one run. Mode is optional; when set it must
// agree with the files given.
type InputFiles struct {
	TB   string
	GL   string
	Mode string
}

// Primary returns the file that names the outputs of the run.
func (f InputFiles) Primary() string {
	if f.TB != "" {
		return f.TB
	}
	return f.GL
}

// ReadInputs reads the trial balance and general ledger files that are set.
func ReadInputs(r TableReader, files InputFiles, log logging.Logger) (pipeline.Input, error) {
	var (
		in  pipeline.Input
		err error
	)
	if files.TB == "" && files.GL == "" {
		return in, fmt.Errorf("at least one of --tb or --gl is required")
	}

	if files.TB != "" {
		log.Info("Reading trial balance", logging.F(logging.FieldFile, files.TB))
		if in.TB, err = r.ReadFile(files.TB); err != nil {
			return in, fmt.Errorf("reading trial balance: %w", err)
		}
	}
	if files.GL != "" {
		log.Info("Reading general ledger", logging.F(logging.FieldFile, files.GL))
		if in.GL, err = r.ReadFile(files.GL); err != nil {
			return in, fmt.Errorf("reading general ledger: %w", err)
		}
	}

	if files.Mode != "" {
		if in.Mode, err = models.ParseInputMode(files.Mode); err != nil {
			return in, err
		}
	}
	return in, nil
}

// RunOptions builds the pipeline options from command flags. A nil remedies
// slice selects the fallback; "none" selects no remedy.
func RunOptions(remedies []string, scale string, fallback models.RemedySet) (pipeline.Options, error) {
	var (
		opts pipeline.Options
		err  error
	)

	switch {
	case remedies == nil:
		opts.Remedies = fallback
	case len(remedies) == 1 && strings.EqualFold(strings.TrimSpace(remedies[0]), "none"):
		opts.Remedies = models.RemedySet{}
	default:
		if opts.Remedies, err = models.ParseRemedySet(remedies); err != nil {
			return opts, err
		}
	}

	if scale = strings.TrimSpace(scale); scale != "" {
		opts.UnitScale, err = decimal.NewFromString(scale)
		if err != nil || !opts.UnitScale.IsPositive() {
			return opts, fmt.Errorf("--scale must be a positive number, got %q", scale)
		}
	}
	return opts, nil
}

// OutputPath picks the destination of a rendered report. An explicit output
// file wins; an output directory derives the name from the input file; an
// empty result means standard output.
func OutputPath(output, outputDir, input, suffix, ext string) string {
	switch {
	case output != "":
		return output
	case outputDir != "":
		return fileutils.OutputPath(outputDir, input, suffix, ext)
	default:
		return ""
	}
}

// WriteOutput writes data to path, or to stdout when path is empty or "-".
func WriteOutput(stdout io.Writer, data []byte, path string, log logging.Logger) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := fileutils.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Info("Report written", logging.F(logging.FieldFile, path))
	return nil
}
