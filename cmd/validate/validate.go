// Package validate handles the validation-only command
package validate

import (
	"bytes"
	"fmt"

	"fjacquet/fin-statements/cmd/common"
	"fjacquet/fin-statements/cmd/root"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/pipeline"
	"fjacquet/fin-statements/internal/report"

	"github.com/spf13/cobra"
)

var (
	files    common.InputFiles
	remedies []string
	format   string
	output   string
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Check ledger exports without deriving statements",
	Long: `Run the integrity checks and the selected remedies on a trial balance and/or
general ledger export and report the findings. The command exits with an error
when critical findings remain.

Example:
  fin-statements validate --tb tb_2023.csv
  fin-statements validate --gl gl.csv --format csv -o findings.csv`,
	RunE: validateFunc,
}

func init() {
	Cmd.Flags().StringVar(&files.TB, "tb", "", "Trial balance file (csv, tsv or xlsx)")
	Cmd.Flags().StringVar(&files.GL, "gl", "", "General ledger file (csv, tsv or xlsx)")
	Cmd.Flags().StringVar(&files.Mode, "mode", "", "Declared input mode (tb, gl, tb+gl); inferred when empty")
	Cmd.Flags().StringSliceVar(&remedies, "remedies", nil, "Remedies to apply before the remaining findings are reported")
	Cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "Output format (json, csv, text); csv lists the remaining findings")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
}

func validateFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application is not initialized")
	}
	log := c.GetLogger()
	log.Info("Validate command called")

	input, err := common.ReadInputs(c.GetReader(), files, log)
	if err != nil {
		return err
	}

	var selected []string
	if cmd.Flags().Changed("remedies") {
		selected = remedies
	}
	opts, err := common.RunOptions(selected, "", c.GetConfig().Remedies())
	if err != nil {
		return err
	}
	opts.ValidateOnly = true

	result, err := c.GetPipeline().Process(input, opts)
	if err != nil {
		return err
	}

	data, err := render(c.GetReportGenerator(), result, format)
	if err != nil {
		return err
	}
	if err := common.WriteOutput(cmd.OutOrStdout(), data, output, log); err != nil {
		return err
	}

	if n := len(result.Blocking); n > 0 {
		log.Warn("Validation failed", logging.F(logging.FieldCount, n))
		return fmt.Errorf("%d critical finding(s) must be corrected at the source", n)
	}
	log.Info("Validation passed")
	return nil
}

func render(g *report.Generator, result *pipeline.Result, name string) ([]byte, error) {
	f, err := report.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	if f != report.FormatCSV {
		return g.GenerateReport(result, f)
	}
	var buf bytes.Buffer
	if err := g.WriteFindingsCSV(&buf, result.Remaining()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
