// Package batch handles batch processing of files
package batch

import (
	"fmt"

	"fjacquet/fin-statements/cmd/common"
	"fjacquet/fin-statements/cmd/root"
	"fjacquet/fin-statements/internal/batch"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/report"

	"github.com/spf13/cobra"
)

var (
	inputDir  string
	outputDir string
	source    string
	format    string
	remedies  []string
	scale     string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Process every ledger export in a directory",
	Long: `Process every csv, tsv and xlsx file of an input directory independently
and write one report per file.

Files whose statements are blocked still get a report listing the findings.
The command fails when any file could not be processed at all.

Example:
  fin-statements batch -i exports/ -o reports/ --format text`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Input directory")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: the input directory)")
	Cmd.Flags().StringVar(&source, "source", string(models.SourceTB), "Kind of export in the directory (tb, gl)")
	Cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatJSON), "Output format (json, csv, text)")
	Cmd.Flags().StringSliceVar(&remedies, "remedies", nil, "Remedies to apply to every file")
	Cmd.Flags().StringVar(&scale, "scale", "", "Divide every reported value by this unit, e.g. 1000")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application is not initialized")
	}
	log := c.GetLogger()
	log.Info("Batch command called",
		logging.F("input_dir", inputDir),
		logging.F("output_dir", outputDir))

	if inputDir == "" {
		return fmt.Errorf("input directory must be specified")
	}

	outFormat, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	var selected []string
	if cmd.Flags().Changed("remedies") {
		selected = remedies
	}
	runOpts, err := common.RunOptions(selected, scale, c.GetConfig().Remedies())
	if err != nil {
		return err
	}

	processor := batch.NewProcessor(c.GetReader(), c.GetPipeline(), c.GetReportGenerator(), log)
	summary, err := processor.Run(inputDir, batch.Options{
		Source: models.Source(source),
		Format: outFormat,
		Run:    runOpts,
		OutDir: outputDir,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, fr := range summary.Files {
		switch {
		case fr.Err != nil:
			fmt.Fprintf(out, "FAILED   %s: %v\n", fr.Input, fr.Err)
		case fr.Blocked:
			fmt.Fprintf(out, "BLOCKED  %s -> %s\n", fr.Input, fr.Output)
		default:
			fmt.Fprintf(out, "OK       %s -> %s\n", fr.Input, fr.Output)
		}
	}
	fmt.Fprintf(out, "%d processed, %d blocked, %d failed\n", summary.Processed, summary.Blocked, summary.Failed)

	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) could not be processed", summary.Failed)
	}
	return nil
}
