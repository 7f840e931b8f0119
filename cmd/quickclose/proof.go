package main

import (
	"quickclose-report/internal/detect"
	"quickclose-report/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newProofCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proof",
		Short: "Extract the quick-close trades of given logins from a report",
		Long: `proof reads the "Filtered Trades" sheet of a report produced by "run",
keeps the quick-close trades of the listed logins and writes them with
readable column names to a single-sheet workbook.`,
		Args: cobra.NoArgs,
		RunE: runProof,
	}

	f := cmd.Flags()
	f.StringP("input", "i", "", "report workbook to read")
	f.String("input-sheet", "", "sheet holding the filtered trades")
	f.StringP("output", "o", "", "workbook to write")
	f.String("output-sheet", "", "name of the written sheet")
	f.StringSlice("logins", nil, "logins to keep")
	f.Duration("threshold", 0, "longest trade duration counted as a quick close")
	return cmd
}

func runProof(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, map[string]string{
		"proof.input":         "input",
		"proof.input_sheet":   "input-sheet",
		"proof.output":        "output",
		"proof.output_sheet":  "output-sheet",
		"proof.logins":        "logins",
		"detection.threshold": "threshold",
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := cfg.ValidateProof(); err != nil {
		return err
	}

	p := report.NewProofProjection(cfg.Proof.Logins, detect.NewClassifier(cfg.Detection.Threshold))
	n, err := p.Run(cfg.Proof.Input, cfg.Proof.InputSheet, cfg.Proof.Output, cfg.Proof.OutputSheet)
	if err != nil {
		log.Error("Failed to build proof report", zap.Error(err))
		return err
	}

	log.Info("Filtered trades with necessary columns have been saved",
		zap.String("output", cfg.Proof.Output),
		zap.Int("trades", n),
		zap.Int64s("logins", cfg.Proof.Logins))
	return nil
}
