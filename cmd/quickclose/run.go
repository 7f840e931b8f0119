package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"quickclose-report/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the quick-close report for a time window",
		Args:  cobra.NoArgs,
		RunE:  runReport,
	}

	f := cmd.Flags()
	f.String("start", "", `window start, "YYYY-MM-DD HH:MM:SS"`)
	f.String("end", "", `window end (inclusive), "YYYY-MM-DD HH:MM:SS"`)
	f.String("timezone", "", "timezone of --start and --end")
	f.Duration("threshold", 0, "longest trade duration counted as a quick close")
	f.StringP("output", "o", "", "report file to write")
	f.String("source", "", "record source: database or api")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, map[string]string{
		"window.start":        "start",
		"window.end":          "end",
		"window.timezone":     "timezone",
		"detection.threshold": "threshold",
		"report.output":       "output",
		"source.kind":         "source",
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := cfg.ValidateRun(); err != nil {
		log.Error("Invalid run configuration", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Execute(ctx, cfg, log)
	if err != nil {
		log.Error("An error occurred", zap.Error(err), zap.Duration("elapsed", res.Elapsed))
		return err
	}

	log.Info("Report run complete",
		zap.String("status", string(res.Status)),
		zap.String("output", res.Output),
		zap.Duration("elapsed", res.Elapsed))
	return nil
}
