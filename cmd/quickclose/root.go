package main

import (
	"fmt"

	"quickclose-report/internal/config"
	"quickclose-report/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quickclose",
		Short: "Report accounts that close trades abnormally fast",
		Long: `quickclose finds logins whose trades were closed within a few seconds of
being opened, joins them with account, customer and country data and writes
an Excel report with the flagged trades and a per-login summary.

Examples:
  quickclose run --start "2025-02-10 00:00:00" --end "2025-02-10 23:59:59"
  quickclose proof --logins 13406179,13438586`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "./configs", "directory holding config.yml")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newProofCmd())
	return root
}

// setup loads configuration with the given flags bound to their config keys
// and builds the logger.
func setup(cmd *cobra.Command, bindings map[string]string) (*config.Config, *zap.Logger, error) {
	v := config.NewViper(configPath)

	bindings["logger.level"] = "log-level"
	for key, name := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, nil, fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("could not initialize logger: %w", err)
	}
	return &cfg, log, nil
}
