// Package main provides the skillpulse command: the HTTP API server plus
// one-shot forecast and emerging-skill commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/skillpulse/internal/config"
	"github.com/okian/skillpulse/pkg/logger"
)

// configEnv names the optional YAML config file.
const configEnv = "SKILLPULSE_CONFIG"

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli holds state shared by subcommands once the root pre-run has loaded it.
type cli struct {
	envFiles   []string
	configFile string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "skillpulse",
		Short:         "Skill demand analytics API",
		Long:          "SkillPulse analyzes job postings to rank skills, forecast demand and detect emerging skills.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), c.cfg)
		},
	}
	root.PersistentFlags().StringSliceVar(&c.envFiles, "env-file", []string{".env"}, "dotenv files loaded before configuration")
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "YAML config file (overrides "+configEnv+")")

	root.AddCommand(newServeCmd(c), newForecastCmd(c), newEmergingCmd(c))
	return root
}

// setup loads .env files, configuration and logging.
func (c *cli) setup(ctx context.Context) error {
	if err := config.LoadDotEnv(c.envFiles...); err != nil {
		return err
	}
	if c.configFile != "" {
		if err := os.Setenv(configEnv, c.configFile); err != nil {
			return fmt.Errorf("set %s: %w", configEnv, err)
		}
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.Init(
		logger.WithFormat(cfg.LogFormat),
		logger.WithLevel(cfg.LogLevel),
		logger.WithOutput(os.Stderr),
	); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	c.cfg = cfg
	return nil
}
