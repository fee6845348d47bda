package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	service "github.com/okian/skillpulse/internal/app"
	"github.com/okian/skillpulse/internal/config"
	"github.com/okian/skillpulse/internal/domain/forecast"
	"github.com/okian/skillpulse/pkg/logger"
)

func newForecastCmd(c *cli) *cobra.Command {
	var (
		skill  string
		months int
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast demand for a skill and print JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), c.cfg, func(ctx context.Context, svc *service.Service) error {
				res, err := svc.Forecast(ctx, skill, months)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&skill, "skill", "", "skill to forecast")
	cmd.Flags().IntVar(&months, "months", forecast.DefaultMonths, "forecast horizon in months (1-24)")
	_ = cmd.MarkFlagRequired("skill")
	return cmd
}

func newEmergingCmd(c *cli) *cobra.Command {
	var minSize int
	cmd := &cobra.Command{
		Use:   "emerging",
		Short: "Detect emerging skills and print JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), c.cfg, func(ctx context.Context, svc *service.Service) error {
				res, err := svc.EmergingSkills(ctx, minSize)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().IntVar(&minSize, "min-cluster-size", service.DefaultClusterSize, "minimum phrases per cluster (2-10)")
	return cmd
}

// withService runs fn against a started service and stops it afterwards,
// which also waits for pending sink writes.
func withService(ctx context.Context, cfg *config.Config, fn func(context.Context, *service.Service) error) error {
	svc, err := newService(ctx, cfg, logger.Get())
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()
	return fn(ctx, svc)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
