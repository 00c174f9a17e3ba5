package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"modelconsole/internal/backend"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the Ollama server is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newCLILogger(cfg)
		b, err := newBackend(cfg, logger)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		report := b.Check(ctx)
		printHealth(cmd.OutOrStdout(), report)

		logger.Info("backend.health", "Health check finished", map[string]interface{}{
			"host":       report.Host,
			"status":     string(report.Status),
			"latency_ms": report.Latency.Milliseconds(),
		})
		if report.Status == backend.HealthRed {
			return fmt.Errorf("ollama server at %s is not reachable", report.Host)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func healthIcon(status backend.HealthStatus) string {
	switch status {
	case backend.HealthGreen:
		return "✓"
	case backend.HealthYellow:
		return "⚠"
	default:
		return "❌"
	}
}

func printHealth(w io.Writer, report backend.HealthReport) {
	fmt.Fprintf(w, "%s Ollama %s (%s)\n", healthIcon(report.Status), report.Status, report.Host)
	if report.Version != "" {
		fmt.Fprintf(w, "  Version: %s\n", report.Version)
	}
	fmt.Fprintf(w, "  Latency: %dms\n", report.Latency.Milliseconds())
	if report.Err != nil {
		fmt.Fprintf(w, "  Error:   %s\n", report.Err.Display())
	}
}
