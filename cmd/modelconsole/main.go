package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"modelconsole/internal/backend"
	"modelconsole/internal/config"
	"modelconsole/internal/console"
	"modelconsole/internal/fsutil"
	"modelconsole/internal/logging"
	"modelconsole/internal/models"
	"modelconsole/internal/tui"
)

var (
	// version is set at build time via -ldflags
	version = "0.1.0-dev"

	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "modelconsole",
	Short: "Manage and query local Ollama models",
	Long: `modelconsole lists, pulls and queries the language models of a local Ollama server.
Run without a subcommand to open the interactive console.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: system + ~/.modelconsole/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the explicit config file, or merges system and user files
func loadConfig() (config.Config, error) {
	if cfgFile != "" {
		return config.LoadFrom(cfgFile)
	}
	return config.Load()
}

// newCLILogger logs to stderr; stdout carries command output
func newCLILogger(cfg config.Config) *logging.Logger {
	return logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format, os.Stderr)
}

func newBackend(cfg config.Config, logger *logging.Logger) (*backend.OllamaBackend, error) {
	return backend.NewOllamaBackend(backend.Options{
		Host:           cfg.Ollama.Host,
		Timeout:        cfg.OllamaTimeout(),
		CatalogURL:     cfg.Catalog.URL,
		CatalogTimeout: cfg.CatalogTimeout(),
		Logger:         logger,
	})
}

func newService(cfg config.Config, logger *logging.Logger) (*console.Service, *models.DirSaver, error) {
	b, err := newBackend(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	saver := models.NewDirSaver(cfg.Downloads.Dir, logger)
	return console.NewService(b, saver, logger, cfg.Info.Concurrency), saver, nil
}

// signalContext is cancelled on Ctrl+C or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runTUI starts the interactive console
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// the TUI owns the terminal, so events go to the log file
	logger, err := logging.NewFileLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format, fsutil.ExpandHome(cfg.Logging.File))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logger = logging.NewNopLogger()
	}
	defer fsutil.CloseWithError(logger.Close, nil, "log file")

	startTime := time.Now()
	logger.Info("app.started", "Application started", map[string]interface{}{
		"version": version,
		"host":    cfg.Ollama.Host,
	})

	svc, saver, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.NewModel(ctx, svc, tui.Options{
		Logger:       logger,
		DownloadsDir: saver.Dir(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logger.Error("app.error", "Application error", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("error running TUI: %w", err)
	}

	logger.Info("app.exited", "Application exited", map[string]interface{}{
		"reason":         "normal",
		"uptime_seconds": int(time.Since(startTime).Seconds()),
	})
	return nil
}
