package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"modelconsole/internal/console"
	"modelconsole/internal/models"
)

var saveInfo bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Model management commands",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := setupService()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		list, err := svc.LoadModels(ctx)
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		printModelList(cmd.OutOrStdout(), list)
		return nil
	},
}

var modelsCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List models available for installation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := setupService()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		entries, err := svc.LoadCatalog(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch catalog: %w", err)
		}
		printCatalog(cmd.OutOrStdout(), entries)
		return nil
	},
}

var modelsInfoCmd = &cobra.Command{
	Use:   "info <model>",
	Short: "Show a model's licence and info, optionally saving it as <model>.json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		svc, _, err := setupService()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		info := svc.FetchInfo(ctx, []string{name})
		if _, ok := info[name]; !ok {
			return fmt.Errorf("no info available for %s", name)
		}

		if saveInfo {
			notice := svc.DownloadInfo(name, info)
			if notice.IsError {
				return errors.New(notice.Text)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s saved to %s\n", notice.Text, notice.Path)
			return nil
		}

		data, err := models.MarshalInfo(info[name])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var modelsPullCmd = &cobra.Command{
	Use:   "pull <model>",
	Short: "Pull or update a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		svc, _, err := setupService()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		out := cmd.OutOrStdout()
		progress := make(chan models.PullProgress, 16)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range progress {
				svc.LogProgress(p)
				printProgress(out, p)
			}
		}()

		result, err := svc.Pull(ctx, name, progress)
		close(progress)
		wg.Wait()

		if err != nil {
			return fmt.Errorf("failed to pull %s: %w", name, err)
		}
		if !console.NeedsRefresh(result, err) {
			return fmt.Errorf("pull of %s ended with status %s", name, result.Status)
		}
		fmt.Fprintf(out, "✓ %s is up to date\n", name)
		return nil
	},
}

func init() {
	modelsInfoCmd.Flags().BoolVar(&saveInfo, "save", false, "save the info as <model>.json in the downloads directory")

	modelsCmd.AddCommand(modelsListCmd, modelsCatalogCmd, modelsInfoCmd, modelsPullCmd)
	rootCmd.AddCommand(modelsCmd)
}

// setupService loads config and wires a CLI service logging to stderr
func setupService() (*console.Service, *models.DirSaver, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return newService(cfg, newCLILogger(cfg))
}

func printModelList(w io.Writer, list []models.Model) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No models installed")
		return
	}

	fmt.Fprintf(w, "Installed models (%d total):\n\n", len(list))
	fmt.Fprintf(w, "%-40s %12s %10s %24s\n", "NAME", "SIZE", "PARAMS", "LAST MODIFIED")
	fmt.Fprintln(w, strings.Repeat("-", 89))

	for _, m := range list {
		params := m.Details.ParameterSize
		if params == "" {
			params = "-"
		}
		fmt.Fprintf(w, "%-40s %12s %10s %24s\n", m.Name, models.FormatBytes(m.Size), params, models.FormatModified(m.ModifiedAt, nil))
	}
}

func printCatalog(w io.Writer, entries []models.CatalogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Catalog is empty")
		return
	}

	fmt.Fprintf(w, "Available models (%d total):\n\n", len(entries))
	for _, e := range entries {
		if e.Description == "" {
			fmt.Fprintf(w, "  • %s\n", e.Name)
			continue
		}
		fmt.Fprintf(w, "  • %-30s %s\n", e.Name, e.Description)
	}
}

func printProgress(w io.Writer, p models.PullProgress) {
	switch p.Status {
	case models.PullStarted:
		fmt.Fprintf(w, "Pulling %s...\n", p.Model)
	case models.PullInProgress:
		if p.Total > 0 {
			fmt.Fprintf(w, "  %s: %.1f%% (%s / %s)\n", p.Detail, p.Percentage(), models.FormatBytes(p.Completed), models.FormatBytes(p.Total))
			return
		}
		fmt.Fprintf(w, "  %s\n", p.Detail)
	case models.PullFailed:
		fmt.Fprintf(w, "  failed: %s\n", p.Error)
	}
}
