package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelconsole/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Test configuration file(s) for validity",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		var (
			cfg       config.Config
			configErr error
		)
		switch {
		case len(args) == 1:
			fmt.Fprintf(out, "Testing configuration file: %s\n", args[0])
			cfg, configErr = config.LoadFrom(args[0])
		case cfgFile != "":
			fmt.Fprintf(out, "Testing configuration file: %s\n", cfgFile)
			cfg, configErr = config.LoadFrom(cfgFile)
		default:
			fmt.Fprintln(out, "Testing configuration (system + user merge):")
			fmt.Fprintf(out, "  System config: %s\n", config.SystemConfigPath())
			if userPath := config.UserConfigPath(); userPath != "" {
				fmt.Fprintf(out, "  User config:   %s\n", userPath)
			}
			fmt.Fprintln(out)
			cfg, configErr = config.Load()
		}

		logger := newCLILogger(cfg)
		if configErr != nil {
			logger.Error("config.validation.error", "Configuration validation failed", map[string]interface{}{
				"error": configErr.Error(),
			})
			return fmt.Errorf("configuration validation FAILED: %w", configErr)
		}

		fmt.Fprintln(out, "✓ Configuration is VALID")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Configuration Summary:")
		fmt.Fprintf(out, "  Ollama Host:          %s\n", cfg.Ollama.Host)
		fmt.Fprintf(out, "  Ollama Timeout:       %s\n", cfg.OllamaTimeout())
		fmt.Fprintf(out, "  Catalog URL:          %s\n", cfg.Catalog.URL)
		fmt.Fprintf(out, "  Downloads Dir:        %s\n", cfg.Downloads.Dir)
		fmt.Fprintf(out, "  Info Concurrency:     %d\n", cfg.Info.Concurrency)
		fmt.Fprintf(out, "  Log Level:            %s\n", cfg.Logging.Level)
		fmt.Fprintf(out, "  Log Format:           %s\n", cfg.Logging.Format)
		fmt.Fprintf(out, "  Log File:             %s\n", cfg.Logging.File)

		logger.Info("config.validation.ok", "Configuration validation passed", map[string]interface{}{
			"host": cfg.Ollama.Host,
		})
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configTestCmd)
	rootCmd.AddCommand(configCmd)
}
