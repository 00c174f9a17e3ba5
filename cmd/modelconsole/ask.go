package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"modelconsole/internal/backend"
	"modelconsole/internal/models"
)

var rawOutput bool

var askCmd = &cobra.Command{
	Use:   "ask <model> <prompt...>",
	Short: "Send one prompt to a model and print the response",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := args[0]
		prompt := strings.Join(args[1:], " ")

		svc, _, err := setupService()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		start := time.Now()
		response, err := svc.Query(ctx, model, prompt)
		elapsed := time.Since(start)
		if err != nil {
			return backend.Decode(err, backend.KindInference, backend.CodeGenerate)
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, renderMarkdown(response, rawOutput))
		fmt.Fprintf(cmd.ErrOrStderr(), "Time: %ss\n", models.FormatElapsed(elapsed))
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&rawOutput, "raw", false, "print the response without markdown rendering")
	rootCmd.AddCommand(askCmd)
}

// renderMarkdown renders text for the terminal, falling back to the raw text
func renderMarkdown(text string, raw bool) string {
	if raw {
		return ensureNewline(text)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return ensureNewline(text)
	}
	out, err := r.Render(text)
	if err != nil {
		return ensureNewline(text)
	}
	return out
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
