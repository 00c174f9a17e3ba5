package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"modelconsole/internal/backend"
	"modelconsole/internal/models"
)

func TestPrintModelList(t *testing.T) {
	var buf bytes.Buffer
	printModelList(&buf, []models.Model{
		{Name: "llama2", Size: 1073741824, ModifiedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Details: models.Details{ParameterSize: "7B"}},
		{Name: "phi3", Size: 512},
	})

	output := buf.String()
	for _, want := range []string{"2 total", "NAME", "llama2", "1.00 GB", "7B", "512.00 bytes"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestPrintModelList_Empty(t *testing.T) {
	var buf bytes.Buffer
	printModelList(&buf, nil)

	if !strings.Contains(buf.String(), "No models installed") {
		t.Errorf("Unexpected output: %s", buf.String())
	}
}

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	printCatalog(&buf, []models.CatalogEntry{{Name: "phi3", Description: "Microsoft Phi-3"}, {Name: "gemma"}})

	output := buf.String()
	if !strings.Contains(output, "Microsoft Phi-3") || !strings.Contains(output, "gemma") {
		t.Errorf("Unexpected catalog output:\n%s", output)
	}
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	printProgress(&buf, models.PullProgress{Model: "llama2", Status: models.PullStarted})
	printProgress(&buf, models.PullProgress{Model: "llama2", Status: models.PullInProgress, Detail: "pulling abc", Completed: 512, Total: 1024})
	printProgress(&buf, models.PullProgress{Model: "llama2", Status: models.PullInProgress, Detail: "verifying sha256 digest"})

	output := buf.String()
	for _, want := range []string{"Pulling llama2...", "pulling abc: 50.0%", "verifying sha256 digest"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestRenderMarkdown_Raw(t *testing.T) {
	if got := renderMarkdown("**bold**", true); got != "**bold**\n" {
		t.Errorf("Expected raw text with newline, got %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(buf.String(), "modelconsole version "+version) {
		t.Errorf("Unexpected version output: %s", buf.String())
	}
}

func TestConfigShowCommand(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ollama:\n  host: http://gpu-box:11434\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"config", "show", "--config", path})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		cfgFile = ""
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(buf.String(), "http://gpu-box:11434") {
		t.Errorf("Expected configured host in output, got:\n%s", buf.String())
	}
}

func TestPrintHealth(t *testing.T) {
	var buf bytes.Buffer
	printHealth(&buf, backend.HealthReport{
		Status: backend.HealthRed,
		Host:   "http://localhost:11434",
		Err:    &backend.Error{Kind: backend.KindUnreachable, Message: "connection refused"},
	})

	output := buf.String()
	for _, want := range []string{"❌", "red", "http://localhost:11434", "connection refused"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
}
