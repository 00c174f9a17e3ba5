package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"OllamaHost", cfg.Ollama.Host, DefaultOllamaHost},
		{"OllamaTimeout", cfg.Ollama.TimeoutSeconds, 300},
		{"CatalogURL", cfg.Catalog.URL, DefaultCatalogURL},
		{"CatalogTimeout", cfg.Catalog.TimeoutSeconds, 30},
		{"DownloadsDir", cfg.Downloads.Dir, "~/Downloads"},
		{"InfoConcurrency", cfg.Info.Concurrency, 4},
		{"LogLevel", cfg.Logging.Level, "info"},
		{"LogFormat", cfg.Logging.Format, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("DefaultConfig().%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestDefaultConfig_OllamaHostEnv(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"http://gpu-box:11434", "http://gpu-box:11434"},
		{"gpu-box:11434", "http://gpu-box:11434"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("OLLAMA_HOST", tt.env)
			if got := DefaultConfig().Ollama.Host; got != tt.want {
				t.Errorf("Ollama.Host = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidation_ValidConfig(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	cfg := DefaultConfig()
	errors := cfg.Validate()

	if len(errors) != 0 {
		t.Errorf("Validate() on default config returned errors: %v", errors)
	}
}

func TestValidation_Invalid(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"host without scheme", func(c *Config) { c.Ollama.Host = "localhost" }, "ollama.host"},
		{"zero ollama timeout", func(c *Config) { c.Ollama.TimeoutSeconds = 0 }, "ollama.timeout_seconds"},
		{"catalog ftp url", func(c *Config) { c.Catalog.URL = "ftp://example.com" }, "catalog.url"},
		{"negative catalog timeout", func(c *Config) { c.Catalog.TimeoutSeconds = -5 }, "catalog.timeout_seconds"},
		{"empty downloads dir", func(c *Config) { c.Downloads.Dir = "" }, "downloads.dir"},
		{"zero concurrency", func(c *Config) { c.Info.Concurrency = 0 }, "info.concurrency"},
		{"huge concurrency", func(c *Config) { c.Info.Concurrency = 1000 }, "info.concurrency"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			found := false
			for _, err := range cfg.Validate() {
				if err.Path == tt.path {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Validate() should return error for %s", tt.path)
			}
		})
	}
}

func TestLoadFrom_MergesOverDefaults(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `ollama:
  host: http://10.0.0.5:11434
info:
  concurrency: 8
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Ollama.Host != "http://10.0.0.5:11434" {
		t.Errorf("Ollama.Host = %s", cfg.Ollama.Host)
	}
	if cfg.Info.Concurrency != 8 {
		t.Errorf("Info.Concurrency = %d, want 8", cfg.Info.Concurrency)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
	// untouched keys keep their defaults
	if cfg.Catalog.URL != DefaultCatalogURL {
		t.Errorf("Catalog.URL = %s, want default", cfg.Catalog.URL)
	}
	if cfg.Ollama.TimeoutSeconds != 300 {
		t.Errorf("Ollama.TimeoutSeconds = %d, want 300", cfg.Ollama.TimeoutSeconds)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ollama: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadFrom_ValidationFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("info:\n  concurrency: -1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "info.concurrency") {
		t.Errorf("Expected error to mention info.concurrency, got %v", err)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoad_SystemThenUser(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	systemDir := t.TempDir()
	home := t.TempDir()
	t.Setenv("MODELCONSOLE_CONFIG_DIR", systemDir)
	t.Setenv("HOME", home)

	if err := os.WriteFile(filepath.Join(systemDir, "config.yaml"),
		[]byte("downloads:\n  dir: /srv/downloads\ninfo:\n  concurrency: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	userDir := filepath.Join(home, ".modelconsole")
	if err := os.MkdirAll(userDir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "config.yaml"),
		[]byte("info:\n  concurrency: 6\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Downloads.Dir != "/srv/downloads" {
		t.Errorf("Downloads.Dir = %s, want system value", cfg.Downloads.Dir)
	}
	if cfg.Info.Concurrency != 6 {
		t.Errorf("Info.Concurrency = %d, want user override 6", cfg.Info.Concurrency)
	}
}

func TestLoad_NoFiles(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("MODELCONSOLE_CONFIG_DIR", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	if _, err := Load(); err != nil {
		t.Errorf("Load() without config files should succeed, got %v", err)
	}
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), "concurrency: 4") {
		t.Errorf("Expected YAML to contain concurrency, got:\n%s", data)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Path: "info.concurrency", Message: "must be between 1 and 64, got 0"}
	if err.Error() != "info.concurrency: must be between 1 and 64, got 0" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
