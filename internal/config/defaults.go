package config

import (
	"os"
	"path/filepath"
	"strings"

	"modelconsole/internal/configdir"
)

const (
	// DefaultOllamaHost is used when neither config nor OLLAMA_HOST name a server
	DefaultOllamaHost = "http://localhost:11434"
	// DefaultCatalogURL is a community endpoint listing installable models
	DefaultCatalogURL = "https://ollama-models.zwz.workers.dev/"
	logFileName       = "modelconsole.log"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	host := os.Getenv("OLLAMA_HOST")
	switch {
	case host == "":
		host = DefaultOllamaHost
	case !strings.Contains(host, "://"):
		host = "http://" + host
	}

	logFile := logFileName
	if userDir := configdir.UserDir(); userDir != "" {
		logFile = filepath.Join(userDir, logFileName)
	}

	return Config{
		Ollama: OllamaConfig{
			Host:           host,
			TimeoutSeconds: 300, // generation on CPU can be slow
		},
		Catalog: CatalogConfig{
			URL:            DefaultCatalogURL,
			TimeoutSeconds: 30,
		},
		Downloads: DownloadsConfig{
			Dir: "~/Downloads",
		},
		Info: InfoConfig{
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   logFile,
		},
	}
}
