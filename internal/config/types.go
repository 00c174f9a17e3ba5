package config

import "time"

// Config represents the complete modelconsole configuration
type Config struct {
	Ollama    OllamaConfig    `yaml:"ollama"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Downloads DownloadsConfig `yaml:"downloads"`
	Info      InfoConfig      `yaml:"info"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// OllamaConfig locates the model server
type OllamaConfig struct {
	Host           string `yaml:"host"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// CatalogConfig locates the installable-model catalog
type CatalogConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DownloadsConfig controls where downloaded info files land
type DownloadsConfig struct {
	Dir string `yaml:"dir"`
}

// InfoConfig controls per-model info fetching
type InfoConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}

// OllamaTimeout returns the model server timeout as a duration
func (c Config) OllamaTimeout() time.Duration {
	return time.Duration(c.Ollama.TimeoutSeconds) * time.Second
}

// CatalogTimeout returns the catalog fetch timeout as a duration
func (c Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}
