package config

import (
	"fmt"
	"net/url"
)

const maxInfoConcurrency = 64

// Validate checks if the configuration is valid
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateOllama()...)
	errors = append(errors, c.validateCatalog()...)
	errors = append(errors, c.validateDownloads()...)
	errors = append(errors, c.validateInfo()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateOllama() []ValidationError {
	var errors []ValidationError

	if !isHTTPURL(c.Ollama.Host) {
		errors = append(errors, ValidationError{
			Path:    "ollama.host",
			Message: fmt.Sprintf("must be an http(s) URL, got '%s'", c.Ollama.Host),
		})
	}

	if c.Ollama.TimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Path:    "ollama.timeout_seconds",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Ollama.TimeoutSeconds),
		})
	}

	return errors
}

func (c *Config) validateCatalog() []ValidationError {
	var errors []ValidationError

	if !isHTTPURL(c.Catalog.URL) {
		errors = append(errors, ValidationError{
			Path:    "catalog.url",
			Message: fmt.Sprintf("must be an http(s) URL, got '%s'", c.Catalog.URL),
		})
	}

	if c.Catalog.TimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Path:    "catalog.timeout_seconds",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Catalog.TimeoutSeconds),
		})
	}

	return errors
}

func (c *Config) validateDownloads() []ValidationError {
	if c.Downloads.Dir != "" {
		return nil
	}

	return []ValidationError{{
		Path:    "downloads.dir",
		Message: "must not be empty",
	}}
}

func (c *Config) validateInfo() []ValidationError {
	if c.Info.Concurrency >= 1 && c.Info.Concurrency <= maxInfoConcurrency {
		return nil
	}

	return []ValidationError{{
		Path:    "info.concurrency",
		Message: fmt.Sprintf("must be between 1 and %d, got %d", maxInfoConcurrency, c.Info.Concurrency),
	}}
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		errors = append(errors, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validLevels, c.Logging.Level),
		})
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, c.Logging.Format) {
		errors = append(errors, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validFormats, c.Logging.Format),
		})
	}

	return errors
}

// contains checks if a string is in a slice
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
