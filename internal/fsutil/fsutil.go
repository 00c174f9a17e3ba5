package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modelconsole/internal/logging"
)

const (
	// DefaultDirPermissions is the default permission for created directories
	DefaultDirPermissions = 0o750
	// DefaultFilePermissions is the default permission for written files
	DefaultFilePermissions = 0o644
)

// ExpandHome replaces a leading "~" with the user's home directory and
// returns an absolute path when possible.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// EnsureDirectory creates the directory if it doesn't exist.
func EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// SafeFileName turns a model name into a single path element.
// Model names may carry a namespace ("library/llama2:latest").
func SafeFileName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("/", "_", "\\", "_", string(os.PathSeparator), "_")
	name = replacer.Replace(name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

// AtomicWriteFile writes data to a file atomically by first writing to a temp file
// and then renaming it to the target path. The file is never partially written.
func AtomicWriteFile(path string, data []byte, perm os.FileMode, logger *logging.Logger) error {
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Warn("fsutil.cleanup_failed", "Failed to remove temp file", map[string]interface{}{
				"path":  tmpPath,
				"error": removeErr.Error(),
			})
		}
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// CloseWithError closes a resource and logs any error if a logger is provided.
func CloseWithError(closer func() error, logger *logging.Logger, resource string) {
	if err := closer(); err != nil {
		logger.Warn("fsutil.close_failed", fmt.Sprintf("Failed to close %s", resource), map[string]interface{}{
			"error": err.Error(),
		})
	}
}
