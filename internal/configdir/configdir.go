package configdir

import (
	"os"
	"path/filepath"
)

const (
	defaultConfigDir = "/etc/modelconsole"
	userDirName      = ".modelconsole"
)

// ConfigDir resolves the system configuration directory respecting overrides
func ConfigDir() string {
	if env := os.Getenv("MODELCONSOLE_CONFIG_DIR"); env != "" {
		if abs, err := filepath.Abs(env); err == nil {
			return abs
		}
	}
	return defaultConfigDir
}

// UserDir returns the per-user directory (~/.modelconsole), or "" when no home is known
func UserDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, userDirName)
}
