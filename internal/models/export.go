package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"modelconsole/internal/fsutil"
	"modelconsole/internal/logging"
)

// Saver is the platform file-save capability. It stores data under fileName
// and returns where the file ended up.
type Saver interface {
	Save(fileName string, data []byte) (string, error)
}

// InfoFileName returns the download name for a model's info record
func InfoFileName(model string) string {
	return model + ".json"
}

// MarshalInfo renders an info record for download: two-space indentation,
// no trailing newline. A missing record renders as null.
func MarshalInfo(record InfoRecord) ([]byte, error) {
	trimmed := bytes.TrimSpace(record)
	if len(trimmed) == 0 {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format info record: %w", err)
	}
	return buf.Bytes(), nil
}

// DirSaver saves files into a single directory, typically ~/Downloads
type DirSaver struct {
	dir    string
	logger *logging.Logger
}

// NewDirSaver creates a saver rooted at dir ("~" is expanded)
func NewDirSaver(dir string, logger *logging.Logger) *DirSaver {
	return &DirSaver{
		dir:    fsutil.ExpandHome(dir),
		logger: logger,
	}
}

// Dir returns the resolved target directory
func (s *DirSaver) Dir() string {
	return s.dir
}

// Save writes data atomically into the directory
func (s *DirSaver) Save(fileName string, data []byte) (string, error) {
	if err := fsutil.EnsureDirectory(s.dir); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, fsutil.SafeFileName(fileName))
	if err := fsutil.AtomicWriteFile(path, data, fsutil.DefaultFilePermissions, s.logger); err != nil {
		return "", err
	}

	s.logger.Info("models.info.saved", "Model info saved", map[string]interface{}{
		"path":  path,
		"bytes": len(data),
	})

	return path, nil
}
