package models

import (
	"encoding/json"
	"time"
)

// Model is a locally installed model as reported by the model server.
// The list is always replaced wholesale, never patched.
type Model struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"` // Size in bytes
	Digest     string    `json:"digest,omitempty"`
	Details    Details   `json:"details,omitempty"`
}

// Details carries optional descriptive fields reported alongside a model
type Details struct {
	Family            string `json:"family,omitempty"`
	ParameterSize     string `json:"parameter_size,omitempty"`
	QuantizationLevel string `json:"quantization_level,omitempty"`
}

// CatalogEntry describes a model that can be pulled
type CatalogEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Raw         json.RawMessage `json:"-"`
}

// InfoRecord is the backend's descriptive metadata for one model.
// Its structure belongs to the backend; the console only stores and exports it.
type InfoRecord = json.RawMessage

// InfoMap maps model name to its info record. Missing keys mean the fetch failed.
type InfoMap map[string]InfoRecord

// PullStatus is the terminal status reported for a pull
type PullStatus string

const (
	// PullStarted is reported when the server accepted the pull
	PullStarted PullStatus = "started"
	// PullInProgress is reported for intermediate progress events
	PullInProgress PullStatus = "progress"
	// PullCompleted is reported when the model is fully installed
	PullCompleted PullStatus = "completed"
	// PullFailed is reported when the server aborted the pull
	PullFailed PullStatus = "failed"
)

// PullResult is the outcome of a pull request
type PullResult struct {
	Model  string     `json:"model"`
	Status PullStatus `json:"status"`
}

// PullProgress is one event on the pull progress subscription
type PullProgress struct {
	Model     string     `json:"model"`
	Status    PullStatus `json:"status"`
	Detail    string     `json:"detail,omitempty"` // server status text, e.g. "pulling manifest"
	Digest    string     `json:"digest,omitempty"`
	Completed int64      `json:"completed,omitempty"`
	Total     int64      `json:"total,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Percentage returns the completed share of the current layer, 0 when unknown
func (p PullProgress) Percentage() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

// Names returns model names in list order
func Names(list []Model) []string {
	names := make([]string, len(list))
	for i, m := range list {
		names[i] = m.Name
	}
	return names
}

// IndexOf returns the position of the named model, or -1
func IndexOf(list []Model, name string) int {
	for i, m := range list {
		if m.Name == name {
			return i
		}
	}
	return -1
}
