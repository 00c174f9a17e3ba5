// Package backendtest provides an in-memory backend for console and TUI tests.
package backendtest

import (
	"context"
	"sync"

	"modelconsole/internal/backend"
	"modelconsole/internal/models"
)

var (
	_ backend.Backend = (*Fake)(nil)
	_ models.Saver    = (*Saver)(nil)
)

// GenerateCall records the arguments of one Generate call
type GenerateCall struct {
	Model  string
	Prompt string
}

// Fake is a scriptable backend. Zero values return empty results.
type Fake struct {
	mu sync.Mutex

	Models     []models.Model
	ListErr    error
	Catalog    []models.CatalogEntry
	CatalogErr error
	Info       map[string]models.InfoRecord
	InfoErr    map[string]error
	Response   string
	GenErr     error
	PullStatus models.PullStatus
	PullErr    error
	Progress   []models.PullProgress

	ListCalls     int
	CatalogCalls  int
	InfoCalls     []string
	GenerateCalls []GenerateCall
	PullCalls     []string
}

// ListModels returns Models or ListErr
func (f *Fake) ListModels(ctx context.Context) ([]models.Model, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.Model(nil), f.Models...), nil
}

// FetchAvailableModels returns Catalog or CatalogErr
func (f *Fake) FetchAvailableModels(ctx context.Context) ([]models.CatalogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CatalogCalls++
	if f.CatalogErr != nil {
		return nil, f.CatalogErr
	}
	return append([]models.CatalogEntry(nil), f.Catalog...), nil
}

// FetchModelInfo returns Info[name] or InfoErr[name]
func (f *Fake) FetchModelInfo(ctx context.Context, name string) (models.InfoRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InfoCalls = append(f.InfoCalls, name)
	if err := f.InfoErr[name]; err != nil {
		return nil, err
	}
	return f.Info[name], nil
}

// Generate returns Response or GenErr
func (f *Fake) Generate(ctx context.Context, model, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GenerateCalls = append(f.GenerateCalls, GenerateCall{Model: model, Prompt: prompt})
	if f.GenErr != nil {
		return "", f.GenErr
	}
	return f.Response, nil
}

// PullModel sends Progress to progress and returns PullStatus or PullErr.
// An unset PullStatus reports completion.
func (f *Fake) PullModel(ctx context.Context, model string, progress chan<- models.PullProgress) (models.PullResult, error) {
	f.mu.Lock()
	f.PullCalls = append(f.PullCalls, model)
	events := append([]models.PullProgress(nil), f.Progress...)
	status, err := f.PullStatus, f.PullErr
	f.mu.Unlock()

	if progress != nil {
		for _, p := range events {
			select {
			case progress <- p:
			case <-ctx.Done():
				return models.PullResult{Model: model, Status: models.PullFailed}, ctx.Err()
			}
		}
	}

	if err != nil {
		return models.PullResult{Model: model, Status: models.PullFailed}, err
	}
	if status == "" {
		status = models.PullCompleted
	}
	return models.PullResult{Model: model, Status: status}, nil
}

// Calls returns a snapshot of the list call count
func (f *Fake) Calls() (list, catalog int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListCalls, f.CatalogCalls
}

// Saver records saved files in memory
type Saver struct {
	Dir   string
	Err   error
	Files map[string][]byte
}

// Save stores data under fileName
func (s *Saver) Save(fileName string, data []byte) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	if s.Files == nil {
		s.Files = map[string][]byte{}
	}
	s.Files[fileName] = append([]byte(nil), data...)
	return s.Dir + "/" + fileName, nil
}
