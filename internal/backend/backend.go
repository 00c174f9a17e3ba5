// Package backend is the command surface the console drives: model listing,
// catalog lookup, info retrieval, generation and pulling.
package backend

import (
	"context"

	"modelconsole/internal/models"
)

// Backend is implemented by the model server adapter
type Backend interface {
	models.InfoFetcher

	// ListModels returns the locally installed models in server order
	ListModels(ctx context.Context) ([]models.Model, error)
	// FetchAvailableModels returns the installable-model catalog
	FetchAvailableModels(ctx context.Context) ([]models.CatalogEntry, error)
	// Generate runs a single non-streaming completion
	Generate(ctx context.Context, model, prompt string) (string, error)
	// PullModel installs or updates a model. Progress events are sent on
	// progress when it is non-nil; the channel is never closed by the backend.
	PullModel(ctx context.Context, model string, progress chan<- models.PullProgress) (models.PullResult, error)
}
