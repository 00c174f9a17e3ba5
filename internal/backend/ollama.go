package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"modelconsole/internal/logging"
	"modelconsole/internal/models"
)

// Options configures the Ollama backend
type Options struct {
	Host           string
	Timeout        time.Duration
	CatalogURL     string
	CatalogTimeout time.Duration
	Logger         *logging.Logger
}

// OllamaBackend talks to a local Ollama server
type OllamaBackend struct {
	host       string
	client     *api.Client
	pullClient *api.Client // no overall timeout; pulls run for as long as ctx allows
	catalog    *CatalogClient
	logger     *logging.Logger
}

// NewOllamaBackend creates a backend for the server at opts.Host
func NewOllamaBackend(opts Options) (*OllamaBackend, error) {
	base, err := url.Parse(opts.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", opts.Host, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid ollama host %q: scheme and host required", opts.Host)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &OllamaBackend{
		host:       base.String(),
		client:     api.NewClient(base, &http.Client{Timeout: opts.Timeout}),
		pullClient: api.NewClient(base, &http.Client{}),
		catalog:    NewCatalogClient(opts.CatalogURL, opts.CatalogTimeout, logger),
		logger:     logger,
	}, nil
}

// ListModels returns the installed models
func (b *OllamaBackend) ListModels(ctx context.Context) ([]models.Model, error) {
	resp, err := b.client.List(ctx)
	if err != nil {
		return nil, Decode(err, KindRejected, CodeListModels)
	}

	list := make([]models.Model, len(resp.Models))
	for i, m := range resp.Models {
		list[i] = models.Model{
			Name:       m.Name,
			ModifiedAt: m.ModifiedAt,
			Size:       m.Size,
			Digest:     m.Digest,
			Details: models.Details{
				Family:            m.Details.Family,
				ParameterSize:     m.Details.ParameterSize,
				QuantizationLevel: m.Details.QuantizationLevel,
			},
		}
	}

	b.logger.Debug("backend.list.completed", "Listed models", map[string]interface{}{
		"count": len(list),
	})

	return list, nil
}

// FetchAvailableModels returns the installable-model catalog
func (b *OllamaBackend) FetchAvailableModels(ctx context.Context) ([]models.CatalogEntry, error) {
	return b.catalog.Fetch(ctx)
}

// FetchModelInfo returns the server's show output for a model as JSON
func (b *OllamaBackend) FetchModelInfo(ctx context.Context, name string) (models.InfoRecord, error) {
	resp, err := b.client.Show(ctx, &api.ShowRequest{Model: name})
	if err != nil {
		return nil, Decode(err, KindRejected, CodeModelInfo)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode info for %s: %w", name, err)
	}
	return data, nil
}

// Generate runs a non-streaming completion and returns the response text
func (b *OllamaBackend) Generate(ctx context.Context, model, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: &stream,
	}

	var out strings.Builder
	err := b.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", Decode(err, KindInference, CodeGenerate)
	}

	return out.String(), nil
}

// PullModel pulls a model, forwarding progress events, and reports completion
func (b *OllamaBackend) PullModel(ctx context.Context, model string, progress chan<- models.PullProgress) (models.PullResult, error) {
	b.logger.Info("backend.pull.started", "Starting model pull", map[string]interface{}{
		"model": model,
	})
	send(ctx, progress, models.PullProgress{Model: model, Status: models.PullStarted})

	err := b.pullClient.Pull(ctx, &api.PullRequest{Model: model}, func(p api.ProgressResponse) error {
		send(ctx, progress, models.PullProgress{
			Model:     model,
			Status:    models.PullInProgress,
			Detail:    p.Status,
			Digest:    p.Digest,
			Completed: p.Completed,
			Total:     p.Total,
		})
		return nil
	})
	if err != nil {
		decoded := Decode(err, KindRejected, CodePullModel)
		send(ctx, progress, models.PullProgress{Model: model, Status: models.PullFailed, Error: decoded.Display()})
		b.logger.Error("backend.pull.failed", "Model pull failed", map[string]interface{}{
			"model": model,
			"error": decoded.Display(),
		})
		return models.PullResult{Model: model, Status: models.PullFailed}, decoded
	}

	send(ctx, progress, models.PullProgress{Model: model, Status: models.PullCompleted})
	b.logger.Info("backend.pull.completed", "Model pull completed", map[string]interface{}{
		"model": model,
	})

	return models.PullResult{Model: model, Status: models.PullCompleted}, nil
}

// send delivers a progress event unless nobody subscribed or ctx is done
func send(ctx context.Context, ch chan<- models.PullProgress, p models.PullProgress) {
	if ch == nil {
		return
	}
	select {
	case ch <- p:
	case <-ctx.Done():
	}
}
