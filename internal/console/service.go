package console

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"modelconsole/internal/backend"
	"modelconsole/internal/logging"
	"modelconsole/internal/models"
)

// Service runs console operations against a backend. Its methods block and
// are meant to be called off the UI event loop; results are applied to State
// by the caller.
type Service struct {
	backend   backend.Backend
	saver     models.Saver
	logger    *logging.Logger
	infoLimit int
	now       func() time.Time
}

// NewService creates a console service. infoLimit bounds concurrent info requests.
func NewService(b backend.Backend, saver models.Saver, logger *logging.Logger, infoLimit int) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if infoLimit < 1 {
		infoLimit = 1
	}
	return &Service{
		backend:   b,
		saver:     saver,
		logger:    logger,
		infoLimit: infoLimit,
		now:       time.Now,
	}
}

// SetClock replaces the clock used for elapsed time and load timestamps
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Now returns the service clock
func (s *Service) Now() time.Time {
	return s.now()
}

// LoadModels fetches the installed model inventory
func (s *Service) LoadModels(ctx context.Context) ([]models.Model, error) {
	list, err := s.backend.ListModels(ctx)
	if err != nil {
		s.logger.Error("console.models.load_failed", "Failed to load models", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("console.models.loaded", "Models loaded", map[string]interface{}{
		"count": len(list),
	})
	return list, nil
}

// LoadCatalog fetches the installable-model catalog
func (s *Service) LoadCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	entries, err := s.backend.FetchAvailableModels(ctx)
	if err != nil {
		s.logger.Error("console.catalog.load_failed", "Failed to load model catalog", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("console.catalog.loaded", "Model catalog loaded", map[string]interface{}{
		"count": len(entries),
	})
	return entries, nil
}

// FetchInfo fetches info for every named model through the bounded pool
func (s *Service) FetchInfo(ctx context.Context, names []string) models.InfoMap {
	return models.FetchInfo(ctx, s.backend, names, s.infoLimit, s.logger)
}

// Query runs one inference call
func (s *Service) Query(ctx context.Context, model, prompt string) (string, error) {
	opID := uuid.NewString()
	start := s.now()

	s.logger.Info("console.query.started", "Query submitted", map[string]interface{}{
		"op_id": opID,
		"model": model,
		"chars": len(prompt),
	})

	out, err := s.backend.Generate(ctx, model, prompt)
	elapsed := models.FormatElapsed(s.now().Sub(start))
	if err != nil {
		s.logger.Error("console.query.failed", "Query failed", map[string]interface{}{
			"op_id":   opID,
			"model":   model,
			"error":   err.Error(),
			"elapsed": elapsed,
		})
		return "", err
	}

	s.logger.Info("console.query.completed", "Query completed", map[string]interface{}{
		"op_id":   opID,
		"model":   model,
		"elapsed": elapsed,
	})
	return out, nil
}

// Pull installs or updates a model. Progress events go to progress, which
// may be nil. The caller reloads the model list when NeedsRefresh is true.
func (s *Service) Pull(ctx context.Context, model string, progress chan<- models.PullProgress) (models.PullResult, error) {
	opID := uuid.NewString()
	s.logger.Info("console.pull.requested", "Model pull requested", map[string]interface{}{
		"op_id": opID,
		"model": model,
	})

	result, err := s.backend.PullModel(ctx, model, progress)
	if err != nil {
		s.logger.Error("console.pull.failed", "Model pull failed", map[string]interface{}{
			"op_id": opID,
			"model": model,
			"error": err.Error(),
		})
		return result, err
	}

	s.logger.Info("console.pull.finished", "Model pull finished", map[string]interface{}{
		"op_id":  opID,
		"model":  model,
		"status": string(result.Status),
	})
	return result, nil
}

// NeedsRefresh reports whether a pull result requires reloading the model list
func NeedsRefresh(result models.PullResult, err error) bool {
	return err == nil && result.Status == models.PullCompleted
}

// LogProgress records one pull progress event. Progress is not shown in the UI.
func (s *Service) LogProgress(p models.PullProgress) {
	payload := map[string]interface{}{
		"model":  p.Model,
		"status": string(p.Status),
	}
	if p.Detail != "" {
		payload["detail"] = p.Detail
	}
	if p.Digest != "" {
		payload["digest"] = p.Digest
	}
	if p.Total > 0 {
		payload["completed"] = p.Completed
		payload["total"] = p.Total
		payload["percent"] = fmt.Sprintf("%.1f", p.Percentage())
	}
	if p.Error != "" {
		payload["error"] = p.Error
	}
	s.logger.Debug("console.pull.progress", "Model pull progress", payload)
}

// DownloadInfo saves the stored info record for model as <model>.json and
// returns the notice describing the outcome.
func (s *Service) DownloadInfo(model string, info models.InfoMap) Notice {
	fileName := models.InfoFileName(model)

	data, err := models.MarshalInfo(info[model])
	if err == nil {
		var path string
		path, err = s.saver.Save(fileName, data)
		if err == nil {
			return Notice{Title: NoticeTitle, Text: fileName, Path: path}
		}
	}

	s.logger.Error("console.info.download_failed", "Failed to download model info", map[string]interface{}{
		"model": model,
		"error": err.Error(),
	})
	return Notice{
		Title:   NoticeTitle,
		Text:    fmt.Sprintf("Error downloading file: %v", err),
		IsError: true,
	}
}
