package models

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"modelconsole/internal/logging"
)

// InfoFetcher retrieves the info record for one model
type InfoFetcher interface {
	FetchModelInfo(ctx context.Context, name string) (InfoRecord, error)
}

// ShouldFetchInfo reports whether a model list of length n triggers an info fetch.
// Lists with a single entry (or none) never do.
func ShouldFetchInfo(n int) bool {
	return n > 1
}

// FetchInfo requests info for every named model with at most limit requests in
// flight. Each request is independent: a failure is logged and its entry is
// simply absent from the result. The map is returned only after all requests
// settle, so callers can replace their state in one step.
func FetchInfo(ctx context.Context, fetcher InfoFetcher, names []string, limit int, logger *logging.Logger) InfoMap {
	if limit < 1 {
		limit = 1
	}

	var (
		mu   sync.Mutex
		g    errgroup.Group
		info = make(InfoMap, len(names))
	)
	g.SetLimit(limit)

	for _, name := range names {
		g.Go(func() error {
			record, err := fetcher.FetchModelInfo(ctx, name)
			if err != nil {
				logger.Warn("models.info.fetch_failed", "Failed to fetch model info", map[string]interface{}{
					"model": name,
					"error": err.Error(),
				})
				return nil
			}

			mu.Lock()
			info[name] = record
			mu.Unlock()
			return nil
		})
	}

	// goroutines never return errors; failures are absorbed per entry
	_ = g.Wait()

	logger.Debug("models.info.fetched", "Model info fetch settled", map[string]interface{}{
		"requested": len(names),
		"fetched":   len(info),
	})

	return info
}
