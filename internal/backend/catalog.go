package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"modelconsole/internal/fsutil"
	"modelconsole/internal/logging"
	"modelconsole/internal/models"
)

const maxCatalogBytes = 8 << 20

// CatalogClient fetches the list of installable models from a catalog endpoint
type CatalogClient struct {
	url        string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewCatalogClient creates a catalog client
func NewCatalogClient(catalogURL string, timeout time.Duration, logger *logging.Logger) *CatalogClient {
	return &CatalogClient{
		url:        catalogURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch downloads and parses the catalog
func (c *CatalogClient) Fetch(ctx context.Context) ([]models.CatalogEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Decode(fmt.Errorf("failed to fetch catalog: %w", err), KindUnreachable, CodeCatalog)
	}
	defer fsutil.CloseWithError(resp.Body.Close, c.logger, "catalog response body")

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, Decode(fmt.Errorf("failed to read catalog: %w", err), KindUnreachable, CodeCatalog)
	}

	if resp.StatusCode != http.StatusOK {
		if isPayload(string(body)) {
			return nil, fromPayload(string(body), KindRejected, fmt.Sprintf("%d", resp.StatusCode), nil)
		}
		return nil, &Error{
			Kind:    KindRejected,
			Code:    fmt.Sprintf("%d", resp.StatusCode),
			Message: strings.TrimSpace(string(body)),
		}
	}

	entries, err := ParseCatalog(body)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Code: CodeCatalog, Message: err.Error(), Err: err}
	}

	c.logger.Debug("catalog.fetch.completed", "Catalog fetched", map[string]interface{}{
		"url":     c.url,
		"entries": len(entries),
	})

	return entries, nil
}

// ParseCatalog accepts the shapes community catalogs use: an array of names,
// an array of objects, or an object holding such an array under "models".
func ParseCatalog(data []byte) ([]models.CatalogEntry, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var wrapped struct {
			Models []json.RawMessage `json:"models"`
		}
		if wrapErr := json.Unmarshal(data, &wrapped); wrapErr != nil {
			return nil, fmt.Errorf("unrecognized catalog format: %w", err)
		}
		items = wrapped.Models
	}

	entries := make([]models.CatalogEntry, 0, len(items))
	for _, item := range items {
		entry, ok := parseCatalogItem(item)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseCatalogItem(item json.RawMessage) (models.CatalogEntry, bool) {
	var name string
	if err := json.Unmarshal(item, &name); err == nil {
		return models.CatalogEntry{Name: name, Raw: item}, name != ""
	}

	var obj struct {
		Name        string `json:"name"`
		Model       string `json:"model"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(item, &obj); err != nil {
		return models.CatalogEntry{}, false
	}
	if obj.Name == "" {
		obj.Name = obj.Model
	}
	return models.CatalogEntry{Name: obj.Name, Description: obj.Description, Raw: item}, obj.Name != ""
}
