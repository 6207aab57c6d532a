package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
)

// Document is one retrieval hit, the shape injected into the prompt.
type Document struct {
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// Result carries either retrieved documents or an explicit unavailable
// marker. The orchestrator branches on Unavailable instead of an error so
// retrieval failures soft-degrade deterministically.
type Result struct {
	Documents   []Document
	Unavailable bool
	Reason      string
}

// Unavailable builds a degraded Result.
func Unavailable(reason string) Result {
	return Result{Unavailable: true, Reason: reason}
}

// Client queries an Azure AI Search index over its REST API.
type Client struct {
	manager    *config.Manager
	httpClient *http.Client
	logger     *Logger.Logger
}

func NewClient(manager *config.Manager, logger *Logger.Logger) *Client {
	return &Client{
		manager: manager,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type searchRequest struct {
	Search    string `json:"search"`
	Top       int    `json:"top"`
	QueryType string `json:"queryType"`
}

type searchResponse struct {
	Value []searchHit `json:"value"`
}

type searchHit struct {
	Score   float64 `json:"@search.score"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
}

// Query runs a keyword search and returns the top matching documents in
// relevance order. Incomplete settings fail before any network call.
func (c *Client) Query(ctx context.Context, query string) ([]Document, error) {
	cfg := c.manager.Snapshot()
	if err := cfg.Search.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(searchRequest{
		Search:    query,
		Top:       cfg.Search.TopN,
		QueryType: "simple",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	requestURL := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s",
		cfg.Search.BaseURL(), cfg.Search.Index, cfg.Search.APIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", cfg.Search.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, string(responseBody))
	}

	var parsed searchResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	docs := make([]Document, 0, len(parsed.Value))
	for _, hit := range parsed.Value {
		docs = append(docs, Document{
			Title:   hit.Title,
			Snippet: hit.Content,
			Score:   hit.Score,
		})
	}
	c.logger.Debugf("search returned %d documents for %q", len(docs), query)
	return docs, nil
}
