// Package questionbank talks to the external question-bank service. The core
// never inspects item payloads; it only routes them by difficulty.
package questionbank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prepdeck/prepdeck/internal/logger"
)

// Item is one question as served by the bank. Payload is opaque to the core.
type Item struct {
	ID         string          `json:"id"`
	Difficulty int             `json:"difficulty"`
	Payload    json.RawMessage `json:"payload"`
}

// ClientInterface defines the interface for question bank operations.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	FetchItem(ctx context.Context, difficulty int, excludeIDs []string) (*Item, error)
	FetchBatch(ctx context.Context, difficulty, count int) ([]Item, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        logger.Default().WithPrefix("questionbank"),
	}
}

func (c *Client) FetchItem(ctx context.Context, difficulty int, excludeIDs []string) (*Item, error) {
	log := logger.FromContext(ctx).WithPrefix("questionbank").WithField("difficulty", difficulty)

	q := url.Values{}
	q.Set("difficulty", strconv.Itoa(difficulty))
	q.Set("count", "1")
	if len(excludeIDs) > 0 {
		q.Set("exclude", strings.Join(excludeIDs, ","))
	}

	items, err := c.fetch(ctx, log, q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("question bank returned no items for difficulty %d", difficulty)
	}
	return &items[0], nil
}

func (c *Client) FetchBatch(ctx context.Context, difficulty, count int) ([]Item, error) {
	log := logger.FromContext(ctx).WithPrefix("questionbank").WithFields(map[string]any{
		"difficulty": difficulty,
		"count":      count,
	})

	q := url.Values{}
	q.Set("difficulty", strconv.Itoa(difficulty))
	q.Set("count", strconv.Itoa(count))

	return c.fetch(ctx, log, q)
}

func (c *Client) fetch(ctx context.Context, log *logger.Logger, q url.Values) ([]Item, error) {
	reqURL := fmt.Sprintf("%s/items?%s", c.baseURL, q.Encode())
	log.Debug("fetching items from: %s", reqURL)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch items: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("items response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("items request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("items status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Items []Item `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Error("failed to decode items response: %v", err)
		return nil, err
	}

	log.Debug("fetched %d items", len(payload.Items))
	return payload.Items, nil
}
