package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Lixing-Zhang/catalog-browser/internal/models"
)

// ErrFetchFailure covers every way a catalog request can fail: transport
// errors, unexpected status codes and undecodable bodies.
var ErrFetchFailure = errors.New("catalog fetch failed")

// Client talks to the remote product catalog
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a catalog client rooted at baseURL.
// A zero timeout means requests are bounded only by their context.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchAll requests the full catalog (GET /products)
func (c *Client) FetchAll(ctx context.Context) (*models.ProductListResult, error) {
	return c.get(ctx, c.baseURL+"/products")
}

// Search requests products matching term (GET /products/search?q=term).
// An empty or whitespace-only term is the same as FetchAll.
func (c *Client) Search(ctx context.Context, term string) (*models.ProductListResult, error) {
	if strings.TrimSpace(term) == "" {
		return c.FetchAll(ctx)
	}

	query := url.Values{}
	query.Set("q", term)

	return c.get(ctx, c.baseURL+"/products/search?"+query.Encode())
}

func (c *Client) get(ctx context.Context, endpoint string) (*models.ProductListResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d", ErrFetchFailure, resp.StatusCode)
	}

	var result models.ProductListResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrFetchFailure, err)
	}

	c.logger.Debug("catalog response received",
		"url", endpoint,
		"products", len(result.Products),
		"total", result.Total,
		"skip", result.Skip,
		"limit", result.Limit,
	)

	return &result, nil
}
