// Package catalog is a client for the remote recipe catalog (TheMealDB v1).
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/hmchef/internal/config"
	"github.com/hpungsan/hmchef/internal/recipe"
)

// maxBodyBytes caps how much of a catalog response is read.
const maxBodyBytes = 4 << 20

// mealsResponse is the envelope of every catalog endpoint. Meals is null
// when a search has no matches.
type mealsResponse struct {
	Meals []recipe.Meal `json:"meals"`
}

// Client queries the catalog. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New builds a Client from configuration.
func New(cfg *config.Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := cfg.CatalogBaseURL
	if base == "" {
		base = config.DefaultCatalogBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    newHTTPClient(cfg.UserAgent, cfg.CatalogTimeout(), logger),
		logger:  logger,
	}
}

// NewWithHTTPClient builds a Client with a caller-provided HTTP client.
func NewWithHTTPClient(baseURL string, hc *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc, logger: logger}
}

// Search returns catalog recipes whose name contains query. No matches is an
// empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]recipe.Recipe, error) {
	endpoint := c.baseURL + "/search.php?s=" + url.QueryEscape(query)

	var body mealsResponse
	if err := c.get(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	return recipe.FromMeals(body.Meals), nil
}

// Random returns one random catalog recipe.
func (c *Client) Random(ctx context.Context) (recipe.Recipe, error) {
	endpoint := c.baseURL + "/random.php"

	var body mealsResponse
	if err := c.get(ctx, endpoint, &body); err != nil {
		return recipe.Recipe{}, err
	}
	if len(body.Meals) == 0 {
		return recipe.Recipe{}, ErrNoMeals
	}
	return recipe.FromMeal(body.Meals[0]), nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &HTTPStatusError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	// The catalog answers an empty body for some malformed queries.
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}
