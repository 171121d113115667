// Package catalog talks to the remote addon catalog: free-text search and batch update lookups.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/wam/internal/logger"
	"github.com/glorpus-work/wam/pkg/errors"
	"github.com/glorpus-work/wam/pkg/model"
)

const (
	// DefaultBaseURL is the catalog API root.
	DefaultBaseURL = "https://addons-ecs.forgesvc.net/api/v2"
	// DefaultGameID identifies the game in catalog queries.
	DefaultGameID = "1"
	// DefaultUserAgent is sent when none is configured.
	DefaultUserAgent = "wam/1.0"
)

// Client queries the catalog over HTTP.
type Client struct {
	client    *http.Client
	baseURL   string
	gameID    string
	userAgent string
}

// Options configure a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL   string
	GameID    string
	Timeout   time.Duration
	UserAgent string
}

// NewClient creates a catalog client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.GameID == "" {
		opts.GameID = DefaultGameID
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		client:    &http.Client{Timeout: opts.Timeout},
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		gameID:    opts.GameID,
		userAgent: opts.UserAgent,
	}
}

// Search returns every catalog hit for query that has a stable file for flavor.
// Any failure aborts the whole search.
func (c *Client) Search(ctx context.Context, query string, flavor model.Flavor) ([]model.SearchResult, error) {
	params := url.Values{}
	params.Set("gameId", c.gameID)
	params.Set("searchFilter", query)
	endpoint := c.baseURL + "/addon/search?" + params.Encode()

	entries, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NewAPIError("search", "", err)
	}

	addons := resolve(entries, flavor)
	results := make([]model.SearchResult, 0, len(addons))
	for _, a := range addons {
		results = append(results, model.SearchResult{
			Addon: a,
			Cells: []string{a.Name, a.GameVersion, a.FileDate, a.DownloadCount},
		})
	}
	logger.Debug("Catalog search finished", logger.Fields{"query": query, "flavor": flavor, "hits": len(entries), "results": len(results)})
	return results, nil
}

// CheckForUpdates looks up the latest stable file for each id in one batch request.
// Entries without an applicable file are absent from the result.
func (c *Client) CheckForUpdates(ctx context.Context, ids []string, flavor model.Flavor) (map[string]model.Addon, error) {
	if len(ids) == 0 {
		return nil, errors.ErrEmptyIDSet
	}
	numeric := make([]int64, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return nil, errors.NewAPIError("check-for-updates", id, errors.Wrapf(errors.ErrInvalidAddonID, "%q", id))
		}
		numeric = append(numeric, n)
	}
	body, err := json.Marshal(numeric)
	if err != nil {
		return nil, errors.NewAPIError("check-for-updates", "", err)
	}

	entries, err := c.do(ctx, http.MethodPost, c.baseURL+"/addon", body)
	if err != nil {
		return nil, errors.NewAPIError("check-for-updates", "", err)
	}

	updates := make(map[string]model.Addon, len(entries))
	for _, a := range resolve(entries, flavor) {
		updates[a.ID] = a
	}
	logger.Debug("Catalog update lookup finished", logger.Fields{"requested": len(ids), "resolved": len(updates), "flavor": flavor})
	return updates, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) ([]entry, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("Catalog request", logger.Fields{"method": method, "url": endpoint})
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: status %d: %w", method, endpoint, resp.StatusCode, errors.ErrCatalogStatus)
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCatalogResponse, err)
	}
	return entries, nil
}
