// Package venues implements the Foursquare venue search boundary.
// One call maps a category identifier and a coordinate pair to a list of
// venues pre-ordered by relevance; the caller takes the first entry.
package venues

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"log/slog"

	coreconfig "github.com/stepankuzmin/BarmaidBot/core/config"
	"github.com/stepankuzmin/BarmaidBot/core/logger"
)

const (
	defaultBaseURL = "https://api.foursquare.com/v2/venues/search"

	apiVersion   = "20180323"
	searchIntent = "browse"
	searchRadius = 1000
	resultLimit  = 10
)

// ErrSearch marks a transport or protocol failure of the search call.
// It is distinct from an empty result, which is a normal business outcome.
var ErrSearch = errors.New("venue search failed")

// Venue is a place record returned by the search API. It is not persisted;
// it is used once to build the outbound reply.
type Venue struct {
	ID      string
	Name    string
	Lat     float64
	Lng     float64
	Address string
}

// Searcher is the venue search contract used by the conversation flow.
type Searcher interface {
	Search(ctx context.Context, categoryID string, lat, lng float64) ([]Venue, error)
}

// Client issues venue search requests against the Foursquare API.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
}

// New constructs a Client. A nil httpClient selects a default with a
// conservative timeout.
func New(cfg coreconfig.FoursquareConfig, httpClient *http.Client) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:      base,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		http:         httpClient,
	}
}

type searchResponse struct {
	Response struct {
		Venues []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Location struct {
				Lat     float64 `json:"lat"`
				Lng     float64 `json:"lng"`
				Address string  `json:"address"`
			} `json:"location"`
		} `json:"venues"`
	} `json:"response"`
}

// Search returns venues of the given category around the coordinate,
// constrained to a fixed radius and result cap. An empty slice with a nil
// error means no venues were found.
func (c *Client) Search(ctx context.Context, categoryID string, lat, lng float64) ([]Venue, error) {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("client_secret", c.clientSecret)
	params.Set("intent", searchIntent)
	params.Set("limit", strconv.Itoa(resultLimit))
	params.Set("categoryId", categoryID)
	params.Set("radius", strconv.Itoa(searchRadius))
	params.Set("v", apiVersion)
	params.Set("ll", fmt.Sprintf("%v,%v", lat, lng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrSearch, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.VENUE.LogAttrs(ctx, slog.LevelError, "venues.search",
			slog.String("status", "fail"),
			slog.String("category_id", categoryID),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", ErrSearch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.VENUE.LogAttrs(ctx, slog.LevelError, "venues.search",
			slog.String("status", "fail"),
			slog.String("category_id", categoryID),
			slog.Int("http_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: unexpected status %s", ErrSearch, resp.Status)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		logger.VENUE.LogAttrs(ctx, slog.LevelError, "venues.search",
			slog.String("status", "fail"),
			slog.String("category_id", categoryID),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearch, err)
	}

	venues := make([]Venue, 0, len(decoded.Response.Venues))
	for _, v := range decoded.Response.Venues {
		venues = append(venues, Venue{
			ID:      v.ID,
			Name:    v.Name,
			Lat:     v.Location.Lat,
			Lng:     v.Location.Lng,
			Address: v.Location.Address,
		})
	}

	logger.VENUE.LogAttrs(ctx, slog.LevelDebug, "venues.search",
		slog.String("status", "ok"),
		slog.String("category_id", categoryID),
		slog.Int("count", len(venues)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return venues, nil
}
