// Package analysis is the HTTP client for the Earth Engine analysis
// backend: time-series graphs, map overlays, and shapefile link checks.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/rainmyanmar/rainmap/internal/selection"
)

const (
	cacheSize = 512
	cacheTTL  = 24 * time.Hour

	// timeoutMessage is the backend's transient failure; it is worth a
	// blind retry because the computation is resumable server-side.
	timeoutMessage = "Timeout, deadline exceeded"
	maxRetries     = 4
)

// Request carries the query parameters for a graph or overlay computation.
type Request struct {
	StartDate string
	EndDate   string
	Target    selection.QueryTarget
}

// values serializes the request the way the backend reads it. Products
// travel comma-joined in one parameter; areaType travels in its plural
// wire form and only in area mode.
func (r Request) values() url.Values {
	v := url.Values{}
	v.Set("startDate", r.StartDate)
	v.Set("endDate", r.EndDate)
	v.Set("method", string(r.Target.Method))
	v.Set("product", strings.Join(r.Target.Products, ","))
	v.Set("statistic", r.Target.Statistic)
	v.Set("target", r.Target.Target)
	v.Set("timestep", r.Target.Timestep)
	if r.Target.Method == selection.ModeArea {
		v.Set("areaType", r.Target.AreaType.QueryValue())
	}
	return v
}

// ChartData is the graph payload: first row is the header, every further
// row is [label, value1, value2, ...].
type ChartData [][]any

// OverlayInfo locates a rendered map overlay and its value range.
type OverlayInfo struct {
	MapID       string  `json:"mapid"`
	Token       string  `json:"token"`
	Max         float64 `json:"max"`
	Min         float64 `json:"min"`
	DownloadURL string  `json:"download_url"`
}

// BackendError is a failure the backend reported in its response body. Its
// message is shown to the user verbatim.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string { return e.Message }

// NetworkError is a transport-level failure reaching the backend.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "analysis backend unreachable: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// UserMessage maps an error to the text shown next to the create buttons.
func UserMessage(err error) string {
	switch e := err.(type) {
	case *BackendError:
		return e.Message
	case *selection.ValidationError:
		return e.Message
	default:
		return "Error obtaining data!"
	}
}

// Client calls the analysis backend over HTTP GET and caches successful
// response bodies for a day, keyed by the full request URL. The backend
// recomputes everything per request, so identical selections are served
// from cache without a round trip.
type Client struct {
	base  string
	http  *http.Client
	cache *expirable.LRU[string, []byte]
	log   zerolog.Logger
}

// New creates a client for the backend at base, e.g.
// "https://rainmap-backend.appspot.com".
func New(base string, log zerolog.Logger) *Client {
	return &Client{
		base:  strings.TrimRight(base, "/"),
		http:  &http.Client{Timeout: 500 * time.Second},
		cache: expirable.NewLRU[string, []byte](cacheSize, nil, cacheTTL),
		log:   log,
	}
}

// fetch performs one GET and returns the raw body. Cache lookups and
// stores happen in the callers because only decoded-and-valid responses
// may be cached.
func (c *Client) fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	return body, nil
}

// backendError extracts an {error: ...} payload, or nil.
func backendError(body []byte) *BackendError {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return &BackendError{Message: e.Error}
	}
	return nil
}

// Graph computes a time series for the request target.
func (c *Client) Graph(ctx context.Context, r Request) (ChartData, error) {
	u := c.base + "/graph?" + r.values().Encode()

	body, cached := c.cache.Get(u)
	if !cached {
		var err error
		body, err = c.fetch(ctx, u)
		if err != nil {
			return nil, err
		}
	}

	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") {
		if berr := backendError(body); berr != nil {
			return nil, berr
		}
		return nil, &BackendError{Message: "unexpected response"}
	}

	var data ChartData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &BackendError{Message: "unexpected response"}
	}
	if !cached {
		c.cache.Add(u, body)
		c.log.Debug().Str("url", u).Int("rows", len(data)).Msg("graph cached")
	}
	return data, nil
}

// Overlay computes a map overlay for the request target. The backend's
// transient timeout error is retried up to four times before being
// surfaced.
func (c *Client) Overlay(ctx context.Context, r Request) (*OverlayInfo, error) {
	u := c.base + "/overlay?" + r.values().Encode()

	if body, ok := c.cache.Get(u); ok {
		var info OverlayInfo
		if err := json.Unmarshal(body, &info); err == nil {
			return &info, nil
		}
	}

	var lastErr error
	for try := 0; try <= maxRetries; try++ {
		body, err := c.fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		if berr := backendError(body); berr != nil {
			lastErr = berr
			if berr.Message == timeoutMessage {
				c.log.Warn().Int("try", try+1).Msg("overlay timed out, retrying")
				continue
			}
			return nil, berr
		}
		var info OverlayInfo
		if err := json.Unmarshal(body, &info); err != nil || info.MapID == "" {
			return nil, &BackendError{Message: "unexpected response"}
		}
		c.cache.Add(u, body)
		return &info, nil
	}
	return nil, lastErr
}

// ValidateShapefile asks the backend whether a feature-collection link is
// usable as a query target.
func (c *Client) ValidateShapefile(ctx context.Context, link string) error {
	u := c.base + "/shapefile?" + url.Values{"link": {link}}.Encode()

	body, err := c.fetch(ctx, u)
	if err != nil {
		return err
	}
	if berr := backendError(body); berr != nil {
		return berr
	}
	var ok struct {
		Success string `json:"success"`
	}
	if err := json.Unmarshal(body, &ok); err != nil || ok.Success != "true" {
		return &BackendError{Message: "unexpected response"}
	}
	return nil
}
