// Package arcgis is a thin query client for ArcGIS FeatureServer layers.
// It handles pagination, the service's in-body error envelope, and retry
// with rate limiting; everything above it works with decoded features.
package arcgis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/resilience"
)

// Geometry holds the subset of ArcGIS geometry the hazard feeds use: either
// polygon rings (each vertex is [lon, lat]) or a point's x/y.
type Geometry struct {
	Rings [][][2]float64 `json:"rings,omitempty"`
	X     *float64       `json:"x,omitempty"`
	Y     *float64       `json:"y,omitempty"`
}

// Feature is one row of a layer query.
type Feature struct {
	Attributes Attributes `json:"attributes"`
	Geometry   *Geometry  `json:"geometry,omitempty"`
}

// envelopeError is the service's in-body error object. The services return
// it with HTTP 200, throttling included, so the body must be inspected on
// every page.
type envelopeError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

type queryResponse struct {
	Error    *envelopeError `json:"error,omitempty"`
	Features []Feature      `json:"features"`
}

// Options configures a Client. Zero values pick the defaults.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	PageSize  int
	RateLimit rate.Limit
	Burst     int
	Retry     resilience.RetryConfig
}

// Client queries FeatureServer layers with pagination, per-host rate
// limiting, and transient-error retry.
type Client struct {
	httpClient *http.Client
	userAgent  string
	pageSize   int
	retry      resilience.RetryConfig
	limiter    *rate.Limiter
}

// NewClient builds a client from opts.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 2000
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "disaster-monitor/1.0"
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: opts.UserAgent,
		pageSize:  opts.PageSize,
		retry:     opts.Retry,
		limiter:   rate.NewLimiter(opts.RateLimit, opts.Burst),
	}
}

// Query fetches every feature matching the where clause from the layer,
// paging with resultOffset until a short page signals the end. layerURL is
// the layer root (".../FeatureServer/4"); Query appends "/query".
func (c *Client) Query(ctx context.Context, layerURL, where string) ([]Feature, error) {
	if where == "" {
		where = "1=1"
	}

	var all []Feature
	offset := 0
	for {
		page, err := c.queryPage(ctx, layerURL, where, offset)
		if err != nil {
			return nil, eris.Wrapf(err, "arcgis: query %s", layerURL)
		}
		all = append(all, page...)

		if len(page) < c.pageSize {
			return all, nil
		}
		offset += len(page)
	}
}

func (c *Client) queryPage(ctx context.Context, layerURL, where string, offset int) ([]Feature, error) {
	params := url.Values{
		"where":             {where},
		"outFields":         {"*"},
		"returnGeometry":    {"true"},
		"f":                 {"json"},
		"resultRecordCount": {strconv.Itoa(c.pageSize)},
		"resultOffset":      {strconv.Itoa(offset)},
	}
	queryURL := layerURL + "/query?" + params.Encode()

	cfg := c.retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("arcgis", "query")
	}

	return resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]Feature, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limiter wait")
		}

		zap.L().Debug("querying feature layer",
			zap.String("url", layerURL),
			zap.Int("offset", offset),
		)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "create request")
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "execute request")
		}
		defer resp.Body.Close() //nolint:errcheck

		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(
				eris.Errorf("http %d from %s", resp.StatusCode, layerURL), resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, eris.Errorf("unexpected status %d from %s", resp.StatusCode, layerURL)
		}

		var decoded queryResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, eris.Wrap(err, "decode response")
		}

		if decoded.Error != nil {
			return nil, envelopeToError(decoded.Error, layerURL)
		}
		return decoded.Features, nil
	})
}

// envelopeToError maps the in-body error object onto the retry layer's
// error types. 429 carries the server's wait hint in its details.
func envelopeToError(e *envelopeError, layerURL string) error {
	err := eris.Errorf("service error %d from %s: %s", e.Code, layerURL, e.Message)
	if e.Code == 429 {
		return resilience.NewThrottledError(err, parseRetryAfter(e.Details))
	}
	if resilience.IsTransientHTTPStatus(e.Code) {
		return resilience.NewTransientError(err, e.Code)
	}
	return err
}

// parseRetryAfter extracts the wait from a detail line like
// "Please wait 30 seconds before retrying". The services vary the phrasing
// around the number, so the first word that parses as a non-negative
// integer is taken as the seconds count. Anything unparseable falls back
// to 60s.
func parseRetryAfter(details []string) time.Duration {
	const fallback = 60 * time.Second
	if len(details) == 0 {
		return fallback
	}
	for _, field := range strings.Fields(details[0]) {
		secs, err := strconv.Atoi(field)
		if err != nil || secs < 0 {
			continue
		}
		return time.Duration(secs) * time.Second
	}
	return fallback
}
