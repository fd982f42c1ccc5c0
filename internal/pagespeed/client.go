package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/nao1215/precheck/internal/model"
)

// DefaultEndpoint is the PageSpeed Insights v5 API endpoint.
const DefaultEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// Strategies accepted by the API.
const (
	StrategyDesktop = "desktop"
	StrategyMobile  = "mobile"
)

// metricAudits lists the Lighthouse audits extracted into results, in
// report order.
var metricAudits = []string{
	"first-contentful-paint",
	"largest-contentful-paint",
	"speed-index",
	"total-blocking-time",
	"max-potential-fid",
	"cumulative-layout-shift",
}

// MetricAudits returns the audit keys extracted from API responses.
func MetricAudits() []string {
	out := make([]string, len(metricAudits))
	copy(out, metricAudits)
	return out
}

// Client queries the PageSpeed Insights API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key appended to requests. Without a key the
// API serves a small anonymous quota.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithClientLogger sets the logger for request diagnostics.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a PageSpeed Insights client. The analysis itself
// runs on Google's side and regularly takes tens of seconds, hence the
// generous default timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		endpoint:   DefaultEndpoint,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse mirrors the slice of the v5 response we consume.
type apiResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score *float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
		Audits map[string]struct {
			NumericValue float64  `json:"numericValue"`
			DisplayValue string   `json:"displayValue"`
			Score        *float64 `json:"score"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Run analyzes pageURL with the given strategy. The returned result
// carries the 0-100 performance score and the extracted metric audits,
// along with the raw response body for archiving.
func (c *Client) Run(ctx context.Context, pageURL, strategy string) (*model.StrategyResult, []byte, error) {
	if strategy != StrategyDesktop && strategy != StrategyMobile {
		return nil, nil, ErrInvalidStrategy
	}

	reqURL := c.requestURL(pageURL, strategy)
	c.logger.Debug("pagespeed request", "url", reqURL, "strategy", strategy)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("pagespeed: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("pagespeed: request %s: %w", strategy, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("pagespeed: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, nil, ErrQuotaExceeded
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("pagespeed: API returned %s: %s", resp.Status, apiErrorMessage(body))
	}

	result, err := parseResponse(body, pageURL, strategy)
	if err != nil {
		return nil, nil, err
	}
	return result, body, nil
}

// requestURL builds the API request URL.
func (c *Client) requestURL(pageURL, strategy string) string {
	q := url.Values{}
	q.Set("url", pageURL)
	q.Set("strategy", strategy)
	q.Set("category", "performance")
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	return c.endpoint + "?" + q.Encode()
}

// apiErrorMessage extracts the error message from an API error body,
// falling back to a truncated raw body.
func apiErrorMessage(body []byte) string {
	var r apiResponse
	if err := json.Unmarshal(body, &r); err == nil && r.Error != nil {
		return r.Error.Message
	}
	const max = 200
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}

// parseResponse converts an API response into a StrategyResult.
func parseResponse(body []byte, pageURL, strategy string) (*model.StrategyResult, error) {
	var r apiResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("pagespeed: decode response: %w", err)
	}
	score := r.LighthouseResult.Categories.Performance.Score
	if score == nil {
		return nil, ErrNoScore
	}

	result := &model.StrategyResult{
		URL:       pageURL,
		Strategy:  strategy,
		Score:     int(math.Round(*score * 100)),
		Metrics:   make(map[string]model.MetricValue, len(metricAudits)),
		Timestamp: time.Now(),
	}
	for _, key := range metricAudits {
		audit, ok := r.LighthouseResult.Audits[key]
		if !ok {
			continue
		}
		mv := model.MetricValue{
			NumericValue: audit.NumericValue,
			DisplayValue: audit.DisplayValue,
		}
		if audit.Score != nil {
			mv.Score = *audit.Score
		}
		result.Metrics[key] = mv
	}
	return result, nil
}
