package intervals

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"intervals-coach/internal/metrics"
)

const (
	// DefaultBaseURL is the base URL for the intervals.icu API
	DefaultBaseURL = "https://intervals.icu/api/v1"

	// DefaultTimeout is the default HTTP timeout
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default client-side rate limit (requests per second)
	DefaultRateLimit = 10

	// apiKeyUser is the fixed basic-auth username for API key access
	apiKeyUser = "API_KEY"
)

// Client is an intervals.icu API client
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	logger      *log.Logger
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTokenSource authenticates with an OAuth bearer token instead of an API key
func WithTokenSource(ts oauth2.TokenSource) ClientOption {
	return func(c *Client) {
		hc := oauth2.NewClient(context.Background(), ts)
		hc.Timeout = DefaultTimeout
		c.httpClient = hc
		c.apiKey = ""
	}
}

// WithLogger sets a logger
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom client-side rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.rateLimiter = NewRateLimiter(float64(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new intervals.icu API client using API key auth
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		rateLimiter: NewRateLimiter(DefaultRateLimit, DefaultRateLimit),
		logger:      log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetActivities fetches the athlete's activities within the date range
func (c *Client) GetActivities(ctx context.Context, athleteID string, r DateRange) ([]Activity, error) {
	path := fmt.Sprintf("/athlete/%s/activities", url.PathEscape(athleteID))

	var activities []Activity
	if err := c.get(ctx, metrics.OpListActivities, path, rangeParams(r), &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// GetWellness fetches wellness records within the date range.
// The API answers with a list; a date-keyed object is accepted as well.
func (c *Client) GetWellness(ctx context.Context, athleteID string, r DateRange) ([]Wellness, error) {
	path := fmt.Sprintf("/athlete/%s/wellness", url.PathEscape(athleteID))

	var raw json.RawMessage
	if err := c.get(ctx, metrics.OpListWellness, path, rangeParams(r), &raw); err != nil {
		return nil, err
	}

	records, err := decodeWellness(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding wellness: %w", err)
	}
	return records, nil
}

// GetEvents fetches calendar events within the date range
func (c *Client) GetEvents(ctx context.Context, athleteID string, r DateRange) ([]Event, error) {
	path := fmt.Sprintf("/athlete/%s/events", url.PathEscape(athleteID))

	var events []Event
	if err := c.get(ctx, metrics.OpListEvents, path, rangeParams(r), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetActivity fetches a single activity
func (c *Client) GetActivity(ctx context.Context, activityID string) (*Activity, error) {
	path := fmt.Sprintf("/activity/%s", url.PathEscape(activityID))

	var activity Activity
	if err := c.get(ctx, metrics.OpGetActivity, path, nil, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// GetActivityStreams fetches the power and heart rate streams for an activity
func (c *Client) GetActivityStreams(ctx context.Context, activityID string) (*Streams, error) {
	params := url.Values{}
	params.Set("types", "watts,heartrate")

	path := fmt.Sprintf("/activity/%s/streams", url.PathEscape(activityID))

	var raw []StreamData[*float64]
	if err := c.get(ctx, metrics.OpGetStreams, path, params, &raw); err != nil {
		return nil, err
	}

	streams := &Streams{}
	for _, s := range raw {
		switch s.Type {
		case "watts":
			streams.Watts = flatten(s.Data)
		case "heartrate":
			streams.Heartrate = flatten(s.Data)
		}
	}
	return streams, nil
}

// RateLimitStatus returns the number of requests made and 429s received
func (c *Client) RateLimitStatus() (requests, throttled int) {
	return c.rateLimiter.Status()
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.SetBasicAuth(apiKeyUser, c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	metrics.APIRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.APIRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	c.logger.Debug("intervals.icu request", "op", op, "path", path, "status", resp.StatusCode, "duration", elapsed)

	retryAfter := c.rateLimiter.UpdateFromResponse(resp.StatusCode, resp.Header)
	if retryAfter > 0 {
		metrics.APIThrottledTotal.Inc()
		c.logger.Warn("intervals.icu throttled request", "op", op, "retry_after", retryAfter)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Message:    string(bytes.TrimSpace(body)),
			RetryAfter: retryAfter,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}

func rangeParams(r DateRange) url.Values {
	params := url.Values{}
	params.Set("oldest", r.Oldest.String())
	params.Set("newest", r.Newest.String())
	return params
}

func decodeWellness(raw json.RawMessage) ([]Wellness, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '{' {
		var byDate map[string]Wellness
		if err := json.Unmarshal(raw, &byDate); err != nil {
			return nil, err
		}
		records := make([]Wellness, 0, len(byDate))
		for date, w := range byDate {
			w.ID = date
			records = append(records, w)
		}
		return records, nil
	}

	var records []Wellness
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}
