package smythos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the hosted agent the service was built against.
const DefaultBaseURL = "https://cmfutewj7t8k62py5m7lqkqlm.agent.a.smyth.ai"

// Agent endpoints.
const (
	EndpointGenerateListings = "/api/generate_listings"
	EndpointPropertyDetail   = "/api/property_detail"
	EndpointAgentProfiles    = "/api/agent_profiles"
	EndpointNeighborhoodData = "/api/neighborhood_data"
	EndpointGenerateAds      = "/api/generate_ads"
)

// Options tunes a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	RatePerSec   float64
	Burst        int
	MaxBodyBytes int64
}

type Client struct {
	baseURL string
	http    *retryablehttp.Client
	limiter *rate.Limiter
	maxBody int64
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 4 << 20
	}

	rc := retryablehttp.NewClient()
	// single attempt per call
	rc.RetryMax = 0
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.HTTPClient.Timeout = opts.Timeout
	rc.Logger = zapLeveled{zap.L().Sugar()}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    rc,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		maxBody: opts.MaxBodyBytes,
	}
}

// Call sends one request to the agent and returns the body text. The body is
// only sent for POST/PUT, the query only for GET.
func (c *Client) Call(ctx context.Context, endpoint, method string, body any, query url.Values) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", classify(err)
	}

	u := c.baseURL + endpoint
	if method == http.MethodGet && len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil && (method == http.MethodPost || method == http.MethodPut) {
		b, err := json.Marshal(body)
		if err != nil {
			return "", eris.Wrap(err, "smythos: encode body")
		}
		payload = bytes.NewReader(b)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return "", eris.Wrap(err, "smythos: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain, application/json")

	zap.L().Debug("smythos: request", zap.String("method", method), zap.String("url", u))
	resp, err := c.http.Do(req)
	if err != nil {
		return "", classify(err)
	}
	defer resp.Body.Close()

	b, err := ioReadAllLimit(resp.Body, c.maxBody)
	if errors.Is(err, errPayloadTooLarge) {
		return "", err
	}
	if err != nil {
		return "", classify(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return string(b), nil
}

var errPayloadTooLarge = eris.New("smythos: payload too large")

func ioReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errPayloadTooLarge
	}
	return b, nil
}

// zapLeveled adapts zap to retryablehttp.LeveledLogger.
type zapLeveled struct{ s *zap.SugaredLogger }

func (l zapLeveled) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l zapLeveled) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l zapLeveled) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l zapLeveled) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
