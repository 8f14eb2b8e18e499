// Package apifootball is the API-Football v3 adapter. It is the only package
// that knows the provider's wire format.
package apifootball

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/resilience"
	"github.com/LanceSports/LanceSports-sub000/internal/usecase"
	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	apiKeyHeader   = "x-apisports-key"
	maxBodyBytes   = 6 << 20
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	RateLimitRPM   int
	Retry          resilience.RetryPolicy
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	retry      resilience.RetryPolicy
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
	now        func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPM > 0 {
		perSecond := float64(cfg.RateLimitRPM) / 60
		burst := cfg.RateLimitRPM / 60
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}

	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = "api-football"
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		limiter:    limiter,
		retry:      resilience.NormalizeRetryPolicy(cfg.Retry),
		breaker:    resilience.NewCircuitBreaker(breakerCfg, logger),
		logger:     logger.Named("apifootball"),
		now:        time.Now,
	}
}

// BreakerState reports the provider circuit state for health output.
func (c *Client) BreakerState() resilience.CircuitState {
	return c.breaker.State()
}

// getJSON fetches path and returns the envelope's response items. 429
// answers are retried per the client's RetryPolicy; any other failure is
// returned as is.
func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	raw, err := c.doRequest(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var env envelope[T]
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode provider payload path=%s: %w", path, err)
	}
	if msg := env.errorMessage(); msg != "" {
		return nil, newUpstreamError(path, http.StatusOK, msg)
	}
	if env.Response == nil {
		return []T{}, nil
	}
	return env.Response, nil
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	done, err := c.breaker.Allow()
	if err != nil {
		c.logger.WarnContext(ctx, "provider circuit breaker rejected request", "path", path, "state", string(c.breaker.State()))
		return nil, fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	var raw []byte
	err = c.retry.Run(ctx, func(ctx context.Context, attempt int) error {
		body, reqErr := c.executeRequest(ctx, path, fullURL)
		if reqErr != nil {
			var upstream *UpstreamError
			if errors.As(reqErr, &upstream) && upstream.RateLimited {
				c.logger.WarnContext(ctx, "provider rate limited request",
					"path", path,
					"attempt", attempt,
					"retry_after", upstream.RetryAfter.String(),
				)
				return &resilience.RetryableError{Err: reqErr, Wait: upstream.RetryAfter}
			}
			return reqErr
		}
		raw = body
		return nil
	})
	done(err == nil || !isTransient(err))
	if err != nil {
		c.logger.WarnContext(ctx, "provider request failed", "path", path, "error", err)
		return nil, err
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, path, fullURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, newTransportError(path, c.redact(err.Error()))
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return nil, newTransportError(path, fmt.Sprintf("read response body: %v", err))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return append([]byte(nil), buf.B...), nil
	case resp.StatusCode == http.StatusTooManyRequests:
		wait := resilience.RetryAfter(resp.Header, c.now(), c.retry.DefaultWait)
		return nil, newRateLimitedError(path, abbreviateBody(buf.B), wait)
	default:
		return nil, newUpstreamError(path, resp.StatusCode, abbreviateBody(buf.B))
	}
}

func (c *Client) redact(value string) string {
	if c.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, c.apiKey, "REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
