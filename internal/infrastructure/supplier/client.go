// Package supplier implements the HTTP client for the external resource
// supplier API. The supplier is a best-effort source of learning resource
// candidates: lookups that fail, time out, or trip the circuit breaker
// degrade to an empty result so the catalog fallback can take over.
package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/skillsprint/skillsprint-backend/internal/domain/resource"
	"github.com/skillsprint/skillsprint-backend/pkg/circuitbreaker"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
	"github.com/skillsprint/skillsprint-backend/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrRateLimited is returned when the local rate limiter refuses a request.
	ErrRateLimited = errors.New("supplier rate limit exceeded")

	// ErrUnavailable is returned when the supplier cannot be reached.
	ErrUnavailable = errors.New("supplier unavailable")
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the supplier client.
type ClientConfig struct {
	// BaseURL is the base URL of the supplier API.
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// RateLimiter configures the local token bucket.
	RateLimiter RateLimiterConfig

	// Logger for request logging. Defaults to the package default logger.
	Logger *logger.Logger

	// Debug enables per-request debug logging.
	Debug bool
}

// DefaultClientConfig returns sensible defaults for the supplier client.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:     baseURL,
		Timeout:     10 * time.Second,
		RateLimiter: DefaultRateLimiterConfig(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is an HTTP client for the resource supplier API with rate limiting,
// retries, and circuit breaking.
type Client struct {
	config         ClientConfig
	httpClient     *http.Client
	logger         *logger.Logger
	rateLimiter    *RateLimiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retrier        *retry.Retrier
	mapper         *Mapper
}

// NewClient creates a new supplier client.
func NewClient(config ClientConfig) *Client {
	log := config.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("supplier"))

	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RateLimiter.BurstSize == 0 {
		config.RateLimiter = DefaultRateLimiterConfig()
	}

	return &Client{
		config:      config,
		httpClient:  &http.Client{Timeout: config.Timeout},
		logger:      log,
		rateLimiter: NewRateLimiter(config.RateLimiter),
		circuitBreaker: circuitbreaker.SupplierBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
		retrier: retry.SupplierRetrier(),
		mapper:  NewMapper(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Search looks up resource candidates for a subskill.
// It never returns an error: any failure is logged and reported as zero
// candidates, because the caller always has the catalog to fall back on.
func (c *Client) Search(ctx context.Context, subskill string, limit int) []resource.Resource {
	results, err := c.search(ctx, subskill, limit)
	if err != nil {
		c.logger.Warn("supplier search degraded to empty",
			logger.Subskill(subskill),
			logger.Err(err),
		)
		return []resource.Resource{}
	}
	return results
}

// search performs the lookup and surfaces the underlying error.
func (c *Client) search(ctx context.Context, subskill string, limit int) ([]resource.Resource, error) {
	if c.config.BaseURL == "" {
		return nil, ErrUnavailable
	}

	params := url.Values{}
	params.Set("query", subskill)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	path := "/v1/resources/search?" + params.Encode()

	var response APIResponse[[]SearchResultDTO]
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, fmt.Errorf("search resources: %w", err)
	}

	if !response.Success {
		return nil, fmt.Errorf("search resources: api error: %s", response.Error)
	}

	return c.mapper.ToResources(response.Data), nil
}

// IsHealthy checks if the supplier API is reachable.
func (c *Client) IsHealthy(ctx context.Context) bool {
	var response APIResponse[map[string]interface{}]
	err := c.doSingleRequest(ctx, http.MethodGet, "/health", nil, &response)
	return err == nil && response.Success
}

// Reset resets the circuit breaker. Used by tests and admin tooling.
func (c *Client) Reset() {
	c.circuitBreaker.Reset()
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// doRequest performs an HTTP request with rate limiting, circuit breaking,
// and retries.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	return c.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			if err := c.rateLimiter.Allow(ctx); err != nil {
				return retry.Permanent(fmt.Errorf("rate limiter: %w", err))
			}

			err := c.doSingleRequest(ctx, method, path, body, result)
			if err == nil {
				return nil
			}
			if isRetryable(err) {
				return retry.Retryable(err)
			}
			return retry.Permanent(err)
		})
	})
}

// doSingleRequest performs a single HTTP request.
func (c *Client) doSingleRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	fullURL := c.config.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	if c.config.Debug {
		c.logger.Debug("supplier api request",
			logger.String("method", method),
			logger.String("path", path),
		)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &APIErrorDTO{Code: "RATE_LIMITED", Message: "rate limit exceeded"}
	}

	if resp.StatusCode >= 400 {
		var apiErr APIErrorDTO
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			apiErr.Code = statusCode(apiErr.Code, resp.StatusCode)
			return &apiErr
		}
		return &APIErrorDTO{
			Code:    statusCode("", resp.StatusCode),
			Message: fmt.Sprintf("status %d", resp.StatusCode),
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// statusCode maps an HTTP status to an error code when the body has none.
func statusCode(code string, status int) string {
	if code != "" {
		return code
	}
	if status >= 500 {
		return "SERVER_ERROR"
	}
	return "CLIENT_ERROR"
}

// isRetryable checks if an error is worth another attempt.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIErrorDTO
	if errors.As(err, &apiErr) {
		return apiErr.Code == "SERVER_ERROR" || apiErr.Code == "RATE_LIMITED"
	}

	// Transport-level failures are generally transient.
	errStr := err.Error()
	for _, marker := range []string{"timeout", "connection refused", "temporary", "reset", "EOF"} {
		if contains(errStr, marker) {
			return true
		}
	}
	return false
}

// contains reports whether s contains substr.
func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
