package httputil

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/wonny/analystlens/pkg/logger"
)

// Client is an HTTP client wrapper with retry, pacing and logging.
// It satisfies the Do-only doer interface accepted by SDK clients.
// ⭐ SSOT: 모든 외부 HTTP 요청은 이 클라이언트를 통해서만 수행
type Client struct {
	httpClient  *http.Client
	logger      *logger.Logger
	retryConfig RetryConfig
	limiter     *rate.Limiter
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Enabled      bool
}

// StatusError is returned internally for retryable status codes
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("retryable status code: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// New creates a new HTTP client
// ⭐ SSOT: http.Client 인스턴스는 여기서만 생성
func New(log *logger.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithComponent("httputil"),
		retryConfig: RetryConfig{
			MaxRetries:   3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     10 * time.Second,
			Enabled:      true,
		},
	}
}

// WithRetry configures retry behavior
func (c *Client) WithRetry(maxRetries int, initialDelay time.Duration) *Client {
	c.retryConfig.MaxRetries = maxRetries
	c.retryConfig.InitialDelay = initialDelay
	c.retryConfig.Enabled = true
	return c
}

// DisableRetry disables automatic retry
func (c *Client) DisableRetry() *Client {
	c.retryConfig.Enabled = false
	return c
}

// WithRateLimit paces outbound requests to rps (burst 1). rps <= 0 disables pacing.
func (c *Client) WithRateLimit(rps float64) *Client {
	if rps <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	return c
}

// Do executes the request with pacing, retry and logging
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	fields := map[string]interface{}{
		"method": req.Method,
		"host":   req.URL.Host,
		"path":   req.URL.Path,
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	c.logger.WithFields(fields).Debug("HTTP request started")

	var resp *http.Response
	var err error
	if c.retryConfig.Enabled {
		resp, err = c.doWithRetry(req)
	} else {
		resp, err = c.httpClient.Do(req)
	}

	fields["duration"] = time.Since(startTime)
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Error("HTTP request failed")
		return nil, err
	}

	fields["status_code"] = resp.StatusCode
	c.logger.WithFields(fields).Debug("HTTP request completed")

	return resp, nil
}

// doWithRetry executes the request with exponential backoff.
// When every attempt hits a retryable status the last response is returned
// so the caller can read the provider's error body.
func (c *Client) doWithRetry(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	attempt := 0

	operation := func() error {
		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			resp = nil
		}

		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(fmt.Errorf("rewind request body: %w", err))
			}
			req.Body = body
		}
		attempt++

		r, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		resp = r

		if IsRetryableError(r.StatusCode) {
			return &StatusError{StatusCode: r.StatusCode}
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryConfig.InitialDelay
	policy.MaxInterval = c.retryConfig.MaxDelay
	policy.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.retryConfig.MaxRetries)), req.Context())

	notify := func(err error, delay time.Duration) {
		c.logger.WithFields(map[string]interface{}{
			"attempt": attempt,
			"delay":   delay,
			"path":    req.URL.Path,
		}).WithError(err).Warn("Retrying HTTP request")
	}

	err := backoff.RetryNotify(operation, b, notify)
	if err == nil {
		return resp, nil
	}

	if _, ok := err.(*StatusError); ok && resp != nil {
		return resp, nil
	}
	return nil, err
}

// IsRetryableError checks if a status code should be retried
func IsRetryableError(statusCode int) bool {
	// Retry on 5xx server errors and 429 Too Many Requests
	return statusCode >= 500 || statusCode == http.StatusTooManyRequests
}
