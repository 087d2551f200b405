// Package nvd implements a paced, retrying client of the NVD CVE and CPE 2.0 APIs.
package nvd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/nvdmirror/internal/models"
	"github.com/iudanet/nvdmirror/pkg/api"
)

// DefaultBaseURL is the public NVD service
const DefaultBaseURL = "https://services.nvd.nist.gov"

// Defaults for an API key holder (50 requests per 30 seconds)
const (
	DefaultPacingDelay = 6 * time.Second
	DefaultRetryDelay  = 10 * time.Second
	DefaultMaxAttempts = 3
	DefaultTimeout     = 60 * time.Second
)

// Options configures the client
type Options struct {
	BaseURL string
	APIKey  string

	// PacingDelay is the minimum time between two successful requests
	PacingDelay time.Duration
	// OverloadDelay is the wait after HTTP 429; defaults to twice PacingDelay
	OverloadDelay time.Duration
	// RetryDelay is the wait after any other failure
	RetryDelay time.Duration
	Timeout    time.Duration

	MaxAttempts int
}

func (o *Options) setDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.PacingDelay <= 0 {
		o.PacingDelay = DefaultPacingDelay
	}
	if o.OverloadDelay <= 0 {
		o.OverloadDelay = 2 * o.PacingDelay
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
}

// Client fetches pages from the NVD API. It is safe for concurrent use,
// but pacing is global: concurrent callers are serialized by the pacer.
type Client struct {
	lastSuccess time.Time
	httpClient  *http.Client
	logger      *slog.Logger
	onBackoff   func(time.Duration) // хук для тестов: фиксирует задержки между попытками
	baseURL     string
	apiKey      string
	opts        Options
	mu          sync.Mutex
}

// NewClient creates a client with defaults applied to zero options
func NewClient(opts Options, logger *slog.Logger) *Client {
	opts.setDefaults()
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		opts:    opts,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// Fetch requests one page of entity. A 404 yields an empty page rather than
// an error. Pacing is applied before the request is sent.
func (c *Client) Fetch(ctx context.Context, entity models.Entity, req api.PageRequest) (*models.Page, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	url := c.baseURL + entity.Path + "?" + req.Query().Encode()

	// Задержка перед следующей попыткой зависит от класса последней ошибки
	var (
		nextDelay time.Duration
		attempt   int
		page      *models.Page
	)
	backoff := retry.WithMaxRetries(uint64(c.opts.MaxAttempts-1), retry.BackoffFunc(func() (time.Duration, bool) {
		if c.onBackoff != nil {
			c.onBackoff(nextDelay)
		}
		return nextDelay, false
	}))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		c.logger.Debug("Fetching page",
			"entity", entity.Name,
			"start_index", req.StartIndex,
			"attempt", attempt)

		p, delay, err := c.doRequest(ctx, entity, url, req.StartIndex)
		if err != nil {
			if errors.Is(err, errTransient) {
				nextDelay = delay
				c.logger.Warn("Request failed, will retry",
					"entity", entity.Name,
					"start_index", req.StartIndex,
					"attempt", attempt,
					"max_attempts", c.opts.MaxAttempts,
					"delay", delay,
					"error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		if errors.Is(err, errTransient) {
			return nil, fmt.Errorf("%w: %s start_index=%d after %d attempts: %w",
				ErrExhaustedRetries, entity.Name, req.StartIndex, attempt, err)
		}
		return nil, err
	}

	c.lastSuccess = time.Now()
	return page, nil
}

// pace blocks until PacingDelay has passed since the last successful call
func (c *Client) pace(ctx context.Context) error {
	if c.lastSuccess.IsZero() {
		return nil
	}
	wait := c.opts.PacingDelay - time.Since(c.lastSuccess)
	if wait <= 0 {
		return nil
	}

	c.logger.Debug("Pacing before next request", "wait", wait)
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// doRequest performs a single attempt. For transient failures it also returns
// the delay to wait before the next attempt.
func (c *Client) doRequest(ctx context.Context, entity models.Entity, url string, startIndex int) (*models.Page, time.Duration, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set(api.HeaderAPIKey, c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, c.opts.RetryDelay, fmt.Errorf("%w: request failed: %w", errTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.opts.RetryDelay, fmt.Errorf("%w: failed to read response body: %w", errTransient, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		page, err := decodePage(entity, body, startIndex)
		if err != nil {
			return nil, c.opts.RetryDelay, fmt.Errorf("%w: %w", errTransient, err)
		}
		return page, 0, nil

	case http.StatusNotFound:
		// NVD отвечает 404, когда для окна нет данных
		c.logger.Info("No data for request", "entity", entity.Name, "start_index", startIndex)
		return &models.Page{StartOffset: startIndex}, 0, nil

	case http.StatusForbidden:
		return nil, 0, fmt.Errorf("%w: %s", ErrAuthFailure, errorMessage(resp.StatusCode, body))

	case http.StatusTooManyRequests:
		return nil, c.opts.OverloadDelay, fmt.Errorf("%w: rate limited: %s", errTransient, errorMessage(resp.StatusCode, body))

	default:
		return nil, c.opts.RetryDelay, fmt.Errorf("%w: %s", errTransient, errorMessage(resp.StatusCode, body))
	}
}

func decodePage(entity models.Entity, body []byte, startIndex int) (*models.Page, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var resp api.PageResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &models.Page{
		Items:       resp.Items(entity.ItemsKey),
		Raw:         body,
		TotalCount:  resp.TotalResults,
		StartOffset: startIndex,
	}, nil
}

func errorMessage(status int, body []byte) string {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return fmt.Sprintf("server error (%d): %s", status, errResp.Message)
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Sprintf("request failed with status %d: %s", status, msg)
}
