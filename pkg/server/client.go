// Package server talks to the manga server's REST API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"
)

const formContentType = "application/x-www-form-urlencoded"

// Options configures the HTTP client.
type Options struct {
	BaseURL          string
	Username         string
	Password         string
	UserAgent        string
	Timeout          time.Duration
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
}

func DefaultOptions() Options {
	return Options{
		BaseURL:          "http://localhost:4567",
		UserAgent:        "mangadesk",
		Timeout:          30 * time.Second,
		RetryCount:       3,
		RetryWaitTime:    500 * time.Millisecond,
		RetryMaxWaitTime: 5 * time.Second,
	}
}

// RequestOption customizes a single request, e.g. to add headers.
type RequestOption func(*resty.Request)

// Client is the retrying HTTP client every interaction handler goes through.
// GET and DELETE are retried as idempotent; form submissions opt in because
// the server applies them as per-field patches.
type Client struct {
	rc     *resty.Client
	logger zerolog.Logger
}

func NewClient(opts Options, logger zerolog.Logger) *Client {
	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(opts.RetryWaitTime).
		SetRetryMaxWaitTime(opts.RetryMaxWaitTime).
		SetTimeout(opts.Timeout).
		SetLogger(restyLogger{logger}).
		SetHeader("Accept", "application/json")

	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Username != "" {
		rc.SetBasicAuth(opts.Username, opts.Password)
	}

	rc.AddRetryHooks(func(res *resty.Response, err error) {
		ev := logger.Warn().Err(err)
		if res != nil && res.Request != nil {
			ev = ev.Str("method", res.Request.Method).
				Str("url", res.Request.URL).
				Int("attempt", res.Request.Attempt).
				Int("status", res.StatusCode())
		}
		ev.Msg("retrying request")
	})

	return &Client{rc: rc, logger: logger}
}

func (c *Client) BaseURL() string {
	return c.rc.BaseURL()
}

func (c *Client) Close() error {
	return c.rc.Close()
}

// GetRepeat issues a GET and decodes the JSON body into result. A nil result
// accepts any successful body.
func (c *Client) GetRepeat(ctx context.Context, path string, query url.Values, result any, opts ...RequestOption) error {
	req := c.request(ctx, opts)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	return c.do(req, http.MethodGet, path, result)
}

func (c *Client) DeleteRepeat(ctx context.Context, path string, result any, opts ...RequestOption) error {
	return c.do(c.request(ctx, opts), http.MethodDelete, path, result)
}

// SubmitFormRepeat sends form with method (usually PATCH) and decodes the
// response into result.
func (c *Client) SubmitFormRepeat(ctx context.Context, method, path string, form *Form, result any, opts ...RequestOption) error {
	req := c.request(ctx, opts).
		SetAllowNonIdempotentRetry(true).
		SetContentType(formContentType).
		SetBody(form.Encode())
	return c.do(req, method, path, result)
}

// GetBytesRepeat issues a GET and returns the raw body with the response
// headers.
func (c *Client) GetBytesRepeat(ctx context.Context, path string, opts ...RequestOption) ([]byte, http.Header, error) {
	req := c.request(ctx, opts).SetHeader("Accept", "*/*")
	res, err := c.execute(req, http.MethodGet, path)
	if err != nil {
		return nil, nil, err
	}
	return res.Bytes(), res.Header(), nil
}

func (c *Client) request(ctx context.Context, opts []RequestOption) *resty.Request {
	req := c.rc.R().SetContext(ctx)
	for _, opt := range opts {
		opt(req)
	}
	return req
}

func (c *Client) execute(req *resty.Request, method, path string) (*resty.Response, error) {
	res, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if res.IsError() {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: res.StatusCode(),
			Status:     res.Status(),
			Body:       res.String(),
		}
	}
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", res.StatusCode()).
		Dur("took", res.Duration()).
		Msg("request done")
	return res, nil
}

func (c *Client) do(req *resty.Request, method, path string, result any) error {
	res, err := c.execute(req, method, path)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(res.Bytes(), result); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// restyLogger routes resty's own diagnostics through zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug().Msgf(format, v...)
}
