// Package http implements the authenticated transport shared by all CML
// resource clients.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/cml-mcp/internal/auth"
	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

const defaultUserAgent = "cml-mcp/1.0"

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes a single API call relative to the base URL.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string

	// RawBody is sent verbatim instead of the JSON encoding of Body.
	RawBody     []byte
	ContentType string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// staleTokenRefresher is implemented by token managers that skip the
// refresh when the rejected token has already been replaced.
type staleTokenRefresher interface {
	RefreshStaleToken(ctx context.Context, stale string) error
}

// Client sends authenticated requests to the CML API.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	logger       Logger
	debug        bool
	userAgent    string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables transport retries for 5xx, 429 and connection errors.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPClient replaces the underlying *http.Client, e.g. to change TLS settings.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// NewClient creates a client for baseURL. tokenManager may be nil for
// unauthenticated calls.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.HTTPClient = httpClient

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		userAgent:    defaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends the request. A 401 triggers one reauthentication and one retry;
// any remaining non-2xx status, including an unfollowed 3xx, is returned as *cml.RequestError together
// with the response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	resp, usedToken, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.tokenManager != nil {
		c.logWarn("Request unauthorized, re-authenticating", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		err = c.refresh(ctx, usedToken)
		if err != nil {
			return resp, fmt.Errorf("re-authenticating after 401: %w", err)
		}

		resp, _, err = c.send(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp, &cml.RequestError{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(resp.Body)),
		}
	}

	return resp, nil
}

func (c *Client) refresh(ctx context.Context, usedToken string) error {
	if refresher, ok := c.tokenManager.(staleTokenRefresher); ok {
		return refresher.RefreshStaleToken(ctx, usedToken)
	}

	return c.tokenManager.RefreshToken(ctx)
}

// send performs one exchange and returns the bearer token it used.
func (c *Client) send(ctx context.Context, req *Request) (*Response, string, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, "", err
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	var token string

	if c.tokenManager != nil {
		token, err = c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("getting auth token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	if c.debug {
		c.logDebug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("executing %s %s: %w", req.Method, req.Path, err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}

	if c.debug {
		c.logDebug("HTTP Response", map[string]interface{}{
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
			"bytes":    len(respBody),
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, token, nil
}

func encodeBody(req *Request) ([]byte, string, error) {
	if req.RawBody != nil {
		contentType := req.ContentType
		if contentType == "" {
			contentType = "text/plain"
		}

		return req.RawBody, contentType, nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	var buf bytes.Buffer

	err := json.NewEncoder(&buf).Encode(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}

	return buf.Bytes(), "application/json", nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// PostWithQuery performs a POST request with a JSON body and query parameters.
func (c *Client) PostWithQuery(ctx context.Context, path string, query url.Values, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Query: query, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// PutText performs a PUT request with a plain text body.
func (c *Client) PutText(ctx context.Context, path, text string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:      http.MethodPut,
		Path:        path,
		RawBody:     []byte(text),
		ContentType: "text/plain",
	})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (c *Client) logDebug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

func (c *Client) logWarn(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}
