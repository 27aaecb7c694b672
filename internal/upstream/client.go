package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Response carries an upstream reply for verbatim relay: status code and
// body are passed back to the original caller without transformation.
type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Client forwards gateway requests to the upstream REST API at a
// configured base URL. It performs no retries and no response
// transformation; whatever the upstream answers is what the caller sees.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given upstream base URL
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Login forwards a login payload to the upstream auth endpoint
func (c *Client) Login(ctx context.Context, body []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, "auth/login", "", "", "application/json", bytes.NewReader(body))
}

// Get forwards a read request, passing the query string through unchanged
func (c *Client) Get(ctx context.Context, path, rawQuery, authorization string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, rawQuery, authorization, "", nil)
}

// Post forwards a write request. Multipart bodies are streamed with the
// original Content-Type so the boundary survives; everything else is sent
// as application/json.
func (c *Client) Post(ctx context.Context, path, authorization, contentType string, body io.Reader) (*Response, error) {
	if !strings.Contains(contentType, "multipart/form-data") {
		contentType = "application/json"
	}
	return c.do(ctx, http.MethodPost, path, "", authorization, contentType, body)
}

// Delete forwards a delete request
func (c *Client) Delete(ctx context.Context, path, authorization string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, "", authorization, "", nil)
}

// HealthCheck reports whether the upstream API is reachable. Any HTTP
// response counts; only a transport failure is an error.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("building health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (c *Client) do(ctx context.Context, method, path, rawQuery, authorization, contentType string, body io.Reader) (*Response, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-Id", requestID(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("upstream request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err))
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Body:        respBody,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// requestID reuses the inbound chi request id when present so upstream
// logs correlate with the gateway's; otherwise a fresh UUID is minted.
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

// JSONBody validates and re-serializes an inbound JSON payload for
// forwarding. Invalid JSON is rejected here rather than relayed.
func JSONBody(raw []byte) ([]byte, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return json.Marshal(payload)
}
