// Package search talks to the search service's analyze endpoint.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pathindex/search-analyze/internal/config"
	"github.com/pathindex/search-analyze/internal/domain"
)

// ErrInvalidJSON is returned when the response body cannot be decoded as JSON.
var ErrInvalidJSON = errors.New("response body is not valid JSON")

const (
	headerAPIKey    = "api-key"
	headerRequestID = "client-request-id"
	contentTypeJSON = "application/json"
)

// Doer is the part of *http.Client the client needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends analyze requests to one index.
type Client struct {
	httpClient Doer
	baseURL    string
	indexName  string
	apiVersion string
	adminKey   string
	log        *zap.Logger
	newID      func() string
}

// Response is what came back from the service. Body is the raw JSON
// document; StatusCode is informational only.
type Response struct {
	StatusCode int
	RequestID  string
	Body       json.RawMessage
}

// New creates a Client from cfg. A nil httpClient means a plain
// *http.Client without a timeout; a nil log disables logging.
func New(cfg config.Config, httpClient Doer, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL(),
		indexName:  cfg.IndexName,
		apiVersion: cfg.APIVersion,
		adminKey:   cfg.AdminKey,
		log:        log,
		newID:      func() string { return uuid.NewString() },
	}
}

// AnalyzeURL returns the full analyze endpoint URL for the configured index.
func (c *Client) AnalyzeURL() string {
	return fmt.Sprintf("%s/indexes/%s/analyze?api-version=%s",
		c.baseURL, url.PathEscape(c.indexName), url.QueryEscape(c.apiVersion))
}

// Analyze posts req and returns the decoded response document.
// Non-2xx responses are returned like any other as long as the body is JSON.
func (c *Client) Analyze(ctx context.Context, req domain.AnalyzeRequest) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.AnalyzeURL()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := c.newID()
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	// Set directly so the header name goes out lowercase as the service documents it.
	httpReq.Header[headerAPIKey] = []string{c.adminKey}
	httpReq.Header[headerRequestID] = []string{requestID}

	c.log.Debug("sending analyze request",
		zap.String("url", endpoint),
		zap.String("requestId", requestID),
		zap.Bool("apiKeySet", c.adminKey != ""),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Info("analyze response received",
		zap.String("requestId", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w (status %d, %d bytes)", ErrInvalidJSON, resp.StatusCode, len(body))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		RequestID:  requestID,
		Body:       json.RawMessage(body),
	}, nil
}

// Tokens decodes the tokens list when the body has the usual success shape.
func (r *Response) Tokens() ([]domain.Token, bool) {
	var result domain.AnalyzeResult
	if err := json.Unmarshal(r.Body, &result); err != nil || result.Tokens == nil {
		return nil, false
	}
	return result.Tokens, true
}

// ServiceError returns the service's error object if the body carries one.
func (r *Response) ServiceError() (*domain.ErrorDetail, bool) {
	var result domain.ErrorResponse
	if err := json.Unmarshal(r.Body, &result); err != nil || result.Error == nil {
		return nil, false
	}
	return result.Error, true
}
