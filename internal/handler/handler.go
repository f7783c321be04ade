// Package handler provides the Lambda handler for analyze requests.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pathindex/search-analyze/internal/domain"
	"github.com/pathindex/search-analyze/internal/search"
)

// Request is the Lambda input. It mirrors the analyze body.
type Request struct {
	Text         string   `json:"text"`
	Analyzer     string   `json:"analyzer,omitempty"`
	Tokenizer    string   `json:"tokenizer,omitempty"`
	TokenFilters []string `json:"tokenFilters,omitempty"`
	CharFilters  []string `json:"charFilters,omitempty"`
}

// Response is the Lambda output. Result is the service's document verbatim.
type Response struct {
	StatusCode int             `json:"statusCode,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Analyzer is satisfied by *search.Client.
type Analyzer interface {
	Analyze(ctx context.Context, req domain.AnalyzeRequest) (*search.Response, error)
}

// Handler serves analyze requests with a shared client.
type Handler struct {
	client Analyzer
	log    *zap.Logger
}

// New creates a Handler.
func New(client Analyzer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{client: client, log: log}
}

// Handle validates req and forwards it to the analyze endpoint.
// Failures are reported in Response.Error; the Go error is always nil so the
// invocation itself succeeds.
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	analyzeReq, err := validateRequest(req)
	if err != nil {
		return &Response{Error: err.Error()}, nil
	}

	resp, err := h.client.Analyze(ctx, analyzeReq)
	if err != nil {
		h.log.Error("analyze failed", zap.Error(err))
		return &Response{Error: fmt.Sprintf("analyze failed: %v", err)}, nil
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Result:     resp.Body,
	}, nil
}

// validateRequest checks the request is valid and returns the body to send,
// with analyzer and tokenizer names trimmed.
func validateRequest(req Request) (domain.AnalyzeRequest, error) {
	if req.Text == "" {
		return domain.AnalyzeRequest{}, fmt.Errorf("text is required")
	}
	analyzer := strings.TrimSpace(req.Analyzer)
	tokenizer := strings.TrimSpace(req.Tokenizer)
	if analyzer == "" && tokenizer == "" {
		return domain.AnalyzeRequest{}, fmt.Errorf("analyzer or tokenizer is required")
	}
	if analyzer != "" && tokenizer != "" {
		return domain.AnalyzeRequest{}, fmt.Errorf("analyzer and tokenizer are mutually exclusive")
	}
	if analyzer != "" && (len(req.TokenFilters) > 0 || len(req.CharFilters) > 0) {
		return domain.AnalyzeRequest{}, fmt.Errorf("tokenFilters and charFilters require a tokenizer")
	}
	return domain.AnalyzeRequest{
		Text:         req.Text,
		Analyzer:     analyzer,
		Tokenizer:    tokenizer,
		TokenFilters: req.TokenFilters,
		CharFilters:  req.CharFilters,
	}, nil
}
