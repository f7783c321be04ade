package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/pathindex/search-analyze/internal/config"
	"github.com/pathindex/search-analyze/internal/handler"
	"github.com/pathindex/search-analyze/internal/search"
	"github.com/pathindex/search-analyze/internal/warmup"
)

func newTestApp(t *testing.T, hits *int) *app {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		_, _ = io.WriteString(w, `{"tokens":[{"token":"partition_0%2fcustomer_2*","startOffset":0,"endOffset":25,"position":0}]}`)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Config{IndexName: config.DefaultIndexName, APIVersion: config.DefaultAPIVersion, Endpoint: srv.URL}
	log := zap.NewNop()
	return &app{
		handler: handler.New(search.New(cfg, srv.Client(), log), log),
		warmer:  &warmup.Warmer{FunctionName: "search-analyze", Log: log},
		log:     log,
	}
}

func TestHandleRequest_Warmup(t *testing.T) {
	hits := 0
	a := newTestApp(t, &hits)

	out, err := a.handleRequest(context.Background(), json.RawMessage(`{"source":"warmup"}`))
	if err != nil {
		t.Fatalf("handleRequest() unexpected error: %v", err)
	}
	resp, ok := out.(*warmup.Response)
	if !ok {
		t.Fatalf("handleRequest() returned %T, want *warmup.Response", out)
	}
	if resp.Status != "warm" {
		t.Errorf("Status = %q, want warm", resp.Status)
	}
	if hits != 0 {
		t.Errorf("search service called %d times during warmup", hits)
	}
}

func TestHandleRequest_WarmupWithBadConcurrency(t *testing.T) {
	hits := 0
	a := newTestApp(t, &hits)

	out, err := a.handleRequest(context.Background(), json.RawMessage(`{"source":"warmup","concurrency":"3"}`))
	if err != nil {
		t.Fatalf("handleRequest() unexpected error: %v", err)
	}
	resp, ok := out.(*warmup.Response)
	if !ok {
		t.Fatalf("handleRequest() returned %T, want *warmup.Response", out)
	}
	if resp.InstancesWarmed != 1 {
		t.Errorf("InstancesWarmed = %d, want 1", resp.InstancesWarmed)
	}
	if hits != 0 {
		t.Errorf("search service called %d times during warmup", hits)
	}
}

func TestHandleRequest_Analyze(t *testing.T) {
	hits := 0
	a := newTestApp(t, &hits)

	out, err := a.handleRequest(context.Background(), json.RawMessage(`{"text":"partition_0%2fCustomer_2*","analyzer":"keyword"}`))
	if err != nil {
		t.Fatalf("handleRequest() unexpected error: %v", err)
	}
	resp, ok := out.(*handler.Response)
	if !ok {
		t.Fatalf("handleRequest() returned %T, want *handler.Response", out)
	}
	if resp.Error != "" || resp.StatusCode != http.StatusOK || len(resp.Result) == 0 {
		t.Errorf("handleRequest() = %+v", resp)
	}
	if hits != 1 {
		t.Errorf("search service called %d times, want 1", hits)
	}
}

func TestHandleRequest_MalformedEvent(t *testing.T) {
	hits := 0
	a := newTestApp(t, &hits)

	if _, err := a.handleRequest(context.Background(), json.RawMessage(`[1,2,3]`)); err == nil {
		t.Error("handleRequest() should fail for a non-object event")
	}
}
