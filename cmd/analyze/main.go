// Package main runs one analyze call against the search service and prints the response.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pathindex/search-analyze/internal/config"
	"github.com/pathindex/search-analyze/internal/domain"
	"github.com/pathindex/search-analyze/internal/logger"
	"github.com/pathindex/search-analyze/internal/output"
	"github.com/pathindex/search-analyze/internal/search"
)

const (
	analyzeText     = "partition_0%2fCustomer_2*"
	analyzeAnalyzer = "keyword"
)

func main() {
	os.Exit(realMain(os.LookupEnv, os.Stdout, os.Stderr))
}

// realMain wires config, logging and the client, and returns the exit code:
// 0 when a JSON document was printed, 1 on any failure.
func realMain(lookup func(string) (string, bool), stdout, stderr io.Writer) int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(stderr, "failed to load .env: %v\n", err)
		return 1
	}

	cfg := config.FromLookup(lookup)
	log, err := logger.NewWithWriter(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to create logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := search.New(cfg, nil, log)
	if err := run(ctx, client, stdout, log); err != nil {
		log.Error("analyze failed", zap.Error(err))
		return 1
	}
	return 0
}

// analyzer is satisfied by *search.Client.
type analyzer interface {
	Analyze(ctx context.Context, req domain.AnalyzeRequest) (*search.Response, error)
}

// run sends the fixed analyze request and prints whatever JSON comes back.
// The status code only affects logging.
func run(ctx context.Context, client analyzer, stdout io.Writer, log *zap.Logger) error {
	resp, err := client.Analyze(ctx, domain.AnalyzeRequest{
		Text:     analyzeText,
		Analyzer: analyzeAnalyzer,
	})
	if err != nil {
		return err
	}

	if detail, ok := resp.ServiceError(); ok {
		log.Warn("service returned an error document",
			zap.Int("status", resp.StatusCode),
			zap.String("code", detail.Code),
			zap.String("message", detail.Message),
		)
	} else if tokens, ok := resp.Tokens(); ok {
		log.Info("analyze complete", zap.Int("tokens", len(tokens)))
	}

	return output.Print(stdout, resp.Body)
}
