// Package main is the entry point for the analyze Lambda function.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/pathindex/search-analyze/internal/config"
	"github.com/pathindex/search-analyze/internal/handler"
	"github.com/pathindex/search-analyze/internal/logger"
	"github.com/pathindex/search-analyze/internal/search"
	"github.com/pathindex/search-analyze/internal/warmup"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	app := &app{
		handler: handler.New(search.New(cfg, nil, log), log),
		warmer: &warmup.Warmer{
			FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			Delay:        warmup.Delay,
			Log:          log,
		},
		log: log,
	}

	lambda.Start(app.handleRequest)
}

type app struct {
	handler *handler.Handler
	warmer  *warmup.Warmer
	log     *zap.Logger
}

func (a *app) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup pings must not reach the search service.
	if ev, ok := warmup.Parse(event); ok {
		return a.warmer.Handle(ctx, ev)
	}

	var req handler.Request
	if err := json.Unmarshal(event, &req); err != nil {
		a.log.Warn("invalid event", zap.Error(err))
		return nil, err
	}

	return a.handler.Handle(ctx, req)
}
