// Package warmup keeps Lambda instances of the analyze function warm.
// A scheduled event with source "warmup" is answered immediately and may fan
// out asynchronous self-invocations to hold extra instances.
package warmup

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"
)

const (
	// Source marks an event as a warmup ping.
	Source = "warmup"

	// Delay keeps this instance busy long enough for the children to land
	// on separate instances.
	Delay = 75 * time.Millisecond

	// MaxConcurrency caps the fan-out of a single ping.
	MaxConcurrency = 50
)

// Event is the scheduled warmup payload.
type Event struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// Response is returned for warmup invocations.
type Response struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// Invoker is the subset of the Lambda API used for self-invocation.
type Invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// Parse reports whether raw is a warmup event. Source alone decides; a
// missing or malformed concurrency counts as 0.
func Parse(raw json.RawMessage) (*Event, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}

	var source string
	if err := json.Unmarshal(fields["source"], &source); err != nil || source != Source {
		return nil, false
	}

	warm := &Event{Source: Source}

	// Clamp as float64 so huge values cannot overflow the int conversion.
	var concurrency float64
	if err := json.Unmarshal(fields["concurrency"], &concurrency); err == nil && concurrency > 0 {
		if concurrency > MaxConcurrency {
			concurrency = MaxConcurrency
		}
		warm.Concurrency = int(concurrency)
	}
	return warm, true
}

// NewLambdaInvoker builds a Lambda client from the default AWS config chain.
func NewLambdaInvoker(ctx context.Context) (Invoker, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return lambdasdk.NewFromConfig(cfg), nil
}

// Warmer answers warmup events.
type Warmer struct {
	FunctionName string
	Delay        time.Duration
	Log          *zap.Logger

	// NewInvoker is called lazily, only when an event asks for fan-out.
	NewInvoker func(ctx context.Context) (Invoker, error)
}

// Handle answers ev, self-invoking ev.Concurrency times first.
func (w *Warmer) Handle(ctx context.Context, ev *Event) (*Response, error) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}

	warmed := 1
	if ev.Concurrency > 0 {
		if err := w.selfInvoke(ctx, ev.Concurrency); err != nil {
			log.Warn("warmup self-invoke failed", zap.Int("concurrency", ev.Concurrency), zap.Error(err))
		} else {
			warmed += ev.Concurrency
		}
	}

	time.Sleep(w.Delay)

	return &Response{Status: "warm", InstancesWarmed: warmed}, nil
}

// selfInvoke fires count asynchronous invocations of this function.
// Children are sent concurrency 0 so they never fan out again.
func (w *Warmer) selfInvoke(ctx context.Context, count int) error {
	newInvoker := w.NewInvoker
	if newInvoker == nil {
		newInvoker = NewLambdaInvoker
	}
	client, err := newInvoker(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(Event{Source: Source})
	if err != nil {
		return err
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.FunctionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return firstErr
}
