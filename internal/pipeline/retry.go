package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/backmassage/movetrace/internal/config"
)

// Backoff returns the blocking delay after failed attempt n (0-based):
// 2^n seconds. Exported so attempt counting and backoff duration are
// testable in isolation from the pipeline body.
func Backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// ProcessWithRetry wraps Process in a bounded attempt loop with exponential
// backoff. Intermediate failures are logged, not surfaced; on exhaustion a
// single terminal error wrapping the last attempt's cause is returned.
// Non-retryable failures (invalid input, cancellation) short-circuit.
//
// The backoff sleep is synchronous. Callers on a latency-sensitive path
// should run the whole job on a dedicated worker.
func (p *Processor) ProcessWithRetry(ctx context.Context, inputPath, outputPath string, maxRetries int) (*Result, error) {
	if maxRetries <= 0 {
		maxRetries = config.DefaultMaxRetries
	}

	var last error
	for attempt := 0; attempt < maxRetries; attempt++ {
		p.log.Info("Processing attempt %d/%d", attempt+1, maxRetries)

		res, err := p.Process(ctx, inputPath, outputPath)
		if err == nil {
			return res, nil
		}
		last = err

		if !Retryable(err) {
			return nil, err
		}
		p.log.Warn("Attempt %d failed: %v", attempt+1, err)

		if attempt < maxRetries-1 {
			delay := Backoff(attempt)
			p.log.Info("Retrying in %s", delay)
			p.sleep(delay)
		}
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", maxRetries, last)
}
