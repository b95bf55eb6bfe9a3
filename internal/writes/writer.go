// Package writes runs persistence side effects under an explicit policy so callers
// declare, per write, whether a failure must reach the client.
package writes

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/startupsetu/setu/internal/logger"
)

// Policy decides how a write failure is handled.
type Policy int

const (
	// Critical writes run inline and their error is returned to the caller.
	Critical Policy = iota
	// BestEffort writes run inline; a failure is logged and swallowed.
	BestEffort
	// Background writes run detached from the request; a failure is logged.
	Background
)

func (p Policy) String() string {
	switch p {
	case Critical:
		return "critical"
	case BestEffort:
		return "best_effort"
	case Background:
		return "background"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Op names a write and its policy.
type Op struct {
	Name   string
	Policy Policy
}

// DefaultTimeout bounds a background write when the writer is built with no timeout.
const DefaultTimeout = 10 * time.Second

// Writer executes writes according to their policy and tracks background work.
type Writer struct {
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewWriter creates a writer; timeout bounds each background write.
func NewWriter(log *slog.Logger, timeout time.Duration) *Writer {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Writer{
		logger:  log.With(slog.String("service", "writes")),
		timeout: timeout,
	}
}

// Do runs fn under op's policy. Only Critical writes can return a non-nil error.
func (w *Writer) Do(ctx context.Context, op Op, fn func(ctx context.Context) error) error {
	switch op.Policy {
	case Critical:
		if err := fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", op.Name, err)
		}
		return nil
	case Background:
		detached := context.WithoutCancel(ctx)
		run := func() {
			bctx, cancel := context.WithTimeout(detached, w.timeout)
			defer cancel()
			w.report(bctx, op, w.safeRun(bctx, fn))
		}
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			// Draining: no new goroutines may join the wait group.
			run()
			return nil
		}
		w.wg.Add(1)
		w.mu.Unlock()
		go func() {
			defer w.wg.Done()
			run()
		}()
		return nil
	default:
		w.report(ctx, op, w.safeRun(ctx, fn))
		return nil
	}
}

// Close stops accepting background writes, so later ones run inline, and waits for
// the in-flight ones like Wait.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return w.Wait(ctx)
}

// Wait blocks until every background write has finished or ctx is done. While
// writes may still be submitted concurrently, use Close instead.
func (w *Writer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) safeRun(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

func (w *Writer) report(ctx context.Context, op Op, err error) {
	if err == nil {
		return
	}
	log := w.logger
	if scoped := logger.FromContext(ctx); scoped != logger.L {
		log = scoped
	}
	log.Warn("write failed",
		slog.String("write", op.Name),
		slog.String("policy", op.Policy.String()),
		slog.Any("error", err),
	)
}
