// Package server provides process lifecycle management: running the
// foreground task, reacting to termination signals, and releasing resources
// in reverse order of acquisition.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Task is the foreground work of the process. It should return when ctx is
// cancelled or its work is done.
type Task func(ctx context.Context) error

// Lifecycle runs one Task and then releases registered resources.
type Lifecycle struct {
	logger  *zap.Logger
	mu      sync.Mutex
	closers []namedCloser
	signals []os.Signal
}

type namedCloser struct {
	name  string
	close func() error
}

// NewLifecycle creates a Lifecycle that stops on SIGINT or SIGTERM.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		logger:  logger,
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
}

// OnStop registers a resource to release when Run finishes. Resources are
// released in reverse registration order.
//
// Precondition: name must be non-empty; fn must be non-nil.
func (l *Lifecycle) OnStop(name string, fn func() error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closers = append(l.closers, namedCloser{name: name, close: fn})
}

// Run executes task until it returns, ctx is cancelled, or a termination
// signal arrives, then releases every registered resource. A task blocked on
// input it cannot cancel is abandoned.
//
// Postcondition: All registered resources are released when this method
// returns. Returns the task error joined with any release errors.
func (l *Lifecycle) Run(ctx context.Context, name string, task Task) error {
	start := time.Now()

	ctx, stop := signal.NotifyContext(ctx, l.signals...)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- task(ctx)
	}()
	l.logger.Info("task started", zap.String("task", name))

	var taskErr error
	select {
	case err := <-done:
		if err != nil {
			taskErr = fmt.Errorf("task %s: %w", name, err)
			l.logger.Error("task failed", zap.String("task", name), zap.Error(err))
		} else {
			l.logger.Info("task finished", zap.String("task", name))
		}
	case <-ctx.Done():
		l.logger.Info("shutting down", zap.String("task", name), zap.Error(context.Cause(ctx)))
	}

	closeErr := l.shutdown()
	l.logger.Info("shutdown complete",
		zap.Duration("total_uptime", time.Since(start)),
	)
	return errors.Join(taskErr, closeErr)
}

func (l *Lifecycle) shutdown() error {
	l.mu.Lock()
	closers := l.closers
	l.closers = nil
	l.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		nc := closers[i]
		started := time.Now()
		if err := nc.close(); err != nil {
			l.logger.Warn("releasing resource failed", zap.String("resource", nc.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("closing %s: %w", nc.name, err))
			continue
		}
		l.logger.Debug("resource released",
			zap.String("resource", nc.name),
			zap.Duration("elapsed", time.Since(started)),
		)
	}
	return errors.Join(errs...)
}
