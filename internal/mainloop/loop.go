// Package mainloop runs functions one at a time on a single goroutine, the
// way a UI framework runs work on its main thread.
package mainloop

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("mainloop: closed")

type task struct {
	fn   func()
	done chan error
}

// Loop owns one goroutine. Everything submitted through Do runs on it in
// submission order, so state touched only from Do needs no locking.
type Loop struct {
	tasks chan task

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// New starts a loop.
func New() *Loop {
	l := &Loop{
		tasks:   make(chan task),
		stopCh:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		select {
		case <-l.stopCh:
			return
		case t := <-l.tasks:
			t.done <- call(t.fn)
		}
	}
}

// call keeps the loop alive when fn panics.
func call(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mainloop: panic: %v", r)
		}
	}()
	fn()
	return nil
}

// Do runs fn on the loop and waits for it. If ctx ends before fn starts, fn
// never runs. If ctx ends while fn runs, Do returns early and fn still
// finishes.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	if l.closed.Load() {
		return ErrClosed
	}

	t := task{fn: fn, done: make(chan error, 1)}
	select {
	case l.tasks <- t:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrClosed
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop after the running task, if any, completes.
func (l *Loop) Close() {
	if l.closed.CompareAndSwap(false, true) {
		close(l.stopCh)
	}
	<-l.stopped
}
