/*
Package eventloop provides a cooperative, single-goroutine task loop.

All work on a document is meant to run on one loop, including event
dispatch and the wrapping of highlights. Long running jobs split their work
into portions and schedule the continuation with AfterFunc, giving other
tasks a chance to run in between.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package eventloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hilite.loop'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.loop")
}

// ErrLoopStopped is returned when posting to a loop which has terminated.
var ErrLoopStopped = errors.New("event loop stopped")

const defaultQueueLength = 256

// Loop executes tasks one after another on a single goroutine.
//
// Concurrency model: the goroutine calling Run owns everything touched by
// tasks. Other goroutines hand over work through Post and Do.
type Loop struct {
	tasks    chan func()
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a loop. It does nothing until Run is called.
func New() *Loop {
	return &Loop{
		tasks:  make(chan func(), defaultQueueLength),
		stopCh: make(chan struct{}),
	}
}

// Run executes tasks until the loop is stopped or ctx is done.
// It returns ctx.Err() in the latter case, nil otherwise.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Stop()
	tracer().Debugf("event loop running")
	for {
		select {
		case task := <-l.tasks:
			task()
		case <-ctx.Done():
			tracer().Debugf("event loop cancelled")
			return ctx.Err()
		case <-l.stopCh:
			tracer().Debugf("event loop stopped")
			return nil
		}
	}
}

// Post enqueues a task. It blocks if the queue is full and fails with
// ErrLoopStopped once the loop has been stopped.
func (l *Loop) Post(task func()) error {
	select {
	case <-l.stopCh:
		return ErrLoopStopped
	default:
	}
	select {
	case l.tasks <- task:
		return nil
	case <-l.stopCh:
		return ErrLoopStopped
	}
}

// Do enqueues a task and waits for it to complete.
// Do must not be called from within a task, as this would dead-lock.
func (l *Loop) Do(task func()) error {
	done := make(chan struct{})
	if err := l.Post(func() {
		defer close(done)
		task()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-l.stopCh:
		return ErrLoopStopped
	}
}

// AfterFunc schedules task to run on the loop after duration d has elapsed.
// If the loop stops before task has started, task is dropped and dropped is
// called with ErrLoopStopped, unless it is nil. Exactly one of task and
// dropped is called. dropped runs on a timer goroutine, not on the loop.
func (l *Loop) AfterFunc(d time.Duration, task func(), dropped func(error)) {
	var claimed atomic.Bool
	drop := func(err error) {
		if !claimed.CompareAndSwap(false, true) {
			return
		}
		tracer().Debugf("dropping scheduled task: %v", err)
		if dropped != nil {
			dropped(err)
		}
	}
	time.AfterFunc(d, func() {
		started := make(chan struct{})
		if err := l.Post(func() {
			if claimed.CompareAndSwap(false, true) {
				close(started)
				task()
			}
		}); err != nil {
			drop(err)
			return
		}
		select {
		case <-started:
		case <-l.stopCh:
			drop(ErrLoopStopped)
		}
	})
}

// Stop terminates the loop. Tasks still queued are dropped.
// Stop may be called more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
	})
}
