package eventloop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestLoopRunsTasksInOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.loop")
	defer teardown()
	//
	l := New()
	go l.Run(context.Background())
	defer l.Stop()
	var seq []int
	for i := 0; i < 5; i++ {
		i := i
		if err := l.Post(func() { seq = append(seq, i) }); err != nil {
			t.Fatal(err)
		}
	}
	var result []int
	if err := l.Do(func() { result = append(result, seq...) }); err != nil {
		t.Fatal(err)
	}
	if len(result) != 5 {
		t.Fatalf("expected 5 tasks to have run, have %d", len(result))
	}
	for i, v := range result {
		if v != i {
			t.Errorf("expected task #%d to run in position %d, is %d", i, i, v)
		}
	}
}

func TestAfterFuncRunsOnLoop(t *testing.T) {
	l := New()
	go l.Run(context.Background())
	defer l.Stop()
	fired := make(chan struct{})
	l.AfterFunc(5*time.Millisecond, func() { close(fired) }, func(err error) {
		t.Errorf("expected task to run, was dropped: %v", err)
	})
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("expected scheduled task to fire")
	}
}

func TestPostAfterStop(t *testing.T) {
	l := New()
	l.Stop()
	l.Stop()
	if err := l.Post(func() {}); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("expected ErrLoopStopped, got %v", err)
	}
}

func TestRunReturnsContextError(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err := l.Do(func() {}); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("expected loop to be stopped after cancellation, got %v", err)
	}
}

func TestAfterFuncReportsDroppedTask(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.loop")
	defer teardown()
	//
	l := New()
	go l.Run(context.Background())
	dropped := make(chan error, 1)
	l.AfterFunc(20*time.Millisecond, func() {
		t.Error("expected task not to run after the loop stopped")
	}, func(err error) { dropped <- err })
	l.Stop()
	select {
	case err := <-dropped:
		if !errors.Is(err, ErrLoopStopped) {
			t.Errorf("expected ErrLoopStopped, is %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected dropped task to be reported")
	}
}

func TestAfterFuncDroppedWhenRunIsCancelled(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	dropped := make(chan error, 1)
	l.AfterFunc(20*time.Millisecond, func() {}, func(err error) { dropped <- err })
	cancel()
	select {
	case err := <-dropped:
		if !errors.Is(err, ErrLoopStopped) {
			t.Errorf("expected ErrLoopStopped, is %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected dropped task to be reported")
	}
}
