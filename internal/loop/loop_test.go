package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dshills/editsync/internal/debounce"
)

func TestLoop_RunsTasksInOrder(t *testing.T) {
	l := New()
	var got []int
	for i := 1; i <= 3; i++ {
		n := i
		if !l.Post(func() { got = append(got, n) }) {
			t.Fatalf("Post(%d) = false", n)
		}
	}
	l.Post(l.Stop)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("got %v, want [1 2 3]", got)
	}
	if l.Post(func() {}) {
		t.Error("Post after Stop = true")
	}
}

func TestLoop_ContextCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run err = %v, want context.Canceled", err)
	}
	select {
	case <-l.Done():
	default:
		t.Error("Done() not closed after Run returned")
	}
}

func TestLoop_PanicStopsLoop(t *testing.T) {
	l := New()
	l.Post(func() { panic("boom") })

	err := l.Run(context.Background())
	var pe *PanicError
	if !errors.As(err, &pe) || pe.Value != "boom" {
		t.Errorf("Run err = %v, want PanicError(boom)", err)
	}
}

func TestLoop_PanicHandler(t *testing.T) {
	var recovered any
	l := New(WithPanicHandler(func(v any) { recovered = v }))
	l.Post(func() { panic("handled") })
	l.Post(l.Stop)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if recovered != "handled" {
		t.Errorf("recovered = %v", recovered)
	}
}

func TestLoop_SchedulesDebounceOnLoop(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var got []string
	f := debounce.New(func(v string) {
		got = append(got, v)
		l.Stop()
	}, 20*time.Millisecond, debounce.WithScheduler(l))

	l.Post(func() {
		f.Call("a")
		f.Call("b")
	})

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("got %v, want [b]", got)
	}
}
