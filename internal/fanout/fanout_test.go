package fanout

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

// TestAll tests ordered joins and first-failure-wins.
func TestAll(t *testing.T) {
	t.Parallel()

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		got, err := All(context.Background(),
			func(context.Context) (int, error) { time.Sleep(20 * time.Millisecond); return 1, nil },
			func(context.Context) (int, error) { return 2, nil },
			func(context.Context) (int, error) { time.Sleep(5 * time.Millisecond); return 3, nil },
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got, []int{1, 2, 3}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("first error wins and results are dropped", func(t *testing.T) {
		t.Parallel()

		first := errors.New("first")
		got, err := All(context.Background(),
			func(context.Context) (int, error) { return 0, first },
			func(context.Context) (int, error) { time.Sleep(30 * time.Millisecond); return 0, errors.New("second") },
			func(context.Context) (int, error) { return 3, nil },
		)
		if !errors.Is(err, first) {
			t.Errorf("expected first error, got %v", err)
		}
		if got != nil {
			t.Errorf("expected no results, got %v", got)
		}
	})

	t.Run("siblings are not cancelled by a failure", func(t *testing.T) {
		t.Parallel()

		var finished atomic.Bool
		_, err := All(context.Background(),
			func(context.Context) (int, error) { return 0, errors.New("boom") },
			func(ctx context.Context) (int, error) {
				time.Sleep(20 * time.Millisecond)
				if ctx.Err() == nil {
					finished.Store(true)
				}
				return 1, nil
			},
		)
		if err == nil {
			t.Fatal("expected error")
		}
		if !finished.Load() {
			t.Error("expected sibling to complete with a live context")
		}
	})

	t.Run("no tasks yields empty results", func(t *testing.T) {
		t.Parallel()

		got, err := All[string](context.Background())
		if err != nil || len(got) != 0 {
			t.Errorf("got %v, %v", got, err)
		}
	})
}

// TestLimit tests bounded concurrency.
func TestLimit(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	task := func(context.Context) (int, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return 0, nil
	}

	tasks := make([]Task[int], 8)
	for i := range tasks {
		tasks[i] = task
	}
	if _, err := Limit(context.Background(), 2, tasks...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak.Load() > 2 {
		t.Errorf("expected at most 2 in flight, saw %d", peak.Load())
	}
}

// TestEach tests mapping over items.
func TestEach(t *testing.T) {
	t.Parallel()

	got, err := Each(context.Background(), []string{"a", "bb", "ccc"}, func(_ context.Context, s string) (int, error) {
		return len(s), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v", got)
	}
}
