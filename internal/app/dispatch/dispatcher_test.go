package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type recordingSleep struct {
	mu     sync.Mutex
	delays []time.Duration
	err    error
}

func (s *recordingSleep) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return s.err
}

func intItems(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestDispatch_BatchesAndDelays(t *testing.T) {
	sleep := &recordingSleep{}
	d := NewBatchedDispatcher[int](5, 200*time.Millisecond)
	d.Sleep = sleep.Sleep

	var failed []int
	d.OnError = func(item int, err error) { failed = append(failed, item) }

	var mu sync.Mutex
	seen := map[int]bool{}
	out := d.Dispatch(context.Background(), intItems(12), func(_ context.Context, item int) error {
		mu.Lock()
		seen[item] = true
		mu.Unlock()
		if item == 7 {
			return errors.New("bounced")
		}
		return nil
	})

	if out.Sent != 11 || out.Errors != 1 || out.Batches != 3 {
		t.Errorf("outcome = %+v, want sent=11 errors=1 batches=3", out)
	}
	if len(seen) != 12 {
		t.Errorf("sent %d distinct items, want 12", len(seen))
	}
	if len(sleep.delays) != 2 {
		t.Fatalf("slept %d times, want 2", len(sleep.delays))
	}
	for _, delay := range sleep.delays {
		if delay != 200*time.Millisecond {
			t.Errorf("delay = %v, want 200ms", delay)
		}
	}
	if len(failed) != 1 || failed[0] != 7 {
		t.Errorf("OnError items = %v, want [7]", failed)
	}
}

func TestDispatch_BoundsConcurrency(t *testing.T) {
	d := NewBatchedDispatcher[int](3, 0)

	var inFlight, peak int32
	out := d.Dispatch(context.Background(), intItems(10), func(context.Context, int) error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	})

	if out.Sent != 10 || out.Batches != 4 {
		t.Errorf("outcome = %+v, want sent=10 batches=4", out)
	}
	if p := atomic.LoadInt32(&peak); p > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", p)
	}
}

func TestDispatch_SingleBatchDoesNotSleep(t *testing.T) {
	sleep := &recordingSleep{}
	d := NewBatchedDispatcher[int](5, time.Second)
	d.Sleep = sleep.Sleep

	out := d.Dispatch(context.Background(), intItems(5), func(context.Context, int) error { return nil })

	if out.Sent != 5 || out.Batches != 1 {
		t.Errorf("outcome = %+v", out)
	}
	if len(sleep.delays) != 0 {
		t.Errorf("slept %d times, want 0", len(sleep.delays))
	}
}

func TestDispatch_PanicCountsAsError(t *testing.T) {
	d := NewBatchedDispatcher[int](2, 0)

	var gotErr error
	d.OnError = func(_ int, err error) { gotErr = err }

	out := d.Dispatch(context.Background(), intItems(3), func(_ context.Context, item int) error {
		if item == 1 {
			panic("boom")
		}
		return nil
	})

	if out.Sent != 2 || out.Errors != 1 {
		t.Errorf("outcome = %+v, want sent=2 errors=1", out)
	}
	if gotErr == nil {
		t.Error("OnError not called for panicking send")
	}
}

func TestDispatch_StopsWhenSleepIsInterrupted(t *testing.T) {
	sleep := &recordingSleep{err: context.Canceled}
	d := NewBatchedDispatcher[int](2, time.Second)
	d.Sleep = sleep.Sleep

	var calls int32
	out := d.Dispatch(context.Background(), intItems(6), func(context.Context, int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	if out.Batches != 1 || out.Sent != 2 {
		t.Errorf("outcome = %+v, want only the first batch", out)
	}
	if calls != 2 {
		t.Errorf("send called %d times, want 2", calls)
	}
}

func TestDispatch_Empty(t *testing.T) {
	d := NewBatchedDispatcher[int](5, time.Second)
	out := d.Dispatch(context.Background(), nil, func(context.Context, int) error {
		t.Error("send must not be called")
		return nil
	})
	if out != (Outcome{}) {
		t.Errorf("outcome = %+v, want zero", out)
	}
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := SleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("SleepContext on cancelled ctx = %v, want context.Canceled", err)
	}
	if err := SleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("SleepContext = %v, want nil", err)
	}
}
