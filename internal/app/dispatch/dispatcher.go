// internal/app/dispatch/dispatcher.go
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	DefaultBatchSize = 5
	DefaultDelay     = 200 * time.Millisecond
)

// SendFunc delivers one item. A non-nil error marks that item as failed.
type SendFunc[T any] func(ctx context.Context, item T) error

// SleepFunc pauses between batches. It returns early with the context's error on cancellation.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Outcome counts what a Dispatch call did.
type Outcome struct {
	Sent    int
	Errors  int
	Batches int
}

// BatchedDispatcher sends items in consecutive batches of BatchSize. All sends of a batch run
// concurrently and the batch settles completely before the next one starts, so at most
// BatchSize sends are in flight at once. Batches are separated by Delay.
type BatchedDispatcher[T any] struct {
	BatchSize int
	Delay     time.Duration
	Sleep     SleepFunc
	// OnError is called from the dispatching goroutine once per failed item, after its batch
	// has settled. Optional.
	OnError func(item T, err error)
}

func NewBatchedDispatcher[T any](batchSize int, delay time.Duration) *BatchedDispatcher[T] {
	return &BatchedDispatcher[T]{
		BatchSize: batchSize,
		Delay:     delay,
		Sleep:     SleepContext,
	}
}

// Dispatch sends every item, isolating failures per item. A failed send is counted and
// reported through OnError, never retried, and never stops other sends. If ctx is cancelled
// while waiting between batches the remaining batches are not started.
func (d *BatchedDispatcher[T]) Dispatch(ctx context.Context, items []T, send SendFunc[T]) Outcome {
	var out Outcome

	size := d.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	sleep := d.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	for start := 0; start < len(items); start += size {
		if start > 0 && d.Delay > 0 {
			if err := sleep(ctx, d.Delay); err != nil {
				return out
			}
		}

		end := min(start+size, len(items))
		batch := items[start:end]
		errs := runBatch(ctx, batch, send)
		out.Batches++

		for i, err := range errs {
			if err != nil {
				out.Errors++
				if d.OnError != nil {
					d.OnError(batch[i], err)
				}
				continue
			}
			out.Sent++
		}
	}
	return out
}

func runBatch[T any](ctx context.Context, batch []T, send SendFunc[T]) []error {
	errs := make([]error, len(batch))

	var wg sync.WaitGroup
	for i, item := range batch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("send panicked: %v", r)
				}
			}()
			errs[i] = send(ctx, item)
		}()
	}
	wg.Wait()

	return errs
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
