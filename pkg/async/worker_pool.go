package async

import (
	"context"
	"sync"
	"sync/atomic"
)

// WorkerPool drains ch with at most concurrency goroutines and returns the
// first error any of them produced.
func WorkerPool[T any](ctx context.Context, concurrency int, ch <-chan T, fn func(ctx context.Context, item T) error) error {
	semaphore := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	aErr := atomic.Pointer[error]{}

	for m := range ch {
		semaphore <- struct{}{}

		if err := aErr.Load(); err != nil {
			<-semaphore
			break
		}

		wg.Add(1)
		go func(m T) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := fn(ctx, m); err != nil {
				aErr.Store(&err)
			}
		}(m)
	}

	wg.Wait()

	if err := aErr.Load(); err != nil {
		return *err
	}
	return nil
}
