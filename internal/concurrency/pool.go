package concurrency

import (
	"context"
	"sync"
)

// ForEach runs fn for indexes [0, tasks) with at most limit goroutines in
// flight. fn is responsible for observing ctx; ForEach returns once every
// started task has finished.
func ForEach(ctx context.Context, limit, tasks int, fn func(ctx context.Context, index int)) {
	if limit <= 0 {
		limit = 1
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i := 0; i < tasks; i++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(ctx, idx)
		}(i)
	}
	wg.Wait()
}
