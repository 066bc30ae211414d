// Package parallel provides a task-based parallel-for over a fixed worker pool.
//
// Each index in [0, n) is one task. A fixed number of workers pull task
// indices from a shared atomic counter until the range is exhausted, so the
// pool never grows beyond the configured size regardless of n. Per-task
// results land in a slot array indexed by task and are only merged after
// every worker has joined.
package parallel

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers returns the pool size used when workers <= 0.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// For runs fn(i) for every i in [0, n) on at most workers goroutines.
// It returns the first error reported by any task; remaining tasks that have
// not started yet are skipped once an error occurred.
func For(n, workers int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if n < workers {
		workers = n
	}

	if workers == 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())

	var next atomic.Int64

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				if ctx.Err() != nil {
					return nil
				}
				i := int(next.Add(1) - 1)
				if i >= n {
					return nil
				}
				if err := fn(i); err != nil {
					return err
				}
			}
		})
	}

	return g.Wait()
}

// Collect runs fn for every index in [0, n) and concatenates the per-task
// results. Concatenation happens after all tasks have finished; the order of
// the merged slice follows task index but callers must not rely on it.
func Collect[T any](n, workers int, fn func(i int) ([]T, error)) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}

	slots := make([][]T, n)

	err := For(n, workers, func(i int) error {
		out, err := fn(i)
		if err != nil {
			return err
		}
		slots[i] = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := 0
	for _, s := range slots {
		total += len(s)
	}
	if total == 0 {
		return nil, nil
	}

	merged := make([]T, 0, total)
	for _, s := range slots {
		merged = append(merged, s...)
	}
	return merged, nil
}
