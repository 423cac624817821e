// Package batch provides the settle-all fan-out primitive used by every
// concurrent pipeline in this repo: launch a group of tasks, join all of
// them regardless of individual outcome, and aggregate results by launch
// order rather than arrival order.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result tags one task's outcome. Exactly one of Value or Err is meaningful.
type Result[R any] struct {
	Value R
	Err   error
}

// Settle runs fn for every item concurrently and waits for all of them to
// finish. Results are indexed by input position; one failure never cancels
// its siblings.
func Settle[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))

	g := new(errgroup.Group)
	for i, item := range items {
		g.Go(func() error {
			v, err := fn(ctx, item)
			results[i] = Result[R]{Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Process partitions items into fixed-size batches and settles each batch
// before starting the next, bounding peak concurrency to size. Results keep
// input order across batches. A size below 1 is treated as 1.
func Process[T, R any](ctx context.Context, items []T, size int, fn func(ctx context.Context, item T) (R, error)) []Result[R] {
	if size < 1 {
		size = 1
	}

	results := make([]Result[R], 0, len(items))
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		results = append(results, Settle(ctx, items[start:end], fn)...)
	}
	return results
}
