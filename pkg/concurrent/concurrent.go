package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map runs fn for every element of items in its own goroutine, with at most
// limit running at once (limit <= 0 means no limit). Results keep the order of
// items. The first error cancels ctx for the remaining calls and is returned.
func Map[T any, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	errGroup, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		errGroup.SetLimit(limit)
	}

	for i, item := range items {
		i, item := i, item
		errGroup.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := fn(ctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ForEach is Map without results.
func ForEach[T any](ctx context.Context, items []T, limit int, fn func(context.Context, T) error) error {
	_, err := Map(ctx, items, limit, func(ctx context.Context, item T) (struct{}, error) {
		return struct{}{}, fn(ctx, item)
	})
	return err
}
