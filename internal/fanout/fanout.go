package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task produces one result of a fan-out.
type Task[T any] func(ctx context.Context) (T, error)

// All runs every task concurrently and returns their results in input order.
//
// The first error wins and is returned once every task has finished; the
// other results are discarded. Tasks still running when one fails are not
// cancelled, they see the caller's ctx unchanged.
func All[T any](ctx context.Context, tasks ...Task[T]) ([]T, error) {
	return run(ctx, 0, tasks)
}

// Limit is All with at most n tasks in flight. n <= 0 means unbounded.
func Limit[T any](ctx context.Context, n int, tasks ...Task[T]) ([]T, error) {
	return run(ctx, n, tasks)
}

// Each applies fn to every item concurrently, keeping input order.
func Each[In, Out any](ctx context.Context, items []In, fn func(ctx context.Context, item In) (Out, error)) ([]Out, error) {
	tasks := make([]Task[Out], len(items))
	for i, item := range items {
		tasks[i] = func(ctx context.Context) (Out, error) {
			return fn(ctx, item)
		}
	}
	return run(ctx, 0, tasks)
}

func run[T any](ctx context.Context, limit int, tasks []Task[T]) ([]T, error) {
	results := make([]T, len(tasks))

	// A plain Group: failures must not cancel siblings.
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, task := range tasks {
		g.Go(func() error {
			v, err := task(ctx)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
