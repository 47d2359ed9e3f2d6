package cvt

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ctxCheckStride is how many items a worker processes between context checks.
const ctxCheckStride = 4096

// parallelRanges splits [0, n) into contiguous ranges, one per worker, and
// runs fn on each. Ranges don't overlap, so fn may write to per-item slots
// without synchronization. Falls back to a single call if workers <= 1.
func parallelRanges(ctx context.Context, n, workers int, fn func(ctx context.Context, start, end int) error) error {
	if n == 0 {
		return ctx.Err()
	}
	if workers <= 1 || n <= 1 {
		return fn(ctx, 0, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	perWorker := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * perWorker
		if start >= n {
			break
		}
		end := min(start+perWorker, n)
		g.Go(func() error {
			return fn(gctx, start, end)
		})
	}
	return g.Wait()
}

// AssignParallel writes the nearest node of every point into out using
// numWorkers goroutines. The result is identical to a sequential scan:
// each point owns its slot and the assigner is read-only.
func AssignParallel(ctx context.Context, a NearestAssigner, xs, ys []float64, out []int, numWorkers int) error {
	return parallelRanges(ctx, len(xs), numWorkers, func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if (i-start)%ctxCheckStride == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			out[i], _ = a.Nearest(xs[i], ys[i])
		}
		return nil
	})
}
