package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MaskAll masks values concurrently on up to threads workers (GOMAXPROCS
// when threads <= 0) and returns results in input order. All values share
// the session, so equal values tokenize identically across them. The first
// error stops the remaining work.
func (s *Session) MaskAll(ctx context.Context, values []any, threads int) ([]Result, error) {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i := range values {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Mask(values[i])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
