package metadata

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// Result is the outcome of reading one file in a batch.
type Result struct {
	Path  string
	Track *track.Track
	Err   error
}

// ReadMany reads paths concurrently with at most workers goroutines
// (runtime.NumCPU when workers <= 0). Results keep the input order. A failed
// file does not stop the batch; its error is kept in its Result. onResult,
// if not nil, is called once per finished file, never concurrently.
func (r *Reader) ReadMany(ctx context.Context, paths []string, workers int, onResult func(Result)) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			res := Result{Path: path}
			select {
			case <-ctx.Done():
				res.Err = ctx.Err()
			default:
				res.Track, res.Err = r.Read(ctx, path)
			}
			results[i] = res

			if onResult != nil {
				mu.Lock()
				onResult(res)
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
