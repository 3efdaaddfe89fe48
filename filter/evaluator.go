package filter

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of goroutines used for large inputs
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the chunk size; inputs smaller than one chunk are
// evaluated inline
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator implements Selector by splitting large inputs into
// chunks evaluated in parallel
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Select returns the items f matches in input order. Items whose evaluation
// fails are left out and their errors joined into the returned error; the
// matches are still returned alongside it.
func (e *ConcurrentEvaluator) Select(ctx context.Context, f CompiledFilter, items []Item) ([]Item, error) {
	if len(items) == 0 {
		return []Item{}, nil
	}
	if len(items) < e.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return selectChunk(f, items)
	}
	return e.selectConcurrent(ctx, f, items)
}

func selectChunk(f CompiledFilter, items []Item) ([]Item, error) {
	matches := make([]Item, 0, len(items)/4)
	var errs []error
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			matches = append(matches, item)
		}
	}
	return matches, errors.Join(errs...)
}

func (e *ConcurrentEvaluator) selectConcurrent(ctx context.Context, f CompiledFilter, items []Item) ([]Item, error) {
	chunkSize := max(len(items)/e.workerCount, e.batchSize)
	chunks := (len(items) + chunkSize - 1) / chunkSize

	// each chunk writes only its own slot, so ordering needs no lock
	matches := make([][]Item, chunks)
	failures := make([]error, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)
	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(items))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matches[i], failures[i] = selectChunk(f, items[start:end])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, m := range matches {
		total += len(m)
	}
	all := make([]Item, 0, total)
	for _, m := range matches {
		all = append(all, m...)
	}
	return all, errors.Join(failures...)
}
