package unitconv

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the result of one request of a batch.
type BatchResult struct {
	// Request is the request as submitted.
	Request Request

	// Outcomes holds one entry per target when the request could be
	// converted at all.
	Outcomes []Outcome

	// Err is set when the request failed as a whole: unknown source unit,
	// invalid source value or no targets.
	Err error
}

// Failed reports whether the request or any of its targets failed.
func (b BatchResult) Failed() bool {
	if b.Err != nil {
		return true
	}
	for _, o := range b.Outcomes {
		if !o.OK() {
			return true
		}
	}
	return false
}

// BatchProgress reports progress during a batch conversion.
type BatchProgress struct {
	// Total is the number of requests in the batch.
	Total int

	// Completed is the number of requests converted so far.
	Completed int

	// Failed is the number of completed requests with at least one failure.
	Failed int
}

// batchJob is a unit of work for the batch worker pool.
type batchJob struct {
	// index is the position of the request in the batch.
	index int

	// req is the request to convert.
	req Request
}

func (c *converter) ConvertBatch(ctx context.Context, reqs []Request, opts ...BatchOption) ([]BatchResult, error) {
	cfg := newBatchConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]BatchResult, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}

	workers := min(cfg.concurrency, len(reqs))
	jobs := make(chan batchJob)
	var completed, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)

	// Send jobs
	g.Go(func() error {
		defer close(jobs)
		for i, req := range reqs {
			select {
			case jobs <- batchJob{index: i, req: req}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// Start workers. Each writes only its own job's slot in results.
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				select {
				case job, ok := <-jobs:
					if !ok {
						return nil
					}
					res := c.convertRequest(job.req)
					results[job.index] = res

					done := completed.Add(1)
					if res.Failed() {
						failed.Add(1)
					}
					if cfg.progressFn != nil {
						cfg.progressFn(BatchProgress{
							Total:     len(reqs),
							Completed: int(done),
							Failed:    int(failed.Load()),
						})
					}
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Debug("batch converted", "requests", len(reqs), "failed", failed.Load(), "workers", workers)
	}
	return results, nil
}

// convertRequest converts a single batch request.
func (c *converter) convertRequest(req Request) BatchResult {
	outcomes, err := c.Convert(req.Value, req.Source, req.Targets...)
	return BatchResult{Request: req, Outcomes: outcomes, Err: err}
}
