package documents

import (
	"context"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/models"
)

// Worker pool size when none is configured
const defaultMaxWorkers = 4

// WorkerPool bounds how many documents are parsed at once
type WorkerPool struct {
	maxWorkers int
	semaphore  chan struct{}
}

// NewWorkerPool creates a new worker pool with the specified maximum workers
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}
	return &WorkerPool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
	}
}

// Acquire acquires a worker slot, blocking if all workers are busy
func (wp *WorkerPool) Acquire(ctx context.Context) error {
	select {
	case wp.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release releases a worker slot, allowing another worker to proceed
func (wp *WorkerPool) Release() {
	<-wp.semaphore
}

// Outcome is the result of processing one item of a batch.
type Outcome[R any] struct {
	Value R
	Err   error
}

// ParallelProcess runs processFn over items with at most workers in flight.
// Unlike a fail-fast fan-out every item gets an outcome, in input order.
// Items that were never started because ctx ended carry ctx.Err().
func ParallelProcess[T any, R any](
	ctx context.Context,
	items []T,
	workers int,
	processFn func(context.Context, int, T) (R, error),
) []Outcome[R] {
	outcomes := make([]Outcome[R], len(items))
	if len(items) == 0 {
		return outcomes
	}

	wp := NewWorkerPool(workers)

	type result struct {
		index int
		value R
		err   error
	}
	resultChan := make(chan result, len(items))

	started := 0
	for i, item := range items {
		if err := wp.Acquire(ctx); err != nil {
			for j := i; j < len(items); j++ {
				outcomes[j].Err = err
			}
			break
		}
		started++

		go func(idx int, itm T) {
			defer wp.Release()

			select {
			case <-ctx.Done():
				var zero R
				resultChan <- result{index: idx, value: zero, err: ctx.Err()}
				return
			default:
			}

			val, err := processFn(ctx, idx, itm)
			resultChan <- result{index: idx, value: val, err: err}
		}(i, item)
	}

	for range started {
		res := <-resultChan
		outcomes[res.index] = Outcome[R]{Value: res.value, Err: res.err}
	}
	close(resultChan)

	return outcomes
}

// ParseBatch parses every path concurrently and reports successes and
// failures separately. Both lists keep the relative input order.
func (p *Parser) ParseBatch(ctx context.Context, paths []string) models.BatchResult {
	outcomes := ParallelProcess(ctx, paths, p.workers, func(ctx context.Context, _ int, path string) (*models.DocumentResult, error) {
		return p.Parse(ctx, path)
	})

	batch := models.BatchResult{
		Results:  make([]*models.DocumentResult, 0, len(paths)),
		Failures: []models.BatchFailure{},
	}
	for i, out := range outcomes {
		if out.Err != nil {
			batch.Failures = append(batch.Failures, models.BatchFailure{
				Path:  paths[i],
				Error: out.Err.Error(),
				Err:   out.Err,
			})
			continue
		}
		batch.Results = append(batch.Results, out.Value)
	}
	return batch
}

// ParseMany parses several files and returns only the successes. Each
// failure is logged and skipped.
func (p *Parser) ParseMany(ctx context.Context, paths []string) []*models.DocumentResult {
	batch := p.ParseBatch(ctx, paths)
	logFailures(p.log, batch.Failures)
	return batch.Results
}

func logFailures(log logger.Logger, failures []models.BatchFailure) {
	for _, f := range failures {
		log.Error("Failed to parse %s: %v", f.Path, f.Err)
	}
}
