// Package worker provides the bounded fan-out pool and per-domain rate
// limiter used by source validation and network probing.
package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool runs jobs with bounded concurrency. It is a throwaway fan-out/fan-in
// helper: create, Process, discard — not a persistent pool.
type Pool struct {
	workers int
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Process executes all jobs with bounded concurrency and returns every
// result once the last job finishes. Result order is completion order,
// not submission order. Cancelling the context stops the fan-out; jobs
// not yet started are skipped and produce no result.
func (p *Pool) Process(ctx context.Context, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}

	jobCh := make(chan Job)
	// Buffered to the job count so a worker never blocks handing back a
	// result while the submit loop is still running.
	resultCh := make(chan Result, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				select {
				case <-ctx.Done():
					return
				default:
				}
				resultCh <- job.Execute(ctx)
			}
		}()
	}

submit:
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			break submit
		case jobCh <- job:
		}
	}
	close(jobCh)
	wg.Wait()
	close(resultCh)

	var results []Result
	for result := range resultCh {
		results = append(results, result)
	}
	return results
}
