package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type mockResult struct {
	err error
}

func (r *mockResult) GetError() error {
	return r.err
}

type mockJob struct {
	shouldErr bool
	executed  *int32
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.shouldErr {
		return &mockResult{err: errors.New("job error")}
	}
	return &mockResult{}
}

func TestNewPool_Defaults(t *testing.T) {
	if p := NewPool(3); p.workers != 3 {
		t.Errorf("expected 3 workers, got %d", p.workers)
	}
	if p := NewPool(0); p.workers != 1 {
		t.Errorf("expected 1 worker for 0 input, got %d", p.workers)
	}
	if p := NewPool(-1); p.workers != 1 {
		t.Errorf("expected 1 worker for negative input, got %d", p.workers)
	}
}

func TestPool_Execution(t *testing.T) {
	var executed int32
	count := 25

	var jobs []Job
	for i := 0; i < count; i++ {
		jobs = append(jobs, &mockJob{executed: &executed})
	}

	results := NewPool(2).Process(context.Background(), jobs)

	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}
	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, executed)
	}
}

func TestPool_EmptyJobs(t *testing.T) {
	if results := NewPool(2).Process(context.Background(), nil); results != nil {
		t.Errorf("expected nil results for no jobs, got %v", results)
	}
}

type concurrencyJob struct {
	start func()
	end   func()
}

func (j *concurrencyJob) Execute(ctx context.Context) Result {
	j.start()
	time.Sleep(10 * time.Millisecond)
	j.end()
	return &mockResult{}
}

func TestPool_BoundedConcurrency(t *testing.T) {
	workers := 3

	var current, maxConcurrent int32
	var mu sync.Mutex

	var jobs []Job
	for i := 0; i < 20; i++ {
		jobs = append(jobs, &concurrencyJob{
			start: func() {
				curr := atomic.AddInt32(&current, 1)
				mu.Lock()
				if curr > maxConcurrent {
					maxConcurrent = curr
				}
				mu.Unlock()
			},
			end: func() {
				atomic.AddInt32(&current, -1)
			},
		})
	}

	NewPool(workers).Process(context.Background(), jobs)

	mu.Lock()
	max := maxConcurrent
	mu.Unlock()

	if max > int32(workers) {
		t.Errorf("max concurrency %d exceeded workers %d", max, workers)
	}
}

func TestPool_ErrorResults(t *testing.T) {
	jobs := []Job{
		&mockJob{shouldErr: true},
		&mockJob{shouldErr: false},
	}

	results := NewPool(2).Process(context.Background(), jobs)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	failed := 0
	for _, res := range results {
		if res.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 error, got %d", failed)
	}
}

func TestPool_CancelledContextSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed int32
	var jobs []Job
	for i := 0; i < 10; i++ {
		jobs = append(jobs, &mockJob{executed: &executed})
	}

	results := NewPool(2).Process(ctx, jobs)
	if len(results) != 0 {
		t.Errorf("expected no results under a cancelled context, got %d", len(results))
	}
	if atomic.LoadInt32(&executed) != 0 {
		t.Errorf("expected no executions under a cancelled context, got %d", executed)
	}
}
