package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type countJob struct {
	counter *atomic.Int64
	fail    bool
}

type countResult struct {
	err error
}

func (r *countResult) GetError() error { return r.err }

func (j *countJob) Execute(ctx context.Context) Result {
	j.counter.Add(1)
	if j.fail {
		return &countResult{err: errors.New("job failed")}
	}
	return &countResult{}
}

func TestPoolExecutesAllJobs(t *testing.T) {
	pool := NewPool(4)
	pool.Start()

	var counter atomic.Int64
	const jobs = 20
	for i := 0; i < jobs; i++ {
		pool.Submit(&countJob{counter: &counter})
	}

	results := pool.Wait()
	if len(results) != jobs {
		t.Errorf("got %d results, want %d", len(results), jobs)
	}
	if counter.Load() != jobs {
		t.Errorf("executed %d jobs, want %d", counter.Load(), jobs)
	}
}

func TestPoolCollectsErrors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var counter atomic.Int64
	pool.Submit(&countJob{counter: &counter})
	pool.Submit(&countJob{counter: &counter, fail: true})

	results := pool.Wait()
	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("got %d failed results, want 1", failed)
	}
}

func TestPoolClampsWorkerCount(t *testing.T) {
	pool := NewPool(0)
	pool.Start()

	var counter atomic.Int64
	pool.Submit(&countJob{counter: &counter})

	if results := pool.Wait(); len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestPoolShutdownDiscardsQueuedJobs(t *testing.T) {
	pool := NewPool(1)
	pool.Start()
	pool.Shutdown()

	// Submits after shutdown are dropped, not deadlocked
	var counter atomic.Int64
	pool.Submit(&countJob{counter: &counter})
	if counter.Load() != 0 {
		t.Errorf("job ran after shutdown")
	}
}
