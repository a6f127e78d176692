package core

import (
	"runtime"
	"sync"

	"raycaster/internal/mathutil"
)

// WorkerPool manages a pool of worker goroutines that split index ranges
// (screen columns, screen rows) into chunks and process them in parallel.
//
// A pool serves one caller at a time: ParallelRange waits on
// the pool-wide group, so two goroutines must not drive the same pool.
type WorkerPool struct {
	numWorkers int
	jobQueue   chan func()
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan func(), numWorkers*2),
		quit:       make(chan struct{}),
	}
}

// NewStartedPool returns a running pool for the configured worker count, or
// nil when work should stay on the calling goroutine (workers == 1 or
// fewer than zero). Zero selects one worker per CPU.
func NewStartedPool(workers int) *WorkerPool {
	if workers == 1 || workers < 0 {
		return nil
	}
	pool := NewWorkerPool(workers)
	pool.Start()
	return pool
}

// Start initializes and starts all worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	for {
		select {
		case job := <-wp.jobQueue:
			job()
			wp.wg.Done()
		case <-wp.quit:
			return
		}
	}
}

// Submit adds a job to the worker queue
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.jobQueue <- job
}

// Wait waits for all currently queued jobs to complete
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop shuts down the worker pool. It is safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() { close(wp.quit) })
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// ParallelRange splits [start, end) into contiguous chunks, one per worker,
// and calls fn(lo, hi) for each chunk. Chunks never overlap. It returns once
// every chunk has finished.
func (wp *WorkerPool) ParallelRange(start, end int, fn func(lo, hi int)) {
	if start >= end {
		return
	}

	chunkSize := chunkSizeFor(end-start, wp.numWorkers)
	for i := start; i < end; i += chunkSize {
		lo := i
		hi := mathutil.IntMin(i+chunkSize, end)
		wp.Submit(func() { fn(lo, hi) })
	}
	wp.Wait()
}

// chunkSizeFor rounds up so the range splits into at most workers chunks.
func chunkSizeFor(total, workers int) int {
	return mathutil.IntMax(1, (total+workers-1)/workers)
}

// RunRange runs fn over [start, end) on pool, or directly on the calling
// goroutine when pool is nil.
func RunRange(pool *WorkerPool, start, end int, fn func(lo, hi int)) {
	if pool == nil {
		if start < end {
			fn(start, end)
		}
		return
	}
	pool.ParallelRange(start, end, fn)
}
