package primitive

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrPoolStopped = errors.New("worker pool is stopped")

type Job func()

// WorkerPool runs jobs on a fixed number of goroutines fed from a FIFO queue.
type WorkerPool struct {
	logger  *zap.Logger
	jobs    chan Job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// NewWorkerPool starts workers goroutines. Submit blocks once queueSize jobs
// are waiting.
func NewWorkerPool(logger *zap.Logger, workers, queueSize int) (*WorkerPool, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if workers <= 0 {
		return nil, errors.New("workers count must be positive")
	}
	if queueSize < 0 {
		return nil, errors.New("queue size cannot be negative")
	}

	p := &WorkerPool{
		logger: logger,
		jobs:   make(chan Job, queueSize),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work(i)
	}

	return p, nil
}

func (p *WorkerPool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	p.jobs <- job

	return nil
}

// Stop refuses new jobs, lets the workers finish everything already queued
// and waits for them.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *WorkerPool) work(id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		p.run(id, job)
	}
}

func (p *WorkerPool) run(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("captured panic in worker", zap.Int("worker", id), zap.Any("panic", r))
		}
	}()

	job()
}
