// Package worker runs a bounded set of tasks concurrently and joins on them.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/okian/healthfetch/pkg/logger"
	"github.com/okian/healthfetch/pkg/metrics"
)

// Task is one unit of work. It must honour ctx for anything blocking.
type Task func(ctx context.Context)

// Pool is a scoped task group: Run starts workers, feeds them and waits for
// every task before returning. No goroutine outlives Run.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
}

// NewPool creates a pool with at most size concurrent workers.
// A size below one means one worker per task.
func NewPool(size int, opts ...Option) *Pool {
	p := &Pool{
		size:   size,
		name:   "worker-pool",
		logger: logger.Get().Named("worker-pool"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the configured worker bound.
func (p *Pool) Size() int { return p.size }

// Run executes every task and returns once all of them have finished.
// A panicking task is recovered and logged; the others are unaffected.
func (p *Pool) Run(ctx context.Context, tasks []Task) {
	if len(tasks) == 0 {
		return
	}

	workers := p.size
	if workers < 1 || workers > len(tasks) {
		workers = len(tasks)
	}

	queue := make(chan Task, len(tasks))
	for _, t := range tasks {
		queue <- t
	}
	close(queue)

	metrics.UpdateWorkerCount(workers)
	defer metrics.UpdateWorkerCount(0)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(id int) {
			defer wg.Done()
			for t := range queue {
				p.exec(ctx, id, t)
			}
		}(i)
	}
	wg.Wait()
}

func (p *Pool) exec(ctx context.Context, id int, t Task) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordWorkerPanic()
			p.logger.Error(ctx, "task panicked",
				logger.String("worker", p.name+"-"+strconv.Itoa(id)),
				logger.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	t(ctx)
}
