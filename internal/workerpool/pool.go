// Package workerpool implements the thread pool the renderer dispatches
// parallel passes to: vertex shading the objects, and rasterizing the
// triangles of the main and outline passes. The post-process passes run
// on the calling goroutine and do not use the pool.
// There is no task graph -- every pass is a data-parallel for-loop that
// ends in a barrier before the next pass starts, so ExecuteAll is the
// primary entry point.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a set of goroutines, each with its own work queue. A worker
// whose queue is empty steals from another worker's queue before
// blocking, which keeps uneven per-triangle or per-row costs from
// stalling the whole pass.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int

	workQueues []chan func()

	done chan struct{}
	wg   sync.WaitGroup

	running atomic.Bool

	queueSize int
}

// New creates a pool with the given number of workers. workers <= 0
// selects runtime.GOMAXPROCS(0), the convention used when a scene's
// threads-num is left unset or zero.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
		queueSize:  queueSize,
	}

	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.workQueues[id]

	for {
		select {
		case <-p.done:
			p.drainQueue(myQueue)
			return

		case work := <-myQueue:
			if work != nil {
				work()
			}

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
			} else {
				select {
				case <-p.done:
					p.drainQueue(myQueue)
					return
				case work := <-myQueue:
					if work != nil {
						work()
					}
				}
			}
		}
	}
}

func (p *Pool) drainQueue(queue chan func()) {
	for {
		select {
		case work := <-queue:
			if work != nil {
				work()
			}
		default:
			return
		}
	}
}

func (p *Pool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll distributes work across workers and blocks until every item
// has run. This is the barrier every rendering pass is built from.
func (p *Pool) ExecuteAll(work []func()) {
	if len(work) == 0 || !p.running.Load() {
		return
	}

	var completionWG sync.WaitGroup
	completionWG.Add(len(work))

	for i, fn := range work {
		workerID := i % p.workers
		workFn := fn

		wrappedWork := func() {
			defer completionWG.Done()
			workFn()
		}

		select {
		case p.workQueues[workerID] <- wrappedWork:
		case <-p.done:
			completionWG.Done()
		}
	}

	completionWG.Wait()
}

// ParallelFor runs fn(i) for i in [0,n) across the pool and blocks until
// all calls complete. It is the data-parallel for-loop primitive the
// vertex-shading and rasterization passes are expressed in terms of.
func (p *Pool) ParallelFor(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	work := make([]func(), n)
	for i := range work {
		idx := i
		work[i] = func() { fn(idx) }
	}
	p.ExecuteAll(work)
}

// Close stops accepting new work, waits for queued work to finish, then
// stops every worker goroutine. Safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}
