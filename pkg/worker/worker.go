package worker

import (
	"sync"

	"github.com/mentorsfoundation/donation-portal/pkg/logger"
)

type Handler = func(workerIndex int, job interface{})

// Manager is a fixed pool of goroutines draining a shared job channel. The
// portal uses it to keep slow side effects (outbound mail) off the request
// path.
type Manager struct {
	jobs    chan interface{}
	workers int
	do      Handler
	quit    chan struct{}
	waiter  sync.WaitGroup
	once    sync.Once
}

// NewManager builds a pool of numberOfWorkers goroutines over a buffered
// channel of bufferSize jobs. Workers are not started until Start is called.
func NewManager(bufferSize, numberOfWorkers int, do Handler) *Manager {
	if numberOfWorkers <= 0 {
		numberOfWorkers = 1
	}
	if bufferSize <= 0 {
		bufferSize = numberOfWorkers
	}
	return &Manager{
		jobs:    make(chan interface{}, bufferSize),
		workers: numberOfWorkers,
		do:      do,
		quit:    make(chan struct{}),
	}
}

// TryEnqueue publishes a job without blocking. It reports false when the
// buffer is full; callers decide whether dropping is acceptable.
func (w *Manager) TryEnqueue(job interface{}) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		return false
	}
}

// Enqueue publishes a job, blocking while the buffer is full.
func (w *Manager) Enqueue(job interface{}) {
	w.jobs <- job
}

func (w *Manager) Pending() int {
	return len(w.jobs)
}

// Start launches the workers and returns. Each worker loops until Stop.
func (w *Manager) Start() {
	w.waiter.Add(w.workers)
	for i := 0; i < w.workers; i++ {
		go func(index int) {
			defer w.waiter.Done()
			for {
				select {
				case job := <-w.jobs:
					w.do(index, job)
				case <-w.quit:
					return
				}
			}
		}(i)
	}
}

// Stop signals all workers and waits for them to exit. Jobs still buffered
// are abandoned; the pool carries best-effort work only.
func (w *Manager) Stop() {
	w.once.Do(func() {
		logger.Info("worker manager shutting down", "pending", w.Pending())
		close(w.quit)
	})
	w.waiter.Wait()
}
