package processor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrQueueFull     = errors.New("opponent queue is full")
	ErrQueueShutdown = errors.New("opponent queue is shutting down")
)

// OpponentTask is a deferred computer step. It runs after Delay unless its
// context is cancelled first.
type OpponentTask struct {
	GameID string
	Epoch  uint64
	Delay  time.Duration
	Ctx    context.Context
	Run    func(OpponentTask)
	Drop   func(OpponentTask) // optional, called when the queue is full
}

// OpponentQueue delays computer steps and runs them on a small worker pool
type OpponentQueue struct {
	tasks   chan OpponentTask
	workers int
	wg      sync.WaitGroup
	timers  sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	// mu orders timer registration against shutdown
	mu sync.Mutex
}

// NewOpponentQueue creates a queue with the given worker count
func NewOpponentQueue(workerCount int) *OpponentQueue {
	if workerCount < 1 {
		workerCount = 2
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &OpponentQueue{
		tasks:   make(chan OpponentTask, 100),
		workers: workerCount,
		ctx:     ctx,
		cancel:  cancel,
	}

	q.start()
	return q
}

func (q *OpponentQueue) start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

func (q *OpponentQueue) worker(id int) {
	defer q.wg.Done()

	for {
		select {
		case task := <-q.tasks:
			if task.Ctx.Err() != nil {
				log.Debug().Str("game", task.GameID).Int("worker", id).Msg("dropping cancelled computer step")
				continue
			}
			task.Run(task)

		case <-q.ctx.Done():
			return
		}
	}
}

// Schedule arms the task's delay and hands it to the workers when it fires
func (q *OpponentQueue) Schedule(task OpponentTask) error {
	if task.Ctx == nil {
		task.Ctx = context.Background()
	}

	q.mu.Lock()
	if q.ctx.Err() != nil {
		q.mu.Unlock()
		return ErrQueueShutdown
	}
	q.timers.Add(1)
	q.mu.Unlock()

	go func() {
		defer q.timers.Done()

		timer := time.NewTimer(task.Delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-task.Ctx.Done():
			return
		case <-q.ctx.Done():
			return
		}

		select {
		case q.tasks <- task:
		case <-task.Ctx.Done():
		case <-q.ctx.Done():
		default:
			log.Warn().Str("game", task.GameID).Err(ErrQueueFull).Msg("computer step dropped")
			if task.Drop != nil {
				task.Drop(task)
			}
		}
	}()

	return nil
}

// Shutdown stops workers and pending timers
func (q *OpponentQueue) Shutdown(timeout time.Duration) error {
	q.mu.Lock()
	q.cancel()
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		q.timers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("opponent queue shutdown timeout exceeded")
	}
}
