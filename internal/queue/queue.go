package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/msshahs/prepseed-backend-sub003/internal/logger"
)

// ErrShutdown is returned by Submit after Shutdown has started.
var ErrShutdown = errors.New("update queue is shutting down")

const workerBuffer = 256

// Job is one serialized unit of work against a keyed resource.
type Job func(ctx context.Context) error

// UpdateQueue serializes work per logical key: at most one job for a key is
// in flight at any time, jobs on the same key run in submission order, and a
// minimum spacing between dispatches keeps a hot key from saturating the
// store. Distinct keys run fully in parallel. This is the only mutual
// exclusion protecting read-modify-write cycles on a user's aggregate.
type UpdateQueue struct {
	spacing time.Duration
	log     *logger.Logger

	// mu orders sends against close: every send happens under at least a
	// read lock, and Shutdown closes the channels under the write lock, so
	// a Submit racing Shutdown can never send on a closed channel.
	mu      sync.RWMutex
	workers map[string]chan Job
	closed  bool
	wg      sync.WaitGroup
}

// New creates an update queue with the given minimum per-key dispatch
// spacing.
func New(spacing time.Duration, log *logger.Logger) *UpdateQueue {
	return &UpdateQueue{
		spacing: spacing,
		log:     log,
		workers: make(map[string]chan Job),
	}
}

// Submit enqueues a job for the key. The first job for a key spawns its
// worker; later jobs queue behind it in FIFO order. Submit blocks only when
// the key's buffer is full, which preserves ordering under backpressure. A
// Submit racing Shutdown either lands the job before the drain begins or
// returns ErrShutdown; a Submit parked on a full buffer delays Shutdown until
// the worker has made room for it.
func (q *UpdateQueue) Submit(key string, job Job) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrShutdown
	}
	if ch, ok := q.workers[key]; ok {
		ch <- job
		q.mu.RUnlock()
		return nil
	}
	q.mu.RUnlock()

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrShutdown
	}
	ch, ok := q.workers[key]
	if !ok {
		ch = make(chan Job, workerBuffer)
		q.workers[key] = ch
		q.wg.Add(1)
		go q.run(key, ch)
	}
	ch <- job
	q.mu.Unlock()
	return nil
}

func (q *UpdateQueue) run(key string, ch chan Job) {
	defer q.wg.Done()
	var lastDispatch time.Time
	for job := range ch {
		if wait := q.spacing - time.Since(lastDispatch); wait > 0 {
			time.Sleep(wait)
		}
		lastDispatch = time.Now()
		if err := job(context.Background()); err != nil {
			q.log.Warn("queued update failed", "key", key, "error", err)
		}
	}
}

// Shutdown stops accepting jobs, lets each worker drain its backlog and
// waits for completion or until the context expires.
func (q *UpdateQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		for _, ch := range q.workers {
			close(ch)
		}
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
