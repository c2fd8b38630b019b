package core

import (
	"context"
	"sync"

	"pkt.systems/tabsession/schema"
)

// saveQueue runs at most one save at a time and keeps only the newest
// pending state, so the last write always carries the latest state.
type saveQueue struct {
	save func(state *schema.SessionState)

	mu      sync.Mutex
	pending *schema.SessionState
	running bool
	closed  bool
	idle    chan struct{}
}

func newSaveQueue(save func(state *schema.SessionState)) *saveQueue {
	idle := make(chan struct{})
	close(idle)
	return &saveQueue{save: save, idle: idle}
}

// Submit schedules state to be written. It never blocks on I/O.
func (q *saveQueue) Submit(state *schema.SessionState) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.pending = state
	if q.running {
		return true
	}
	q.running = true
	q.idle = make(chan struct{})
	go q.drain()
	return true
}

func (q *saveQueue) drain() {
	for {
		q.mu.Lock()
		state := q.pending
		q.pending = nil
		if state == nil {
			q.running = false
			close(q.idle)
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()
		q.save(state)
	}
}

// Flush waits until no save is pending or running.
func (q *saveQueue) Flush(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drops later submissions. Work already queued still drains.
func (q *saveQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}
