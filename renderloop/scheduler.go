// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderloop

import (
	"sync"
	"time"
)

// Handle identifies a scheduled frame. The zero Handle is never issued.
type Handle uint64

// FrameFunc runs once per display refresh. now is the host's monotonic
// frame timestamp.
type FrameFunc func(now time.Duration)

// Scheduler is the host's "next frame" primitive.
//
// ScheduleFrame must not call fn synchronously. CancelFrame of a handle
// that already ran or was already cancelled must be a no-op.
type Scheduler interface {
	ScheduleFrame(fn FrameFunc) Handle
	CancelFrame(h Handle)
}

// Queue is a Scheduler whose callbacks run when the host calls Dispatch.
// It is safe for concurrent use.
type Queue struct {
	mu        sync.Mutex
	next      Handle
	order     []Handle
	callbacks map[Handle]FrameFunc
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{callbacks: make(map[Handle]FrameFunc)}
}

// ScheduleFrame queues fn for the next Dispatch.
func (q *Queue) ScheduleFrame(fn FrameFunc) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	h := q.next
	q.order = append(q.order, h)
	q.callbacks[h] = fn
	return h
}

// CancelFrame removes h from the queue. Unknown handles are ignored.
func (q *Queue) CancelFrame(h Handle) {
	q.mu.Lock()
	delete(q.callbacks, h)
	q.mu.Unlock()
}

// Dispatch runs every callback queued before Dispatch was called, in
// scheduling order, and returns how many ran. Callbacks scheduled while
// dispatching wait for the next Dispatch; callbacks cancelled while
// dispatching do not run.
func (q *Queue) Dispatch(now time.Duration) int {
	q.mu.Lock()
	batch := q.order
	q.order = nil
	q.mu.Unlock()

	ran := 0
	for _, h := range batch {
		q.mu.Lock()
		fn, ok := q.callbacks[h]
		delete(q.callbacks, h)
		q.mu.Unlock()
		if !ok {
			continue
		}
		fn(now)
		ran++
	}
	return ran
}

// Len returns the number of callbacks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.callbacks)
}
