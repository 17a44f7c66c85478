// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package navigation

import "sync"

// Queue buffers Events between the input callbacks and the frame driver.
// Push may be called from any goroutine; Drain is called once per frame.
// The zero value is ready to use.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// Push appends events in order.
func (q *Queue) Push(events ...Event) {
	q.mu.Lock()
	q.events = append(q.events, events...)
	q.mu.Unlock()
}

// Drain appends all pending events to dst, empties the queue and returns
// the extended slice.
func (q *Queue) Drain(dst []Event) []Event {
	q.mu.Lock()
	dst = append(dst, q.events...)
	clear(q.events)
	q.events = q.events[:0]
	q.mu.Unlock()
	return dst
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
