// Package queue provides the thread-safe FIFO that carries raw inbound
// messages from the receive loop to the dispatch drain. It is the only state
// shared between the two flows.
package queue

import "sync"

// Queue is an unbounded, ordered, thread-safe FIFO of raw wire messages.
// Insertion order is arrival order is processing order.
type Queue struct {
	mu    sync.Mutex
	items [][]byte
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Put appends a message to the tail of the queue.
func (q *Queue) Put(msg []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, msg)
}

// TryGet pops the head of the queue without blocking. The second return is
// false when the queue is empty.
func (q *Queue) TryGet() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// Empty reports whether the queue currently holds no messages.
func (q *Queue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}

// Len returns the current number of queued messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
