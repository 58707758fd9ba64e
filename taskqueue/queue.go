// Package taskqueue provides a blocking FIFO work queue with a drain
// rendezvous: producers can wait until every pushed item has been taken
// and reported done.
package taskqueue

import "sync"

// Queue is a thread-safe FIFO of tasks. Consumers take items with WaitPop
// and must call Done once per item taken. WaitEmpty blocks until all pushed
// items have been marked done.
type Queue[T any] struct {
	mu        sync.Mutex
	available sync.Cond // signalled when an item is pushed or the queue closes
	drained   sync.Cond // signalled when outstanding reaches zero
	items     []T
	head      int
	// outstanding counts items pushed but not yet marked done.
	outstanding int
	closing     bool
}

// New creates an open, empty queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.available.L = &q.mu
	q.drained.L = &q.mu
	return q
}

// Push appends item and wakes one waiting consumer. It returns false,
// dropping item, once the queue is closing.
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closing {
		return false
	}
	q.items = append(q.items, item)
	q.outstanding++
	q.available.Signal()
	return true
}

// WaitPop blocks until an item is available and returns it. It returns
// false once the queue is closing, even if items remain.
func (q *Queue[T]) WaitPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head == len(q.items) && !q.closing {
		q.available.Wait()
	}
	var zero T
	if q.closing {
		return zero, false
	}
	item := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return item, true
}

// Done marks one taken item as finished. Calling Done more often than
// items were taken is a programming error and panics.
func (q *Queue[T]) Done() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.outstanding-q.pending() <= 0 {
		panic("taskqueue: Done called without an outstanding task")
	}
	q.outstanding--
	if q.outstanding == 0 {
		q.drained.Broadcast()
	}
}

// WaitEmpty blocks until every pushed item has been taken and marked done.
func (q *Queue[T]) WaitEmpty() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.outstanding > 0 {
		q.drained.Wait()
	}
}

// Len returns the number of items waiting to be taken.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.pending()
}

// Close wakes every blocked consumer and makes further WaitPop and Push
// calls fail. Items not yet taken are discarded, so WaitEmpty only waits
// for tasks already in flight. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closing {
		return
	}
	q.closing = true
	q.outstanding -= q.pending()
	q.items = nil
	q.head = 0
	q.available.Broadcast()
	if q.outstanding == 0 {
		q.drained.Broadcast()
	}
}

// Closing reports whether Close has been called.
func (q *Queue[T]) Closing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.closing
}

func (q *Queue[T]) pending() int {
	return len(q.items) - q.head
}
