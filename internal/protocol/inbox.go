/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package protocol

import (
	"sync"
	"sync/atomic"
)

// Inbox hands messages from transport goroutines to the engine goroutine.
// Push never blocks: when the queue is full the new message is dropped and
// counted.
type Inbox struct {
	mu    sync.Mutex
	queue []Message
	limit int
	drops atomic.Uint64
}

func NewInbox(limit int) *Inbox {
	return &Inbox{limit: limit}
}

func (q *Inbox) Push(m Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.limit > 0 && len(q.queue) >= q.limit {
		q.drops.Add(1)
		return false
	}
	q.queue = append(q.queue, m)
	return true
}

// Drain returns every queued message in arrival order and empties the queue.
func (q *Inbox) Drain() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) == 0 {
		return nil
	}
	out := q.queue
	q.queue = nil
	return out
}

func (q *Inbox) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

func (q *Inbox) Drops() uint64 { return q.drops.Load() }
