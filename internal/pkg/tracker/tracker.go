// Package tracker buffers interaction events and delivers them in batches.
// Delivery is best-effort: a failed batch is logged and dropped, never
// retried, so a slow or dead sink cannot back up the callers.
package tracker

import (
	"log"
	"sync"
	"time"
)

const (
	DefaultMaxBatchSize  = 20
	DefaultFlushInterval = 5 * time.Second
)

// Entry is one buffered interaction event.
type Entry struct {
	UserID     string
	PostID     string
	Type       string
	Metadata   map[string]interface{}
	OccurredAt time.Time
}

// Sender receives drained batches.
type Sender interface {
	SendBatch(entries []Entry) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(entries []Entry) error

func (f SenderFunc) SendBatch(entries []Entry) error { return f(entries) }

// Tracker accumulates entries and flushes when the buffer reaches
// maxBatchSize, when the flush timer fires, or on Close. At most one
// timer is pending at a time; a size-triggered flush cancels it.
type Tracker struct {
	sender       Sender
	maxBatchSize int
	interval     time.Duration

	mu     sync.Mutex
	queue  []Entry
	timer  *time.Timer
	closed bool
}

func New(sender Sender, maxBatchSize int, interval time.Duration) *Tracker {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Tracker{
		sender:       sender,
		maxBatchSize: maxBatchSize,
		interval:     interval,
	}
}

// Track appends an entry. A full buffer is flushed synchronously; an
// entry into a non-full buffer arms the flush timer if none is pending.
func (t *Tracker) Track(entry Entry) {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.queue = append(t.queue, entry)

	if len(t.queue) >= t.maxBatchSize {
		batch := t.drainLocked()
		t.mu.Unlock()
		t.send(batch)
		return
	}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.interval, t.flushOnTimer)
	}
	t.mu.Unlock()
}

// Flush sends whatever is buffered right now.
func (t *Tracker) Flush() {
	t.mu.Lock()
	batch := t.drainLocked()
	t.mu.Unlock()
	t.send(batch)
}

// Close flushes the remaining entries and rejects further tracking.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	batch := t.drainLocked()
	t.mu.Unlock()
	t.send(batch)
}

// Pending reports the current buffer length.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}

func (t *Tracker) flushOnTimer() {
	t.mu.Lock()
	t.timer = nil
	batch := t.drainLocked()
	t.mu.Unlock()
	t.send(batch)
}

// drainLocked hands the whole queue to the caller and resets it, so
// entries arriving during an in-flight send start a fresh buffer. Also
// cancels a pending timer; the caller owns the returned batch.
func (t *Tracker) drainLocked() []Entry {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	batch := t.queue
	t.queue = nil
	return batch
}

func (t *Tracker) send(batch []Entry) {
	if len(batch) == 0 {
		return
	}
	if err := t.sender.SendBatch(batch); err != nil {
		// Dropped on purpose. Interaction events are advisory.
		log.Printf("tracker: dropping batch of %d entries: %v", len(batch), err)
	}
}
