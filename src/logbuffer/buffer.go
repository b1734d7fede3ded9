// Package logbuffer keeps the most recent lines of a script's output and fans
// new lines out to live followers.
package logbuffer

import (
	"sync"
)

const DefaultCapacity = 100

// subscriberBacklog is how many undelivered lines a follower may lag behind
// before further lines are dropped for it.
const subscriberBacklog = 64

// Buffer is a bounded FIFO of text lines. Once full, appending evicts the
// oldest line.
type Buffer struct {
	mu          sync.Mutex
	capacity    int
	lines       []string
	subscribers map[int]chan string
	nextSubID   int
}

func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		capacity:    capacity,
		lines:       make([]string, 0, capacity),
		subscribers: make(map[int]chan string),
	}
}

// Append adds a line, evicting the oldest one when the buffer is full, and
// forwards it to every subscriber that has room for it.
func (b *Buffer) Append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.lines) == b.capacity {
		copy(b.lines, b.lines[1:])
		b.lines = b.lines[:b.capacity-1]
	}
	b.lines = append(b.lines, line)

	for _, ch := range b.subscribers {
		select {
		case ch <- line:
		default:
		}
	}
}

// Snapshot returns a copy of the buffered lines, oldest first. It never
// returns nil.
func (b *Buffer) Snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = b.lines[:0]
}

// Subscribe registers a follower and returns the buffered lines at the time of
// subscription together with a channel of every line appended afterwards.
// cancel must be called to release the subscription; it closes the channel.
func (b *Buffer) Subscribe() (snapshot []string, lines <-chan string, cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot = make([]string, len(b.lines))
	copy(snapshot, b.lines)

	id := b.nextSubID
	b.nextSubID++
	ch := make(chan string, subscriberBacklog)
	b.subscribers[id] = ch

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			b.mu.Unlock()
			close(ch)
		})
	}

	return snapshot, ch, cancel
}
