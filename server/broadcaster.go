package server

import "sync"

// Broadcaster fans a session's encoded views out to its websocket streams.
// Each message is one JSON View, so a stream that skips some still ends up
// showing the current board.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan []byte]struct{}
	closed bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan []byte]struct{}),
	}
}

// Subscribe returns the channel a stream reads views from. After Close it
// returns an already closed channel.
func (b *Broadcaster) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe detaches a stream and closes its channel. Unknown channels are
// ignored.
func (b *Broadcaster) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish hands a view to every stream without blocking the tick that
// produced it. A stream with a full buffer misses this view.
func (b *Broadcaster) Publish(view []byte) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- view:
		default:
		}
	}
	b.mu.Unlock()
}

// Close ends every stream of a deleted session.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	b.closed = true
	b.mu.Unlock()
}

func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
