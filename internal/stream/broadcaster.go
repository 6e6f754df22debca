// Package stream fans preview audio out to network listeners, as an Opus
// WebRTC track or a chunked MP3 HTTP stream.
package stream

import (
	"context"
	"sync"
	"sync/atomic"
)

// Broadcaster fans out PCM preview frames from one source to N listeners.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners map[*Listener]struct{}
}

// Listener receives PCM frames from the broadcaster.
type Listener struct {
	C     chan []int16 // buffered channel of 20ms PCM frames
	done  chan struct{}
	drops atomic.Int64
}

// Drops reports how many frames this listener has lost to backpressure.
func (l *Listener) Drops() int64 {
	return l.drops.Load()
}

// NewBroadcaster creates a new broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		listeners: make(map[*Listener]struct{}),
	}
}

// Subscribe registers a new listener. Returns a Listener that receives frames.
func (b *Broadcaster) Subscribe() *Listener {
	l := &Listener{
		C:    make(chan []int16, 100), // ~2 seconds of buffer, longer than any one-shot
		done: make(chan struct{}),
	}
	b.mu.Lock()
	b.listeners[l] = struct{}{}
	b.mu.Unlock()
	return l
}

// Unsubscribe removes a listener and signals it to stop.
func (b *Broadcaster) Unsubscribe(l *Listener) {
	b.mu.Lock()
	delete(b.listeners, l)
	b.mu.Unlock()
	close(l.done)
}

// ListenerCount returns the number of active listeners.
func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Run reads frames from source and fans out to all listeners. The source
// stays open across preview sessions; silence between previews is simply
// an absence of frames. A slow listener never blocks the broadcast: its
// oldest buffered frame is dropped to make room, so the tail of a
// one-shot still reaches it.
func (b *Broadcaster) Run(ctx context.Context, source <-chan []int16) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-source:
			if !ok {
				return
			}
			b.mu.RLock()
			for l := range b.listeners {
				deliver(l, frame)
			}
			b.mu.RUnlock()
		}
	}
}

// deliver sends one frame without blocking, evicting the listener's oldest
// frame on a full buffer.
func deliver(l *Listener, frame []int16) {
	select {
	case l.C <- frame:
		return
	default:
	}
	select {
	case <-l.C:
		l.drops.Add(1)
	default:
	}
	select {
	case l.C <- frame:
	default:
		l.drops.Add(1)
	}
}
