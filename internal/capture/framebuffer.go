package capture

import (
	"context"
	"sync"
	"sync/atomic"
)

// FrameBuffer holds the most recent encoded frame so that viewers never read
// the camera themselves. Readers block in Next until a newer frame arrives.
type FrameBuffer struct {
	mu     sync.Mutex
	data   []byte
	seq    uint64
	notify chan struct{}

	watchers atomic.Int32
}

// NewFrameBuffer returns an empty buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{notify: make(chan struct{})}
}

// Publish replaces the current frame and wakes every waiting reader.
func (b *FrameBuffer) Publish(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = data
	b.seq++
	close(b.notify)
	b.notify = make(chan struct{})
}

// Next returns the first frame newer than after, with its sequence number.
func (b *FrameBuffer) Next(ctx context.Context, after uint64) ([]byte, uint64, error) {
	for {
		b.mu.Lock()
		if b.seq > after && b.data != nil {
			data, seq := b.data, b.seq
			b.mu.Unlock()
			return data, seq, nil
		}
		ch := b.notify
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, after, ctx.Err()
		case <-ch:
		}
	}
}

// Watch registers a viewer until the returned func is called. The producer
// only encodes frames while someone is watching.
func (b *FrameBuffer) Watch() (release func()) {
	b.watchers.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { b.watchers.Add(-1) })
	}
}

// Watching reports whether any viewer is registered.
func (b *FrameBuffer) Watching() bool {
	return b.watchers.Load() > 0
}
