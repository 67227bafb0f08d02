package capture

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFrameBuffer_Next(t *testing.T) {
	buf := NewFrameBuffer()

	got := make(chan []byte, 1)
	go func() {
		data, _, err := buf.Next(context.Background(), 0)
		if err != nil {
			t.Errorf("Next() error = %v", err)
		}
		got <- data
	}()

	buf.Publish([]byte("frame-1"))

	select {
	case data := <-got:
		if string(data) != "frame-1" {
			t.Errorf("expected frame-1, got %q", data)
		}
	case <-time.After(time.Second):
		t.Fatal("Next() did not wake on Publish")
	}
}

func TestFrameBuffer_SkipsSeenFrames(t *testing.T) {
	buf := NewFrameBuffer()
	buf.Publish([]byte("a"))

	data, seq, err := buf.Next(context.Background(), 0)
	if err != nil || string(data) != "a" || seq != 1 {
		t.Fatalf("Next() = %q, %d, %v", data, seq, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, _, err := buf.Next(ctx, seq); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline waiting for a new frame, got %v", err)
	}
}

func TestFrameBuffer_Watch(t *testing.T) {
	buf := NewFrameBuffer()
	if buf.Watching() {
		t.Error("no watchers expected initially")
	}

	release := buf.Watch()
	if !buf.Watching() {
		t.Error("expected a watcher")
	}

	release()
	release()
	if buf.Watching() {
		t.Error("release should be idempotent")
	}
}
