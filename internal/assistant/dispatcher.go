package assistant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/observability"
)

// ErrBusy is returned by Dispatch while an earlier request is still outstanding.
var ErrBusy = errors.New("assistant request already in flight")

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("dispatcher closed")

// Result is the outcome of one dispatched request. When Err is set, Text
// holds FallbackMessage.
type Result struct {
	ID       string
	Command  Command
	Hand     string
	Text     string
	Err      error
	Duration time.Duration
}

// Dispatcher runs at most one text-generation request at a time in the
// background and delivers its outcome on Results.
type Dispatcher struct {
	client  Client
	timeout time.Duration
	log     zerolog.Logger

	busy    atomic.Bool
	results chan Result

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu orders Dispatch's wg.Add against Close's wg.Wait.
	mu     sync.Mutex
	closed bool
}

// NewDispatcher creates a dispatcher. A zero timeout leaves requests bounded
// only by the client's own timeout.
func NewDispatcher(client Client, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		client:  client,
		timeout: timeout,
		log:     observability.Component(log, "assistant"),
		results: make(chan Result, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Dispatch starts cmd for slideText and returns immediately.
func (d *Dispatcher) Dispatch(cmd Command, hand, slideText string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if !d.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}

	id := uuid.NewString()
	d.log.Info().Str("request_id", id).Str("command", string(cmd)).Str("hand", hand).Msg("Dispatching request")

	d.wg.Add(1)
	go d.run(id, cmd, hand, slideText)
	return nil
}

func (d *Dispatcher) run(id string, cmd Command, hand, slideText string) {
	defer d.wg.Done()
	defer d.busy.Store(false)

	ctx := d.ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := d.client.Generate(ctx, cmd, slideText)
	res := Result{
		ID:       id,
		Command:  cmd,
		Hand:     hand,
		Text:     text,
		Err:      err,
		Duration: time.Since(start),
	}
	if err != nil {
		res.Text = FallbackMessage
		d.log.Warn().Err(err).Str("request_id", id).Dur("duration", res.Duration).Msg("Request failed")
	} else {
		d.log.Info().Str("request_id", id).Dur("duration", res.Duration).Msg("Request completed")
	}

	select {
	case d.results <- res:
	case <-d.ctx.Done():
	}
}

// Results delivers completed requests. It is never closed.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Busy reports whether a request is outstanding.
func (d *Dispatcher) Busy() bool {
	return d.busy.Load()
}

// Close cancels any outstanding request and waits for it to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}
