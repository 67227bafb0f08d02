package plugin

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/event"
	"github.com/ayusman/mudra/internal/observability"
)

// DefaultQueueSize is the number of events buffered for plugins.
const DefaultQueueSize = 32

// Runner delivers events to subscribed plugins on a single worker
// goroutine, so plugins see events in publish order. It implements
// event.Publisher; when the queue is full new events are dropped rather
// than stalling the frame loop.
type Runner struct {
	manager  *Manager
	executor *Executor
	log      zerolog.Logger

	queue  chan event.Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewRunner starts a Runner for the manager's plugins.
func NewRunner(m *Manager, e *Executor, log zerolog.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		manager:  m,
		executor: e,
		log:      observability.Component(log, "plugins"),
		queue:    make(chan event.Event, DefaultQueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
	r.wg.Add(1)
	go r.loop()
	return r
}

// Publish implements event.Publisher.
func (r *Runner) Publish(e event.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- e:
	default:
		r.log.Warn().Str("type", string(e.Type)).Msg("Plugin queue full, event dropped")
	}
}

// Close stops the worker after cancelling any running plugin.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}

func (r *Runner) loop() {
	defer r.wg.Done()
	for e := range r.queue {
		if r.ctx.Err() != nil {
			continue
		}
		r.deliver(e)
	}
}

func (r *Runner) deliver(e event.Event) {
	for _, p := range r.manager.Subscribers(e.Type) {
		start := time.Now()
		resp, err := r.executor.Execute(r.ctx, p, &Request{Event: e, Config: p.Manifest.Config})

		status := "ok"
		switch {
		case err != nil:
			status = "error"
			r.log.Warn().Err(err).Str("plugin", p.Manifest.Name).Msg("Plugin run failed")
		case !resp.Success:
			status = "rejected"
			r.log.Warn().Str("plugin", p.Manifest.Name).Str("error", resp.Error).Msg("Plugin reported failure")
		default:
			r.log.Debug().Str("plugin", p.Manifest.Name).Str("type", string(e.Type)).
				Dur("took", time.Since(start)).Msg("Plugin ran")
		}
		observability.RecordPluginRun(p.Manifest.Name, status)
	}
}
