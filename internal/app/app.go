// Package app runs the frame loop that turns camera frames into slide moves
// and assistant requests.
package app

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/assistant"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/event"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/observability"
	"github.com/ayusman/mudra/internal/slides"
)

// DefaultFrameInterval is used when Config.FrameInterval is zero.
const DefaultFrameInterval = time.Second / capture.DefaultFPS

// ErrNoCamera is returned by Start when no camera is configured.
var ErrNoCamera = errors.New("no camera configured")

// Config holds the collaborators of the application.
type Config struct {
	Camera        capture.Camera
	Detector      detector.Detector
	Dispatcher    *assistant.Dispatcher // nil disables assistant requests
	Navigator     *slides.Navigator
	Publisher     event.Publisher
	Gesture       gesture.Config
	FrameInterval time.Duration
	Logger        zerolog.Logger
}

// App orchestrates capture, detection, the gesture engine and its consumers.
type App struct {
	config     Config
	log        zerolog.Logger
	camera     capture.Camera
	detector   detector.Detector
	dispatcher *assistant.Dispatcher
	navigator  *slides.Navigator
	frames     *capture.FrameBuffer

	// engineMu serializes the frame loop with resets from other goroutines.
	engineMu sync.Mutex
	engine   *gesture.Engine

	mu         sync.RWMutex
	enabled    bool
	publishers event.Multi
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// New creates a new App. Detection starts disabled.
func New(config Config) *App {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultFrameInterval
	}
	if config.Navigator == nil {
		config.Navigator = slides.NewNavigator()
	}

	a := &App{
		config:     config,
		log:        observability.Component(config.Logger, "app"),
		camera:     config.Camera,
		detector:   config.Detector,
		dispatcher: config.Dispatcher,
		navigator:  config.Navigator,
		frames:     capture.NewFrameBuffer(),
		engine:     gesture.NewEngine(config.Gesture),
	}
	if config.Publisher != nil {
		a.publishers = event.Multi{config.Publisher}
	}
	return a
}

// Subscribe adds a consumer for published events.
func (a *App) Subscribe(p event.Publisher) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.publishers = append(a.publishers, p)
}

func (a *App) publish(e event.Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	a.mu.RLock()
	pubs := a.publishers
	a.mu.RUnlock()
	pubs.Publish(e)
}

// SetEnabled enables or disables gesture detection. Disabling drops every
// hand's tracker state, so re-enabling starts from scratch.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	a.mu.Unlock()

	if changed && !enabled {
		a.engineMu.Lock()
		a.engine.Reset()
		a.engineMu.Unlock()
	}
	if changed {
		a.log.Info().Bool("enabled", enabled).Msg("Gesture detection toggled")
	}
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Start opens the camera and begins the frame loop. Starting a running app
// is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}
	if a.camera == nil {
		return ErrNoCamera
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.log.Info().Dur("frame_interval", a.config.FrameInterval).Msg("Detection pipeline started")
	return nil
}

// Stop halts the frame loop and releases the camera and detector. Stopping
// a stopped app is a no-op.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh

	if err := a.camera.Close(); err != nil {
		a.log.Warn().Err(err).Msg("Error closing camera")
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.log.Warn().Err(err).Msg("Error closing detector")
		}
	}

	a.log.Info().Msg("Detection pipeline stopped")
}

// Running reports whether the frame loop is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// LoadDeck shows deck from its first slide.
func (a *App) LoadDeck(deck slides.Deck) {
	a.navigator.Load(deck)
	a.log.Info().Str("deck", deck.ID).Int("slides", len(deck.Slides)).Msg("Deck loaded")
	a.publishSlide("")
}

// UnloadDeck clears the presentation if deckID is the loaded deck.
func (a *App) UnloadDeck(deckID string) {
	if a.navigator.DeckID() != deckID {
		return
	}
	a.navigator.Unload()
	a.publishSlide("")
}

// Next advances one slide on request from a presenter control.
func (a *App) Next() slides.Position {
	if _, moved := a.navigator.Next(); moved {
		observability.RecordSlideChange("manual")
		a.publishSlide(gesture.DirectionRight)
	}
	return a.navigator.Position()
}

// Prev goes back one slide on request from a presenter control.
func (a *App) Prev() slides.Position {
	if _, moved := a.navigator.Prev(); moved {
		observability.RecordSlideChange("manual")
		a.publishSlide(gesture.DirectionLeft)
	}
	return a.navigator.Position()
}

func (a *App) publishSlide(direction gesture.Direction) {
	a.publish(event.Event{
		Type:       event.TypeSlideChanged,
		Direction:  string(direction),
		SlideIndex: a.navigator.Index(),
		SlideCount: a.navigator.Count(),
	})
}

// Position returns the current deck and slide.
func (a *App) Position() slides.Position {
	return a.navigator.Position()
}

// Hands returns the tracker state of every hand seen so far.
func (a *App) Hands() []gesture.HandStatus {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	return a.engine.Hands()
}

// Navigator returns the slide navigator.
func (a *App) Navigator() *slides.Navigator {
	return a.navigator
}

// Frames returns the buffer of encoded preview frames.
func (a *App) Frames() *capture.FrameBuffer {
	return a.frames
}
