// Package tray provides the optional desktop tray menu: detection toggle,
// slide controls and a readout of the last event.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/mudra/internal/event"
)

// Tray is the system tray menu. It implements event.Publisher so it can be
// subscribed to the app's events.
type Tray struct {
	mu         sync.RWMutex
	enabled    bool
	lastEvent  string
	slide      string
	onToggle   func(enabled bool)
	onNext     func()
	onPrev     func()
	onSettings func()
	onQuit     func()

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuLastEvent *systray.MenuItem
	menuSlide     *systray.MenuItem
}

// New creates a Tray reflecting the given detection state.
func New(enabled bool) *Tray {
	return &Tray{
		enabled:   enabled,
		lastEvent: "none",
		slide:     "no deck",
	}
}

// OnToggle sets the callback run when detection is switched on or off.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnNext sets the callback for the "Next slide" item.
func (t *Tray) OnNext(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onNext = fn
}

// OnPrev sets the callback for the "Previous slide" item.
func (t *Tray) OnPrev(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPrev = fn
}

// OnSettings sets the callback for the "Open Presenter..." item.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback run before the tray exits.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray. It blocks until Quit and must be called from the
// main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit closes the tray, unblocking Run.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra gesture presenter")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture detection")
	systray.AddSeparator()
	t.menuSlide = systray.AddMenuItem("Slide: "+t.slide, "Current slide")
	t.menuSlide.Disable()
	t.menuLastEvent = systray.AddMenuItem("Last: "+t.lastEvent, "Last gesture event")
	t.menuLastEvent.Disable()
	t.mu.Unlock()

	menuPrev := systray.AddMenuItem("Previous slide", "Go back one slide")
	menuNext := systray.AddMenuItem("Next slide", "Advance one slide")
	systray.AddSeparator()
	menuSettings := systray.AddMenuItem("Open Presenter...", "Open the presenter view in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuPrev.ClickedCh:
				t.call(func() func() { return t.onPrev })
			case <-menuNext.ClickedCh:
				t.call(func() func() { return t.onNext })
			case <-menuSettings.ClickedCh:
				t.call(func() func() { return t.onSettings })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

// call runs the callback chosen by pick outside the lock.
func (t *Tray) call(pick func() func()) {
	t.mu.RLock()
	fn := pick()
	t.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// Publish implements event.Publisher.
func (t *Tray) Publish(e event.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if label := describe(e); label != "" {
		t.lastEvent = label
		if t.menuLastEvent != nil {
			t.menuLastEvent.SetTitle("Last: " + label)
		}
	}
	if e.Type == event.TypeSlideChanged {
		t.slide = slideLabel(e.SlideIndex, e.SlideCount)
		if t.menuSlide != nil {
			t.menuSlide.SetTitle("Slide: " + t.slide)
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// LastEvent returns the label of the last notable event.
func (t *Tray) LastEvent() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastEvent
}

// Slide returns the slide position label.
func (t *Tray) Slide() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.slide
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Detection on"
	}
	return "○ Detection off"
}

func slideLabel(index, count int) string {
	if count == 0 {
		return "no deck"
	}
	return fmt.Sprintf("%d / %d", index+1, count)
}

// describe returns the menu label for e, or "" for events that should not
// replace the last one shown.
func describe(e event.Event) string {
	switch e.Type {
	case event.TypeGestureTriggered:
		return e.Gesture + " (" + e.Hand + ")"
	case event.TypeSwipeDetected:
		return e.Direction + " (" + e.Hand + ")"
	case event.TypeAssistantStarted:
		return e.Command + "…"
	case event.TypeAssistantResponse:
		return e.Command + " answered"
	case event.TypeAssistantError:
		return e.Command + " failed"
	default:
		return ""
	}
}
