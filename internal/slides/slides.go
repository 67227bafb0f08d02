// Package slides holds the presentation model and the navigator that moves
// through it in response to swipes and manual commands.
package slides

import (
	"strings"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// Slide is one page of a deck.
type Slide struct {
	ID       string `json:"id"`
	DeckID   string `json:"deck_id"`
	Position int    `json:"position"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// Text returns the content sent to the assistant for this slide.
func (s Slide) Text() string {
	switch {
	case s.Title == "":
		return strings.TrimSpace(s.Body)
	case s.Body == "":
		return strings.TrimSpace(s.Title)
	default:
		return strings.TrimSpace(s.Title + "\n\n" + s.Body)
	}
}

// Deck is an ordered set of slides.
type Deck struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slides    []Slide   `json:"slides"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Navigator tracks the current slide of the loaded deck. The index is always
// within [0, count-1]; with no slides loaded it is 0 and nothing moves.
type Navigator struct {
	mu     sync.RWMutex
	deckID string
	title  string
	slides []Slide
	index  int
}

// NewNavigator returns a navigator with no deck loaded.
func NewNavigator() *Navigator {
	return &Navigator{}
}

// Load replaces the deck and returns to the first slide.
func (n *Navigator) Load(d Deck) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deckID = d.ID
	n.title = d.Title
	n.slides = append([]Slide(nil), d.Slides...)
	n.index = 0
}

// Unload clears the deck.
func (n *Navigator) Unload() {
	n.Load(Deck{})
}

// Apply moves one slide for a swipe. Right advances, left goes back.
// It reports the resulting index and whether it changed.
func (n *Navigator) Apply(dir gesture.Direction) (int, bool) {
	switch dir {
	case gesture.DirectionRight:
		return n.step(1)
	case gesture.DirectionLeft:
		return n.step(-1)
	default:
		return n.Index(), false
	}
}

// Next advances one slide.
func (n *Navigator) Next() (int, bool) { return n.step(1) }

// Prev goes back one slide.
func (n *Navigator) Prev() (int, bool) { return n.step(-1) }

func (n *Navigator) step(delta int) (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.moveTo(n.index + delta)
}

// Goto jumps to slide i, clamped to the deck.
func (n *Navigator) Goto(i int) (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.moveTo(i)
}

func (n *Navigator) moveTo(i int) (int, bool) {
	if len(n.slides) == 0 {
		return 0, false
	}
	if i < 0 {
		i = 0
	}
	if last := len(n.slides) - 1; i > last {
		i = last
	}
	moved := i != n.index
	n.index = i
	return i, moved
}

// Current returns the current slide, if any.
func (n *Navigator) Current() (Slide, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if len(n.slides) == 0 {
		return Slide{}, false
	}
	return n.slides[n.index], true
}

// Index returns the current slide index.
func (n *Navigator) Index() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.index
}

// Count returns the number of slides loaded.
func (n *Navigator) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.slides)
}

// DeckID returns the id of the loaded deck, or "" if none.
func (n *Navigator) DeckID() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.deckID
}

// Position is a snapshot of the navigator.
type Position struct {
	DeckID    string `json:"deck_id,omitempty"`
	DeckTitle string `json:"deck_title,omitempty"`
	Index     int    `json:"index"`
	Count     int    `json:"count"`
	Slide     *Slide `json:"slide,omitempty"`
}

// Position returns the current deck, index and slide in one read.
func (n *Navigator) Position() Position {
	n.mu.RLock()
	defer n.mu.RUnlock()
	p := Position{DeckID: n.deckID, DeckTitle: n.title, Index: n.index, Count: len(n.slides)}
	if len(n.slides) > 0 {
		s := n.slides[n.index]
		p.Slide = &s
	}
	return p
}
