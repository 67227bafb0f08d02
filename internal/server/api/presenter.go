package api

import (
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/slides"
)

// Presenter is the live presentation the handlers drive.
type Presenter interface {
	Position() slides.Position
	Next() slides.Position
	Prev() slides.Position
	LoadDeck(deck slides.Deck)
	UnloadDeck(deckID string)
	IsEnabled() bool
	SetEnabled(enabled bool)
	Hands() []gesture.HandStatus
}
