package gesture

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the tunable thresholds shared by the hold and swipe trackers.
type Config struct {
	// HoldDuration is how long a qualifying pose must persist before it fires.
	HoldDuration time.Duration `yaml:"hold_duration" validate:"gt=0"`

	// SwipeWindow bounds the age of wrist samples considered for a swipe.
	SwipeWindow time.Duration `yaml:"swipe_window" validate:"gt=0"`

	// SwipeThreshold is the net horizontal displacement, as a fraction of the
	// frame width, that must be exceeded within SwipeWindow.
	SwipeThreshold float64 `yaml:"swipe_threshold" validate:"gt=0,lt=1"`

	// SwipeMinSamples is the minimum number of retained samples before a
	// direction is judged.
	SwipeMinSamples int `yaml:"swipe_min_samples" validate:"gte=2"`

	// SwipeCooldown is the minimum time between two swipes.
	SwipeCooldown time.Duration `yaml:"swipe_cooldown" validate:"gte=0"`

	// HistoryCapacity is the initial size of the swipe ring buffer. The
	// buffer grows past it when a window holds more samples.
	HistoryCapacity int `yaml:"history_capacity" validate:"gtefield=SwipeMinSamples"`
}

// DefaultConfig returns the thresholds used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		HoldDuration:    1000 * time.Millisecond,
		SwipeWindow:     500 * time.Millisecond,
		SwipeThreshold:  0.10,
		SwipeMinSamples: 4,
		SwipeCooldown:   800 * time.Millisecond,
		HistoryCapacity: 64,
	}
}

var validate = validator.New()

// Validate reports the first invalid field, if any.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid gesture config: %w", err)
	}
	return nil
}
