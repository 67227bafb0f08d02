package gesture

import (
	"time"
)

var epoch = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

// at returns the test clock reading ms milliseconds after epoch.
func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}
