package qa

import "time"

// Clock supplies the current time to the store. Entity timestamps, the
// items-per-hour counter and the "very recent notification" check all go
// through it, so tests can pin time to a fixed instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
