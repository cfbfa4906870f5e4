package clock

import "time"

// Clock abstracts the current instant so services can be tested with a
// fixed time source.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns a Clock backed by time.Now in UTC.
func System() Clock {
	return systemClock{}
}

// Fixed is a Clock that always reports the same instant. Intended for tests.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time {
	return f.Instant
}
