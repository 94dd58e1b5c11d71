// Package clock abstracts the time source used for betting-window checks so
// that tests and embedders can supply a deterministic one.
package clock

import "time"

// Clock supplies the current time in unix seconds.
type Clock interface {
	Now() int64
}

type systemClock struct{}

func (systemClock) Now() int64 {
	return time.Now().Unix()
}

// System returns a Clock backed by the wall clock.
func System() Clock {
	return systemClock{}
}

// Fixed is a Clock pinned to a constant instant.
type Fixed int64

func (f Fixed) Now() int64 {
	return int64(f)
}
