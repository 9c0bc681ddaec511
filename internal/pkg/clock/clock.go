package clock

import (
	"sync/atomic"
	"time"
)

// Clock is the only source of timestamps for bookings and the outbox.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewRealClock() Clock {
	return systemClock{}
}

// Now is truncated to microseconds so values round-trip through timestamptz unchanged.
func (systemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Fixed returns the same instant until moved with Advance.
type Fixed struct {
	nanos atomic.Int64
}

func NewFixed(t time.Time) *Fixed {
	f := &Fixed{}
	f.nanos.Store(t.UnixNano())
	return f
}

func (f *Fixed) Now() time.Time {
	return time.Unix(0, f.nanos.Load()).UTC()
}

func (f *Fixed) Advance(d time.Duration) {
	f.nanos.Add(int64(d))
}
