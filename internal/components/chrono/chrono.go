package chrono

import (
	"context"
	"sync"
	"time"

	_ "time/tzdata"
)

var ottawa *time.Location

func init() {
	var err error
	ottawa, err = time.LoadLocation("America/Toronto")
	if err != nil {
		panic(err)
	}
}

// Ottawa returns the [*time.Location] parliamentary dates are published in.
func Ottawa() *time.Location {
	return ottawa
}

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	Now() time.Time
}

// Sleeper blocks for a duration or until the context is done, whichever comes first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// StandardTime is the standard implementation of TimeAPI and Sleeper.
type StandardTime struct{}

func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now().In(ottawa)
}

func (StandardTime) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FakeSleeper records requested sleeps without blocking, it is meant for tests.
type FakeSleeper struct {
	mutex  sync.Mutex
	sleeps []time.Duration
}

func (f *FakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.mutex.Lock()
	f.sleeps = append(f.sleeps, d)
	f.mutex.Unlock()
	return ctx.Err()
}

func (f *FakeSleeper) Sleeps() []time.Duration {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := make([]time.Duration, len(f.sleeps))
	copy(out, f.sleeps)
	return out
}
