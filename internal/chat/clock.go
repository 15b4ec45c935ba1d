package chat

import (
	"context"
	"time"
)

// Clock provides the artificial "thinking" pauses
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock waits on the wall clock and returns early when ctx is done
type RealClock struct{}

// Sleep blocks for d or until ctx is cancelled
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// InstantClock never waits. Batch runs use it.
type InstantClock struct{}

// Sleep returns immediately unless ctx is already cancelled
func (InstantClock) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
