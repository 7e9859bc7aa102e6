package lookupapi

import (
	"context"
	"math"
	"math/rand"
	"time"
)

func calcBackoff(initial, max time.Duration, failures int) time.Duration {
	if initial <= 0 {
		return 0
	}
	pow := math.Pow(2, float64(failures-1))
	backoff := time.Duration(float64(initial) * pow)
	if max > 0 && backoff > max {
		backoff = max
	}

	// Add jitter to avoid synchronized retries
	jitterFrac := 0.2
	jitter := time.Duration(rand.Float64()*2*jitterFrac*float64(backoff)) -
		time.Duration(jitterFrac*float64(backoff))

	return backoff + jitter
}

func sleepCtx(ctx context.Context, d time.Duration) error {
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
