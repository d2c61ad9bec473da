package pipeline

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/sheetdeck/internal/llm"
)

// IsRetryable reports whether err is a temporary upstream failure.
func IsRetryable(err error) bool {
	var upErr *llm.UpstreamError
	return errors.As(err, &upErr) && upErr.Temporary
}

// Default backoff bounds when Options leaves them unset.
const (
	DefaultRetryBase = time.Second
	DefaultRetryMax  = 30 * time.Second
)

// Backoff waits base doubled per attempt (0-indexed), capped at limit, plus
// up to half that again as jitter.
func Backoff(attempt int, base, limit time.Duration) time.Duration {
	if base <= 0 {
		base = DefaultRetryBase
	}
	if limit < base {
		limit = base
	}
	d := limit
	if shifted := base << uint(attempt); attempt < 62 && shifted > 0 && shifted < limit {
		d = shifted
	}
	if half := int64(d) / 2; half > 0 {
		d += time.Duration(rand.Int64N(half))
	}
	return d
}

// MaxRetries is the number of completion attempts per conversion.
const MaxRetries = 3
