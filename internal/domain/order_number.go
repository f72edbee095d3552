package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const orderNumberPrefix = "WB-"

// NewOrderNumber builds the human-readable order number from the last 8
// digits of the unix-millisecond clock, e.g. WB-91272834. The column carries
// a unique index; callers retry with RandomOrderNumber on conflict.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("%s%08d", orderNumberPrefix, now.UnixMilli()%100_000_000)
}

// RandomOrderNumber is the conflict fallback: same shape, random digits.
func RandomOrderNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(100_000_000))
	if err != nil {
		// crypto/rand only fails on a broken platform; degrade to the clock.
		return NewOrderNumber(time.Now())
	}
	return fmt.Sprintf("%s%08d", orderNumberPrefix, n.Int64())
}
