// Package requestnum issues human-readable request numbers for training
// requests. Numbers look like TRN-483920-117: six decimal digits derived
// from the submission time and three random digits. Uniqueness is
// best-effort here; the request store's unique index is the real guarantee,
// and callers regenerate on a duplicate-key insert.
package requestnum

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

const prefix = "TRN"

var pattern = regexp.MustCompile(`^TRN-\d{6}-\d{3}$`)

// New returns a fresh request number for the given submission time.
func New(now time.Time) string {
	// Seconds-of-day plus the day-of-year spread submissions across the
	// six-digit space without ever exceeding it.
	timePart := (now.YearDay()*86400 + secondOfDay(now)) % 1000000

	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	random := int64(0)
	if err == nil {
		random = n.Int64()
	}
	// On a crypto/rand failure the time component alone still varies per
	// second; the store's unique index catches any residual clash.

	return fmt.Sprintf("%s-%06d-%03d", prefix, timePart, random)
}

// Valid reports whether s has the TRN-xxxxxx-yyy shape. Used by lookup to
// distinguish request numbers from object ids.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
