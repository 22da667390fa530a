package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// NewPassNumber builds a human-facing pass token of the form
// PASS-<epoch millis>-<random 0..999>. Uniqueness is best effort;
// the passes.pass_number UNIQUE constraint catches the rare
// same-millisecond collision.
func NewPassNumber(now time.Time) string {
	return fmt.Sprintf("PASS-%d-%d", now.UnixMilli(), rand.Intn(1000))
}
