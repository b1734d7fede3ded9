package utils

import (
	"time"
)

// WholeDaysBetween returns the number of complete 24h periods between a and b,
// regardless of their order.
func WholeDaysBetween(a, b time.Time) int {
	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}
