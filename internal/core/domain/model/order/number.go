package order

import (
	"fmt"
	"time"
)

// GenerateNumber derives a human-readable order number from the creation
// timestamp: UTC, second precision plus microseconds, 20 digits total.
// Uniqueness is enforced by the storage layer, not here.
func GenerateNumber(now time.Time) string {
	utc := now.UTC()
	return utc.Format("20060102150405") + fmt.Sprintf("%06d", utc.Nanosecond()/1000)
}
