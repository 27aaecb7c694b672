package models

import "time"

// AttemptRecord tracks request attempts from a single client identifier.
// At most one record exists per client at any time; the gates decide when
// a record is created, incremented, reset, or deleted.
type AttemptRecord struct {
	Count       int
	LastAttempt time.Time
}
