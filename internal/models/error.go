package models

import (
	"errors"
	"time"
)

// Sentinel errors for common failure conditions
var (
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
)

// RateLimitedError is returned by the gates when a client has exhausted
// its attempt budget. Message is the user-facing text relayed to the
// caller; RetryAfter is zero when the gate has no ban timer.
type RateLimitedError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string { return e.Message }

// Unwrap lets callers match gate rejections with errors.Is(err, ErrRateLimited).
func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }
