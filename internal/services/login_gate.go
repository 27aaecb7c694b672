package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/osanchez/portfolio-gateway/internal/models"
	"github.com/osanchez/portfolio-gateway/internal/repositories"
	"github.com/osanchez/portfolio-gateway/internal/upstream"
)

// UpstreamAuthenticator is the slice of the upstream client the login
// gate needs: forward an opaque credentials payload, get back the reply.
type UpstreamAuthenticator interface {
	Login(ctx context.Context, body []byte) (*upstream.Response, error)
}

// LoginGateConfig holds the failure budget for the login gate
type LoginGateConfig struct {
	MaxAttempts int
	BanDuration time.Duration
}

// DefaultLoginGateConfig returns the stock budget: 5 failures, 15 minute ban
func DefaultLoginGateConfig() LoginGateConfig {
	return LoginGateConfig{
		MaxAttempts: 5,
		BanDuration: 15 * time.Minute,
	}
}

// LoginGate decides whether a login attempt may reach the upstream auth
// endpoint based on the client's failure history, and updates that
// history from the upstream's verdict. Only failures count; a success
// clears the client's ledger entry entirely.
type LoginGate struct {
	ledger repositories.AttemptLedger
	auth   UpstreamAuthenticator
	config LoginGateConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewLoginGate creates a LoginGate backed by the given ledger and upstream
func NewLoginGate(ledger repositories.AttemptLedger, auth UpstreamAuthenticator, config LoginGateConfig, logger *slog.Logger) *LoginGate {
	return &LoginGate{
		ledger: ledger,
		auth:   auth,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the gate's time source (used by tests to pin window
// arithmetic at exact boundaries)
func (g *LoginGate) SetClock(now func() time.Time) {
	g.now = now
}

// Login runs the gate for one attempt. A banned client is rejected
// locally with the remaining wait; the upstream is not contacted until
// the ban expires. Strict < on the window comparison: an attempt exactly
// at LastAttempt+BanDuration goes through.
func (g *LoginGate) Login(ctx context.Context, clientID string, body []byte) (*upstream.Response, error) {
	now := g.now()

	if record, ok := g.ledger.Get(clientID); ok && record.Count >= g.config.MaxAttempts {
		elapsed := now.Sub(record.LastAttempt)
		if elapsed < g.config.BanDuration {
			remaining := g.config.BanDuration - elapsed
			minutes := ceilMinutes(remaining)
			g.logger.Warn("login attempt rejected, client banned",
				slog.String("client_id", clientID),
				slog.Int("failed_attempts", record.Count),
				slog.Int("minutes_left", minutes))
			return nil, &models.RateLimitedError{
				Message:    fmt.Sprintf("Demasiados intentos. Intenta de nuevo en %d minutos.", minutes),
				RetryAfter: remaining,
			}
		}
		// Ban expired: the attempt goes through. A further failure below
		// increments past the threshold and restarts the ban timer.
	}

	resp, err := g.auth.Login(ctx, body)
	if err != nil {
		// The upstream never evaluated the attempt, so it does not count.
		g.logger.Error("login proxy error", slog.Any("error", err))
		return nil, models.ErrUpstreamUnreachable
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		g.ledger.Delete(clientID)
		return resp, nil
	}

	g.ledger.Update(clientID, func(record models.AttemptRecord, ok bool) (models.AttemptRecord, bool) {
		if !ok {
			return models.AttemptRecord{Count: 1, LastAttempt: now}, true
		}
		return models.AttemptRecord{Count: record.Count + 1, LastAttempt: now}, true
	})

	return resp, nil
}

// ceilMinutes rounds a duration up to whole minutes
func ceilMinutes(d time.Duration) int {
	return int((d + time.Minute - 1) / time.Minute)
}
