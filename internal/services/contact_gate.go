package services

import (
	"log/slog"
	"time"

	"github.com/osanchez/portfolio-gateway/internal/models"
	"github.com/osanchez/portfolio-gateway/internal/repositories"
)

// ContactGateConfig holds the rolling-window budget for contact submissions
type ContactGateConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// DefaultContactGateConfig returns the stock budget: 3 submissions per hour
func DefaultContactGateConfig() ContactGateConfig {
	return ContactGateConfig{
		MaxAttempts: 3,
		Window:      time.Hour,
	}
}

// ContactGate throttles contact-form submissions to a fixed number per
// rolling window. Unlike the login gate it counts every attempt
// regardless of outcome: spam should be throttled whether or not the
// message goes through.
type ContactGate struct {
	ledger repositories.AttemptLedger
	config ContactGateConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewContactGate creates a ContactGate backed by the given ledger
func NewContactGate(ledger repositories.AttemptLedger, config ContactGateConfig, logger *slog.Logger) *ContactGate {
	return &ContactGate{
		ledger: ledger,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the gate's time source (used by tests to pin window
// arithmetic at exact boundaries)
func (g *ContactGate) SetClock(now func() time.Time) {
	g.now = now
}

// Allow records one attempt and reports whether it fits the budget.
// A gap longer than the window (strict >) starts a fresh count; at the
// budget the attempt is rejected without incrementing further.
func (g *ContactGate) Allow(clientID string) error {
	now := g.now()
	rejected := false

	g.ledger.Update(clientID, func(record models.AttemptRecord, ok bool) (models.AttemptRecord, bool) {
		switch {
		case !ok:
			return models.AttemptRecord{Count: 1, LastAttempt: now}, true
		case now.Sub(record.LastAttempt) > g.config.Window:
			return models.AttemptRecord{Count: 1, LastAttempt: now}, true
		case record.Count >= g.config.MaxAttempts:
			rejected = true
			return record, true
		default:
			return models.AttemptRecord{Count: record.Count + 1, LastAttempt: now}, true
		}
	})

	if rejected {
		g.logger.Warn("contact submission rejected, hourly limit reached",
			slog.String("client_id", clientID))
		return &models.RateLimitedError{
			Message: "Has excedido el límite de mensajes por hora. Inténtalo más tarde.",
		}
	}

	return nil
}
