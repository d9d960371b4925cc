package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/picket-dev/picket/pkg/domain"
)

// Store keeps the per-principal admission history.
//
// It is scoped to the device running the controller: two devices
// uploading as the same principal each keep their own history, so the
// limits hold per device, not per account.
type Store interface {
	// Load returns the recorded admission instants for the principal,
	// oldest first. An unknown principal yields an empty list, not an
	// error.
	Load(ctx context.Context, principal string) ([]time.Time, error)

	// Save replaces the recorded instants for the principal.
	Save(ctx context.Context, principal string, stamps []time.Time) error
}

// Controller admits or denies governed work under two simultaneous
// sliding windows. Checking quota does not consume it; call
// RecordAdmission once the governed action is actually proceeding.
type Controller struct {
	store  Store
	limits domain.QuotaLimits
}

type Option func(*Controller) *Controller

func WithLimits(l domain.QuotaLimits) Option {
	return func(c *Controller) *Controller {
		c.limits = l
		return c
	}
}

func New(store Store, options ...Option) *Controller {
	c := &Controller{store: store, limits: domain.DefaultQuotaLimits()}
	for _, opt := range options {
		c = opt(c)
	}
	return c
}

func (c *Controller) Limits() domain.QuotaLimits {
	return c.limits
}

// TryAdmit decides whether the principal may start one more upload at
// instant now.
//
// As a side effect, entries older than 24 hours are pruned and the
// pruned history is persisted, whatever the decision is. Repeating
// TryAdmit without RecordAdmission yields the same counts.
//
// The hourly window is checked strictly before the daily one; a
// principal at both limits is denied for the hourly reason.
func (c *Controller) TryAdmit(ctx context.Context, principal string, now time.Time) (domain.QuotaDecision, error) {
	if principal == "" {
		return domain.QuotaDecision{}, fmt.Errorf(
			"%w: principal is required", domain.ErrInvalidPrincipal,
		)
	}

	stamps, err := c.load(ctx, principal, now)
	if err != nil {
		return domain.QuotaDecision{}, err
	}
	if err := c.store.Save(ctx, principal, stamps); err != nil {
		return domain.QuotaDecision{}, err
	}

	hourly := inWindow(stamps, now, time.Hour)
	decision := domain.QuotaDecision{
		HourlyCount: len(hourly),
		DailyCount:  len(stamps), // post-prune, everything is within 24h
		Limits:      c.limits,
	}

	if len(hourly) >= c.limits.PerHour {
		decision.Reason = domain.DeniedHourly
		decision.Wait = roundUp(time.Hour-now.Sub(hourly[0]), time.Minute)
		return decision, nil
	}
	if len(stamps) >= c.limits.PerDay {
		decision.Reason = domain.DeniedDaily
		decision.Wait = roundUp(24*time.Hour-now.Sub(stamps[0]), time.Hour)
		return decision, nil
	}

	decision.Allowed = true
	return decision, nil
}

// RecordAdmission appends now to the principal's (pruned) history.
//
// Call it only once the governed upload is known to be proceeding; a
// denied admission must never be recorded.
func (c *Controller) RecordAdmission(ctx context.Context, principal string, now time.Time) error {
	if principal == "" {
		return fmt.Errorf("%w: principal is required", domain.ErrInvalidPrincipal)
	}

	stamps, err := c.load(ctx, principal, now)
	if err != nil {
		return err
	}
	return c.store.Save(ctx, principal, append(stamps, now))
}

// load fetches the history with everything older than 24h dropped,
// so the store never grows without bound.
func (c *Controller) load(ctx context.Context, principal string, now time.Time) ([]time.Time, error) {
	stamps, err := c.store.Load(ctx, principal)
	if err != nil {
		return nil, err
	}
	return inWindow(stamps, now, 24*time.Hour), nil
}

// inWindow keeps instants strictly younger than window, preserving
// order. Assumes stamps are oldest first.
func inWindow(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	kept := make([]time.Time, 0, len(stamps))
	for _, ts := range stamps {
		if now.Sub(ts) < window {
			kept = append(kept, ts)
		}
	}
	return kept
}

// roundUp rounds d up to a whole multiple of unit.
func roundUp(d time.Duration, unit time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	n := (d + unit - 1) / unit
	return n * unit
}
