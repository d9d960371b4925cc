package domain

import (
	"fmt"
	"time"
)

type DenialReason string

const (
	// the principal is at its rolling one-hour limit.
	DeniedHourly DenialReason = "hourly"

	// the principal is at its rolling 24-hour limit.
	DeniedDaily DenialReason = "daily"
)

func (r DenialReason) String() string {
	return string(r)
}

// QuotaLimits are the sliding-window admission thresholds.
type QuotaLimits struct {
	// admissions allowed per rolling hour.
	PerHour int

	// admissions allowed per rolling 24 hours.
	PerDay int
}

func DefaultQuotaLimits() QuotaLimits {
	return QuotaLimits{PerHour: 2, PerDay: 5}
}

// QuotaDecision is the outcome of one admission check.
//
// Counts are returned on both admit and deny, so a caller can show
// remaining quota without asking again.
type QuotaDecision struct {
	Allowed bool

	// set only when denied.
	Reason DenialReason

	// minimum time until the blocking entry ages out of its window.
	// Rounded up to whole minutes (hourly) or whole hours (daily).
	Wait time.Duration

	HourlyCount int
	DailyCount  int

	Limits QuotaLimits
}

// Message renders the user-facing explanation of a denial.
// For an allowed decision it returns "".
func (d QuotaDecision) Message() string {
	switch d.Reason {
	case DeniedHourly:
		m := int(d.Wait / time.Minute)
		return fmt.Sprintf(
			"Upload limit reached. You can upload %d images per hour. Please wait %d %s.",
			d.Limits.PerHour, m, plural(m, "minute"),
		)
	case DeniedDaily:
		h := int(d.Wait / time.Hour)
		return fmt.Sprintf(
			"Daily limit reached. You can upload %d images per day. Please wait %d %s.",
			d.Limits.PerDay, h, plural(h, "hour"),
		)
	default:
		return ""
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
