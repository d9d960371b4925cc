package uploads

import (
	"time"

	"github.com/picket-dev/picket/pkg/domain"
)

// Detail is one stored upload as the API presents it.
type Detail struct {
	UploadId    string    `json:"uploadId"`
	OwnerId     string    `json:"ownerId"`
	Path        string    `json:"path"`
	DisplayName string    `json:"displayName"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (d Detail) Equal(o Detail) bool {
	return d.UploadId == o.UploadId &&
		d.OwnerId == o.OwnerId &&
		d.Path == o.Path &&
		d.DisplayName == o.DisplayName &&
		d.SizeBytes == o.SizeBytes &&
		d.CreatedAt.Equal(o.CreatedAt)
}

func ComposeDetail(a domain.Artifact) Detail {
	return Detail{
		UploadId:    a.Id,
		OwnerId:     a.OwnerId,
		Path:        a.Path,
		DisplayName: a.DisplayName,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
}

// QuotaStatus reports the caller's standing against the upload
// limits, without consuming an admission.
type QuotaStatus struct {
	Allowed     bool   `json:"allowed"`
	HourlyCount int    `json:"hourlyCount"`
	HourlyLimit int    `json:"hourlyLimit"`
	DailyCount  int    `json:"dailyCount"`
	DailyLimit  int    `json:"dailyLimit"`
	Message     string `json:"message,omitempty"`

	// seconds until the next admission would be allowed. Zero when
	// allowed.
	RetryAfterSeconds int64 `json:"retryAfterSeconds,omitempty"`
}

func (q QuotaStatus) Equal(o QuotaStatus) bool {
	return q == o
}

func ComposeQuotaStatus(decision domain.QuotaDecision) QuotaStatus {
	status := QuotaStatus{
		Allowed:     decision.Allowed,
		HourlyCount: decision.HourlyCount,
		HourlyLimit: decision.Limits.PerHour,
		DailyCount:  decision.DailyCount,
		DailyLimit:  decision.Limits.PerDay,
	}
	if !decision.Allowed {
		status.Message = decision.Message()
		status.RetryAfterSeconds = int64(decision.Wait / time.Second)
	}
	return status
}

// QuotaPolicy is the admission limit set the server is configured
// with. Clients seed their device-local quota from it.
type QuotaPolicy struct {
	PerHour int `json:"perHour"`
	PerDay  int `json:"perDay"`
}

func (q QuotaPolicy) Equal(o QuotaPolicy) bool {
	return q == o
}

func ComposeQuotaPolicy(limits domain.QuotaLimits) QuotaPolicy {
	return QuotaPolicy{PerHour: limits.PerHour, PerDay: limits.PerDay}
}

// CleanupSummary is the tally of one retention pass.
type CleanupSummary struct {
	Deleted int      `json:"deleted"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

func (c CleanupSummary) Equal(o CleanupSummary) bool {
	if c.Deleted != o.Deleted || c.Failed != o.Failed || len(c.Errors) != len(o.Errors) {
		return false
	}
	for i := range c.Errors {
		if c.Errors[i] != o.Errors[i] {
			return false
		}
	}
	return true
}

func ComposeCleanupSummary(outcome domain.CleanupOutcome) CleanupSummary {
	summary := CleanupSummary{
		Deleted: outcome.Deleted,
		Failed:  outcome.Failed,
	}
	for _, e := range outcome.Errors {
		summary.Errors = append(summary.Errors, e.Error())
	}
	return summary
}

// ExpiredCount previews what the next retention pass would attempt.
type ExpiredCount struct {
	Count  int       `json:"count"`
	Cutoff time.Time `json:"cutoff"`
}
