// Package audit is the append-only trail of workflow transitions. Writes are
// best-effort from the caller's perspective: a failed append is logged and
// swallowed so it can never abort the transition that triggered it.
package audit

import (
	"context"
	"io"

	"log/slog"

	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/repository"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

type Trail struct {
	repo   repository.HistoryRepo
	logger *slog.Logger
}

func New(repo repository.HistoryRepo, logger *slog.Logger) *Trail {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Trail{repo: repo, logger: logger}
}

// Record appends one history entry. Errors are logged, never returned.
func (t *Trail) Record(ctx context.Context, h models.History) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.Metadata == "" {
		h.Metadata = "{}"
	}
	if err := t.repo.AppendHistory(ctx, &h); err != nil {
		t.logger.Error("append history failed",
			"application_id", h.ApplicationID,
			"action", h.Action,
			"err", err,
		)
	}
}

func (t *Trail) ByApplication(ctx context.Context, applicationID string, limit int) ([]models.History, error) {
	return t.repo.ListHistoryByApplication(ctx, applicationID, limit)
}

func (t *Trail) BySeeker(ctx context.Context, seekerID string, limit int) ([]models.History, error) {
	return t.repo.ListHistoryBySeeker(ctx, seekerID, limit)
}

func (t *Trail) ByCompany(ctx context.Context, companyID string, limit int) ([]models.History, error) {
	return t.repo.ListHistoryByCompany(ctx, companyID, limit)
}

// TimelineEntry is one step of an application's chronological timeline.
type TimelineEntry struct {
	Action   string                   `json:"action"`
	ToStatus models.ApplicationStatus `json:"to_status,omitempty"`
	ActionBy models.Actor             `json:"action_by"`
	Detail   string                   `json:"detail,omitempty"`
	ActionAt int64                    `json:"action_at"`
}

// Stats aggregates an application's history.
type Stats struct {
	ApplicationID  string          `json:"application_id"`
	ActionCounts   map[string]int  `json:"action_counts"`
	Timeline       []TimelineEntry `json:"timeline"`
	TimeToHireDays *float64        `json:"time_to_hire_days,omitempty"`
}

const statsHistoryLimit = 500

// ApplicationStats derives action counts, a chronological timeline and the
// time-to-hire (days between the applied and hired events, only when both
// exist).
func (t *Trail) ApplicationStats(ctx context.Context, applicationID string) (*Stats, error) {
	entries, err := t.repo.ListHistoryByApplication(ctx, applicationID, statsHistoryLimit)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		ApplicationID: applicationID,
		ActionCounts:  make(map[string]int),
		Timeline:      make([]TimelineEntry, 0, len(entries)),
	}

	var appliedAt, hiredAt int64
	// entries arrive newest-first; walk backwards for a chronological timeline
	for i := len(entries) - 1; i >= 0; i-- {
		h := entries[i]
		stats.ActionCounts[h.Action]++
		stats.Timeline = append(stats.Timeline, TimelineEntry{
			Action:   h.Action,
			ToStatus: h.ToStatus,
			ActionBy: h.ActionBy,
			Detail:   timelineDetail(h),
			ActionAt: h.ActionAt,
		})
		switch h.Action {
		case "applied", "invited":
			if appliedAt == 0 {
				appliedAt = h.ActionAt
			}
		case "hired":
			if hiredAt == 0 {
				hiredAt = h.ActionAt
			}
		}
	}

	if appliedAt > 0 && hiredAt > 0 {
		days := float64(hiredAt-appliedAt) / float64(24*60*60*1000)
		stats.TimeToHireDays = &days
	}
	return stats, nil
}

// timelineDetail pulls a human-readable hint out of the entry's opaque
// metadata bag.
func timelineDetail(h models.History) string {
	if h.Reason != "" {
		return h.Reason
	}
	if d := gjson.Get(h.Metadata, "interview_date"); d.Exists() {
		detail := d.String()
		if s := gjson.Get(h.Metadata, "start_time"); s.Exists() {
			detail += " " + s.String()
		}
		return detail
	}
	if r := gjson.Get(h.Metadata, "response"); r.Exists() {
		return r.String()
	}
	return ""
}
