// Package scheduler computes interview slots, detects scheduling conflicts,
// enforces reschedule limits and drives the interview sub-state.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"time"

	"log/slog"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/common"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/config"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/repository"
	"github.com/google/uuid"
)

type Scheduler struct {
	interviews repository.InterviewRepo
	cfg        config.SchedulerConfig
	logger     *slog.Logger
}

func New(interviews repository.InterviewRepo, cfg config.SchedulerConfig, logger *slog.Logger) *Scheduler {
	if cfg.BusinessStart == "" {
		cfg.BusinessStart = "09:00"
	}
	if cfg.BusinessEnd == "" {
		cfg.BusinessEnd = "18:00"
	}
	if cfg.SlotStepMinutes <= 0 {
		cfg.SlotStepMinutes = 30
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = 30
	}
	if cfg.MaxReschedules <= 0 {
		cfg.MaxReschedules = 2
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Scheduler{interviews: interviews, cfg: cfg, logger: logger}
}

// ScheduleParams describes a new interview slot request.
type ScheduleParams struct {
	ApplicationID string
	JobID         string
	SeekerID      string
	CompanyID     string
	Date          string // YYYY-MM-DD
	StartTime     string // HH:MM
	Duration      int    // minutes; 0 means the configured default
	TimeZone      string
}

// Schedule validates the slot and creates the interview. The conflict check
// and the insert run in one transaction, so concurrent schedule calls for
// overlapping slots cannot both succeed.
func (s *Scheduler) Schedule(ctx context.Context, p ScheduleParams) (*models.Interview, error) {
	if p.Duration <= 0 {
		p.Duration = s.cfg.DefaultDuration
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return nil, common.NewError(common.CodeValidation, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", p.Date))
	}
	endTime, err := addMinutes(p.StartTime, p.Duration)
	if err != nil {
		return nil, err
	}
	if err := s.validateWindow(p.StartTime, endTime); err != nil {
		return nil, err
	}

	ts := time.Now().UTC().UnixMilli()
	iv := &models.Interview{
		ID:                 uuid.NewString(),
		ApplicationID:      p.ApplicationID,
		JobID:              p.JobID,
		SeekerID:           p.SeekerID,
		CompanyID:          p.CompanyID,
		Date:               p.Date,
		StartTime:          p.StartTime,
		Duration:           p.Duration,
		EndTime:            endTime,
		TimeZone:           p.TimeZone,
		Status:             models.InterviewScheduled,
		ConfirmationStatus: models.ConfirmationPending,
		MaxReschedules:     s.cfg.MaxReschedules,
		Created:            ts,
		Updated:            ts,
	}
	if err := s.interviews.CreateScheduled(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// reschedulable statuses: a rescheduled interview may be moved again until the
// count limit trips.
func canReschedule(status models.InterviewStatus) bool {
	switch status {
	case models.InterviewScheduled, models.InterviewConfirmed, models.InterviewRescheduled:
		return true
	default:
		return false
	}
}

// Reschedule archives the current slot, applies the new one and re-runs
// conflict detection against it (excluding the interview itself). All or
// nothing: a conflict leaves the stored schedule untouched.
func (s *Scheduler) Reschedule(ctx context.Context, interviewID, newDate, newStart, reason string) (*models.Interview, error) {
	iv, err := s.interviews.GetInterviewByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if !canReschedule(iv.Status) {
		return nil, common.NewError(common.CodeInvalidTransition, fmt.Sprintf("cannot reschedule a %s interview", iv.Status))
	}
	if iv.RescheduleCount >= iv.MaxReschedules {
		return nil, common.NewErrorWithDetails(common.CodeRescheduleLimit,
			fmt.Sprintf("reschedule limit of %d reached", iv.MaxReschedules),
			map[string]any{"reschedule_count": iv.RescheduleCount, "max_reschedules": iv.MaxReschedules})
	}
	if _, err := time.Parse("2006-01-02", newDate); err != nil {
		return nil, common.NewError(common.CodeValidation, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", newDate))
	}
	newEnd, err := addMinutes(newStart, iv.Duration)
	if err != nil {
		return nil, err
	}
	if err := s.validateWindow(newStart, newEnd); err != nil {
		return nil, err
	}

	ts := time.Now().UTC().UnixMilli()
	iv.RescheduleHistory = append(iv.RescheduleHistory, models.RescheduleEntry{
		Date:          iv.Date,
		StartTime:     iv.StartTime,
		EndTime:       iv.EndTime,
		Reason:        reason,
		RescheduledAt: ts,
	})
	iv.Date = newDate
	iv.StartTime = newStart
	iv.EndTime = newEnd
	iv.RescheduleCount++
	iv.Status = models.InterviewRescheduled
	iv.ConfirmationStatus = models.ConfirmationPending
	iv.Updated = ts

	if err := s.interviews.ApplyReschedule(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// Confirm marks candidate attendance as confirmed.
func (s *Scheduler) Confirm(ctx context.Context, interviewID string) (*models.Interview, error) {
	return s.transition(ctx, interviewID, models.InterviewConfirmed, func(iv *models.Interview) error {
		switch iv.Status {
		case models.InterviewScheduled, models.InterviewRescheduled:
			iv.ConfirmationStatus = models.ConfirmationConfirmed
			return nil
		default:
			return common.NewError(common.CodeInvalidTransition, fmt.Sprintf("cannot confirm a %s interview", iv.Status))
		}
	})
}

// Cancel cancels an interview that has not finished yet.
func (s *Scheduler) Cancel(ctx context.Context, interviewID string) (*models.Interview, error) {
	return s.transition(ctx, interviewID, models.InterviewCancelled, func(iv *models.Interview) error {
		if !isActive(iv.Status) {
			return common.NewError(common.CodeInvalidTransition, fmt.Sprintf("cannot cancel a %s interview", iv.Status))
		}
		return nil
	})
}

// NoShow records that the candidate did not attend.
func (s *Scheduler) NoShow(ctx context.Context, interviewID string) (*models.Interview, error) {
	return s.transition(ctx, interviewID, models.InterviewNoShow, func(iv *models.Interview) error {
		if !isActive(iv.Status) {
			return common.NewError(common.CodeInvalidTransition, fmt.Sprintf("cannot mark a %s interview as no-show", iv.Status))
		}
		return nil
	})
}

// CompleteParams carries the interview outcome. Complete is the only
// transition that writes result fields.
type CompleteParams struct {
	Rating    int
	Feedback  string
	Result    models.InterviewResult
	NextSteps string
}

func (s *Scheduler) Complete(ctx context.Context, interviewID string, p CompleteParams) (*models.Interview, error) {
	if p.Rating < 1 || p.Rating > 5 {
		return nil, common.NewError(common.CodeValidation, "rating must be between 1 and 5")
	}
	switch p.Result {
	case models.ResultPass, models.ResultFail, models.ResultPending:
	case "":
		p.Result = models.ResultPending
	default:
		return nil, common.NewError(common.CodeValidation, fmt.Sprintf("invalid result %q", p.Result))
	}
	return s.transition(ctx, interviewID, models.InterviewCompleted, func(iv *models.Interview) error {
		if !isActive(iv.Status) {
			return common.NewError(common.CodeInvalidTransition, fmt.Sprintf("cannot complete a %s interview", iv.Status))
		}
		ts := time.Now().UTC().UnixMilli()
		iv.Rating = p.Rating
		iv.Feedback = p.Feedback
		iv.Result = p.Result
		iv.NextSteps = p.NextSteps
		iv.CompletedAt = &ts
		return nil
	})
}

// Decline records the candidate declining attendance; the interview itself is
// cancelled.
func (s *Scheduler) Decline(ctx context.Context, interviewID string) (*models.Interview, error) {
	return s.transition(ctx, interviewID, models.InterviewCancelled, func(iv *models.Interview) error {
		if !isActive(iv.Status) {
			return common.NewError(common.CodeInvalidTransition, fmt.Sprintf("cannot decline a %s interview", iv.Status))
		}
		iv.ConfirmationStatus = models.ConfirmationDeclined
		return nil
	})
}

func (s *Scheduler) Get(ctx context.Context, interviewID string) (*models.Interview, error) {
	return s.interviews.GetInterviewByID(ctx, interviewID)
}

func (s *Scheduler) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]models.Interview, error) {
	return s.interviews.ListInterviewsByCompany(ctx, companyID, limit, offset)
}

// isActive reports whether the interview still occupies a future slot.
func isActive(status models.InterviewStatus) bool {
	switch status {
	case models.InterviewScheduled, models.InterviewConfirmed, models.InterviewRescheduled:
		return true
	default:
		return false
	}
}

func (s *Scheduler) transition(ctx context.Context, interviewID string, to models.InterviewStatus, guard func(*models.Interview) error) (*models.Interview, error) {
	iv, err := s.interviews.GetInterviewByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if err := guard(iv); err != nil {
		return nil, err
	}
	iv.Status = to
	iv.Updated = time.Now().UTC().UnixMilli()
	if err := s.interviews.UpdateInterview(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}
