// Package workflow owns the application lifecycle: the status state machine,
// the hire-negotiation sub-flow and attendance reporting. It calls the
// blocking gate on creation, delegates interview actions to the scheduler,
// appends one audit record per successful transition and triggers chat
// provisioning on qualifying transitions.
package workflow

import (
	"context"
	"fmt"
	"io"
	"time"

	"log/slog"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/audit"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/chat"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/common"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/gate"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/notify"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/scheduler"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/repository"
	"github.com/google/uuid"
)

type Engine struct {
	apps      repository.ApplicationRepo
	gate      *gate.Gate
	scheduler *scheduler.Scheduler
	trail     *audit.Trail
	chat      *chat.Provisioner
	notifier  notify.Notifier
	logger    *slog.Logger
}

func NewEngine(
	apps repository.ApplicationRepo,
	g *gate.Gate,
	s *scheduler.Scheduler,
	trail *audit.Trail,
	provisioner *chat.Provisioner,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Engine {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Engine{apps: apps, gate: g, scheduler: s, trail: trail, chat: provisioner, notifier: notifier, logger: logger}
}

// CreateParams describes a new application or invitation.
type CreateParams struct {
	JobID     string
	SeekerID  string
	CompanyID string
	JobType   models.JobType
	Source    models.ApplicationSource // applied or invited
	ActorID   string
}

// Create runs the blocking gate and initializes the application. The
// counterpart notification is fire-and-forget: its failure never rolls back
// creation.
func (e *Engine) Create(ctx context.Context, p CreateParams) (*models.Application, error) {
	if p.JobID == "" || p.SeekerID == "" || p.CompanyID == "" {
		return nil, common.NewError(common.CodeValidation, "job_id, seeker_id and company_id are required")
	}
	if err := e.gate.Check(ctx, p.CompanyID, p.SeekerID); err != nil {
		return nil, err
	}

	status := models.StatusApplied
	source := models.SourceApplied
	actor := models.ActorSeeker
	if p.Source == models.SourceInvited {
		status = models.StatusInvited
		source = models.SourceInvited
		actor = models.ActorCompany
	}
	jobType := p.JobType
	if jobType == "" {
		jobType = models.JobTypeInterviewFirst
	}

	ts := time.Now().UTC().UnixMilli()
	app := &models.Application{
		ID:              uuid.NewString(),
		JobID:           p.JobID,
		SeekerID:        p.SeekerID,
		CompanyID:       p.CompanyID,
		JobType:         jobType,
		Status:          status,
		Source:          source,
		AppliedAt:       ts,
		StatusChangedAt: ts,
		Updated:         ts,
	}
	if err := e.apps.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	e.append(ctx, app, models.History{Action: string(source), ToStatus: status, ActionBy: actor, ActionByID: p.ActorID})
	e.notifier.Notify(ctx, "application.created", map[string]any{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"seeker_id":      app.SeekerID,
		"company_id":     app.CompanyID,
		"status":         string(status),
	})
	return app, nil
}

// AcceptInvite moves an invited application to invited_applied. The source is
// finalized here and never changes again.
func (e *Engine) AcceptInvite(ctx context.Context, applicationID, actorID string) (*models.Application, error) {
	return e.transition(ctx, applicationID, models.StatusInvitedApplied, "accepted_invite", models.ActorSeeker, actorID, "", "", func(app *models.Application) error {
		app.Source = models.SourceInvitedApplied
		return nil
	})
}

// Shortlist marks the candidate as shortlisted by the company.
func (e *Engine) Shortlist(ctx context.Context, applicationID, actorID string) (*models.Application, error) {
	return e.transition(ctx, applicationID, models.StatusShortlisted, "shortlisted", models.ActorCompany, actorID, "", "", nil)
}

// ScheduleInterviewParams carries the requested slot.
type ScheduleInterviewParams struct {
	Date      string
	StartTime string
	Duration  int
	TimeZone  string
	ActorID   string
}

// ScheduleInterview books a slot for an Interview-First application,
// transitions it to interviewed and links the interview record. Slot
// validation and conflict detection are the scheduler's.
func (e *Engine) ScheduleInterview(ctx context.Context, applicationID string, p ScheduleInterviewParams) (*models.Application, *models.Interview, error) {
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	if app.JobType != models.JobTypeInterviewFirst {
		return nil, nil, common.NewError(common.CodeInvalidTransition, "interviews can only be scheduled for interview-first jobs")
	}
	from := app.Status
	if !CanTransition(from, models.StatusInterviewed) {
		return nil, nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("cannot schedule an interview from status %s", from))
	}

	iv, err := e.scheduler.Schedule(ctx, scheduler.ScheduleParams{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		SeekerID:      app.SeekerID,
		CompanyID:     app.CompanyID,
		Date:          p.Date,
		StartTime:     p.StartTime,
		Duration:      p.Duration,
		TimeZone:      p.TimeZone,
	})
	if err != nil {
		return nil, nil, err
	}

	ts := time.Now().UTC().UnixMilli()
	app.Status = models.StatusInterviewed
	app.InterviewID = iv.ID
	app.InterviewStatus = models.InterviewScheduled
	app.InterviewDate = iv.Date
	app.InterviewStartTime = iv.StartTime
	app.InterviewEndTime = iv.EndTime
	app.InterviewDuration = iv.Duration
	app.StatusChangedAt = ts
	app.Updated = ts
	if err := e.apps.UpdateApplication(ctx, app, from); err != nil {
		// the slot was taken but the application moved concurrently; release it
		if _, cancelErr := e.scheduler.Cancel(ctx, iv.ID); cancelErr != nil {
			e.logger.Error("release orphaned interview", "interview_id", iv.ID, "err", cancelErr)
		}
		return nil, nil, err
	}

	e.append(ctx, app, models.History{
		Action: "interviewed", FromStatus: from, ToStatus: app.Status,
		ActionBy: models.ActorCompany, ActionByID: p.ActorID,
		Metadata: fmt.Sprintf(`{"interview_id":%q,"interview_date":%q,"start_time":%q}`, iv.ID, iv.Date, iv.StartTime),
	})
	e.ensureChat(ctx, app)
	e.notifier.Notify(ctx, "interview.scheduled", map[string]any{
		"application_id": app.ID,
		"interview_id":   iv.ID,
		"date":           iv.Date,
		"start_time":     iv.StartTime,
	})
	return app, iv, nil
}

// RespondToInterview records the seeker's confirm/decline of the scheduled
// interview. The application's primary status does not change.
func (e *Engine) RespondToInterview(ctx context.Context, applicationID, response, actorID string) (*models.Application, error) {
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.InterviewID == "" {
		return nil, common.NewError(common.CodeInvalidTransition, "no interview to respond to")
	}
	if app.InterviewResponse != "" {
		return nil, common.NewError(common.CodeInvalidTransition, "interview response already recorded")
	}

	ts := time.Now().UTC().UnixMilli()
	var action string
	switch response {
	case "accepted":
		if _, err := e.scheduler.Confirm(ctx, app.InterviewID); err != nil {
			return nil, err
		}
		app.InterviewStatus = models.InterviewConfirmed
		action = "interview_confirmed"
	case "declined":
		if _, err := e.scheduler.Decline(ctx, app.InterviewID); err != nil {
			return nil, err
		}
		app.InterviewStatus = models.InterviewDeclined
		action = "interview_declined"
	default:
		return nil, common.NewError(common.CodeValidation, "response must be accepted or declined")
	}
	app.InterviewResponse = response
	app.Updated = ts
	if err := e.apps.UpdateApplication(ctx, app, app.Status); err != nil {
		return nil, err
	}

	e.append(ctx, app, models.History{
		Action: action, FromStatus: app.Status, ToStatus: app.Status,
		ActionBy: models.ActorSeeker, ActionByID: actorID,
		Metadata: fmt.Sprintf(`{"response":%q}`, response),
	})
	e.notifier.Notify(ctx, "interview.responded", map[string]any{
		"application_id": app.ID,
		"interview_id":   app.InterviewID,
		"response":       response,
	})
	return app, nil
}

// RescheduleInterview moves the interview to a new slot, within the reschedule
// limit, and refreshes the application's interview snapshot. The seeker's
// confirmation resets so they can respond to the new slot.
func (e *Engine) RescheduleInterview(ctx context.Context, applicationID, date, startTime, reason, actorID string) (*models.Application, *models.Interview, error) {
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	if app.InterviewID == "" {
		return nil, nil, common.NewError(common.CodeInvalidTransition, "no interview to reschedule")
	}

	iv, err := e.scheduler.Reschedule(ctx, app.InterviewID, date, startTime, reason)
	if err != nil {
		return nil, nil, err
	}

	app.InterviewStatus = models.InterviewRescheduled
	app.InterviewDate = iv.Date
	app.InterviewStartTime = iv.StartTime
	app.InterviewEndTime = iv.EndTime
	app.InterviewResponse = ""
	app.Updated = time.Now().UTC().UnixMilli()
	if err := e.apps.UpdateApplication(ctx, app, app.Status); err != nil {
		return nil, nil, err
	}

	e.append(ctx, app, models.History{
		Action: "interview_rescheduled", FromStatus: app.Status, ToStatus: app.Status,
		ActionBy: models.ActorCompany, ActionByID: actorID, Reason: reason,
		Metadata: fmt.Sprintf(`{"interview_date":%q,"start_time":%q,"reschedule_count":%d}`, iv.Date, iv.StartTime, iv.RescheduleCount),
	})
	e.notifier.Notify(ctx, "interview.rescheduled", map[string]any{
		"application_id": app.ID,
		"interview_id":   iv.ID,
		"date":           iv.Date,
		"start_time":     iv.StartTime,
	})
	return app, iv, nil
}

// CompleteInterview records the interview outcome and mirrors the completed
// state onto the application snapshot.
func (e *Engine) CompleteInterview(ctx context.Context, applicationID string, p scheduler.CompleteParams, actorID string) (*models.Application, *models.Interview, error) {
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	if app.InterviewID == "" {
		return nil, nil, common.NewError(common.CodeInvalidTransition, "no interview to complete")
	}

	iv, err := e.scheduler.Complete(ctx, app.InterviewID, p)
	if err != nil {
		return nil, nil, err
	}

	app.InterviewStatus = models.InterviewCompleted
	app.Updated = time.Now().UTC().UnixMilli()
	if err := e.apps.UpdateApplication(ctx, app, app.Status); err != nil {
		return nil, nil, err
	}

	e.append(ctx, app, models.History{
		Action: "interview_completed", FromStatus: app.Status, ToStatus: app.Status,
		ActionBy: models.ActorCompany, ActionByID: actorID,
		Metadata: fmt.Sprintf(`{"result":%q,"rating":%d}`, iv.Result, iv.Rating),
	})
	return app, iv, nil
}

// MarkInterviewNoShow records a missed interview on both records.
func (e *Engine) MarkInterviewNoShow(ctx context.Context, applicationID, actorID string) (*models.Application, *models.Interview, error) {
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	if app.InterviewID == "" {
		return nil, nil, common.NewError(common.CodeInvalidTransition, "no interview to mark")
	}

	iv, err := e.scheduler.NoShow(ctx, app.InterviewID)
	if err != nil {
		return nil, nil, err
	}

	app.InterviewStatus = models.InterviewNoShow
	app.Updated = time.Now().UTC().UnixMilli()
	if err := e.apps.UpdateApplication(ctx, app, app.Status); err != nil {
		return nil, nil, err
	}

	e.append(ctx, app, models.History{
		Action: "interview_no_show", FromStatus: app.Status, ToStatus: app.Status,
		ActionBy: models.ActorCompany, ActionByID: actorID,
	})
	return app, iv, nil
}

// HireNow sends a hire offer: status moves to hired and the negotiation
// sub-flow opens. A second offer while one is pending fails with
// CodeAlreadyPending.
func (e *Engine) HireNow(ctx context.Context, applicationID, actorID string) (*models.Application, error) {
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.HireStatus == models.HirePending {
		return nil, common.NewError(common.CodeAlreadyPending, "a hire request is already pending")
	}
	from := app.Status
	if !CanTransition(from, models.StatusHired) {
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("cannot hire from status %s", from))
	}

	ts := time.Now().UTC().UnixMilli()
	app.Status = models.StatusHired
	app.HireStatus = models.HirePending
	app.HireRequestedAt = &ts
	app.StatusChangedAt = ts
	app.Updated = ts
	if err := e.apps.UpdateApplication(ctx, app, from); err != nil {
		return nil, err
	}

	e.append(ctx, app, models.History{Action: "hired", FromStatus: from, ToStatus: app.Status, ActionBy: models.ActorCompany, ActionByID: actorID})
	e.ensureChat(ctx, app)
	e.notifier.Notify(ctx, "hire.requested", map[string]any{
		"application_id": app.ID,
		"seeker_id":      app.SeekerID,
		"company_id":     app.CompanyID,
	})
	return app, nil
}

// RespondToHire records the seeker's decision on a pending hire offer.
// Acceptance finalizes the application and enables attendance reporting.
// Rejection closes the negotiation but leaves the status at hired.
func (e *Engine) RespondToHire(ctx context.Context, applicationID, response, actorID string) (*models.Application, error) {
	if response != "accepted" && response != "rejected" {
		return nil, common.NewError(common.CodeValidation, "response must be accepted or rejected")
	}
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.HireStatus != models.HirePending {
		return nil, common.NewError(common.CodeInvalidTransition, "no pending hire request")
	}

	ts := time.Now().UTC().UnixMilli()
	from := app.Status
	var action string
	if response == "accepted" {
		app.Status = models.StatusAccepted
		app.HireStatus = models.HireAccepted
		app.HireResponse = models.HireAccepted
		app.ReportingEnabled = true
		app.StatusChangedAt = ts
		action = "accepted"
	} else {
		// status intentionally stays hired; only the negotiation closes
		app.HireStatus = models.HireRejected
		app.HireResponse = models.HireRejected
		action = "hire_rejected"
	}
	app.HireRespondedAt = &ts
	app.Updated = ts
	if err := e.apps.UpdateApplication(ctx, app, from); err != nil {
		return nil, err
	}

	e.append(ctx, app, models.History{
		Action: action, FromStatus: from, ToStatus: app.Status,
		ActionBy: models.ActorSeeker, ActionByID: actorID,
		Metadata: fmt.Sprintf(`{"response":%q}`, response),
	})
	if response == "accepted" {
		e.ensureChat(ctx, app)
		if e.chat != nil {
			e.chat.Announce(ctx, app.ChatID, "Congratulations! The hire offer has been accepted.")
		}
	}
	e.notifier.Notify(ctx, "hire.responded", map[string]any{
		"application_id": app.ID,
		"response":       response,
	})
	return app, nil
}

// Decline rejects the application. Unrecognized reasons are coerced to the
// default rather than rejected.
func (e *Engine) Decline(ctx context.Context, applicationID, reason, notes, actorID string) (*models.Application, error) {
	reason = models.CoerceDeclineReason(reason)
	return e.transition(ctx, applicationID, models.StatusDeclined, "declined", models.ActorCompany, actorID, reason, notes, func(app *models.Application) error {
		ts := time.Now().UTC().UnixMilli()
		app.DeclineReason = reason
		app.DeclinedAt = &ts
		return nil
	})
}

// Withdraw is the seeker pulling out; legal from any status with a withdraw
// edge.
func (e *Engine) Withdraw(ctx context.Context, applicationID, actorID string) (*models.Application, error) {
	return e.transition(ctx, applicationID, models.StatusWithdrawn, "withdrawn", models.ActorSeeker, actorID, "", "", nil)
}

// ReportAttendance appends one attendance record. Only legal once reporting
// has been enabled by an accepted hire.
func (e *Engine) ReportAttendance(ctx context.Context, applicationID string, rec models.AttendanceRecord) (*models.Application, error) {
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.ReportingEnabled {
		return nil, common.NewError(common.CodeValidation, "reporting is not enabled for this application")
	}
	if !models.AttendanceStatuses[rec.Status] {
		return nil, common.NewError(common.CodeValidation, fmt.Sprintf("invalid attendance status %q", rec.Status))
	}
	if rec.ReportedAt == 0 {
		rec.ReportedAt = time.Now().UTC().UnixMilli()
	}
	if err := e.apps.AppendAttendance(ctx, app.ID, rec); err != nil {
		return nil, err
	}
	app.ReportHistory = append(app.ReportHistory, rec)

	e.append(ctx, app, models.History{
		Action: "attendance_reported", FromStatus: app.Status, ToStatus: app.Status,
		ActionBy: models.ActorCompany, ActionByID: rec.ReportedBy,
		Metadata: fmt.Sprintf(`{"date":%q,"attendance":%q}`, rec.Date, rec.Status),
	})
	return app, nil
}

func (e *Engine) Get(ctx context.Context, applicationID string) (*models.Application, error) {
	return e.apps.GetApplicationByID(ctx, applicationID)
}

func (e *Engine) ListBySeeker(ctx context.Context, seekerID string, limit, offset int) ([]models.Application, error) {
	return e.apps.ListApplicationsBySeeker(ctx, seekerID, limit, offset)
}

func (e *Engine) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]models.Application, error) {
	return e.apps.ListApplicationsByCompany(ctx, companyID, limit, offset)
}

// transition is the generic guarded status move: legality check, optional
// mutation, compare-and-swap write, one history record, one notification.
func (e *Engine) transition(
	ctx context.Context,
	applicationID string,
	to models.ApplicationStatus,
	action string,
	actor models.Actor,
	actorID, reason, notes string,
	mutate func(*models.Application) error,
) (*models.Application, error) {
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	from := app.Status
	if !CanTransition(from, to) {
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("cannot move from %s to %s", from, to))
	}

	ts := time.Now().UTC().UnixMilli()
	app.Status = to
	app.StatusChangedAt = ts
	app.Updated = ts
	if mutate != nil {
		if err := mutate(app); err != nil {
			return nil, err
		}
	}
	if err := e.apps.UpdateApplication(ctx, app, from); err != nil {
		return nil, err
	}

	e.append(ctx, app, models.History{Action: action, FromStatus: from, ToStatus: to, ActionBy: actor, ActionByID: actorID, Reason: reason, Notes: notes})
	e.notifier.Notify(ctx, "application."+action, map[string]any{
		"application_id": app.ID,
		"from_status":    string(from),
		"to_status":      string(to),
	})
	return app, nil
}

// append fills the application identifiers and timestamp on h and writes
// exactly one audit entry for a successful transition.
func (e *Engine) append(ctx context.Context, app *models.Application, h models.History) {
	h.ApplicationID = app.ID
	h.JobID = app.JobID
	h.SeekerID = app.SeekerID
	h.CompanyID = app.CompanyID
	h.ActionAt = time.Now().UTC().UnixMilli()
	e.trail.Record(ctx, h)
}

// ensureChat provisions the application chat; failures are logged, never
// propagated.
func (e *Engine) ensureChat(ctx context.Context, app *models.Application) {
	if e.chat == nil {
		return
	}
	title := fmt.Sprintf("Job %s", app.JobID)
	if _, err := e.chat.Ensure(ctx, app, title); err != nil {
		e.logger.Error("chat provisioning failed", "application_id", app.ID, "err", err)
	}
}
