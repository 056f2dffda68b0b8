package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// ApplicationStatus is the primary lifecycle status of an application.
type ApplicationStatus string

const (
	StatusApplied        ApplicationStatus = "applied"
	StatusInvited        ApplicationStatus = "invited"
	StatusInvitedApplied ApplicationStatus = "invited_applied"
	StatusShortlisted    ApplicationStatus = "shortlisted"
	StatusInterviewed    ApplicationStatus = "interviewed"
	StatusHired          ApplicationStatus = "hired"
	StatusAccepted       ApplicationStatus = "accepted"
	StatusDeclined       ApplicationStatus = "declined"
	StatusWithdrawn      ApplicationStatus = "withdrawn"
)

// ApplicationSource records how the application came to exist. Set once.
type ApplicationSource string

const (
	SourceApplied        ApplicationSource = "applied"
	SourceInvited        ApplicationSource = "invited"
	SourceInvitedApplied ApplicationSource = "invited_applied"
)

// JobType is the job-level hiring policy.
type JobType string

const (
	JobTypeInterviewFirst JobType = "interview_first"
	JobTypeInstantHire    JobType = "instant_hire"
)

// HireStatus tracks the hire-negotiation sub-flow. Empty means no offer yet.
type HireStatus string

const (
	HirePending  HireStatus = "pending"
	HireAccepted HireStatus = "accepted"
	HireRejected HireStatus = "rejected"
)

// InterviewStatus is the lifecycle status of an Interview record.
type InterviewStatus string

const (
	InterviewScheduled   InterviewStatus = "scheduled"
	InterviewConfirmed   InterviewStatus = "confirmed"
	InterviewRescheduled InterviewStatus = "rescheduled"
	InterviewCompleted   InterviewStatus = "completed"
	InterviewCancelled   InterviewStatus = "cancelled"
	InterviewNoShow      InterviewStatus = "no_show"
	// InterviewDeclined only appears on the application's denormalized
	// interview_status field, never on an Interview row.
	InterviewDeclined InterviewStatus = "declined"
)

// ConfirmationStatus is the candidate's attendance confirmation. It is an
// independent axis from InterviewStatus: a candidate can confirm attendance
// while the interview itself is still "scheduled".
type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "pending"
	ConfirmationConfirmed ConfirmationStatus = "confirmed"
	ConfirmationDeclined  ConfirmationStatus = "declined"
)

// InterviewResult is set when an interview is completed.
type InterviewResult string

const (
	ResultPass    InterviewResult = "pass"
	ResultFail    InterviewResult = "fail"
	ResultPending InterviewResult = "pending"
)

// Actor identifies who performed a workflow action.
type Actor string

const (
	ActorSeeker  Actor = "seeker"
	ActorCompany Actor = "company"
	ActorSystem  Actor = "system"
)

// Decline reasons form a closed set; unrecognized input is coerced to the
// default instead of rejected.
const (
	DeclineReasonAnotherCandidate  = "Another candidate selected"
	DeclineReasonNotRightFit       = "Not the right fit"
	DeclineReasonLimitedExperience = "Limited experience"
	DeclineReasonPositionFilled    = "Position filled"

	DefaultDeclineReason = DeclineReasonNotRightFit
)

// DeclineReasons is the allowed decline reason set.
var DeclineReasons = map[string]bool{
	DeclineReasonAnotherCandidate:  true,
	DeclineReasonNotRightFit:       true,
	DeclineReasonLimitedExperience: true,
	DeclineReasonPositionFilled:    true,
}

// CoerceDeclineReason maps arbitrary input onto the allowed set.
func CoerceDeclineReason(reason string) string {
	if DeclineReasons[reason] {
		return reason
	}
	return DefaultDeclineReason
}

// AttendanceRecord is one entry of an application's append-only report history.
type AttendanceRecord struct {
	Date       string `json:"date"`
	Status     string `json:"status"` // present, absent, late
	ReportedBy string `json:"reported_by"`
	ReportedAt int64  `json:"reported_at"`
}

// AttendanceStatuses is the allowed attendance status set.
var AttendanceStatuses = map[string]bool{
	"present": true,
	"absent":  true,
	"late":    true,
}

// Application is the central aggregate: one seeker's candidacy for one job at
// one company. It is never deleted, only terminally mutated.
type Application struct {
	ID        string `json:"id" db:"id"`
	JobID     string `json:"job_id" db:"job_id"`
	SeekerID  string `json:"seeker_id" db:"seeker_id"`
	CompanyID string `json:"company_id" db:"company_id"`

	JobType JobType           `json:"job_type" db:"job_type"`
	Status  ApplicationStatus `json:"status" db:"status"`
	Source  ApplicationSource `json:"source" db:"source"`

	HireStatus      HireStatus `json:"hire_status,omitempty" db:"hire_status"`
	HireResponse    HireStatus `json:"hire_response,omitempty" db:"hire_response"`
	HireRequestedAt *int64     `json:"hire_requested_at,omitempty" db:"hire_requested_at"`
	HireRespondedAt *int64     `json:"hire_responded_at,omitempty" db:"hire_responded_at"`

	// Denormalized interview snapshot mirroring the linked Interview row.
	InterviewID        string          `json:"interview_id,omitempty" db:"interview_id"`
	InterviewStatus    InterviewStatus `json:"interview_status,omitempty" db:"interview_status"`
	InterviewDate      string          `json:"interview_date,omitempty" db:"interview_date"`
	InterviewStartTime string          `json:"interview_start_time,omitempty" db:"interview_start_time"`
	InterviewEndTime   string          `json:"interview_end_time,omitempty" db:"interview_end_time"`
	InterviewDuration  int             `json:"interview_duration,omitempty" db:"interview_duration"`
	InterviewResponse  string          `json:"interview_response,omitempty" db:"interview_response"` // accepted, declined

	DeclineReason string `json:"decline_reason,omitempty" db:"decline_reason"`
	DeclinedAt    *int64 `json:"declined_at,omitempty" db:"declined_at"`

	ReportingEnabled bool               `json:"reporting_enabled" db:"reporting_enabled"`
	ReportHistory    []AttendanceRecord `json:"report_history,omitempty" db:"report_history"`

	ChatID        string `json:"chat_id,omitempty" db:"chat_id"`
	ChatInitiated bool   `json:"chat_initiated" db:"chat_initiated"`

	AppliedAt       int64 `json:"applied_at" db:"applied_at"`
	StatusChangedAt int64 `json:"status_changed_at" db:"status_changed_at"`
	Updated         int64 `json:"updated" db:"updated"`
}

// RescheduleEntry is an archived schedule snapshot written before a reschedule
// mutates the live fields.
type RescheduleEntry struct {
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Reason        string `json:"reason"`
	RescheduledAt int64  `json:"rescheduled_at"`
}

// Interview is a scheduling record, one-to-one with an application once an
// interview exists.
type Interview struct {
	ID            string `json:"id" db:"id"`
	ApplicationID string `json:"application_id" db:"application_id"`
	JobID         string `json:"job_id" db:"job_id"`
	SeekerID      string `json:"seeker_id" db:"seeker_id"`
	CompanyID     string `json:"company_id" db:"company_id"`

	Date      string `json:"date" db:"date"`             // YYYY-MM-DD
	StartTime string `json:"start_time" db:"start_time"` // HH:MM
	Duration  int    `json:"duration" db:"duration"`     // minutes
	EndTime   string `json:"end_time" db:"end_time"`     // derived: start + duration
	TimeZone  string `json:"time_zone,omitempty" db:"time_zone"`

	Status             InterviewStatus    `json:"status" db:"status"`
	ConfirmationStatus ConfirmationStatus `json:"confirmation_status" db:"confirmation_status"`

	RescheduleCount   int               `json:"reschedule_count" db:"reschedule_count"`
	MaxReschedules    int               `json:"max_reschedules" db:"max_reschedules"`
	RescheduleHistory []RescheduleEntry `json:"reschedule_history,omitempty" db:"reschedule_history"`

	Rating      int             `json:"rating,omitempty" db:"rating"` // 1-5, set on completion
	Feedback    string          `json:"feedback,omitempty" db:"feedback"`
	Result      InterviewResult `json:"result,omitempty" db:"result"`
	NextSteps   string          `json:"next_steps,omitempty" db:"next_steps"`
	CompletedAt *int64          `json:"completed_at,omitempty" db:"completed_at"`

	Created int64 `json:"created" db:"created"`
	Updated int64 `json:"updated" db:"updated"`
}

// History is an immutable record of one state-changing action. Never updated
// or deleted after creation.
type History struct {
	ID            string `json:"id" db:"id"`
	ApplicationID string `json:"application_id" db:"application_id"`
	JobID         string `json:"job_id" db:"job_id"`
	SeekerID      string `json:"seeker_id" db:"seeker_id"`
	CompanyID     string `json:"company_id" db:"company_id"`

	Action     string            `json:"action" db:"action"`
	FromStatus ApplicationStatus `json:"from_status,omitempty" db:"from_status"`
	ToStatus   ApplicationStatus `json:"to_status,omitempty" db:"to_status"`
	ActionBy   Actor             `json:"action_by" db:"action_by"`
	ActionByID string            `json:"action_by_id,omitempty" db:"action_by_id"`
	Reason     string            `json:"reason,omitempty" db:"reason"`
	Notes      string            `json:"notes,omitempty" db:"notes"`
	Metadata   string            `json:"metadata,omitempty" db:"metadata"` // opaque JSON bag
	ActionAt   int64             `json:"action_at" db:"action_at"`
}

// BlockEntry is a company-side record preventing a seeker from applying. The
// engine only reads these; ownership stays with the company collaborator.
type BlockEntry struct {
	ID        int64  `json:"id" db:"id"`
	CompanyID string `json:"company_id" db:"company_id"`
	SeekerID  string `json:"seeker_id" db:"seeker_id"`
	Reason    string `json:"reason,omitempty" db:"reason"`
	BlockedBy string `json:"blocked_by,omitempty" db:"blocked_by"`
	BlockedAt int64  `json:"blocked_at" db:"blocked_at"`
	IsActive  bool   `json:"is_active" db:"is_active"`
}

// TimeSlot is a fixed-duration candidate window for an interview.
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Account is an authenticated principal: a seeker or a company.
type Account struct {
	ID           string `json:"id" db:"id"`
	Role         string `json:"role" db:"role"` // seeker, company
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"password_hash,omitempty" db:"password_hash"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`
}
