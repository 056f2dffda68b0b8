package repository

import (
	"context"

	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type ApplicationRepo interface {
	CreateApplication(ctx context.Context, a *models.Application) error
	GetApplicationByID(ctx context.Context, id string) (*models.Application, error)
	// UpdateApplication writes all mutable fields conditioned on the row's
	// status still being fromStatus (compare-and-swap). A concurrent transition
	// surfaces as CodeInvalidTransition.
	UpdateApplication(ctx context.Context, a *models.Application, fromStatus models.ApplicationStatus) error
	// SetChatOnce sets chat_id and chat_initiated if and only if no chat has
	// been initiated yet. Returns false when another call won the race.
	SetChatOnce(ctx context.Context, id, chatID string, now int64) (bool, error)
	// AppendAttendance appends one record to the application's report history.
	AppendAttendance(ctx context.Context, id string, rec models.AttendanceRecord) error
	ListApplicationsBySeeker(ctx context.Context, seekerID string, limit, offset int) ([]models.Application, error)
	ListApplicationsByCompany(ctx context.Context, companyID string, limit, offset int) ([]models.Application, error)
}

type InterviewRepo interface {
	// CreateScheduled inserts the interview after re-running conflict
	// detection inside the same transaction. Overlap with an active interview
	// for the same company and date fails with CodeSchedulingConflict.
	CreateScheduled(ctx context.Context, iv *models.Interview) error
	GetInterviewByID(ctx context.Context, id string) (*models.Interview, error)
	// ApplyReschedule persists an already-validated reschedule, re-running
	// conflict detection (excluding the interview itself) in the same
	// transaction. On conflict nothing is written.
	ApplyReschedule(ctx context.Context, iv *models.Interview) error
	UpdateInterview(ctx context.Context, iv *models.Interview) error
	ListActiveByCompanyAndDate(ctx context.Context, companyID, date string) ([]models.Interview, error)
	ListInterviewsByCompany(ctx context.Context, companyID string, limit, offset int) ([]models.Interview, error)
}

type HistoryRepo interface {
	AppendHistory(ctx context.Context, h *models.History) error
	ListHistoryByApplication(ctx context.Context, applicationID string, limit int) ([]models.History, error)
	ListHistoryBySeeker(ctx context.Context, seekerID string, limit int) ([]models.History, error)
	ListHistoryByCompany(ctx context.Context, companyID string, limit int) ([]models.History, error)
}

type BlockRepo interface {
	// GetActiveBlock returns (nil, nil) when the seeker is not actively blocked.
	GetActiveBlock(ctx context.Context, companyID, seekerID string) (*models.BlockEntry, error)
	CreateBlock(ctx context.Context, b *models.BlockEntry) (int64, error)
	DeactivateBlock(ctx context.Context, companyID, seekerID string) error
	ListBlocksByCompany(ctx context.Context, companyID string) ([]models.BlockEntry, error)
}

type AccountRepo interface {
	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}
