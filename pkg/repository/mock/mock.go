// Package mock provides in-memory repository implementations for tests. They
// honor the same conditional-write semantics as the sqlite implementations so
// concurrency behavior can be tested without a database.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/common"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
)

// Mocks bundles one instance of every repository mock.
type Mocks struct {
	Apps       *ApplicationRepo
	Interviews *InterviewRepo
	History    *HistoryRepo
	Blocks     *BlockRepo
	Accounts   *AccountRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Apps:       &ApplicationRepo{apps: map[string]*models.Application{}},
		Interviews: &InterviewRepo{interviews: map[string]*models.Interview{}},
		History:    &HistoryRepo{},
		Blocks:     &BlockRepo{},
		Accounts:   &AccountRepo{accounts: map[string]*models.Account{}},
	}
}

type ApplicationRepo struct {
	mu   sync.Mutex
	apps map[string]*models.Application

	CreateErr error
	UpdateErr error
}

func (m *ApplicationRepo) CreateApplication(ctx context.Context, a *models.Application) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.apps {
		if existing.JobID == a.JobID && existing.SeekerID == a.SeekerID {
			return fmt.Errorf("duplicate application for job %s", a.JobID)
		}
	}
	cp := *a
	m.apps[a.ID] = &cp
	return nil
}

func (m *ApplicationRepo) GetApplicationByID(ctx context.Context, id string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found")
	}
	cp := *a
	return &cp, nil
}

func (m *ApplicationRepo) UpdateApplication(ctx context.Context, a *models.Application, fromStatus models.ApplicationStatus) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.apps[a.ID]
	if !ok {
		return common.NewError(common.CodeNotFound, "application not found")
	}
	if cur.Status != fromStatus {
		return common.NewError(common.CodeInvalidTransition, "application status changed concurrently")
	}
	cp := *a
	cp.ChatID = cur.ChatID
	cp.ChatInitiated = cur.ChatInitiated
	cp.ReportHistory = cur.ReportHistory
	m.apps[a.ID] = &cp
	return nil
}

func (m *ApplicationRepo) SetChatOnce(ctx context.Context, id, chatID string, now int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return false, common.NewError(common.CodeNotFound, "application not found")
	}
	if a.ChatInitiated {
		return false, nil
	}
	a.ChatID = chatID
	a.ChatInitiated = true
	a.Updated = now
	return true, nil
}

func (m *ApplicationRepo) AppendAttendance(ctx context.Context, id string, rec models.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "application not found")
	}
	a.ReportHistory = append(a.ReportHistory, rec)
	return nil
}

func (m *ApplicationRepo) ListApplicationsBySeeker(ctx context.Context, seekerID string, limit, offset int) ([]models.Application, error) {
	return m.list(func(a *models.Application) bool { return a.SeekerID == seekerID })
}

func (m *ApplicationRepo) ListApplicationsByCompany(ctx context.Context, companyID string, limit, offset int) ([]models.Application, error) {
	return m.list(func(a *models.Application) bool { return a.CompanyID == companyID })
}

func (m *ApplicationRepo) list(match func(*models.Application) bool) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Application
	for _, a := range m.apps {
		if match(a) {
			out = append(out, *a)
		}
	}
	return out, nil
}

type InterviewRepo struct {
	mu         sync.Mutex
	interviews map[string]*models.Interview

	CreateErr error
}

func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// occupiesSlot mirrors the sqlite active-status set: a rescheduled interview
// holds its new slot until it settles.
func occupiesSlot(status models.InterviewStatus) bool {
	return status == models.InterviewScheduled || status == models.InterviewConfirmed || status == models.InterviewRescheduled
}

func (m *InterviewRepo) conflict(iv *models.Interview) error {
	for _, other := range m.interviews {
		if other.ID == iv.ID || other.CompanyID != iv.CompanyID || other.Date != iv.Date {
			continue
		}
		if !occupiesSlot(other.Status) {
			continue
		}
		if overlaps(iv.StartTime, iv.EndTime, other.StartTime, other.EndTime) {
			return common.NewErrorWithDetails(common.CodeSchedulingConflict, "time slot conflicts with an existing interview", map[string]any{
				"conflicting_interview_id": other.ID,
			})
		}
	}
	return nil
}

func (m *InterviewRepo) CreateScheduled(ctx context.Context, iv *models.Interview) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.conflict(iv); err != nil {
		return err
	}
	cp := *iv
	m.interviews[iv.ID] = &cp
	return nil
}

func (m *InterviewRepo) GetInterviewByID(ctx context.Context, id string) (*models.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.interviews[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "interview not found")
	}
	cp := *iv
	return &cp, nil
}

func (m *InterviewRepo) ApplyReschedule(ctx context.Context, iv *models.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.interviews[iv.ID]; !ok {
		return common.NewError(common.CodeNotFound, "interview not found")
	}
	if err := m.conflict(iv); err != nil {
		return err
	}
	cp := *iv
	m.interviews[iv.ID] = &cp
	return nil
}

func (m *InterviewRepo) UpdateInterview(ctx context.Context, iv *models.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.interviews[iv.ID]; !ok {
		return common.NewError(common.CodeNotFound, "interview not found")
	}
	cp := *iv
	m.interviews[iv.ID] = &cp
	return nil
}

func (m *InterviewRepo) ListActiveByCompanyAndDate(ctx context.Context, companyID, date string) ([]models.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Interview
	for _, iv := range m.interviews {
		if iv.CompanyID != companyID || iv.Date != date {
			continue
		}
		if occupiesSlot(iv.Status) {
			out = append(out, *iv)
		}
	}
	return out, nil
}

func (m *InterviewRepo) ListInterviewsByCompany(ctx context.Context, companyID string, limit, offset int) ([]models.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Interview
	for _, iv := range m.interviews {
		if iv.CompanyID == companyID {
			out = append(out, *iv)
		}
	}
	return out, nil
}

type HistoryRepo struct {
	mu      sync.Mutex
	Entries []models.History

	AppendErr error
}

func (m *HistoryRepo) AppendHistory(ctx context.Context, h *models.History) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, *h)
	return nil
}

func (m *HistoryRepo) ListHistoryByApplication(ctx context.Context, applicationID string, limit int) ([]models.History, error) {
	return m.list(func(h models.History) bool { return h.ApplicationID == applicationID })
}

func (m *HistoryRepo) ListHistoryBySeeker(ctx context.Context, seekerID string, limit int) ([]models.History, error) {
	return m.list(func(h models.History) bool { return h.SeekerID == seekerID })
}

func (m *HistoryRepo) ListHistoryByCompany(ctx context.Context, companyID string, limit int) ([]models.History, error) {
	return m.list(func(h models.History) bool { return h.CompanyID == companyID })
}

// list returns entries newest first, matching the sqlite ordering.
func (m *HistoryRepo) list(match func(models.History) bool) ([]models.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.History
	for i := len(m.Entries) - 1; i >= 0; i-- {
		if match(m.Entries[i]) {
			out = append(out, m.Entries[i])
		}
	}
	return out, nil
}

type BlockRepo struct {
	mu     sync.Mutex
	blocks []models.BlockEntry
	nextID int64

	LookupErr error
}

func (m *BlockRepo) GetActiveBlock(ctx context.Context, companyID, seekerID string) (*models.BlockEntry, error) {
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.blocks {
		b := m.blocks[i]
		if b.CompanyID == companyID && b.SeekerID == seekerID && b.IsActive {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *BlockRepo) CreateBlock(ctx context.Context, b *models.BlockEntry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *b
	cp.ID = m.nextID
	m.blocks = append(m.blocks, cp)
	return cp.ID, nil
}

func (m *BlockRepo) DeactivateBlock(ctx context.Context, companyID, seekerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.blocks {
		if m.blocks[i].CompanyID == companyID && m.blocks[i].SeekerID == seekerID {
			m.blocks[i].IsActive = false
		}
	}
	return nil
}

func (m *BlockRepo) ListBlocksByCompany(ctx context.Context, companyID string) ([]models.BlockEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.BlockEntry
	for _, b := range m.blocks {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out, nil
}

type AccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*models.Account

	LookupErr error
}

func (m *AccountRepo) Put(a *models.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.accounts[a.ID] = &cp
}

func (m *AccountRepo) CreateAccount(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return fmt.Errorf("email %s already registered", a.Email)
		}
	}
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *AccountRepo) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "account not found")
	}
	cp := *a
	return &cp, nil
}

func (m *AccountRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "account not found")
}
