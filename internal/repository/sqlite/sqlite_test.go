package sqlite_test

import (
	"context"
	"testing"

	assets "github.com/Fazalwahab12/shift-backend-sub002/db"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/common"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/db"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/repository/sqlite"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
)

func setupRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()
	conn, err := db.New(ctx, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(ctx, conn, assets.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return sqlite.New(conn, nil)
}

func newApp(id, jobID, seekerID string) *models.Application {
	return &models.Application{
		ID:              id,
		JobID:           jobID,
		SeekerID:        seekerID,
		CompanyID:       "company-1",
		JobType:         models.JobTypeInterviewFirst,
		Status:          models.StatusApplied,
		Source:          models.SourceApplied,
		AppliedAt:       1000,
		StatusChangedAt: 1000,
		Updated:         1000,
	}
}

func TestApplicationRoundtrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	app := newApp("app-1", "job-1", "seeker-1")
	if err := repo.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	got, err := repo.GetApplicationByID(ctx, "app-1")
	if err != nil {
		t.Fatalf("GetApplicationByID: %v", err)
	}
	if got.Status != models.StatusApplied || got.JobType != models.JobTypeInterviewFirst || got.AppliedAt != 1000 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if got.ReportHistory != nil || got.ChatInitiated {
		t.Fatalf("zero-value columns mangled: %+v", got)
	}

	if _, err := repo.GetApplicationByID(ctx, "nope"); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestApplicationDuplicateJobSeeker(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateApplication(ctx, newApp("app-1", "job-1", "seeker-1")); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	if err := repo.CreateApplication(ctx, newApp("app-2", "job-1", "seeker-1")); err == nil {
		t.Fatal("duplicate (job, seeker) must be rejected")
	}
	// same seeker on another job is fine
	if err := repo.CreateApplication(ctx, newApp("app-3", "job-2", "seeker-1")); err != nil {
		t.Fatalf("other job: %v", err)
	}
}

func TestUpdateApplicationCAS(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	app := newApp("app-1", "job-1", "seeker-1")
	if err := repo.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	app.Status = models.StatusShortlisted
	app.StatusChangedAt = 2000
	app.Updated = 2000
	if err := repo.UpdateApplication(ctx, app, models.StatusApplied); err != nil {
		t.Fatalf("UpdateApplication: %v", err)
	}

	// stale expected status loses
	app.Status = models.StatusHired
	err := repo.UpdateApplication(ctx, app, models.StatusApplied)
	if !common.Is(err, common.CodeInvalidTransition) {
		t.Fatalf("expected invalid_transition on stale CAS, got %v", err)
	}

	got, err := repo.GetApplicationByID(ctx, "app-1")
	if err != nil {
		t.Fatalf("GetApplicationByID: %v", err)
	}
	if got.Status != models.StatusShortlisted {
		t.Fatalf("stale update must not win, status = %s", got.Status)
	}

	// missing row is reported as such, not as a lost race
	ghost := newApp("ghost", "job-9", "seeker-9")
	if err := repo.UpdateApplication(ctx, ghost, models.StatusApplied); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestSetChatOnce(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateApplication(ctx, newApp("app-1", "job-1", "seeker-1")); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	won, err := repo.SetChatOnce(ctx, "app-1", "chat-9", 2000)
	if err != nil {
		t.Fatalf("SetChatOnce: %v", err)
	}
	if !won {
		t.Fatal("first SetChatOnce must win")
	}

	won, err = repo.SetChatOnce(ctx, "app-1", "chat-other", 3000)
	if err != nil {
		t.Fatalf("SetChatOnce: %v", err)
	}
	if won {
		t.Fatal("second SetChatOnce must lose")
	}

	got, err := repo.GetApplicationByID(ctx, "app-1")
	if err != nil {
		t.Fatalf("GetApplicationByID: %v", err)
	}
	if got.ChatID != "chat-9" || !got.ChatInitiated {
		t.Fatalf("chat not persisted: %+v", got)
	}
}

func TestAppendAttendance(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateApplication(ctx, newApp("app-1", "job-1", "seeker-1")); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	recs := []models.AttendanceRecord{
		{Date: "2026-09-10", Status: "present", ReportedBy: "company-1", ReportedAt: 1000},
		{Date: "2026-09-11", Status: "late", ReportedBy: "company-1", ReportedAt: 2000},
	}
	for _, rec := range recs {
		if err := repo.AppendAttendance(ctx, "app-1", rec); err != nil {
			t.Fatalf("AppendAttendance: %v", err)
		}
	}

	got, err := repo.GetApplicationByID(ctx, "app-1")
	if err != nil {
		t.Fatalf("GetApplicationByID: %v", err)
	}
	if len(got.ReportHistory) != 2 || got.ReportHistory[0].Status != "present" || got.ReportHistory[1].Status != "late" {
		t.Fatalf("report history = %+v", got.ReportHistory)
	}

	if err := repo.AppendAttendance(ctx, "ghost", recs[0]); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestListApplications(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for i, id := range []string{"app-1", "app-2", "app-3"} {
		app := newApp(id, "job-"+id, "seeker-1")
		app.AppliedAt = int64(1000 * (i + 1))
		if err := repo.CreateApplication(ctx, app); err != nil {
			t.Fatalf("CreateApplication %s: %v", id, err)
		}
	}

	apps, err := repo.ListApplicationsBySeeker(ctx, "seeker-1", 10, 0)
	if err != nil {
		t.Fatalf("ListApplicationsBySeeker: %v", err)
	}
	if len(apps) != 3 || apps[0].ID != "app-3" {
		t.Fatalf("expected newest first, got %+v", apps)
	}

	apps, err = repo.ListApplicationsBySeeker(ctx, "seeker-1", 1, 1)
	if err != nil {
		t.Fatalf("ListApplicationsBySeeker paged: %v", err)
	}
	if len(apps) != 1 || apps[0].ID != "app-2" {
		t.Fatalf("pagination broken: %+v", apps)
	}

	apps, err = repo.ListApplicationsByCompany(ctx, "company-1", 10, 0)
	if err != nil {
		t.Fatalf("ListApplicationsByCompany: %v", err)
	}
	if len(apps) != 3 {
		t.Fatalf("company list = %d rows", len(apps))
	}
}

func newInterview(id, appID, start, end string) *models.Interview {
	return &models.Interview{
		ID:                 id,
		ApplicationID:      appID,
		JobID:              "job-1",
		SeekerID:           "seeker-1",
		CompanyID:          "company-1",
		Date:               "2026-09-10",
		StartTime:          start,
		EndTime:            end,
		Duration:           30,
		Status:             models.InterviewScheduled,
		ConfirmationStatus: models.ConfirmationPending,
		MaxReschedules:     2,
		Created:            1000,
		Updated:            1000,
	}
}

func TestCreateScheduledConflict(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateScheduled(ctx, newInterview("iv-1", "app-1", "10:00", "10:30")); err != nil {
		t.Fatalf("CreateScheduled: %v", err)
	}

	err := repo.CreateScheduled(ctx, newInterview("iv-2", "app-2", "10:15", "10:45"))
	if !common.Is(err, common.CodeSchedulingConflict) {
		t.Fatalf("expected scheduling_conflict, got %v", err)
	}

	// nothing committed for the loser
	if _, err := repo.GetInterviewByID(ctx, "iv-2"); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("conflicting insert leaked: %v", err)
	}

	// touching windows do not overlap
	if err := repo.CreateScheduled(ctx, newInterview("iv-3", "app-3", "10:30", "11:00")); err != nil {
		t.Fatalf("back-to-back insert: %v", err)
	}

	// settled interviews release their slot
	iv1, err := repo.GetInterviewByID(ctx, "iv-1")
	if err != nil {
		t.Fatalf("GetInterviewByID: %v", err)
	}
	iv1.Status = models.InterviewCancelled
	if err := repo.UpdateInterview(ctx, iv1); err != nil {
		t.Fatalf("UpdateInterview: %v", err)
	}
	if err := repo.CreateScheduled(ctx, newInterview("iv-4", "app-4", "10:00", "10:30")); err != nil {
		t.Fatalf("slot of cancelled interview: %v", err)
	}
}

func TestApplyRescheduleExcludesSelf(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateScheduled(ctx, newInterview("iv-1", "app-1", "10:00", "10:30")); err != nil {
		t.Fatalf("CreateScheduled: %v", err)
	}
	if err := repo.CreateScheduled(ctx, newInterview("iv-2", "app-2", "11:00", "11:30")); err != nil {
		t.Fatalf("CreateScheduled: %v", err)
	}

	iv, err := repo.GetInterviewByID(ctx, "iv-1")
	if err != nil {
		t.Fatalf("GetInterviewByID: %v", err)
	}

	// shifting within its own window is not a conflict
	iv.StartTime, iv.EndTime = "10:15", "10:45"
	iv.Status = models.InterviewRescheduled
	iv.RescheduleCount = 1
	iv.RescheduleHistory = []models.RescheduleEntry{{Date: "2026-09-10", StartTime: "10:00", EndTime: "10:30"}}
	if err := repo.ApplyReschedule(ctx, iv); err != nil {
		t.Fatalf("ApplyReschedule: %v", err)
	}

	got, err := repo.GetInterviewByID(ctx, "iv-1")
	if err != nil {
		t.Fatalf("GetInterviewByID: %v", err)
	}
	if got.StartTime != "10:15" || got.RescheduleCount != 1 || len(got.RescheduleHistory) != 1 {
		t.Fatalf("reschedule not persisted: %+v", got)
	}

	// the rescheduled interview occupies its new slot
	if err := repo.CreateScheduled(ctx, newInterview("iv-3", "app-3", "10:30", "11:00")); !common.Is(err, common.CodeSchedulingConflict) {
		t.Fatalf("expected conflict with rescheduled slot, got %v", err)
	}
	// and its old slot is free again
	if err := repo.CreateScheduled(ctx, newInterview("iv-4", "app-4", "10:00", "10:15")); err != nil {
		t.Fatalf("vacated slot: %v", err)
	}

	// moving onto another interview still conflicts
	iv.StartTime, iv.EndTime = "11:00", "11:30"
	if err := repo.ApplyReschedule(ctx, iv); !common.Is(err, common.CodeSchedulingConflict) {
		t.Fatalf("expected scheduling_conflict, got %v", err)
	}
}

func TestListActiveByCompanyAndDate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateScheduled(ctx, newInterview("iv-1", "app-1", "14:00", "14:30")); err != nil {
		t.Fatalf("CreateScheduled: %v", err)
	}
	if err := repo.CreateScheduled(ctx, newInterview("iv-2", "app-2", "09:00", "09:30")); err != nil {
		t.Fatalf("CreateScheduled: %v", err)
	}
	cancelled := newInterview("iv-3", "app-3", "12:00", "12:30")
	if err := repo.CreateScheduled(ctx, cancelled); err != nil {
		t.Fatalf("CreateScheduled: %v", err)
	}
	cancelled.Status = models.InterviewCancelled
	if err := repo.UpdateInterview(ctx, cancelled); err != nil {
		t.Fatalf("UpdateInterview: %v", err)
	}

	active, err := repo.ListActiveByCompanyAndDate(ctx, "company-1", "2026-09-10")
	if err != nil {
		t.Fatalf("ListActiveByCompanyAndDate: %v", err)
	}
	if len(active) != 2 || active[0].ID != "iv-2" || active[1].ID != "iv-1" {
		t.Fatalf("expected two active interviews ordered by start, got %+v", active)
	}
}

func TestHistoryOrdering(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	entries := []models.History{
		{ID: "h-1", ApplicationID: "app-1", SeekerID: "seeker-1", CompanyID: "company-1", Action: "applied", ActionBy: models.ActorSeeker, ActionAt: 1000},
		{ID: "h-2", ApplicationID: "app-1", SeekerID: "seeker-1", CompanyID: "company-1", Action: "shortlisted", ActionBy: models.ActorCompany, ActionAt: 2000},
		// same timestamp as h-2: insertion order breaks the tie
		{ID: "h-3", ApplicationID: "app-1", SeekerID: "seeker-1", CompanyID: "company-1", Action: "interviewed", ActionBy: models.ActorCompany, ActionAt: 2000},
	}
	for i := range entries {
		entries[i].Metadata = "{}"
		if err := repo.AppendHistory(ctx, &entries[i]); err != nil {
			t.Fatalf("AppendHistory: %v", err)
		}
	}

	got, err := repo.ListHistoryByApplication(ctx, "app-1", 10)
	if err != nil {
		t.Fatalf("ListHistoryByApplication: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("history rows = %d", len(got))
	}
	if got[0].ID != "h-3" || got[1].ID != "h-2" || got[2].ID != "h-1" {
		t.Fatalf("unexpected order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}

	got, err = repo.ListHistoryByApplication(ctx, "app-1", 2)
	if err != nil {
		t.Fatalf("ListHistoryByApplication limited: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit ignored: %d rows", len(got))
	}

	bySeeker, err := repo.ListHistoryBySeeker(ctx, "seeker-1", 10)
	if err != nil {
		t.Fatalf("ListHistoryBySeeker: %v", err)
	}
	if len(bySeeker) != 3 {
		t.Fatalf("seeker history rows = %d", len(bySeeker))
	}
	byCompany, err := repo.ListHistoryByCompany(ctx, "company-1", 10)
	if err != nil {
		t.Fatalf("ListHistoryByCompany: %v", err)
	}
	if len(byCompany) != 3 {
		t.Fatalf("company history rows = %d", len(byCompany))
	}
}

func TestBlocks(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if b, err := repo.GetActiveBlock(ctx, "company-1", "seeker-1"); err != nil || b != nil {
		t.Fatalf("expected no block, got %+v err %v", b, err)
	}

	id, err := repo.CreateBlock(ctx, &models.BlockEntry{
		CompanyID: "company-1", SeekerID: "seeker-1", Reason: "no-show", BlockedBy: "acct-1", IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
	if id == 0 {
		t.Fatal("expected autoincrement id")
	}

	b, err := repo.GetActiveBlock(ctx, "company-1", "seeker-1")
	if err != nil {
		t.Fatalf("GetActiveBlock: %v", err)
	}
	if b == nil || b.Reason != "no-show" || !b.IsActive {
		t.Fatalf("active block = %+v", b)
	}
	if b.BlockedAt == 0 {
		t.Fatal("blocked_at must be defaulted")
	}

	if err := repo.DeactivateBlock(ctx, "company-1", "seeker-1"); err != nil {
		t.Fatalf("DeactivateBlock: %v", err)
	}
	if b, err := repo.GetActiveBlock(ctx, "company-1", "seeker-1"); err != nil || b != nil {
		t.Fatalf("block still active: %+v err %v", b, err)
	}

	all, err := repo.ListBlocksByCompany(ctx, "company-1")
	if err != nil {
		t.Fatalf("ListBlocksByCompany: %v", err)
	}
	if len(all) != 1 || all[0].IsActive {
		t.Fatalf("expected one inactive block, got %+v", all)
	}
}

func TestAccounts(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	a := &models.Account{ID: "acct-1", Role: "company", Name: "Acme", Email: "hr@acme.test", PasswordHash: "x"}
	if err := repo.CreateAccount(ctx, a); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if a.Created == 0 || a.Updated != a.Created {
		t.Fatalf("timestamps not defaulted: %+v", a)
	}

	dup := &models.Account{ID: "acct-2", Role: "company", Name: "Other", Email: "hr@acme.test", PasswordHash: "y"}
	if err := repo.CreateAccount(ctx, dup); err == nil {
		t.Fatal("duplicate email must be rejected")
	}

	got, err := repo.GetAccountByID(ctx, "acct-1")
	if err != nil {
		t.Fatalf("GetAccountByID: %v", err)
	}
	if got.Email != "hr@acme.test" {
		t.Fatalf("account = %+v", got)
	}

	got, err = repo.GetAccountByEmail(ctx, "hr@acme.test")
	if err != nil {
		t.Fatalf("GetAccountByEmail: %v", err)
	}
	if got.ID != "acct-1" {
		t.Fatalf("account = %+v", got)
	}

	if _, err := repo.GetAccountByID(ctx, "ghost"); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
