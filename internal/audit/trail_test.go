package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/audit"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/repository/mock"
)

func TestRecordFillsDefaults(t *testing.T) {
	m := mock.NewMocks()
	trail := audit.New(m.History, nil)

	trail.Record(context.Background(), models.History{ApplicationID: "app-1", Action: "applied", ActionAt: 100})

	if len(m.History.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(m.History.Entries))
	}
	got := m.History.Entries[0]
	if got.ID == "" {
		t.Fatal("id not generated")
	}
	if got.Metadata != "{}" {
		t.Fatalf("metadata = %q, want {}", got.Metadata)
	}
}

func TestRecordSwallowsAppendErrors(t *testing.T) {
	m := mock.NewMocks()
	m.History.AppendErr = errors.New("disk full")
	trail := audit.New(m.History, nil)

	// must not panic or surface the error
	trail.Record(context.Background(), models.History{ApplicationID: "app-1", Action: "applied"})
}

func seedFlow(t *testing.T, trail *audit.Trail) {
	t.Helper()
	ctx := context.Background()
	entries := []models.History{
		{ApplicationID: "app-1", Action: "applied", ToStatus: models.StatusApplied, ActionBy: models.ActorSeeker, ActionAt: 1_000_000},
		{ApplicationID: "app-1", Action: "shortlisted", ToStatus: models.StatusShortlisted, ActionBy: models.ActorCompany, ActionAt: 2_000_000},
		{ApplicationID: "app-1", Action: "interviewed", ToStatus: models.StatusInterviewed, ActionBy: models.ActorCompany,
			Metadata: `{"interview_date":"2026-09-10","start_time":"10:00"}`, ActionAt: 3_000_000},
		{ApplicationID: "app-1", Action: "hired", ToStatus: models.StatusHired, ActionBy: models.ActorCompany, ActionAt: 1_000_000 + 2*86_400_000},
		{ApplicationID: "app-1", Action: "accepted", ToStatus: models.StatusAccepted, ActionBy: models.ActorSeeker,
			Metadata: `{"response":"accepted"}`, ActionAt: 1_000_000 + 2*86_400_000 + 60_000},
	}
	for _, h := range entries {
		trail.Record(ctx, h)
	}
}

func TestApplicationStats(t *testing.T) {
	m := mock.NewMocks()
	trail := audit.New(m.History, nil)
	seedFlow(t, trail)

	stats, err := trail.ApplicationStats(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("ApplicationStats: %v", err)
	}

	if stats.ActionCounts["applied"] != 1 || stats.ActionCounts["hired"] != 1 {
		t.Fatalf("unexpected counts: %+v", stats.ActionCounts)
	}
	if len(stats.Timeline) != 5 {
		t.Fatalf("timeline length = %d, want 5", len(stats.Timeline))
	}
	// chronological order despite newest-first storage
	if stats.Timeline[0].Action != "applied" || stats.Timeline[4].Action != "accepted" {
		t.Fatalf("timeline out of order: first %s last %s", stats.Timeline[0].Action, stats.Timeline[4].Action)
	}
	// interview detail pulled from metadata
	if stats.Timeline[2].Detail != "2026-09-10 10:00" {
		t.Fatalf("interview detail = %q", stats.Timeline[2].Detail)
	}
	if stats.Timeline[4].Detail != "accepted" {
		t.Fatalf("response detail = %q", stats.Timeline[4].Detail)
	}

	if stats.TimeToHireDays == nil {
		t.Fatal("time to hire missing")
	}
	if *stats.TimeToHireDays != 2 {
		t.Fatalf("time to hire = %v days, want 2", *stats.TimeToHireDays)
	}
}

func TestApplicationStatsWithoutHire(t *testing.T) {
	m := mock.NewMocks()
	trail := audit.New(m.History, nil)
	trail.Record(context.Background(), models.History{ApplicationID: "app-1", Action: "applied", ActionAt: 1000})

	stats, err := trail.ApplicationStats(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("ApplicationStats: %v", err)
	}
	if stats.TimeToHireDays != nil {
		t.Fatalf("time to hire should be absent, got %v", *stats.TimeToHireDays)
	}
}
