package gate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/common"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/gate"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/repository/mock"
)

func TestCheckNoBlock(t *testing.T) {
	m := mock.NewMocks()
	m.Accounts.Put(&models.Account{ID: "company-1", Role: "company", Email: "c@x.com"})
	g := gate.New(m.Blocks, m.Accounts, gate.PolicyAllow, nil)

	if err := g.Check(context.Background(), "company-1", "seeker-1"); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckActiveBlock(t *testing.T) {
	m := mock.NewMocks()
	m.Accounts.Put(&models.Account{ID: "company-1", Role: "company", Email: "c@x.com"})
	m.Blocks.CreateBlock(context.Background(), &models.BlockEntry{
		CompanyID: "company-1", SeekerID: "seeker-1", Reason: "repeated no-shows", BlockedAt: 1000, IsActive: true,
	})
	g := gate.New(m.Blocks, m.Accounts, gate.PolicyAllow, nil)

	err := g.Check(context.Background(), "company-1", "seeker-1")
	if !common.Is(err, common.CodeBlocked) {
		t.Fatalf("expected blocked, got %v", err)
	}
	var domainErr *common.Error
	if !errors.As(err, &domainErr) {
		t.Fatal("expected a coded error")
	}
	if domainErr.Details["reason"] != "repeated no-shows" {
		t.Fatalf("block reason missing from details: %+v", domainErr.Details)
	}

	// other seekers pass
	if err := g.Check(context.Background(), "company-1", "seeker-2"); err != nil {
		t.Fatalf("Check other seeker: %v", err)
	}
}

func TestCheckDeactivatedBlock(t *testing.T) {
	m := mock.NewMocks()
	m.Accounts.Put(&models.Account{ID: "company-1", Role: "company", Email: "c@x.com"})
	m.Blocks.CreateBlock(context.Background(), &models.BlockEntry{
		CompanyID: "company-1", SeekerID: "seeker-1", IsActive: true,
	})
	m.Blocks.DeactivateBlock(context.Background(), "company-1", "seeker-1")
	g := gate.New(m.Blocks, m.Accounts, gate.PolicyAllow, nil)

	if err := g.Check(context.Background(), "company-1", "seeker-1"); err != nil {
		t.Fatalf("Check after deactivation: %v", err)
	}
}

func TestCheckMissingCompanyFailOpen(t *testing.T) {
	m := mock.NewMocks()
	g := gate.New(m.Blocks, m.Accounts, gate.PolicyAllow, nil)

	if err := g.Check(context.Background(), "ghost-company", "seeker-1"); err != nil {
		t.Fatalf("allow policy must fail open, got %v", err)
	}
}

func TestCheckMissingCompanyFailClosed(t *testing.T) {
	m := mock.NewMocks()
	g := gate.New(m.Blocks, m.Accounts, gate.PolicyDeny, nil)

	err := g.Check(context.Background(), "ghost-company", "seeker-1")
	if !common.Is(err, common.CodeBlocked) {
		t.Fatalf("deny policy must fail closed, got %v", err)
	}
}

func TestCheckInfraErrorPropagates(t *testing.T) {
	m := mock.NewMocks()
	m.Accounts.LookupErr = errors.New("connection reset")
	g := gate.New(m.Blocks, m.Accounts, gate.PolicyAllow, nil)

	err := g.Check(context.Background(), "company-1", "seeker-1")
	if err == nil || common.CodeOf(err) != "" {
		t.Fatalf("infra error must pass through uncoded, got %v", err)
	}
}
