// Package gate is the blocking gate: a yes/no guard deciding whether a seeker
// may apply to a company.
package gate

import (
	"context"
	"io"

	"log/slog"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/common"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/repository"
)

// Policy decides what the gate does when the company record cannot be found.
type Policy string

const (
	// PolicyAllow fails open: a missing company record lets the application
	// through. Availability over strictness.
	PolicyAllow Policy = "allow"
	// PolicyDeny fails closed: a missing company record refuses the
	// application.
	PolicyDeny Policy = "deny"
)

type Gate struct {
	blocks   repository.BlockRepo
	accounts repository.AccountRepo
	policy   Policy
	logger   *slog.Logger
}

func New(blocks repository.BlockRepo, accounts repository.AccountRepo, policy Policy, logger *slog.Logger) *Gate {
	if policy != PolicyDeny {
		policy = PolicyAllow
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Gate{blocks: blocks, accounts: accounts, policy: policy, logger: logger}
}

// Check returns nil when the seeker may apply to the company, a
// CodeBlocked error carrying the block reason when not, and infra errors
// as-is.
func (g *Gate) Check(ctx context.Context, companyID, seekerID string) error {
	if _, err := g.accounts.GetAccountByID(ctx, companyID); err != nil {
		if !common.Is(err, common.CodeNotFound) {
			return err
		}
		if g.policy == PolicyDeny {
			return common.NewError(common.CodeBlocked, "company record not found")
		}
		g.logger.Warn("company lookup failed, allowing application", "company_id", companyID)
		return nil
	}

	block, err := g.blocks.GetActiveBlock(ctx, companyID, seekerID)
	if err != nil {
		return err
	}
	if block != nil {
		return common.NewErrorWithDetails(common.CodeBlocked, "seeker is blocked by this company",
			map[string]any{"reason": block.Reason, "blocked_at": block.BlockedAt})
	}
	return nil
}
