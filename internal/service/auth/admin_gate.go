package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mentorship/internal/domain"
	"mentorship/internal/domain/services"
	"mentorship/internal/metrics"
)

// MembershipAdminGate implements AdminGate by looking for an org:admin
// membership at the identity provider.
//
// Memberships are read page by page until an admin role is found, the
// provider runs out of memberships, or maxPages pages were read. A principal
// whose admin membership lies beyond maxPages pages is denied.
type MembershipAdminGate struct {
	provider  services.IdentityProvider
	pageLimit int
	maxPages  int
	logger    *slog.Logger
}

// NewMembershipAdminGate creates the gate. pageLimit and maxPages below 1 are treated as 1.
func NewMembershipAdminGate(
	provider services.IdentityProvider,
	pageLimit int,
	maxPages int,
	logger *slog.Logger,
) *MembershipAdminGate {
	if pageLimit < 1 {
		pageLimit = 1
	}
	if maxPages < 1 {
		maxPages = 1
	}
	return &MembershipAdminGate{
		provider:  provider,
		pageLimit: pageLimit,
		maxPages:  maxPages,
		logger:    logger,
	}
}

// RequireAdmin returns nil only for principals holding the admin role.
func (g *MembershipAdminGate) RequireAdmin(ctx context.Context, principalID string) error {
	if principalID == "" {
		metrics.RecordAuthzDecision(metrics.AuthzUnauthenticated)
		return &domain.UnauthorizedError{Message: "authentication required"}
	}

	isAdmin, err := g.lookup(ctx, principalID)
	if err != nil {
		metrics.RecordAuthzDecision(metrics.AuthzError)
		g.logger.Error("admin lookup failed",
			"user_id", principalID,
			"error", err,
		)
		return err
	}

	if !isAdmin {
		metrics.RecordAuthzDecision(metrics.AuthzForbidden)
		g.logger.Info("admin access denied", "user_id", principalID)
		return &domain.ForbiddenError{Message: "admin role required"}
	}

	metrics.RecordAuthzDecision(metrics.AuthzAllowed)
	return nil
}

// IsAdmin reports whether the principal holds the admin role.
func (g *MembershipAdminGate) IsAdmin(ctx context.Context, principalID string) (bool, error) {
	err := g.RequireAdmin(ctx, principalID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrForbidden):
		return false, nil
	default:
		return false, err
	}
}

func (g *MembershipAdminGate) lookup(ctx context.Context, principalID string) (bool, error) {
	offset := 0
	for page := 0; page < g.maxPages; page++ {
		result, err := g.provider.ListOrganizationMemberships(ctx, principalID, g.pageLimit, offset)
		if err != nil {
			return false, fmt.Errorf("%w: %v", domain.ErrIdentityProvider, err)
		}
		metrics.RecordMembershipPage()

		for _, m := range result.Memberships {
			if m.IsAdmin() {
				return true, nil
			}
		}

		offset += len(result.Memberships)
		if len(result.Memberships) < g.pageLimit || offset >= result.TotalCount {
			return false, nil
		}
	}

	g.logger.Warn("membership lookup stopped at page cap",
		"user_id", principalID,
		"pages", g.maxPages,
		"page_limit", g.pageLimit,
	)
	return false, nil
}
