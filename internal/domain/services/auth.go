package services

import (
	"context"

	"mentorship/internal/domain/models"
)

// IdentityProvider is the read-only view of the external identity provider.
type IdentityProvider interface {
	// ListOrganizationMemberships returns one page of the principal's memberships.
	ListOrganizationMemberships(ctx context.Context, userID string, limit, offset int) (*models.MembershipPage, error)
}

// AdminGate decides whether a principal may perform administrative mutations.
//
// Every mutating entry point goes through RequireAdmin; handlers never look at
// memberships themselves.
type AdminGate interface {
	// RequireAdmin returns nil for admins, domain.ErrUnauthorized when
	// principalID is empty, domain.ErrForbidden when the principal is not an
	// admin and a wrapped domain.ErrIdentityProvider when the lookup failed.
	RequireAdmin(ctx context.Context, principalID string) error

	// IsAdmin is the boolean form of RequireAdmin. Lookup failures are returned
	// as errors, never as true.
	IsAdmin(ctx context.Context, principalID string) (bool, error)
}
