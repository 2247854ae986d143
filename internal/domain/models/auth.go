package models

import "github.com/golang-jwt/jwt/v5"

// RoleOrgAdmin is the organization role that grants the admin capability.
const RoleOrgAdmin = "org:admin"

// SessionClaims represents the JWT claims of an identity provider session token.
type SessionClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	SessionID            string `json:"sid"`
	AuthorizedParty      string `json:"azp"`
	OrgID                string `json:"org_id,omitempty"`
	OrgRole              string `json:"org_role,omitempty"`
}

// GetUserID returns the principal id from the subject claim.
func (c *SessionClaims) GetUserID() string {
	return c.Subject
}

// Organization is the minimal organization shape returned with a membership.
type Organization struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// OrganizationMembership ties a principal to an organization with a role tag.
type OrganizationMembership struct {
	ID           string       `json:"id"`
	Role         string       `json:"role"`
	Organization Organization `json:"organization"`
}

// IsAdmin reports whether the membership carries the admin role.
func (m OrganizationMembership) IsAdmin() bool {
	return m.Role == RoleOrgAdmin
}

// MembershipPage is one page of a principal's organization memberships.
type MembershipPage struct {
	Memberships []OrganizationMembership `json:"data"`
	TotalCount  int                      `json:"total_count"`
}
