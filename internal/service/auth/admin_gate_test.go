package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"mentorship/internal/domain"
	"mentorship/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves memberships from a slice, honouring limit and offset.
type fakeProvider struct {
	memberships []models.OrganizationMembership
	err         error
	calls       int
	offsets     []int
}

func (f *fakeProvider) ListOrganizationMemberships(ctx context.Context, userID string, limit, offset int) (*models.MembershipPage, error) {
	f.calls++
	f.offsets = append(f.offsets, offset)
	if f.err != nil {
		return nil, f.err
	}
	end := offset + limit
	if end > len(f.memberships) {
		end = len(f.memberships)
	}
	page := []models.OrganizationMembership{}
	if offset < len(f.memberships) {
		page = f.memberships[offset:end]
	}
	return &models.MembershipPage{Memberships: page, TotalCount: len(f.memberships)}, nil
}

func memberships(roles ...string) []models.OrganizationMembership {
	out := make([]models.OrganizationMembership, len(roles))
	for i, role := range roles {
		out[i] = models.OrganizationMembership{
			ID:           fmt.Sprintf("orgmem_%d", i),
			Role:         role,
			Organization: models.Organization{ID: fmt.Sprintf("org_%d", i)},
		}
	}
	return out
}

func repeat(role string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = role
	}
	return out
}

func newGate(p *fakeProvider, pageLimit, maxPages int) *MembershipAdminGate {
	return NewMembershipAdminGate(p, pageLimit, maxPages, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRequireAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("no principal is unauthenticated", func(t *testing.T) {
		p := &fakeProvider{}
		err := newGate(p, 100, 10).RequireAdmin(ctx, "")

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.NotErrorIs(t, err, domain.ErrForbidden)
		assert.Zero(t, p.calls, "provider must not be called without a principal")
	})

	t.Run("admin membership passes", func(t *testing.T) {
		p := &fakeProvider{memberships: memberships("org:member", "org:admin")}
		require.NoError(t, newGate(p, 100, 10).RequireAdmin(ctx, "user_1"))
	})

	t.Run("member only is forbidden", func(t *testing.T) {
		p := &fakeProvider{memberships: memberships("org:member", "org:billing")}
		err := newGate(p, 100, 10).RequireAdmin(ctx, "user_1")

		assert.ErrorIs(t, err, domain.ErrForbidden)
		var httpErr domain.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, 403, httpErr.StatusCode())
	})

	t.Run("no memberships is forbidden", func(t *testing.T) {
		p := &fakeProvider{}
		err := newGate(p, 100, 10).RequireAdmin(ctx, "user_1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, 1, p.calls)
	})

	t.Run("provider failure fails closed", func(t *testing.T) {
		p := &fakeProvider{err: errors.New("connection refused")}
		err := newGate(p, 100, 10).RequireAdmin(ctx, "user_1")

		assert.ErrorIs(t, err, domain.ErrIdentityProvider)
		assert.NotErrorIs(t, err, domain.ErrForbidden)
		assert.NotErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestRequireAdmin_Pagination(t *testing.T) {
	ctx := context.Background()

	t.Run("admin on a later page is found", func(t *testing.T) {
		roles := append(repeat("org:member", 250), "org:admin")
		p := &fakeProvider{memberships: memberships(roles...)}

		require.NoError(t, newGate(p, 100, 10).RequireAdmin(ctx, "user_1"))
		assert.Equal(t, []int{0, 100, 200}, p.offsets)
	})

	t.Run("stops at the page cap", func(t *testing.T) {
		roles := append(repeat("org:member", 150), "org:admin")
		p := &fakeProvider{memberships: memberships(roles...)}

		err := newGate(p, 100, 1).RequireAdmin(ctx, "user_1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, 1, p.calls)
	})

	t.Run("stops after a full last page", func(t *testing.T) {
		p := &fakeProvider{memberships: memberships(repeat("org:member", 200)...)}

		err := newGate(p, 100, 10).RequireAdmin(ctx, "user_1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, 2, p.calls)
	})

	t.Run("short circuits on first page", func(t *testing.T) {
		roles := append([]string{"org:admin"}, repeat("org:member", 300)...)
		p := &fakeProvider{memberships: memberships(roles...)}

		require.NoError(t, newGate(p, 100, 10).RequireAdmin(ctx, "user_1"))
		assert.Equal(t, 1, p.calls)
	})
}

func TestIsAdmin(t *testing.T) {
	ctx := context.Background()

	ok, err := newGate(&fakeProvider{memberships: memberships("org:admin")}, 100, 10).IsAdmin(ctx, "user_1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = newGate(&fakeProvider{memberships: memberships("org:member")}, 100, 10).IsAdmin(ctx, "user_1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = newGate(&fakeProvider{err: errors.New("boom")}, 100, 10).IsAdmin(ctx, "user_1")
	assert.Error(t, err)
	assert.False(t, ok)

	ok, err = newGate(&fakeProvider{}, 100, 10).IsAdmin(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.False(t, ok)
}
