package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClerkClient_ListOrganizationMemberships(t *testing.T) {
	var gotPath, gotAuth, gotLimit, gotOffset string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotLimit = r.URL.Query().Get("limit")
		gotOffset = r.URL.Query().Get("offset")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [
				{"id": "orgmem_1", "role": "org:member", "organization": {"id": "org_1", "slug": "pat"}},
				{"id": "orgmem_2", "role": "org:admin", "organization": {"id": "org_2", "slug": "staff"}}
			],
			"total_count": 2
		}`))
	}))
	defer srv.Close()

	client := NewClerkClient(srv.URL, "sk_test_123")
	page, err := client.ListOrganizationMemberships(context.Background(), "user_42", 100, 0)
	require.NoError(t, err)

	assert.Equal(t, "/users/user_42/organization_memberships", gotPath)
	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	assert.Equal(t, "100", gotLimit)
	assert.Equal(t, "0", gotOffset)

	require.Len(t, page.Memberships, 2)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, "org:admin", page.Memberships[1].Role)
	assert.Equal(t, "staff", page.Memberships[1].Organization.Slug)
	assert.True(t, page.Memberships[1].IsAdmin())
}

func TestClerkClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"errors":[{"code":"unavailable","message":"try later"}]}`))
	}))
	defer srv.Close()

	client := NewClerkClient(srv.URL, "sk_test_123")
	page, err := client.ListOrganizationMemberships(context.Background(), "user_42", 100, 0)
	require.Error(t, err)
	assert.Nil(t, page)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "try later")
}

func TestClerkClient_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_count": 0}`))
	}))
	defer srv.Close()

	page, err := NewClerkClient(srv.URL, "sk").ListOrganizationMemberships(context.Background(), "user_1", 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, page.Memberships)
	assert.Empty(t, page.Memberships)
}
