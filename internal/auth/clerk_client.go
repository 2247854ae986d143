package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"mentorship/internal/domain/models"

	"github.com/go-resty/resty/v2"
)

// ClerkClient reads organization memberships from the Clerk Backend API.
// It is safe for concurrent use and is meant to be created once per process.
type ClerkClient struct {
	http *resty.Client
}

// NewClerkClient creates a client for apiURL (e.g. https://api.clerk.com/v1)
// authenticated with the instance secret key.
func NewClerkClient(apiURL, secretKey string) *ClerkClient {
	client := resty.New().
		SetBaseURL(apiURL).
		SetAuthToken(secretKey).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)

	return &ClerkClient{http: client}
}

// clerkErrorResponse is the error envelope returned by the Backend API.
type clerkErrorResponse struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// ListOrganizationMemberships returns one page of the user's organization memberships.
func (c *ClerkClient) ListOrganizationMemberships(ctx context.Context, userID string, limit, offset int) (*models.MembershipPage, error) {
	var page models.MembershipPage
	var apiErr clerkErrorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("userID", userID).
		SetQueryParams(map[string]string{
			"limit":  strconv.Itoa(limit),
			"offset": strconv.Itoa(offset),
		}).
		SetResult(&page).
		SetError(&apiErr).
		Get("/users/{userID}/organization_memberships")
	if err != nil {
		return nil, fmt.Errorf("list organization memberships: %w", err)
	}

	if resp.IsError() {
		msg := resp.Status()
		if len(apiErr.Errors) > 0 {
			msg = fmt.Sprintf("%s: %s", apiErr.Errors[0].Code, apiErr.Errors[0].Message)
		}
		return nil, fmt.Errorf("list organization memberships failed with status %d: %s", resp.StatusCode(), msg)
	}

	if page.Memberships == nil {
		page.Memberships = []models.OrganizationMembership{}
	}
	return &page, nil
}
