// Package clients holds the thin HTTP clients for the external
// collaborators this service consumes.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pearhub/server"

	"github.com/google/uuid"
)

// IdentityClient resolves bearer tokens against the auth service's verify
// endpoint. Identity is never taken from the request body: only what the
// auth collaborator vouches for is trusted.
type IdentityClient struct {
	verifyURL  string
	httpClient *http.Client
}

func NewIdentityClient(verifyURL string) *IdentityClient {
	return &IdentityClient{
		verifyURL: verifyURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type verifyResponse struct {
	UserID     string `json:"userId"`
	BusinessID string `json:"businessId"`
}

func (c *IdentityClient) Resolve(ctx context.Context, token string) (*server.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.verifyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify token: status %d", resp.StatusCode)
	}

	var payload verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in verify response: %w", err)
	}

	identity := server.Identity{UserID: userID}
	if payload.BusinessID != "" {
		businessID, err := uuid.Parse(payload.BusinessID)
		if err != nil {
			return nil, fmt.Errorf("invalid business id in verify response: %w", err)
		}
		identity.BusinessID = businessID
	}
	return &identity, nil
}
