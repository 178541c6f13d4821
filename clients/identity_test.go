package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityClientResolve(t *testing.T) {
	userID := uuid.New()
	businessID := uuid.New()

	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer member-token":
			w.Write([]byte(`{"userId": "` + userID.String() + `"}`))
		case "Bearer business-token":
			w.Write([]byte(`{"userId": "` + userID.String() + `", "businessId": "` + businessID.String() + `"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer authServer.Close()

	client := NewIdentityClient(authServer.URL)
	ctx := context.Background()

	identity, err := client.Resolve(ctx, "member-token")
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, uuid.Nil, identity.BusinessID)

	identity, err = client.Resolve(ctx, "business-token")
	require.NoError(t, err)
	assert.Equal(t, businessID, identity.BusinessID)

	_, err = client.Resolve(ctx, "expired-token")
	assert.Error(t, err)
}
