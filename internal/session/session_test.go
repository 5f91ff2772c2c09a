package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-admin-api/internal/models"
)

func TestClaimsRoundTrip(t *testing.T) {
	_, ok := Claims(context.Background())
	assert.False(t, ok)
	assert.Nil(t, UserID(context.Background()))

	ctx := WithClaims(context.Background(), &models.JWTClaims{UserID: "u1", Type: models.UserTypeAdmin})
	claims, ok := Claims(ctx)
	require.True(t, ok)
	assert.Equal(t, models.UserTypeAdmin, claims.Type)
	require.NotNil(t, UserID(ctx))
	assert.Equal(t, "u1", *UserID(ctx))
}

func TestNilClaimsAreAbsent(t *testing.T) {
	ctx := WithClaims(context.Background(), nil)
	_, ok := Claims(ctx)
	assert.False(t, ok)
}

func TestClient(t *testing.T) {
	assert.Equal(t, Client{}, ClientFrom(context.Background()))
	ctx := WithClient(context.Background(), Client{IP: "10.0.0.1", UserAgent: "curl"})
	assert.Equal(t, "10.0.0.1", ClientFrom(ctx).IP)
}
