// Package session carries the authenticated identity and client details on a
// request context so services can read them without depending on gin.
package session

import (
	"context"

	"github.com/noah-isme/lms-admin-api/internal/models"
)

type claimsKey struct{}

type clientKey struct{}

// Client describes the caller's network origin.
type Client struct {
	IP        string
	UserAgent string
}

// WithClaims returns ctx carrying the verified token claims.
func WithClaims(ctx context.Context, claims *models.JWTClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// Claims returns the claims stored on ctx, if any.
func Claims(ctx context.Context) (*models.JWTClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*models.JWTClaims)
	return claims, ok && claims != nil
}

// UserID returns the authenticated user id or nil.
func UserID(ctx context.Context) *string {
	claims, ok := Claims(ctx)
	if !ok || claims.UserID == "" {
		return nil
	}
	id := claims.UserID
	return &id
}

// WithClient returns ctx carrying the caller's address and agent.
func WithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// ClientFrom returns the client stored on ctx or the zero value.
func ClientFrom(ctx context.Context) Client {
	client, _ := ctx.Value(clientKey{}).(Client)
	return client
}
