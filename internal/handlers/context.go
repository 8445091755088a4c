package handlers

import (
	"context"

	"travelFront/internal/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	claimsKey
)

// WithClaims stores the verified session claims of the request.
func WithClaims(ctx context.Context, claims *models.Claims) context.Context {
	user := claims.User()
	ctx = context.WithValue(ctx, claimsKey, claims)
	return context.WithValue(ctx, userKey, &user)
}

// UserFrom returns the signed-in user, or nil for anonymous requests.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func claimsFrom(ctx context.Context) *models.Claims {
	claims, _ := ctx.Value(claimsKey).(*models.Claims)
	return claims
}
