package httpapi

import (
	"context"

	"github.com/dmitrijs2005/rehearsal/internal/server/models"
)

type ctxKey string

const (
	userKey       ctxKey = "user"
	membershipKey ctxKey = "membership"
	requestIDKey  ctxKey = "requestID"
)

// UserFromContext returns the caller attached by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// MembershipFromContext returns the membership verified by a band guard.
func MembershipFromContext(ctx context.Context) (*models.BandMember, bool) {
	m, ok := ctx.Value(membershipKey).(*models.BandMember)
	return m, ok && m != nil
}

// RequestIDFromContext returns the id assigned by the access log middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
