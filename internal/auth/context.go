// Package auth carries the caller's identity through a request and issues
// the bearer tokens that establish it.
package auth

import (
	"context"
	"strings"

	apperrors "github.com/julianstephens/momentum/internal/errors"
)

type ctxKey struct{}

// WithUserID returns a context carrying the authenticated subject
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, strings.TrimSpace(userID))
}

// UserID returns the authenticated subject, if any
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// RequireUserID is UserID for write paths: a missing identity is ErrUnauthenticated
func RequireUserID(ctx context.Context) (string, error) {
	id, ok := UserID(ctx)
	if !ok {
		return "", apperrors.ErrUnauthenticated
	}
	return id, nil
}
