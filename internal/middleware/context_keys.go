package middleware

import (
	"context"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated subject in the request context.
// Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// scopeKey holds the caller's domain.Scope.
const scopeKey = contextKey("scope")

// GetUserIDFromContext retrieves the authenticated subject from the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// WithScope returns a copy of ctx carrying scope.
func WithScope(ctx context.Context, scope domain.Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// GetScopeFromCtx retrieves the caller's scope. It reports false for unauthenticated requests.
func GetScopeFromCtx(ctx context.Context) (domain.Scope, bool) {
	scope, ok := ctx.Value(scopeKey).(domain.Scope)
	return scope, ok
}
