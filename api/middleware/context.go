package middleware

import (
	"context"

	"github.com/angelmondragon/catalog-pricing/pkg/enums"
)

type contextKey string

const (
	ctxSubject contextKey = "subject"
	ctxRole    contextKey = "actor_role"
)

// SubjectFromContext returns the token subject set by Auth.
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(ctxSubject).(string)
	return v
}

// RoleFromContext returns the actor role set by Auth, empty when unauthenticated.
func RoleFromContext(ctx context.Context) enums.ActorRole {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(ctxRole).(enums.ActorRole)
	return v
}
