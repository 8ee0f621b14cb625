package ui

import (
	"context"
	"net/http"
	"strings"

	"dealscope/domain/core"
)

// Authentication proper lives outside this service. The boundary contract
// is the X-Owner-ID header set by the fronting layer; a missing header
// means no authenticated owner and the pipeline rejects before any work.

type contextKey string

const ownerContextKey contextKey = "owner_id"

// ownerContext lifts the owner header into the request context.
func ownerContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := strings.TrimSpace(r.Header.Get("X-Owner-ID"))
		ctx := context.WithValue(r.Context(), ownerContextKey, core.OwnerID(ownerID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ownerFromContext returns the request's owner, empty when unauthenticated.
func ownerFromContext(ctx context.Context) core.OwnerID {
	if id, ok := ctx.Value(ownerContextKey).(core.OwnerID); ok {
		return id
	}
	return ""
}
