package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/avjabalpur/cian-erp-sub001/internal/shared"
)

// RoleResolver yields the roles held by a user. *Service satisfies it.
type RoleResolver interface {
	EffectiveRoles(ctx context.Context, userID int64) (RoleSet, error)
}

// Middleware wires role-based authorization helpers for HTTP handlers.
type Middleware struct {
	Service RoleResolver
	Logger  *slog.Logger
}

// RequireAny ensures the current user holds at least one of the given roles.
// Admin always passes.
func (m Middleware) RequireAny(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(roles) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			held, ok := m.currentRoles(r)
			if !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			if held.IsAdmin() || held.HasAny(roles...) {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// RequireAuthenticated ensures a logged-in session without checking roles.
func (m Middleware) RequireAuthenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := m.currentUserID(r); !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) currentRoles(r *http.Request) (RoleSet, bool) {
	userID, ok := m.currentUserID(r)
	if !ok {
		return nil, false
	}
	held, err := m.Service.EffectiveRoles(r.Context(), userID)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("rbac: resolve roles", slog.Any("error", err))
		}
		return nil, false
	}
	return held, true
}

func (m Middleware) currentUserID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("rbac: parse user id", slog.String("value", raw))
		}
		return 0, false
	}
	return id, true
}
