package rbac

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avjabalpur/cian-erp-sub001/internal/shared"
)

type stubResolver struct {
	roles map[int64]RoleSet
	err   error
}

func (s stubResolver) EffectiveRoles(_ context.Context, userID int64) (RoleSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.roles[userID], nil
}

func requestAs(userID string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/sales-orders", nil)
	if userID == "" {
		return r
	}
	sess := &shared.Session{}
	sess.SetUser(userID)
	return r.WithContext(shared.ContextWithSession(r.Context(), sess))
}

func serveThrough(mw func(http.Handler) http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, r)
	return rec
}

func TestRequireAny(t *testing.T) {
	mw := Middleware{Service: stubResolver{roles: map[int64]RoleSet{
		1: NewRoleSet(RoleBusinessDevelopment),
		2: NewRoleSet(RoleCostingAdmin),
		3: NewRoleSet(RoleAdmin),
	}}}
	guard := mw.RequireAny(RoleBusinessDevelopment)

	require.Equal(t, http.StatusNoContent, serveThrough(guard, requestAs("1")).Code)
	require.Equal(t, http.StatusForbidden, serveThrough(guard, requestAs("2")).Code)

	// Admin passes every role gate.
	require.Equal(t, http.StatusNoContent, serveThrough(guard, requestAs("3")).Code)

	// No session at all.
	require.Equal(t, http.StatusForbidden, serveThrough(guard, requestAs("")).Code)

	// An empty requirement list gates nothing.
	open := mw.RequireAny()
	require.Equal(t, http.StatusNoContent, serveThrough(open, requestAs("")).Code)
}

func TestRequireAnyFailsClosedOnResolverError(t *testing.T) {
	mw := Middleware{Service: stubResolver{err: errors.New("store down")}}
	guard := mw.RequireAny(RoleBusinessDevelopment)
	require.Equal(t, http.StatusForbidden, serveThrough(guard, requestAs("1")).Code)
}

func TestRequireAuthenticated(t *testing.T) {
	mw := Middleware{Service: stubResolver{}}
	guard := mw.RequireAuthenticated()

	require.Equal(t, http.StatusNoContent, serveThrough(guard, requestAs("7")).Code)
	require.Equal(t, http.StatusUnauthorized, serveThrough(guard, requestAs("")).Code)
	require.Equal(t, http.StatusUnauthorized, serveThrough(guard, requestAs("not-a-number")).Code)
}
