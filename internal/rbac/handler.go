package rbac

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avjabalpur/cian-erp-sub001/internal/platform/httpx"
)

// Handler exposes role administration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers role administration routes. Admin only.
func (h *Handler) MountRoutes(r chi.Router, mw Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAny(RoleAdmin))
		r.Get("/users/{id}/roles", h.ListRoles)
		r.Post("/users/{id}/roles", h.GrantRole)
		r.Delete("/users/{id}/roles/{role}", h.RevokeRole)
	})
}

type grantRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}
	held, err := h.service.EffectiveRoles(r.Context(), userID)
	if err != nil {
		h.logger.Error("list roles", slog.Int64("user_id", userID), slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrUpstream)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": held.Roles()})
}

func (h *Handler) GrantRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}
	var req grantRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	role := Role(req.Role)
	if !role.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown role "+strconv.Quote(req.Role))
		return
	}
	if err := h.service.Grant(r.Context(), userID, role); err != nil {
		h.logger.Error("grant role", slog.Int64("user_id", userID), slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrUpstream)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user_id": userID, "role": role})
}

func (h *Handler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}
	role := Role(chi.URLParam(r, "role"))
	if !role.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown role "+strconv.Quote(string(role)))
		return
	}
	if err := h.service.Revoke(r.Context(), userID, role); err != nil {
		h.logger.Error("revoke role", slog.Int64("user_id", userID), slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrUpstream)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) userParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || userID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid user id")
		return 0, false
	}
	return userID, true
}
