package options

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avjabalpur/cian-erp-sub001/internal/platform/httpx"
	"github.com/avjabalpur/cian-erp-sub001/internal/rbac"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router, mw rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuthenticated())
		r.Get("/field-options", h.list)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	refetch, _ := strconv.ParseBool(r.URL.Query().Get("refetch"))

	opts, err := h.service.Options(r.Context(), refetch)
	if err != nil {
		h.logger.Error("list field options", slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrUpstream)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"options": opts})
}
