package collab

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/avjabalpur/cian-erp-sub001/internal/platform/httpx"
	"github.com/avjabalpur/cian-erp-sub001/internal/rbac"
	"github.com/avjabalpur/cian-erp-sub001/internal/shared"
)

// Handler wires chat and document endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers collab routes.
func (h *Handler) MountRoutes(r chi.Router, mw rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuthenticated())
		r.Get("/sales-orders/{id}/chat", h.ListMessages)
		r.Post("/sales-orders/{id}/chat", h.PostMessage)
		r.Get("/sales-orders/{id}/documents", h.ListDocuments)
		r.Post("/sales-orders/{id}/documents", h.AttachDocument)
	})
}

type postMessageRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}

type attachDocumentRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"max=100"`
	SizeBytes   int64  `json:"size_bytes" validate:"gte=0"`
}

func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	recordID, actor, ok := h.params(w, r)
	if !ok {
		return
	}
	var req postMessageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	id, err := h.service.PostMessage(r.Context(), recordID, actor, req.Body)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	recordID, _, ok := h.params(w, r)
	if !ok {
		return
	}
	messages, err := h.service.Messages(r.Context(), recordID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *Handler) AttachDocument(w http.ResponseWriter, r *http.Request) {
	recordID, actor, ok := h.params(w, r)
	if !ok {
		return
	}
	var req attachDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	id, err := h.service.AttachDocument(r.Context(), DocumentEvent{
		RecordID:    recordID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		UploadedBy:  actor,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	recordID, _, ok := h.params(w, r)
	if !ok {
		return
	}
	docs, err := h.service.Documents(r.Context(), recordID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *Handler) params(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	recordID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || recordID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid record id")
		return 0, 0, false
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || strings.TrimSpace(sess.User()) == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return 0, 0, false
	}
	actor, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return 0, 0, false
	}
	return recordID, actor, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrEmptyMessage) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	h.logger.Error("collab request failed", slog.Any("error", err))
	httpx.RespondError(w, httpx.ErrUpstream)
}
