package records

import (
	"github.com/go-chi/chi/v5"

	"github.com/avjabalpur/cian-erp-sub001/internal/rbac"
)

// MountRoutes registers the record workflow routes. Fine-grained decisions
// (per-field editability, stage roles, transitions) happen in the service;
// the route guards only keep anonymous and roleless users out.
func (h *Handler) MountRoutes(r chi.Router, mw rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuthenticated())

		r.Get("/sales-orders", h.List)
		// Only the BD desk raises new orders.
		r.With(mw.RequireAny(rbac.RoleBusinessDevelopment)).Post("/sales-orders", h.Create)
		r.Get("/sales-orders/{id}", h.Show)
		r.Get("/sales-orders/{id}/layout", h.Layout)
		r.Post("/sales-orders/{id}/save", h.Save)
		r.Get("/sales-orders/{id}/stages", h.StageStates)
		r.Post("/sales-orders/{id}/stages/{stage}/decision", h.Decide)
		r.Post("/sales-orders/{id}/stages/{stage}/reapproval", h.RequestReapproval)
		r.Post("/sales-orders/{id}/status", h.ChangeStatus)
		r.Get("/sales-orders/{id}/comments", h.Comments)
		r.Get("/sales-orders/{id}/transactions", h.SaveTransactions)
		r.Get("/sales-orders/{id}/timeline", h.Timeline)
	})
}
