// internal/app/features/organizations/routes.go
package organizations

import "github.com/go-chi/chi/v5"

// Register attaches the organization-management routes to an admin
// router. The caller applies the sign-in and admin-role middleware.
func Register(r chi.Router, h *Handler) {
	r.Get("/organizations", h.ServeList)
	r.Post("/organizations", h.HandleAction)
}
