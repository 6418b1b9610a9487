// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Register attaches the user-management routes to an admin router. The
// caller applies the sign-in and admin-role middleware.
func Register(r chi.Router, h *Handler) {
	r.Get("/users", h.ServeList)
	r.Get("/user/add", h.ServeAddForm)
	r.Post("/user/add", h.HandleAdd)
	r.Get("/user/edit/{id}", h.ServeEditForm)
	r.Post("/user/edit/{id}", h.HandleEdit)
	r.Post("/user/delete/{id}", h.HandleDelete)
}
