// internal/app/features/submissions/routes.go
package submissions

import "github.com/go-chi/chi/v5"

// Routes returns the submission subrouter, mounted at the site root.
// Every route requires a signed-in user; the listing is the app's
// default view.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.SessionMgr.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/tao-phieu-trinh", h.ServeNewForm)
	r.Post("/tao-phieu-trinh", h.HandleCreate)
	r.Get("/phieu-trinh/{id}", h.ServeDetail)
	r.Post("/phieu-trinh/{id}/{action}", h.HandleAction)

	return r
}
