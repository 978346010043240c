// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the login endpoint.
// Typically: r.Mount("/login", login.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLogin)
	return r
}
