// internal/app/features/employees/routes.go
package employees

import "github.com/go-chi/chi/v5"

// Routes mounts the employee CRUD routes. The caller wraps the mount in
// auth.RequireAdmin, so every route here assumes a verified admin.
// Typically: r.Mount("/employees", employees.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)

	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
