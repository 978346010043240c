// internal/app/features/employees/list.go
package employees

import (
	"context"
	"net/http"

	"github.com/rfields/staffdir/internal/app/system/httperr"
	"github.com/rfields/staffdir/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleList handles GET /employees.
// Returns all employees newest-first; an empty directory is [] not null.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Employees.List(ctx)
	if err != nil {
		h.Log.Error("employee list failed", zap.Error(err))
		httperr.Write(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}
