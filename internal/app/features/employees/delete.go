// internal/app/features/employees/delete.go
package employees

import (
	"context"
	"net/http"

	"github.com/rfields/staffdir/internal/app/system/httperr"
	"github.com/rfields/staffdir/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /employees/{id}.
// Responds 200 with an acknowledgement; deleting an unknown id is a 404.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Load first so the photo can be removed after the record is gone.
	emp, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httperr.NotFound(w, "employee")
			return
		}
		h.Log.Error("employee lookup failed", zap.Error(err))
		httperr.Write(w, h.Log, err)
		return
	}

	count, err := h.Employees.Delete(ctx, id)
	if err != nil {
		h.Log.Error("employee delete failed", zap.Error(err))
		httperr.Write(w, h.Log, err)
		return
	}
	if count == 0 {
		// Lost a race with another delete.
		httperr.NotFound(w, "employee")
		return
	}

	if emp.Image != "" {
		if rmErr := h.Images.Remove(emp.Image); rmErr != nil {
			h.Log.Warn("failed to remove deleted employee's image",
				zap.String("image", emp.Image), zap.Error(rmErr))
		}
	}

	h.Log.Info("employee deleted", zap.String("employee_id", id.Hex()))

	writeJSON(w, http.StatusOK, map[string]string{"message": "employee deleted"})
}
