// internal/app/features/employees/viewedit.go
package employees

import (
	"context"
	"net/http"

	employeestore "github.com/rfields/staffdir/internal/app/store/employees"
	"github.com/rfields/staffdir/internal/app/system/httperr"
	"github.com/rfields/staffdir/internal/app/system/limits"
	"github.com/rfields/staffdir/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleGet handles GET /employees/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

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

	writeJSON(w, http.StatusOK, emp)
}

// HandleUpdate handles PUT /employees/{id} (multipart form).
//
// Only fields present in the form are changed; an omitted field keeps
// its stored value. Uploading a new photo replaces the old file on disk.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(limits.MaxMultipartMemory); err != nil {
		httperr.BadRequest(w, "invalid multipart form")
		return
	}

	upd := employeestore.Update{
		Name:        formField(r, "name"),
		Email:       formField(r, "email"),
		Mobile:      formField(r, "mobile"),
		Designation: formField(r, "designation"),
		Gender:      formField(r, "gender"),
		Course:      formField(r, "course"),
	}

	newImage, err := h.saveImageIfPresent(r)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}
	if newImage != "" {
		upd.Image = &newImage
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// Fetch the current record so a replaced photo can be cleaned up.
	prev, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		if newImage != "" {
			_ = h.Images.Remove(newImage)
		}
		if err == mongo.ErrNoDocuments {
			httperr.NotFound(w, "employee")
			return
		}
		h.Log.Error("employee lookup failed", zap.Error(err))
		httperr.Write(w, h.Log, err)
		return
	}

	updated, err := h.Employees.Apply(ctx, id, upd)
	if err != nil {
		if newImage != "" {
			_ = h.Images.Remove(newImage)
		}
		if err == mongo.ErrNoDocuments {
			httperr.NotFound(w, "employee")
			return
		}
		h.writeStoreError(w, err)
		return
	}

	if newImage != "" && prev.Image != "" && prev.Image != newImage {
		if rmErr := h.Images.Remove(prev.Image); rmErr != nil {
			h.Log.Warn("failed to remove replaced image",
				zap.String("image", prev.Image), zap.Error(rmErr))
		}
	}

	h.Log.Info("employee updated", zap.String("employee_id", id.Hex()))

	writeJSON(w, http.StatusOK, updated)
}

// formField returns a pointer to the field's value when the form carried
// it, or nil when it was omitted entirely.
func formField(r *http.Request, name string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	vals, ok := r.MultipartForm.Value[name]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}
