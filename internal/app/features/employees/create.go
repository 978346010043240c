// internal/app/features/employees/create.go
package employees

import (
	"context"
	"mime/multipart"
	"net/http"

	employeestore "github.com/rfields/staffdir/internal/app/store/employees"
	"github.com/rfields/staffdir/internal/app/system/httperr"
	"github.com/rfields/staffdir/internal/app/system/limits"
	"github.com/rfields/staffdir/internal/app/system/normalize"
	"github.com/rfields/staffdir/internal/app/system/timeouts"
	"github.com/rfields/staffdir/internal/domain/models"
	"go.uber.org/zap"
)

// requiredFields are the multipart form fields every create must carry.
var requiredFields = []string{"name", "email", "mobile", "designation", "gender", "course"}

// HandleCreate handles POST /employees (multipart form).
//
// All six profile fields are required; the photo is optional. The
// response is 201 with the stored employee, including the image URL when
// one was uploaded.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(limits.MaxMultipartMemory); err != nil {
		httperr.BadRequest(w, "invalid multipart form")
		return
	}

	var missing []string
	for _, f := range requiredFields {
		// Trim before checking so whitespace-only values count as absent.
		if normalize.Name(r.FormValue(f)) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		httperr.Write(w, h.Log, httperr.NewValidation(missing...))
		return
	}

	image, err := h.saveImageIfPresent(r)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	created, err := h.Employees.Create(ctx, models.Employee{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		Mobile:      r.FormValue("mobile"),
		Designation: r.FormValue("designation"),
		Gender:      r.FormValue("gender"),
		Course:      r.FormValue("course"),
		Image:       image,
	})
	if err != nil {
		// The record never landed, so the stored photo is an orphan.
		if image != "" {
			if rmErr := h.Images.Remove(image); rmErr != nil {
				h.Log.Warn("failed to remove orphaned image",
					zap.String("image", image), zap.Error(rmErr))
			}
		}
		h.writeStoreError(w, err)
		return
	}

	h.Log.Info("employee created",
		zap.String("employee_id", created.ID.Hex()),
		zap.String("email", created.Email))

	writeJSON(w, http.StatusCreated, created)
}

// saveImageIfPresent stores the optional "image" file part and returns
// its relative URL, or "" when the request carries no photo.
func (h *Handler) saveImageIfPresent(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return "", nil
	}
	return h.saveImage(files[0])
}

func (h *Handler) saveImage(fh *multipart.FileHeader) (string, error) {
	rel, err := h.Images.SaveImage(fh)
	if err != nil {
		h.Log.Warn("image upload rejected", zap.Error(err))
		return "", err
	}
	return rel, nil
}

// writeStoreError maps store failures onto the API error contract.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch err {
	case employeestore.ErrBadGender:
		httperr.Write(w, h.Log, &httperr.ValidationError{Fields: []string{"gender"}, Msg: err.Error()})
	case employeestore.ErrDuplicateEmail:
		httperr.Write(w, h.Log, &httperr.ValidationError{Fields: []string{"email"}, Msg: err.Error()})
	default:
		h.Log.Error("employee store operation failed", zap.Error(err))
		httperr.Write(w, h.Log, err)
	}
}
