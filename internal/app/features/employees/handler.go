// internal/app/features/employees/handler.go
package employees

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	employeestore "github.com/rfields/staffdir/internal/app/store/employees"
	"github.com/rfields/staffdir/internal/app/system/uploads"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for the employee directory.
// It holds the DB handle, store, and image saver provided by Startup.
type Handler struct {
	DB        *mongo.Database
	Log       *zap.Logger
	Employees *employeestore.Store
	Images    *uploads.Saver
}

func NewHandler(db *mongo.Database, images *uploads.Saver, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		Employees: employeestore.New(db),
		Images:    images,
	}
}

// employeeID parses the {id} URL parameter. ok is false after a 400 has
// already been written.
func (h *Handler) employeeID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid employee id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
