// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"

	adminstore "github.com/rfields/staffdir/internal/app/store/admins"
	"github.com/rfields/staffdir/internal/app/system/auth"
	"github.com/rfields/staffdir/internal/app/system/authutil"
	"github.com/rfields/staffdir/internal/app/system/httperr"
	"github.com/rfields/staffdir/internal/app/system/limits"
	"github.com/rfields/staffdir/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler authenticates admins and mints bearer tokens.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Tokens *auth.TokenManager
	Admins *adminstore.Store
}

func NewHandler(db *mongo.Database, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		Tokens: tokens,
		Admins: adminstore.New(db),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// badCredentials is deliberately identical for an unknown email and a
// wrong password so the endpoint does not leak which emails exist.
const badCredentials = "invalid email or password"

// HandleLogin handles POST /login.
//
// On success: 200 and {"message":"login successful","token":"..."}.
// Bad credentials of either kind: 401 with the same message.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	body := http.MaxBytesReader(w, r.Body, limits.MaxLoginBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		httperr.BadRequest(w, "invalid request body")
		return
	}

	var missing []string
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		httperr.Write(w, h.Log, httperr.NewValidation(missing...))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	admin, err := h.Admins.GetByEmail(ctx, req.Email)
	switch err {
	case nil:
		// found, continue
	case mongo.ErrNoDocuments:
		h.Log.Info("login rejected", zap.String("reason", "unknown email"))
		httperr.Unauthorized(w, badCredentials)
		return
	default:
		h.Log.Error("login: admin lookup failed", zap.Error(err))
		httperr.Write(w, h.Log, err)
		return
	}

	if !authutil.CheckPassword(req.Password, admin.PasswordHash) {
		h.Log.Info("login rejected",
			zap.String("reason", "wrong password"),
			zap.String("admin_id", admin.ID.Hex()))
		httperr.Unauthorized(w, badCredentials)
		return
	}

	token, err := h.Tokens.Issue(admin.ID.Hex())
	if err != nil {
		h.Log.Error("login: token issue failed", zap.Error(err))
		httperr.Write(w, h.Log, err)
		return
	}

	h.Log.Info("admin logged in", zap.String("admin_id", admin.ID.Hex()))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{
		Message: "login successful",
		Token:   token,
	})
}
