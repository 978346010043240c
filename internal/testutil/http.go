package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rfields/staffdir/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithAdmin injects an admin identity into the request context, bypassing
// token verification.
func WithAdmin(r *http.Request, adminID string) *http.Request {
	return auth.WithTestAdmin(r, adminID)
}

// NewAdminRequest creates a request carrying a fresh admin identity.
func NewAdminRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithAdmin(req, primitive.NewObjectID().Hex())
}

// NewJSONRequest creates a request with the given value encoded as a JSON
// body and the Content-Type header set.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to encode request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeJSON decodes a response body into out, failing the test on error.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}
