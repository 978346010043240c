package employees_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rfields/staffdir/internal/app/features/employees"
	"github.com/rfields/staffdir/internal/app/system/limits"
	"github.com/rfields/staffdir/internal/app/system/uploads"
	"github.com/rfields/staffdir/internal/domain/models"
	"github.com/rfields/staffdir/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func newHandler(t *testing.T) (*employees.Handler, *testutil.Fixtures, string) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	dir := t.TempDir()
	saver, err := uploads.NewSaver(dir, "/uploads", limits.MaxImageUploadSize, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSaver failed: %v", err)
	}
	return employees.NewHandler(db, saver, zap.NewNop()), testutil.NewFixtures(t, db), dir
}

// multipartRequest builds a multipart form request with the given text
// fields and optional image file content.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, image []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %q: %v", k, err)
		}
	}
	if image != nil {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
		hdr.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create image part: %v", err)
		}
		if _, err := part.Write(image); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithAdmin(req, "test-admin")
}

func validForm() map[string]string {
	return map[string]string{
		"name":        "Ada Lovelace",
		"email":       "ada@example.com",
		"mobile":      "5551234567",
		"designation": "Manager",
		"gender":      "Female",
		"course":      "MCA",
	}
}

func TestHandleCreate(t *testing.T) {
	h, _, _ := newHandler(t)

	req := multipartRequest(t, http.MethodPost, "/employees", validForm(), nil)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var created models.Employee
	testutil.DecodeJSON(t, rec, &created)
	if created.ID.IsZero() {
		t.Error("expected an assigned id")
	}
	if created.Name != "Ada Lovelace" {
		t.Errorf("name: got %q", created.Name)
	}
	if created.Image != "" {
		t.Errorf("expected no image, got %q", created.Image)
	}
}

func TestHandleCreate_WithImage(t *testing.T) {
	h, _, dir := newHandler(t)

	image := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	req := multipartRequest(t, http.MethodPost, "/employees", validForm(), image)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var created models.Employee
	testutil.DecodeJSON(t, rec, &created)
	if !strings.HasPrefix(created.Image, "/uploads/") {
		t.Errorf("image: got %q, want /uploads/... path", created.Image)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("expected one stored file, got %d", len(files))
	}
}

func TestHandleCreate_MissingFields(t *testing.T) {
	h, _, _ := newHandler(t)

	form := validForm()
	delete(form, "mobile")
	delete(form, "course")

	req := multipartRequest(t, http.MethodPost, "/employees", form, nil)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp struct {
		Fields []string `json:"fields"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Fields) != 2 {
		t.Errorf("expected both missing fields reported, got %v", resp.Fields)
	}
}

func TestHandleCreate_WhitespaceOnlyName(t *testing.T) {
	h, _, _ := newHandler(t)

	form := validForm()
	form["name"] = "   "

	req := multipartRequest(t, http.MethodPost, "/employees", form, nil)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp struct {
		Fields []string `json:"fields"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Fields) != 1 || resp.Fields[0] != "name" {
		t.Errorf("expected name reported missing, got %v", resp.Fields)
	}
}

func TestHandleCreate_BadGender(t *testing.T) {
	h, _, _ := newHandler(t)

	form := validForm()
	form["gender"] = "unknown"

	req := multipartRequest(t, http.MethodPost, "/employees", form, nil)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleCreate_DuplicateEmail(t *testing.T) {
	h, fixtures, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateEmployee(ctx, "Existing", "ada@example.com")

	req := multipartRequest(t, http.MethodPost, "/employees", validForm(), nil)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleCreate_RejectedImageLeavesNoRecord(t *testing.T) {
	h, _, dir := newHandler(t)

	// Declared PNG but plain-text content fails the sniff check.
	req := multipartRequest(t, http.MethodPost, "/employees", validForm(), []byte("not an image"))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "*"))
	if len(files) != 0 {
		t.Errorf("expected no stored files, got %d", len(files))
	}

	listReq := testutil.NewAdminRequest(http.MethodGet, "/employees")
	listRec := httptest.NewRecorder()
	h.HandleList(listRec, listReq)

	var list []models.Employee
	testutil.DecodeJSON(t, listRec, &list)
	if len(list) != 0 {
		t.Errorf("expected no employees, got %d", len(list))
	}
}

func TestHandleList(t *testing.T) {
	h, fixtures, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateEmployee(ctx, "One", "one@example.com")
	fixtures.CreateEmployee(ctx, "Two", "two@example.com")

	req := testutil.NewAdminRequest(http.MethodGet, "/employees")
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var list []models.Employee
	testutil.DecodeJSON(t, rec, &list)
	if len(list) != 2 {
		t.Errorf("expected 2 employees, got %d", len(list))
	}
}

func TestHandleList_EmptyIsArray(t *testing.T) {
	h, _, _ := newHandler(t)

	req := testutil.NewAdminRequest(http.MethodGet, "/employees")
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected [] body, got %q", rec.Body.String())
	}
}

func TestHandleList_DatabaseDown(t *testing.T) {
	// A port nothing listens on; the driver fails at operation time with
	// a server selection timeout, which must surface as 503.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:59999").
		SetServerSelectionTimeout(500*time.Millisecond))
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	saver, err := uploads.NewSaver(t.TempDir(), "/uploads", limits.MaxImageUploadSize, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSaver failed: %v", err)
	}
	h := employees.NewHandler(client.Database("staffdir_unreachable"), saver, zap.NewNop())

	req := testutil.NewAdminRequest(http.MethodGet, "/employees")
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want %d (body: %s)", rec.Code, http.StatusServiceUnavailable, rec.Body.String())
	}
}

func TestHandleGet(t *testing.T) {
	h, fixtures, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := fixtures.CreateEmployee(ctx, "Ada", "ada@example.com")

	req := testutil.NewAdminRequest(http.MethodGet, "/employees/"+emp.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", emp.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var got models.Employee
	testutil.DecodeJSON(t, rec, &got)
	if got.ID != emp.ID {
		t.Errorf("id: got %v, want %v", got.ID, emp.ID)
	}
}

func TestHandleGet_BadID(t *testing.T) {
	h, _, _ := newHandler(t)

	req := testutil.NewAdminRequest(http.MethodGet, "/employees/nonsense")
	req = testutil.WithChiURLParam(req, "id", "nonsense")
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	h, _, _ := newHandler(t)

	id := "64dbf3a27c4e88a1e9c00000"
	req := testutil.NewAdminRequest(http.MethodGet, "/employees/"+id)
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleUpdate_Partial(t *testing.T) {
	h, fixtures, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := fixtures.CreateEmployee(ctx, "Ada", "ada@example.com")

	req := multipartRequest(t, http.MethodPut, "/employees/"+emp.ID.Hex(),
		map[string]string{"designation": "Director"}, nil)
	req = testutil.WithChiURLParam(req, "id", emp.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got models.Employee
	testutil.DecodeJSON(t, rec, &got)
	if got.Designation != "Director" {
		t.Errorf("designation: got %q, want %q", got.Designation, "Director")
	}
	if got.Name != "Ada" {
		t.Errorf("name changed unexpectedly: got %q", got.Name)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("email changed unexpectedly: got %q", got.Email)
	}
}

func TestHandleUpdate_ReplacesImage(t *testing.T) {
	h, fixtures, dir := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := fixtures.CreateEmployee(ctx, "Ada", "ada@example.com")

	image := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	req := multipartRequest(t, http.MethodPut, "/employees/"+emp.ID.Hex(), nil, image)
	req = testutil.WithChiURLParam(req, "id", emp.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got models.Employee
	testutil.DecodeJSON(t, rec, &got)
	if !strings.HasPrefix(got.Image, "/uploads/") {
		t.Errorf("image: got %q, want /uploads/... path", got.Image)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "*"))
	if len(files) != 1 {
		t.Errorf("expected one stored file, got %d", len(files))
	}
}

func TestHandleUpdate_NotFound(t *testing.T) {
	h, _, _ := newHandler(t)

	id := "64dbf3a27c4e88a1e9c00000"
	req := multipartRequest(t, http.MethodPut, "/employees/"+id,
		map[string]string{"designation": "Director"}, nil)
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleDelete(t *testing.T) {
	h, fixtures, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := fixtures.CreateEmployee(ctx, "Ada", "ada@example.com")

	req := testutil.NewAdminRequest(http.MethodDelete, "/employees/"+emp.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", emp.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Message != "employee deleted" {
		t.Errorf("message: got %q, want %q", resp.Message, "employee deleted")
	}

	// The record is gone.
	getReq := testutil.NewAdminRequest(http.MethodGet, "/employees/"+emp.ID.Hex())
	getReq = testutil.WithChiURLParam(getReq, "id", emp.ID.Hex())
	getRec := httptest.NewRecorder()
	h.HandleGet(getRec, getReq)
	if getRec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", getRec.Code)
	}
}

func TestHandleDelete_RemovesImage(t *testing.T) {
	h, _, dir := newHandler(t)

	image := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	createReq := multipartRequest(t, http.MethodPost, "/employees", validForm(), image)
	createRec := httptest.NewRecorder()
	h.HandleCreate(createRec, createReq)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d (%s)", createRec.Code, createRec.Body.String())
	}

	var created models.Employee
	testutil.DecodeJSON(t, createRec, &created)

	req := testutil.NewAdminRequest(http.MethodDelete, "/employees/"+created.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", created.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "*"))
	if len(files) != 0 {
		t.Errorf("expected photo removed with the record, got %d files", len(files))
	}
}

func TestHandleDelete_NotFound(t *testing.T) {
	h, _, _ := newHandler(t)

	id := "64dbf3a27c4e88a1e9c00000"
	req := testutil.NewAdminRequest(http.MethodDelete, "/employees/"+id)
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}
