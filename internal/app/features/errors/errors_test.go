package errors_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/outpost-labs/campsites/internal/app/features/errors"
)

func TestMethodNotSupported(t *testing.T) {
	req := httptest.NewRequest("PUT", "/campsites", nil)
	rec := httptest.NewRecorder()

	uierrors.MethodNotSupported(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if got, want := rec.Body.String(), "PUT operation not supported on /campsites"; got != want {
		t.Errorf("body: got %q, want %q", got, want)
	}
}

func TestRenderNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	uierrors.RenderNotFound(rec, "Campsite 123 not found")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != 404 || body.Message != "Campsite 123 not found" {
		t.Errorf("body: got %+v", body)
	}
}

func TestRenderUnauthorized_SetsChallenge(t *testing.T) {
	rec := httptest.NewRecorder()
	uierrors.RenderUnauthorized(rec, "Bearer", "you are not authenticated")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Errorf("WWW-Authenticate: got %q, want %q", got, "Bearer")
	}
}

func TestErrorLogger_DetailGating(t *testing.T) {
	req := httptest.NewRequest("GET", "/campsites", nil)

	withDetail := uierrors.NewErrorLogger(zap.NewNop(), true)
	rec := httptest.NewRecorder()
	withDetail.Internal(rec, req, "listing campsites failed", errTest)

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Detail != errTest.Error() {
		t.Errorf("detail with includeDetail: got %q, want %q", body.Detail, errTest.Error())
	}

	withoutDetail := uierrors.NewErrorLogger(zap.NewNop(), false)
	rec = httptest.NewRecorder()
	withoutDetail.Internal(rec, req, "listing campsites failed", errTest)

	body.Detail = ""
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Detail != "" {
		t.Errorf("detail without includeDetail: got %q, want empty", body.Detail)
	}
}

var errTest = errors.New("connection reset")
