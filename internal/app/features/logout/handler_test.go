package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tdnguyen/phieutrinh/internal/app/features/logout"
	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *logout.Handler {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only!!", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return logout.NewHandler(sm, zap.NewNop())
}

func TestServeLogout_RedirectsToLogin(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()

	h.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestServeLogout_NoSession_StillSucceeds(t *testing.T) {
	h := newTestHandler(t)

	// No cookie at all; logout must stay idempotent.
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, httptest.NewRequest("GET", "/logout", nil))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected redirect, got %d", rec.Code)
	}
}

func TestServeLogout_HTMX(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/logout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	h.ServeLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for HTMX, got %d", rec.Code)
	}
	if loc := rec.Header().Get("HX-Redirect"); loc != "/login" {
		t.Errorf("expected HX-Redirect to /login, got %q", loc)
	}
}
