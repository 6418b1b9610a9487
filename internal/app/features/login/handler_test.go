package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/tdnguyen/phieutrinh/internal/app/features/errors"
	"github.com/tdnguyen/phieutrinh/internal/app/features/login"
	loginstore "github.com/tdnguyen/phieutrinh/internal/app/store/logins"
	userstore "github.com/tdnguyen/phieutrinh/internal/app/store/users"
	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"github.com/tdnguyen/phieutrinh/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*login.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only!!", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	errLog := uierrors.NewErrorLogger(logger, sessionMgr)

	return login.NewHandler(db, sessionMgr, errLog, logger), db
}

func loginForm(username, password string) *http.Request {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	return req
}

func TestHandleLogin_Success(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := userstore.New(db).Create(ctx, "alice", "correct-horse", models.RoleRegular, nil, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginForm("alice", "correct-horse"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to default view, got %q", loc)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie to be set")
	}

	recs, err := loginstore.New(db).RecentForUsername(ctx, "alice", 5)
	if err != nil {
		t.Fatalf("RecentForUsername failed: %v", err)
	}
	if len(recs) != 1 || !recs[0].Success {
		t.Errorf("expected one successful login record, got %+v", recs)
	}
}

func TestHandleLogin_TrimsUsername(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := userstore.New(db).Create(ctx, "alice", "correct-horse", models.RoleRegular, nil, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginForm("  alice  ", "correct-horse"))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected padded username to authenticate after trimming, got %d", rec.Code)
	}
}

func TestHandleLogin_WrongPassword_RecordsFailure(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := userstore.New(db).Create(ctx, "alice", "correct-horse", models.RoleRegular, nil, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rec := httptest.NewRecorder()

	// The failure path re-renders the form; without a booted template
	// engine that render may panic, which is fine for this test. The
	// audit record is written before the render.
	func() {
		defer func() { recover() }()
		h.HandleLogin(rec, loginForm("alice", "wrong-password"))
	}()

	recs, err := loginstore.New(db).RecentForUsername(ctx, "alice", 5)
	if err != nil {
		t.Fatalf("RecentForUsername failed: %v", err)
	}
	if len(recs) != 1 || recs[0].Success {
		t.Errorf("expected one failed login record, got %+v", recs)
	}
	if recs[0].UserID != nil {
		t.Error("expected no resolved user on a failed attempt")
	}
}
