package organizations_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/tdnguyen/phieutrinh/internal/app/features/errors"
	"github.com/tdnguyen/phieutrinh/internal/app/features/organizations"
	orgstore "github.com/tdnguyen/phieutrinh/internal/app/store/organizations"
	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
	"github.com/tdnguyen/phieutrinh/internal/app/system/indexes"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"github.com/tdnguyen/phieutrinh/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*organizations.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, logger); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only!!", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	errLog := uierrors.NewErrorLogger(logger, sessionMgr)

	return organizations.NewHandler(db.Client(), db, sessionMgr, errLog, logger), testutil.NewFixtures(t, db), db
}

func actionForm(form url.Values) *http.Request {
	req := httptest.NewRequest("POST", "/admin/organizations", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	return testutil.WithUser(req, testutil.AdminUser())
}

func TestHandleAction_Add(t *testing.T) {
	h, _, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{}
	form.Set("action", "add")
	form.Set("name", "Engineering")

	rec := httptest.NewRecorder()
	h.HandleAction(rec, actionForm(form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/organizations" {
		t.Errorf("expected redirect back to management page, got %q", loc)
	}

	orgs, err := orgstore.New(db).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(orgs) != 1 || orgs[0].Name != "Engineering" {
		t.Errorf("unexpected organizations: %+v", orgs)
	}
}

func TestHandleAction_Add_DuplicateName(t *testing.T) {
	h, f, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateOrganization(ctx, "Engineering")

	form := url.Values{}
	form.Set("action", "add")
	form.Set("name", "engineering")

	rec := httptest.NewRecorder()
	h.HandleAction(rec, actionForm(form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}

	orgs, err := orgstore.New(db).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(orgs) != 1 {
		t.Errorf("expected duplicate to be refused, got %d organizations", len(orgs))
	}
}

func TestHandleAction_Add_EmptyName(t *testing.T) {
	h, _, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{}
	form.Set("action", "add")
	form.Set("name", "   ")

	rec := httptest.NewRecorder()
	h.HandleAction(rec, actionForm(form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	orgs, err := orgstore.New(db).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(orgs) != 0 {
		t.Errorf("expected nothing created for a blank name, got %d", len(orgs))
	}
}

func TestHandleAction_Edit(t *testing.T) {
	h, f, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := f.CreateOrganization(ctx, "Engineering")

	form := url.Values{}
	form.Set("action", "edit")
	form.Set("id", org.ID.Hex())
	form.Set("name", "Platform Engineering")

	rec := httptest.NewRecorder()
	h.HandleAction(rec, actionForm(form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	got, err := orgstore.New(db).GetByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Platform Engineering" {
		t.Errorf("expected rename to apply, got %q", got.Name)
	}
}

func TestHandleAction_Delete(t *testing.T) {
	h, f, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := f.CreateOrganization(ctx, "Engineering")

	form := url.Values{}
	form.Set("action", "delete")
	form.Set("id", org.ID.Hex())

	rec := httptest.NewRecorder()
	h.HandleAction(rec, actionForm(form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if _, err := orgstore.New(db).GetByID(ctx, org.ID); err == nil {
		t.Error("expected organization to be deleted")
	}
}

func TestHandleAction_Delete_InUse(t *testing.T) {
	h, f, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := f.CreateOrganization(ctx, "Engineering")
	f.CreateUser(ctx, "bob", models.RoleRegular, &org.ID)

	form := url.Values{}
	form.Set("action", "delete")
	form.Set("id", org.ID.Hex())

	rec := httptest.NewRecorder()
	h.HandleAction(rec, actionForm(form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if _, err := orgstore.New(db).GetByID(ctx, org.ID); err != nil {
		t.Errorf("expected organization to survive, got %v", err)
	}
}

func TestHandleAction_UnknownAction(t *testing.T) {
	h, _, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{}
	form.Set("action", "promote")
	form.Set("name", "Engineering")

	rec := httptest.NewRecorder()
	h.HandleAction(rec, actionForm(form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	orgs, err := orgstore.New(db).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(orgs) != 0 {
		t.Errorf("expected no writes for an unknown action, got %d organizations", len(orgs))
	}
}
