package authz_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
	"github.com/tdnguyen/phieutrinh/internal/app/system/authz"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func pendingSubmission(orgID primitive.ObjectID) models.Submission {
	return models.Submission{
		ID:             primitive.NewObjectID(),
		Content:        "Buy monitors",
		Status:         models.StatusPending,
		OrganizationID: orgID,
		CreatedByID:    primitive.NewObjectID(),
		CreatedAt:      time.Now().UTC(),
	}
}

func approver(orgID primitive.ObjectID) *auth.SessionUser {
	return &auth.SessionUser{
		ID:             primitive.NewObjectID().Hex(),
		Username:       "bob",
		Role:           models.RoleApprover,
		OrganizationID: orgID.Hex(),
	}
}

func TestCanApprove_ApproverSameOrgPending(t *testing.T) {
	orgID := primitive.NewObjectID()
	if !authz.CanApprove(approver(orgID), pendingSubmission(orgID)) {
		t.Error("expected approver in same org to be allowed on a pending submission")
	}
}

func TestCanApprove_WrongRole(t *testing.T) {
	orgID := primitive.NewObjectID()
	u := approver(orgID)
	u.Role = models.RoleRegular
	if authz.CanApprove(u, pendingSubmission(orgID)) {
		t.Error("expected ordinary user to be refused")
	}

	u.Role = models.RoleAdmin
	if authz.CanApprove(u, pendingSubmission(orgID)) {
		t.Error("expected admin to be refused; approval is an approver-only action")
	}
}

func TestCanApprove_DifferentOrganization(t *testing.T) {
	u := approver(primitive.NewObjectID())
	sub := pendingSubmission(primitive.NewObjectID())
	if authz.CanApprove(u, sub) {
		t.Error("expected approver from a different org to be refused")
	}
}

func TestCanApprove_OrglessApprover(t *testing.T) {
	u := approver(primitive.NewObjectID())
	u.OrganizationID = ""
	if authz.CanApprove(u, pendingSubmission(primitive.NewObjectID())) {
		t.Error("expected org-less approver to be refused")
	}
}

func TestCanApprove_AlreadyDecided(t *testing.T) {
	orgID := primitive.NewObjectID()
	sub := pendingSubmission(orgID)
	sub.Status = models.StatusApproved
	if authz.CanApprove(approver(orgID), sub) {
		t.Error("expected decided submission to be refused")
	}

	sub.Status = models.StatusRejected
	if authz.CanApprove(approver(orgID), sub) {
		t.Error("expected rejected submission to be refused")
	}
}

func TestCanApprove_NilUser(t *testing.T) {
	if authz.CanApprove(nil, pendingSubmission(primitive.NewObjectID())) {
		t.Error("expected nil user to be refused")
	}
}

func TestCanApprove_RoleCaseInsensitive(t *testing.T) {
	orgID := primitive.NewObjectID()
	u := approver(orgID)
	u.Role = "PHE_DUYET"
	if !authz.CanApprove(u, pendingSubmission(orgID)) {
		t.Error("expected uppercase role spelling to still be allowed")
	}
}

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, _, _, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false for an unauthenticated request")
	}
}

func TestUserCtx_MalformedID_FailsClosed(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "not-a-hex-id", Role: "admin"})
	_, _, _, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false for a malformed session user ID")
	}
}

func TestUserCtx_ValidUser(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:       id.Hex(),
		Username: "alice",
		Role:     "Admin",
	})

	role, username, userID, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "admin" {
		t.Errorf("expected lowercased role, got %q", role)
	}
	if username != "alice" {
		t.Errorf("unexpected username %q", username)
	}
	if userID != id {
		t.Errorf("unexpected user ID %s", userID.Hex())
	}
}

func TestIsAdmin(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if authz.IsAdmin(req) {
		t.Error("expected false for unauthenticated request")
	}

	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Role: models.RoleAdmin,
	})
	if !authz.IsAdmin(req) {
		t.Error("expected true for admin user")
	}
}

func TestUserOrgID(t *testing.T) {
	orgID := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/", nil)
	if got := authz.UserOrgID(req); got != primitive.NilObjectID {
		t.Errorf("expected NilObjectID for unauthenticated request, got %s", got.Hex())
	}

	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:             primitive.NewObjectID().Hex(),
		Role:           models.RoleRegular,
		OrganizationID: orgID.Hex(),
	})
	if got := authz.UserOrgID(req); got != orgID {
		t.Errorf("expected %s, got %s", orgID.Hex(), got.Hex())
	}
}
