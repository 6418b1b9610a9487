// Package authz holds the pure authorization decisions for the app.
// Handlers and middleware call these; none of them touch the database.
package authz

import (
	"net/http"
	"strings"

	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the current user's role (lowercased), username, Mongo
// ObjectID, and a found flag. A missing user or malformed session ID yields
// ok=false, so callers can trust ok=true means a valid authenticated user.
func UserCtx(r *http.Request) (role string, username string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session; fail closed.
		return "", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Username, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
// Admin gates all user-management and organization-management operations.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// UserOrgID returns the current user's organization ID, or NilObjectID for
// org-less accounts (admins) and unauthenticated requests.
func UserOrgID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.OrganizationID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.OrganizationID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// CanApprove reports whether u may decide sub: approver role, same
// organization, and the submission still pending. The same rule computes
// the detail view's approve buttons and gates the action itself.
func CanApprove(u *auth.SessionUser, sub models.Submission) bool {
	if u == nil || strings.ToLower(u.Role) != models.RoleApprover {
		return false
	}
	if u.OrganizationID == "" || u.OrganizationID != sub.OrganizationID.Hex() {
		return false
	}
	return sub.Status == models.StatusPending
}

// RequestCanApprove is CanApprove against the request's session user.
func RequestCanApprove(r *http.Request, sub models.Submission) bool {
	u, ok := auth.CurrentUser(r)
	return ok && CanApprove(u, sub)
}
