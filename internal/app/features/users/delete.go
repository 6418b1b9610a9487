// internal/app/features/users/delete.go
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	userstore "github.com/tdnguyen/phieutrinh/internal/app/store/users"
	"github.com/tdnguyen/phieutrinh/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDelete removes an account. The reserved admin account is refused
// at the storage layer no matter who asks.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "users: bad id", err, "That user does not exist.", "/admin/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := userstore.New(h.DB).Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, userstore.ErrProtectedAccount):
			h.ErrLog.LogForbidden(w, r, "users: delete of protected account refused", "The admin account cannot be deleted.", "/admin/users")
		case errors.Is(err, userstore.ErrNotFound):
			h.ErrLog.LogNotFound(w, r, "users: not found", err, "That user does not exist.", "/admin/users")
		default:
			h.ErrLog.LogServerError(w, r, "users: delete failed", err, "Could not delete the user.", "/admin/users")
		}
		return
	}

	h.Log.Info("user deleted", zap.String("user_id", id.Hex()))
	h.SessionMgr.AddFlash(w, r, "success", "User deleted.")
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
