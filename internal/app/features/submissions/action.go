// internal/app/features/submissions/action.go
package submissions

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	submissionstore "github.com/tdnguyen/phieutrinh/internal/app/store/submissions"
	"github.com/tdnguyen/phieutrinh/internal/app/system/authz"
	"github.com/tdnguyen/phieutrinh/internal/app/system/timeouts"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleAction applies an approve or reject decision. Any action token
// other than those two is refused outright, and the status transition is
// re-checked atomically at write time so a decided submission can never
// be decided again.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "submissions: bad id", err, "That submission does not exist.", "/")
		return
	}
	detailURL := "/phieu-trinh/" + id.Hex()

	var status string
	switch chi.URLParam(r, "action") {
	case "approve":
		status = models.StatusApproved
	case "reject":
		status = models.StatusRejected
	default:
		h.ErrLog.LogBadRequest(w, r, "submissions: unknown action", nil, "That action is not recognized.", detailURL)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	subStore := submissionstore.New(h.DB)
	sub, err := subStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, submissionstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "submissions: not found", err, "That submission does not exist.", "/")
			return
		}
		h.ErrLog.LogServerError(w, r, "submissions: load failed", err, "Could not load the submission.", "/")
		return
	}

	if !authz.RequestCanApprove(r, sub) {
		h.ErrLog.LogForbidden(w, r, "submissions: decision not permitted", "You may not decide this submission.", detailURL)
		return
	}

	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogForbidden(w, r, "submissions: decide without session user", "Please sign in again.", "/login")
		return
	}

	if err := subStore.Decide(ctx, id, status, actorID); err != nil {
		if errors.Is(err, submissionstore.ErrAlreadyDecided) {
			h.SessionMgr.AddFlash(w, r, "warning", "This submission has already been decided.")
			http.Redirect(w, r, detailURL, http.StatusSeeOther)
			return
		}
		if errors.Is(err, submissionstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "submissions: vanished before decision", err, "That submission does not exist.", "/")
			return
		}
		h.ErrLog.LogServerError(w, r, "submissions: decide failed", err, "Could not record the decision.", detailURL)
		return
	}

	h.Log.Info("submission decided",
		zap.String("submission_id", id.Hex()),
		zap.String("status", status),
		zap.String("decided_by", actorID.Hex()))
	h.SessionMgr.AddFlash(w, r, "success", "Submission "+status+".")
	http.Redirect(w, r, detailURL, http.StatusSeeOther)
}
