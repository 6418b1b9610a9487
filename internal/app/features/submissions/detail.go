// internal/app/features/submissions/detail.go
package submissions

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	orgstore "github.com/tdnguyen/phieutrinh/internal/app/store/organizations"
	submissionstore "github.com/tdnguyen/phieutrinh/internal/app/store/submissions"
	userstore "github.com/tdnguyen/phieutrinh/internal/app/store/users"
	"github.com/tdnguyen/phieutrinh/internal/app/system/authz"
	"github.com/tdnguyen/phieutrinh/internal/app/system/htmlsanitize"
	"github.com/tdnguyen/phieutrinh/internal/app/system/timeouts"
	"github.com/tdnguyen/phieutrinh/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeDetail renders one submission. The approve and reject buttons show
// only when the viewer may actually decide it, by the same rule that gates
// the action endpoint.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "submissions: bad id", err, "That submission does not exist.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sub, err := submissionstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, submissionstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "submissions: not found", err, "That submission does not exist.", "/")
			return
		}
		h.ErrLog.LogServerError(w, r, "submissions: load failed", err, "Could not load the submission.", "/")
		return
	}

	data := detailData{
		BaseVM:     viewdata.NewBaseVM(w, r, h.SessionMgr, "Submission", "/"),
		ID:         sub.ID.Hex(),
		Content:    template.HTML(htmlsanitize.Sanitize(sub.Content)),
		Status:     sub.Status,
		CreatedAt:  sub.CreatedAt,
		DecidedAt:  sub.DecidedAt,
		CanApprove: authz.RequestCanApprove(r, sub),
	}

	if org, err := orgstore.New(h.DB).GetByID(ctx, sub.OrganizationID); err == nil {
		data.OrgName = org.Name
	}
	usrStore := userstore.New(h.DB)
	if creator, err := usrStore.GetByID(ctx, sub.CreatedByID); err == nil {
		data.Creator = creator.Username
	}
	if sub.DecidedByID != nil {
		if decider, err := usrStore.GetByID(ctx, *sub.DecidedByID); err == nil {
			data.DecidedBy = decider.Username
		}
	}

	templates.Render(w, r, "submission_detail", data)
}
