// internal/app/features/submissions/new.go
package submissions

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	orgstore "github.com/tdnguyen/phieutrinh/internal/app/store/organizations"
	submissionstore "github.com/tdnguyen/phieutrinh/internal/app/store/submissions"
	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
	"github.com/tdnguyen/phieutrinh/internal/app/system/authz"
	"github.com/tdnguyen/phieutrinh/internal/app/system/normalize"
	"github.com/tdnguyen/phieutrinh/internal/app/system/timeouts"
	"github.com/tdnguyen/phieutrinh/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeNewForm renders the create form with an organization selector,
// preselecting the signed-in user's own organization.
func (h *Handler) ServeNewForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	orgs, err := orgstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "submissions: list organizations failed", err, "Could not load the form.", "/")
		return
	}

	ownOrg := ""
	if u, ok := auth.CurrentUser(r); ok {
		ownOrg = u.OrganizationID
	}

	data := newData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "New submission", "/"),
		OrgID:  ownOrg,
		Orgs:   orgs,
	}
	templates.Render(w, r, "submission_new", data)
}

// HandleCreate validates and stores a new submission in the pending state.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "submissions: parse form failed", err, "Invalid form submission.", "/tao-phieu-trinh")
		return
	}

	content := normalize.Text(r.FormValue("content"))
	orgIDRaw := normalize.Text(r.FormValue("organization_id"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if content == "" || orgIDRaw == "" {
		h.rerenderNew(ctx, w, r, content, orgIDRaw, "Content and organization are both required.")
		return
	}

	orgID, err := primitive.ObjectIDFromHex(orgIDRaw)
	if err != nil {
		h.rerenderNew(ctx, w, r, content, "", "Choose a valid organization.")
		return
	}
	if _, err := orgstore.New(h.DB).GetByID(ctx, orgID); err != nil {
		if errors.Is(err, orgstore.ErrNotFound) {
			h.rerenderNew(ctx, w, r, content, "", "That organization no longer exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "submissions: verify organization failed", err, "Could not save the submission.", "/tao-phieu-trinh")
		return
	}

	_, _, creatorID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogForbidden(w, r, "submissions: create without session user", "Please sign in again.", "/login")
		return
	}

	sub, err := submissionstore.New(h.DB).Create(ctx, content, orgID, creatorID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "submissions: create failed", err, "Could not save the submission.", "/tao-phieu-trinh")
		return
	}

	h.Log.Info("submission created",
		zap.String("submission_id", sub.ID.Hex()),
		zap.String("organization_id", orgID.Hex()))
	h.SessionMgr.AddFlash(w, r, "success", "Submission created.")
	http.Redirect(w, r, "/phieu-trinh/"+sub.ID.Hex(), http.StatusSeeOther)
}

// rerenderNew redraws the create form with the user's input preserved and
// a validation message attached.
func (h *Handler) rerenderNew(ctx context.Context, w http.ResponseWriter, r *http.Request, content, orgID, msg string) {
	orgs, err := orgstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "submissions: list organizations failed", err, "Could not load the form.", "/")
		return
	}

	data := newData{
		BaseVM:  viewdata.NewBaseVM(w, r, h.SessionMgr, "New submission", "/"),
		Content: content,
		OrgID:   orgID,
		Orgs:    orgs,
	}
	data.SetError(msg)
	templates.Render(w, r, "submission_new", data)
}
