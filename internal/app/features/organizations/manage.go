// internal/app/features/organizations/manage.go
package organizations

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	orgstore "github.com/tdnguyen/phieutrinh/internal/app/store/organizations"
	"github.com/tdnguyen/phieutrinh/internal/app/system/normalize"
	"github.com/tdnguyen/phieutrinh/internal/app/system/timeouts"
	"github.com/tdnguyen/phieutrinh/internal/app/system/txn"
	"github.com/tdnguyen/phieutrinh/internal/app/system/viewdata"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const adminOrgsURL = "/admin/organizations"

type listData struct {
	viewdata.BaseVM
	Orgs []models.Organization
}

// ServeList renders the management page: the full organization list plus
// the add form and inline edit/delete forms.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	orgs, err := orgstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "organizations: list failed", err, "Could not load organizations.", "/")
		return
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "Organizations", "/"),
		Orgs:   orgs,
	}
	templates.Render(w, r, "organization_list", data)
}

// HandleAction multiplexes add, edit, and delete on the action form field.
// Anything else is refused without touching storage.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "organizations: parse form failed", err, "Invalid form submission.", adminOrgsURL)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	switch r.FormValue("action") {
	case "add":
		h.handleAdd(ctx, w, r)
	case "edit":
		h.handleEdit(ctx, w, r)
	case "delete":
		h.handleDelete(ctx, w, r)
	default:
		h.ErrLog.LogBadRequest(w, r, "organizations: unknown action", nil, "That action is not recognized.", adminOrgsURL)
	}
}

func (h *Handler) handleAdd(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	name := normalize.Text(r.FormValue("name"))
	if name == "" {
		h.flashAndBack(w, r, "warning", "Organization name is required.")
		return
	}

	org, err := orgstore.New(h.DB).Create(ctx, name)
	if err != nil {
		if errors.Is(err, orgstore.ErrDuplicateName) {
			h.flashAndBack(w, r, "warning", "An organization with that name already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "organizations: create failed", err, "Could not create the organization.", adminOrgsURL)
		return
	}

	h.Log.Info("organization created",
		zap.String("organization_id", org.ID.Hex()),
		zap.String("name", org.Name))
	h.flashAndBack(w, r, "success", "Organization created.")
}

func (h *Handler) handleEdit(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.FormValue("id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "organizations: bad id", err, "That organization does not exist.", adminOrgsURL)
		return
	}
	name := normalize.Text(r.FormValue("name"))
	if name == "" {
		h.flashAndBack(w, r, "warning", "Organization name is required.")
		return
	}

	if err := orgstore.New(h.DB).Rename(ctx, id, name); err != nil {
		switch {
		case errors.Is(err, orgstore.ErrDuplicateName):
			h.flashAndBack(w, r, "warning", "An organization with that name already exists.")
		case errors.Is(err, orgstore.ErrNotFound):
			h.ErrLog.LogNotFound(w, r, "organizations: not found", err, "That organization does not exist.", adminOrgsURL)
		default:
			h.ErrLog.LogServerError(w, r, "organizations: rename failed", err, "Could not rename the organization.", adminOrgsURL)
		}
		return
	}

	h.Log.Info("organization renamed", zap.String("organization_id", id.Hex()))
	h.flashAndBack(w, r, "success", "Organization renamed.")
}

// handleDelete removes an organization. The reference checks and the
// delete run inside one transaction where the server supports them, so a
// user added concurrently cannot be orphaned.
func (h *Handler) handleDelete(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.FormValue("id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "organizations: bad id", err, "That organization does not exist.", adminOrgsURL)
		return
	}

	store := orgstore.New(h.DB)
	err = txn.WithTransaction(ctx, h.Client, h.Log, func(ctx context.Context) error {
		return store.Delete(ctx, id)
	})
	if err != nil {
		switch {
		case errors.Is(err, orgstore.ErrInUse):
			h.flashAndBack(w, r, "warning", "The organization still has users or submissions and cannot be deleted.")
		case errors.Is(err, orgstore.ErrNotFound):
			h.ErrLog.LogNotFound(w, r, "organizations: not found", err, "That organization does not exist.", adminOrgsURL)
		default:
			h.ErrLog.LogServerError(w, r, "organizations: delete failed", err, "Could not delete the organization.", adminOrgsURL)
		}
		return
	}

	h.Log.Info("organization deleted", zap.String("organization_id", id.Hex()))
	h.flashAndBack(w, r, "success", "Organization deleted.")
}

func (h *Handler) flashAndBack(w http.ResponseWriter, r *http.Request, kind, msg string) {
	h.SessionMgr.AddFlash(w, r, kind, msg)
	http.Redirect(w, r, adminOrgsURL, http.StatusSeeOther)
}
