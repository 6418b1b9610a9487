// internal/app/features/users/form.go
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	orgstore "github.com/tdnguyen/phieutrinh/internal/app/store/organizations"
	userstore "github.com/tdnguyen/phieutrinh/internal/app/store/users"
	"github.com/tdnguyen/phieutrinh/internal/app/system/normalize"
	"github.com/tdnguyen/phieutrinh/internal/app/system/timeouts"
	"github.com/tdnguyen/phieutrinh/internal/app/system/viewdata"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// userForm carries the parsed and normalized form fields shared by the
// add and edit paths.
type userForm struct {
	Username string
	Password string
	Role     string
	OrgID    *primitive.ObjectID
	OrgIDRaw string
	Notes    string
}

func parseUserForm(r *http.Request) (userForm, string) {
	f := userForm{
		Username: normalize.Username(r.FormValue("username")),
		Password: r.FormValue("password"),
		Role:     normalize.Role(r.FormValue("role")),
		OrgIDRaw: normalize.Text(r.FormValue("organization_id")),
		Notes:    normalize.Text(r.FormValue("notes")),
	}

	if f.Username == "" {
		return f, "Username is required."
	}
	if !models.ValidRole(f.Role) {
		return f, "Choose a valid role."
	}
	if f.OrgIDRaw != "" {
		oid, err := primitive.ObjectIDFromHex(f.OrgIDRaw)
		if err != nil {
			return f, "Choose a valid organization."
		}
		f.OrgID = &oid
	}
	return f, ""
}

// ServeAddForm renders the blank account form.
func (h *Handler) ServeAddForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data, err := h.newFormData(ctx, w, r, "Add user")
	if err != nil {
		return
	}
	data.Role = models.RoleRegular
	templates.Render(w, r, "user_form", data)
}

// HandleAdd creates an account. Unlike edit, the password is mandatory
// here.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "users: parse form failed", err, "Invalid form submission.", "/admin/user/add")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f, msg := parseUserForm(r)
	if msg == "" && f.Password == "" {
		msg = "Password is required."
	}
	if msg != "" {
		h.rerenderForm(ctx, w, r, "Add user", f, "", msg)
		return
	}

	u, err := userstore.New(h.DB).Create(ctx, f.Username, f.Password, f.Role, f.OrgID, f.Notes)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			h.rerenderForm(ctx, w, r, "Add user", f, "", "That username is already taken.")
			return
		}
		h.ErrLog.LogServerError(w, r, "users: create failed", err, "Could not create the user.", "/admin/users")
		return
	}

	h.Log.Info("user created",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))
	h.SessionMgr.AddFlash(w, r, "success", "User created.")
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// ServeEditForm renders the account form populated from storage. The
// password field stays empty; leaving it blank on save keeps the stored
// password.
func (h *Handler) ServeEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "users: bad id", err, "That user does not exist.", "/admin/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "users: not found", err, "That user does not exist.", "/admin/users")
			return
		}
		h.ErrLog.LogServerError(w, r, "users: load failed", err, "Could not load the user.", "/admin/users")
		return
	}

	data, err := h.newFormData(ctx, w, r, "Edit user")
	if err != nil {
		return
	}
	data.IsEdit = true
	data.ID = u.ID.Hex()
	data.Username = u.Username
	data.Role = u.Role
	data.Notes = u.Notes
	if u.OrganizationID != nil {
		data.OrgID = u.OrganizationID.Hex()
	}
	templates.Render(w, r, "user_form", data)
}

// HandleEdit saves changes to an account.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "users: bad id", err, "That user does not exist.", "/admin/users")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "users: parse form failed", err, "Invalid form submission.", "/admin/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f, msg := parseUserForm(r)
	if msg != "" {
		h.rerenderForm(ctx, w, r, "Edit user", f, id.Hex(), msg)
		return
	}

	upd := userstore.Update{
		Username:       f.Username,
		Role:           f.Role,
		OrganizationID: f.OrgID,
		Notes:          f.Notes,
	}
	if f.Password != "" {
		upd.Password = &f.Password
	}

	if err := userstore.New(h.DB).Update(ctx, id, upd); err != nil {
		switch {
		case errors.Is(err, userstore.ErrDuplicateUsername):
			h.rerenderForm(ctx, w, r, "Edit user", f, id.Hex(), "That username is already taken.")
		case errors.Is(err, userstore.ErrNotFound):
			h.ErrLog.LogNotFound(w, r, "users: not found", err, "That user does not exist.", "/admin/users")
		default:
			h.ErrLog.LogServerError(w, r, "users: update failed", err, "Could not save the user.", "/admin/users")
		}
		return
	}

	h.Log.Info("user updated", zap.String("user_id", id.Hex()))
	h.SessionMgr.AddFlash(w, r, "success", "User saved.")
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// newFormData loads the organization options every form render needs. On
// failure it writes the error response itself and returns a non-nil error.
func (h *Handler) newFormData(ctx context.Context, w http.ResponseWriter, r *http.Request, title string) (formData, error) {
	orgs, err := orgstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "users: list organizations failed", err, "Could not load the form.", "/admin/users")
		return formData{}, err
	}
	return formData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, title, "/admin/users"),
		Orgs:   orgs,
		Roles:  roleOptions(),
	}, nil
}

func (h *Handler) rerenderForm(ctx context.Context, w http.ResponseWriter, r *http.Request, title string, f userForm, id, msg string) {
	data, err := h.newFormData(ctx, w, r, title)
	if err != nil {
		return
	}
	data.IsEdit = id != ""
	data.ID = id
	data.Username = f.Username
	data.Role = f.Role
	data.OrgID = f.OrgIDRaw
	data.Notes = f.Notes
	data.SetError(msg)
	templates.Render(w, r, "user_form", data)
}
