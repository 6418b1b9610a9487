// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	orgstore "github.com/tdnguyen/phieutrinh/internal/app/store/organizations"
	userstore "github.com/tdnguyen/phieutrinh/internal/app/store/users"
	"github.com/tdnguyen/phieutrinh/internal/app/system/timeouts"
	"github.com/tdnguyen/phieutrinh/internal/app/system/viewdata"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList renders all accounts with their organization names joined in.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	accounts, err := userstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "users: list failed", err, "Could not load users.", "/")
		return
	}

	orgIDs := make([]primitive.ObjectID, 0, len(accounts))
	seen := make(map[primitive.ObjectID]bool, len(accounts))
	for _, u := range accounts {
		if u.OrganizationID != nil && !seen[*u.OrganizationID] {
			seen[*u.OrganizationID] = true
			orgIDs = append(orgIDs, *u.OrganizationID)
		}
	}
	orgs, err := orgstore.New(h.DB).GetByIDs(ctx, orgIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "users: join organizations failed", err, "Could not load users.", "/")
		return
	}

	items := make([]listItem, 0, len(accounts))
	for _, u := range accounts {
		it := listItem{
			ID:        u.ID.Hex(),
			Username:  u.Username,
			Role:      u.Role,
			Notes:     u.Notes,
			Protected: u.Username == models.ReservedAdminUsername,
		}
		if u.OrganizationID != nil {
			it.OrgName = orgs[*u.OrganizationID].Name
		}
		items = append(items, it)
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "Users", "/"),
		Items:  items,
	}
	templates.Render(w, r, "user_list", data)
}
