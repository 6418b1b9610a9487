// internal/app/features/users/types.go
package users

import (
	"github.com/tdnguyen/phieutrinh/internal/app/system/viewdata"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
)

type listItem struct {
	ID        string
	Username  string
	Role      string
	OrgName   string
	Notes     string
	Protected bool
}

type listData struct {
	viewdata.BaseVM
	Items []listItem
}

// formData serves both the add and edit pages. On edit, ID is set and the
// password field is left blank; a blank password keeps the stored one.
type formData struct {
	viewdata.BaseVM
	IsEdit   bool
	ID       string
	Username string
	Role     string
	OrgID    string
	Notes    string
	Orgs     []models.Organization
	Roles    []string
}

func roleOptions() []string {
	return []string{models.RoleAdmin, models.RoleApprover, models.RoleRegular}
}
