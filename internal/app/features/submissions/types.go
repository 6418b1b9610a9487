// internal/app/features/submissions/types.go
package submissions

import (
	"html/template"
	"time"

	"github.com/tdnguyen/phieutrinh/internal/app/system/viewdata"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
)

// listItem is one row on the submission list page. Organization and
// creator names are joined in from their stores; a blank OrgName means
// the organization could not be resolved.
type listItem struct {
	ID        string
	Excerpt   string
	Status    string
	OrgName   string
	Creator   string
	CreatedAt time.Time
}

type listData struct {
	viewdata.BaseVM
	Items []listItem
}

type newData struct {
	viewdata.BaseVM
	Content string
	OrgID   string
	Orgs    []models.Organization
}

type detailData struct {
	viewdata.BaseVM
	ID         string
	Content    template.HTML
	Status     string
	OrgName    string
	Creator    string
	CreatedAt  time.Time
	DecidedAt  *time.Time
	DecidedBy  string
	CanApprove bool
}
