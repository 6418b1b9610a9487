// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
	"github.com/tdnguyen/phieutrinh/internal/app/system/authz"
)

// BaseVM carries the fields every page template needs. Embed it in
// feature-specific view models:
//
//	type listData struct {
//	    viewdata.BaseVM
//	    Items []listItem
//	}
type BaseVM struct {
	Title       string
	IsLoggedIn  bool
	Role        string
	Username    string
	CurrentPath string
	BackURL     string

	// CSRFField is the hidden input for POST forms.
	CSRFField template.HTML

	// Flashes are one-shot notices queued by a prior request.
	Flashes []auth.Flash
}

// SetError is a convenience for form re-renders that surface a validation
// message without a round trip through the session.
func (b *BaseVM) SetError(msg string) {
	b.Flashes = append(b.Flashes, auth.Flash{Kind: "danger", Message: msg})
}

// NewBaseVM builds a populated BaseVM for a page, consuming any queued
// flash notices. sm may be nil in tests, in which case flashes are skipped.
func NewBaseVM(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager, title, backDefault string) BaseVM {
	role, username, _, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		Title:       title,
		IsLoggedIn:  signedIn,
		Role:        role,
		Username:    username,
		CurrentPath: httpnav.CurrentPath(r),
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CSRFField:   csrf.TemplateField(r),
	}
	if sm != nil {
		vm.Flashes = sm.PopFlashes(w, r)
	}
	return vm
}
