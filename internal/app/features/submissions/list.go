// internal/app/features/submissions/list.go
package submissions

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	orgstore "github.com/tdnguyen/phieutrinh/internal/app/store/organizations"
	submissionstore "github.com/tdnguyen/phieutrinh/internal/app/store/submissions"
	userstore "github.com/tdnguyen/phieutrinh/internal/app/store/users"
	"github.com/tdnguyen/phieutrinh/internal/app/system/htmlsanitize"
	"github.com/tdnguyen/phieutrinh/internal/app/system/timeouts"
	"github.com/tdnguyen/phieutrinh/internal/app/system/viewdata"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const excerptLen = 140

// ServeList renders the default view: every submission, newest first,
// with organization and creator names joined in.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	subs, err := submissionstore.New(h.DB).ListNewestFirst(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "submissions: list failed", err, "Could not load submissions.", "/")
		return
	}

	items, err := h.buildListItems(ctx, subs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "submissions: join names failed", err, "Could not load submissions.", "/")
		return
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "Submissions", "/"),
		Items:  items,
	}
	templates.Render(w, r, "submission_list", data)
}

// buildListItems resolves organization and creator names for a page of
// submissions with one query per collection.
func (h *Handler) buildListItems(ctx context.Context, subs []models.Submission) ([]listItem, error) {
	orgIDs := make([]primitive.ObjectID, 0, len(subs))
	userIDs := make([]primitive.ObjectID, 0, len(subs))
	seenOrg := make(map[primitive.ObjectID]bool, len(subs))
	seenUser := make(map[primitive.ObjectID]bool, len(subs))
	for _, s := range subs {
		if !seenOrg[s.OrganizationID] {
			seenOrg[s.OrganizationID] = true
			orgIDs = append(orgIDs, s.OrganizationID)
		}
		if !seenUser[s.CreatedByID] {
			seenUser[s.CreatedByID] = true
			userIDs = append(userIDs, s.CreatedByID)
		}
	}

	orgs, err := orgstore.New(h.DB).GetByIDs(ctx, orgIDs)
	if err != nil {
		return nil, err
	}
	creators, err := userstore.New(h.DB).GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	items := make([]listItem, 0, len(subs))
	for _, s := range subs {
		items = append(items, listItem{
			ID:        s.ID.Hex(),
			Excerpt:   excerpt(s.Content),
			Status:    s.Status,
			OrgName:   orgs[s.OrganizationID].Name,
			Creator:   creators[s.CreatedByID].Username,
			CreatedAt: s.CreatedAt,
		})
	}
	return items, nil
}

// excerpt strips markup and truncates on a rune boundary so multi-byte
// text never splits mid-character.
func excerpt(content string) string {
	plain := htmlsanitize.Plain(content)
	runes := []rune(plain)
	if len(runes) <= excerptLen {
		return plain
	}
	return string(runes[:excerptLen]) + "…"
}
