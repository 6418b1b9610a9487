// internal/app/features/login/handler.go
package login

import (
	"context"
	"net"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	uierrors "github.com/tdnguyen/phieutrinh/internal/app/features/errors"
	loginstore "github.com/tdnguyen/phieutrinh/internal/app/store/logins"
	userstore "github.com/tdnguyen/phieutrinh/internal/app/store/users"
	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
	"github.com/tdnguyen/phieutrinh/internal/app/system/normalize"
	"github.com/tdnguyen/phieutrinh/internal/app/system/timeouts"
	"github.com/tdnguyen/phieutrinh/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, SessionMgr: sm, ErrLog: errLog, Log: logger}
}

type loginData struct {
	viewdata.BaseVM
	Username string
	Return   string
}

// ServeForm renders the login page. Signed-in users go straight home.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := loginData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "Sign in", "/"),
		Return: urlutil.SafeReturn(r.URL.Query().Get("return"), "", "/"),
	}
	templates.Render(w, r, "login", data)
}

// HandleLogin processes the login form. The username match is exact and
// case-sensitive; the password compare is constant time. On failure the
// form re-renders with a generic message that does not reveal which half
// was wrong.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: parse form failed", err, "Invalid form submission.", "/login")
		return
	}

	username := normalize.Username(r.FormValue("username"))
	password := r.FormValue("password")
	ret := urlutil.SafeReturn(r.FormValue("return"), "", "/")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	usrStore := userstore.New(h.DB)
	user, err := usrStore.Authenticate(ctx, username, password)
	if err != nil {
		h.recordAttempt(ctx, nil, username, false, r)

		data := loginData{
			BaseVM:   viewdata.NewBaseVM(w, r, h.SessionMgr, "Sign in", "/"),
			Username: username,
			Return:   ret,
		}
		data.SetError("Incorrect username or password.")
		templates.Render(w, r, "login", data)
		return
	}

	su := &auth.SessionUser{
		ID:       user.ID.Hex(),
		Username: user.Username,
		Role:     user.Role,
	}
	if user.OrganizationID != nil {
		su.OrganizationID = user.OrganizationID.Hex()
	}

	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "login: session save failed", err, "Could not sign you in. Please try again.", "/login")
		return
	}

	h.recordAttempt(ctx, &user.ID, username, true, r)
	h.Log.Info("user signed in",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", user.Role))

	http.Redirect(w, r, ret, http.StatusSeeOther)
}

// recordAttempt appends a login record. Failures are logged and swallowed;
// auditing never blocks sign-in.
func (h *Handler) recordAttempt(ctx context.Context, userID *primitive.ObjectID, username string, success bool, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if err := loginstore.New(h.DB).Record(ctx, userID, username, success, host); err != nil {
		h.Log.Warn("login: record attempt failed", zap.Error(err))
	}
}
