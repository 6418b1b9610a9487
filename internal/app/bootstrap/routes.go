// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	errorsfeature "github.com/tdnguyen/phieutrinh/internal/app/features/errors"
	healthfeature "github.com/tdnguyen/phieutrinh/internal/app/features/health"
	loginfeature "github.com/tdnguyen/phieutrinh/internal/app/features/login"
	logoutfeature "github.com/tdnguyen/phieutrinh/internal/app/features/logout"
	organizationsfeature "github.com/tdnguyen/phieutrinh/internal/app/features/organizations"
	submissionsfeature "github.com/tdnguyen/phieutrinh/internal/app/features/submissions"
	usersfeature "github.com/tdnguyen/phieutrinh/internal/app/features/users"
	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for the app. WAFFLE calls
// it after configuration, the DB connection, schema setup, and Startup
// have completed.
//
// The submission workflow is the site root; account and organization
// management sit under /admin behind the admin role.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup. Dev mode
	// enables template reloading.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger, sessionMgr)

	r := chi.NewRouter()

	// Every POST in the app is a browser form; protect them all.
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrf.Secure(secure), csrf.Path("/")))

	// Loads the SessionUser into context when a valid session cookie is
	// present, making auth.CurrentUser(r) work everywhere downstream.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Admin area: user and organization management.
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(sessionMgr.RequireSignedIn)
		ar.Use(sessionMgr.RequireRole(models.RoleAdmin))

		usersHandler := usersfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
		usersfeature.Register(ar, usersHandler)

		orgHandler := organizationsfeature.NewHandler(deps.MongoClient, deps.MongoDatabase, sessionMgr, errLog, logger)
		organizationsfeature.Register(ar, orgHandler)
	})

	// The submission workflow owns the rest of the URL space, including
	// the default view.
	subHandler := submissionsfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/", submissionsfeature.Routes(subHandler))

	return r, nil
}
