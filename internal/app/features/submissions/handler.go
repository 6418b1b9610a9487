// Package submissions implements the approval workflow surface: the
// submission list, the create form, the detail page, and the
// approve/reject actions.
package submissions

import (
	uierrors "github.com/tdnguyen/phieutrinh/internal/app/features/errors"
	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for submissions.
type Handler struct {
	DB         *mongo.Database
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, SessionMgr: sm, ErrLog: errLog, Log: logger}
}
