// Package users implements the admin screens for account management.
// Routes here are attached under /admin and gated on the admin role by
// the caller.
package users

import (
	uierrors "github.com/tdnguyen/phieutrinh/internal/app/features/errors"
	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
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
