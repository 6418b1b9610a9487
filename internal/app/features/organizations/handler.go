// Package organizations implements the admin screen for organization
// management. One endpoint serves the list and accepts add, edit, and
// delete through an action form field.
package organizations

import (
	uierrors "github.com/tdnguyen/phieutrinh/internal/app/features/errors"
	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Client     *mongo.Client
	DB         *mongo.Database
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(client *mongo.Client, db *mongo.Database, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Client: client, DB: db, SessionMgr: sm, ErrLog: errLog, Log: logger}
}
