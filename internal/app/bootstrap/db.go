// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	userstore "github.com/tdnguyen/phieutrinh/internal/app/store/users"
	"github.com/tdnguyen/phieutrinh/internal/app/system/indexes"
	"github.com/tdnguyen/phieutrinh/internal/app/system/timeouts"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before startup continues.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the unique and query indexes and seeds the
// reserved admin account if it does not exist yet.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		return err
	}
	return seedAdmin(ctx, appCfg, deps, logger)
}

// seedAdmin creates the reserved admin account on first start. An
// existing account is left untouched, so password changes survive
// restarts.
func seedAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	store := userstore.New(deps.MongoDatabase)

	_, err := store.GetByUsername(ctx, appCfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, userstore.ErrNotFound) {
		return fmt.Errorf("seed admin lookup: %w", err)
	}

	if _, err := store.Create(ctx, appCfg.AdminUsername, appCfg.AdminPassword, models.RoleAdmin, nil, ""); err != nil {
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			// Another instance seeded it first.
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}

	logger.Info("seeded reserved admin account", zap.String("username", appCfg.AdminUsername))
	return nil
}
