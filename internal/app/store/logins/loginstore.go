// Package loginstore appends sign-in attempts to login_records.
package loginstore

import (
	"context"
	"time"

	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("login_records")}
}

// Record appends one sign-in attempt. userID is nil when the username
// matched no account. Failures here are logged by the caller and never
// block the login flow.
func (s *Store) Record(ctx context.Context, userID *primitive.ObjectID, username string, success bool, remoteAddr string) error {
	rec := models.LoginRecord{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Username:   username,
		Success:    success,
		RemoteAddr: remoteAddr,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// RecentForUsername returns the latest attempts for a username, newest
// first.
func (s *Store) RecentForUsername(ctx context.Context, username string, limit int64) ([]models.LoginRecord, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"username": username},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var recs []models.LoginRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
