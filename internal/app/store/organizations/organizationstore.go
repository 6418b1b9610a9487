// Package organizationstore persists Organization records.
package organizationstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateName maps the unique-index conflict on name_ci. The
	// index is the sole enforcement point; there is no read-then-insert
	// duplicate check to race against.
	ErrDuplicateName = errors.New("an organization with this name already exists")

	// ErrInUse is returned by Delete while any user or submission still
	// references the organization.
	ErrInUse = errors.New("organization still has users or submissions")

	// ErrNotFound wraps mongo.ErrNoDocuments for callers that should not
	// know about driver errors.
	ErrNotFound = errors.New("organization not found")
)

type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection("organizations")}
}

// Create inserts a new organization. An empty name is the caller's bug to
// catch; the store only guards uniqueness.
func (s *Store) Create(ctx context.Context, name string) (models.Organization, error) {
	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, org); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateName
		}
		return models.Organization{}, err
	}
	return org, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return models.Organization{}, ErrNotFound
	}
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// GetByIDs loads multiple organizations keyed by ID, for joining names
// onto lists.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Organization, error) {
	out := make(map[primitive.ObjectID]models.Organization, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	for _, org := range orgs {
		out[org.ID] = org
	}
	return out, nil
}

// List returns all organizations ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Organization, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Rename updates an organization's name with the same uniqueness
// enforcement as Create.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, newName string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       newName,
		"name_ci":    text.Fold(newName),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an organization unless a user or a submission still
// references it. Every read and the delete use the given ctx, so callers
// wrapping Delete in txn.WithTransaction get the check and the delete as
// one atomic unit.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	users := s.db.Collection("users")
	subs := s.db.Collection("submissions")

	n, err := users.CountDocuments(ctx, bson.M{"organization_id": id})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrInUse
	}
	n, err = subs.CountDocuments(ctx, bson.M{"organization_id": id})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrInUse
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
