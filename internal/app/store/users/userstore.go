// Package userstore persists User accounts and owns password hashing.
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var (
	// ErrDuplicateUsername maps the unique-index conflict on username.
	ErrDuplicateUsername = errors.New("a user with this username already exists")

	// ErrProtectedAccount is returned when deleting the reserved admin
	// account.
	ErrProtectedAccount = errors.New("the root admin account cannot be deleted")

	// ErrNotFound is returned for lookups that match no user.
	ErrNotFound = errors.New("user not found")

	errBadRole = errors.New(`role must be "admin", "phe_duyet", or "binh_thuong"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks a user up by exact, case-sensitive username.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Authenticate verifies a username/password pair. The username match is
// exact; the password compare is bcrypt's constant-time check. Any failure
// mode collapses to ErrNotFound so callers cannot distinguish a missing
// user from a wrong password.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// Create inserts a new user, hashing the supplied plaintext password.
func (s *Store) Create(ctx context.Context, username, password, role string, orgID *primitive.ObjectID, notes string) (models.User, error) {
	if !models.ValidRole(role) {
		return models.User{}, errBadRole
	}
	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:             primitive.NewObjectID(),
		Username:       username,
		PasswordHash:   hash,
		Role:           role,
		OrganizationID: orgID,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds the editable fields of a user. A nil Password keeps the
// stored credential; this is the "keep old password on blank" contract the
// edit form relies on.
type Update struct {
	Username       string
	Password       *string
	Role           string
	OrganizationID *primitive.ObjectID
	Notes          string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	if !models.ValidRole(upd.Role) {
		return errBadRole
	}

	set := bson.M{
		"username":   upd.Username,
		"role":       upd.Role,
		"notes":      upd.Notes,
		"updated_at": time.Now().UTC(),
	}
	unset := bson.M{}
	if upd.OrganizationID != nil {
		set["organization_id"] = *upd.OrganizationID
	} else {
		unset["organization_id"] = ""
	}
	if upd.Password != nil {
		hash, err := HashPassword(*upd.Password)
		if err != nil {
			return err
		}
		set["password_hash"] = hash
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateUsername
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user. The reserved admin account is refused regardless
// of who asks.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"_id":      id,
		"username": bson.M{"$ne": models.ReservedAdminUsername},
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		// Either the user does not exist or it is the protected account.
		var u models.User
		err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
		if err == nil && u.Username == models.ReservedAdminUsername {
			return ErrProtectedAccount
		}
		return ErrNotFound
	}
	return nil
}

// List returns all users ordered by username.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByIDs loads users keyed by ID, for joining creator names onto lists.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// CountByOrganization reports how many users belong to the organization.
// Organization deletion is refused while this is non-zero.
func (s *Store) CountByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization_id": orgID})
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
