// Package submissionstore persists Submission records and owns the status
// state machine: pending -> approved | rejected, both terminal.
package submissionstore

import (
	"context"
	"errors"
	"time"

	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned for lookups that match no submission.
	ErrNotFound = errors.New("submission not found")

	// ErrAlreadyDecided is returned when a transition targets a
	// submission that is no longer pending. The status filter on the
	// update makes the check-and-set atomic; there is no window in which
	// two approvers can both win.
	ErrAlreadyDecided = errors.New("submission has already been decided")

	errBadStatus = errors.New(`status must be "approved" or "rejected"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("submissions")}
}

// Create files a new submission in the pending state. Validation of the
// content and organization happens in the handler; CreatedAt is set here
// and never touched again.
func (s *Store) Create(ctx context.Context, content string, orgID, createdByID primitive.ObjectID) (models.Submission, error) {
	sub := models.Submission{
		ID:             primitive.NewObjectID(),
		Content:        content,
		Status:         models.StatusPending,
		OrganizationID: orgID,
		CreatedByID:    createdByID,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Submission, error) {
	var sub models.Submission
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return models.Submission{}, ErrNotFound
	}
	if err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// ListNewestFirst returns all submissions ordered by creation time,
// newest first.
func (s *Store) ListNewestFirst(ctx context.Context) ([]models.Submission, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var subs []models.Submission
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Decide moves a pending submission to the given terminal status and
// records who decided it and when. The update filters on the current
// pending status, so a submission that has already been decided matches
// nothing and the call returns ErrAlreadyDecided.
func (s *Store) Decide(ctx context.Context, id primitive.ObjectID, status string, decidedBy primitive.ObjectID) error {
	if status != models.StatusApproved && status != models.StatusRejected {
		return errBadStatus
	}

	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": bson.M{
			"status":        status,
			"decided_at":    now,
			"decided_by_id": decidedBy,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish "gone" from "already decided" for the caller's
		// message.
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyDecided
	}
	return nil
}

// CountByOrganization reports how many submissions are filed under the
// organization. Organization deletion is refused while this is non-zero.
func (s *Store) CountByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization_id": orgID})
}
