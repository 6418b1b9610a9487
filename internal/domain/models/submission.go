// internal/domain/models/submission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission statuses. A submission starts pending and moves exactly once
// to approved or rejected; both are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission is a piece of content filed under an organization and subject
// to the approval workflow. CreatedAt is set at creation and never changes;
// the Decided fields are written together with the terminal status.
type Submission struct {
	ID             primitive.ObjectID  `bson:"_id"`
	Content        string              `bson:"content"`
	Status         string              `bson:"status"`
	OrganizationID primitive.ObjectID  `bson:"organization_id"`
	CreatedByID    primitive.ObjectID  `bson:"created_by_id"`
	CreatedAt      time.Time           `bson:"created_at"`
	DecidedAt      *time.Time          `bson:"decided_at,omitempty"`
	DecidedByID    *primitive.ObjectID `bson:"decided_by_id,omitempty"`
}

// Decided reports whether the submission has reached a terminal status.
func (s Submission) Decided() bool {
	return s.Status == StatusApproved || s.Status == StatusRejected
}
