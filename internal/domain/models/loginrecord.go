// internal/domain/models/loginrecord.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRecord captures one sign-in attempt, successful or not. UserID is
// nil when the username did not match any account.
type LoginRecord struct {
	ID         primitive.ObjectID  `bson:"_id"`
	UserID     *primitive.ObjectID `bson:"user_id,omitempty"`
	Username   string              `bson:"username"`
	Success    bool                `bson:"success"`
	RemoteAddr string              `bson:"remote_addr,omitempty"`
	CreatedAt  time.Time           `bson:"created_at"`
}
