// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Approvers may decide submissions filed under their own
// organization; admins manage users and organizations and carry no
// organization themselves.
const (
	RoleAdmin    = "admin"
	RoleApprover = "phe_duyet"
	RoleRegular  = "binh_thuong"
)

// ReservedAdminUsername names the seeded root account that can never be
// deleted.
const ReservedAdminUsername = "admin"

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleApprover, RoleRegular:
		return true
	}
	return false
}

// User is an account that can sign in. Username matching is exact and
// case-sensitive, so no folded username field is stored.
type User struct {
	ID             primitive.ObjectID  `bson:"_id"`
	Username       string              `bson:"username"`
	PasswordHash   string              `bson:"password_hash"`
	Role           string              `bson:"role"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty"`
	Notes          string              `bson:"notes,omitempty"`
	CreatedAt      time.Time           `bson:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at"`
}
