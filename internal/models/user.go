package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole represents the role of a user
// #IMPLEMENTATION_DECISION: UPPERCASE in Go code, lowercase in JSON serialization
type UserRole string

const (
	UserRoleMember UserRole = "MEMBER"
	UserRoleAdmin  UserRole = "ADMIN"
)

// MarshalJSON converts UserRole to lowercase for JSON serialization
func (ur UserRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(ur)))
}

// UnmarshalJSON converts lowercase JSON to UserRole
func (ur *UserRole) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*ur = UserRole(strings.ToUpper(s))
	return nil
}

// IsValid checks if the UserRole is a valid value
func (ur UserRole) IsValid() bool {
	switch ur {
	case UserRoleMember, UserRoleAdmin:
		return true
	}
	return false
}

// User represents an account whose survey submissions are scored and ranked.
// #DATA_ASSUMPTION: XP is gamification progress maintained by external
// collaborators; the ranking surfaces it but never modifies it.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	Role     UserRole           `bson:"role" json:"role"`
	XP       int                `bson:"xp" json:"xp"`

	// Status
	IsActive bool `bson:"is_active" json:"is_active"`

	// Audit fields with soft delete support
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// CollectionName returns the MongoDB collection name for users
func (User) CollectionName() string {
	return "users"
}

// IsDeleted returns true if the user has been soft deleted
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// BeforeCreate sets default values before inserting a new user
func (u *User) BeforeCreate() {
	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	u.IsActive = true

	if u.Role == "" {
		u.Role = UserRoleMember
	}
}

// BeforeUpdate sets the UpdatedAt timestamp
func (u *User) BeforeUpdate() {
	u.UpdatedAt = time.Now().UTC()
}
