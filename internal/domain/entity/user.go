// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity in the system, representing a registered account.
// Email and username are each globally unique. PasswordHash always holds a
// bcrypt hash, never the raw password.
type User struct {
	ID           uuid.UUID // The unique identifier for the user.
	Email        string    // The user's email address, usable as a login identifier.
	Username     string    // The user's unique handle (3-255 characters).
	FullName     string    // Optional display name.
	AvatarPath   string    // Path to the stored profile image, empty when none is set.
	AvatarURL    string    // Public URL of the avatar, derived from AvatarPath. Not persisted.
	PasswordHash string    `json:"-"` // bcrypt hash of the password. Never serialized.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// Follow is a directed edge between two users: follower watches followed.
// At most one edge exists per ordered pair, and follower never equals followed.
type Follow struct {
	FollowerID uuid.UUID
	FollowedID uuid.UUID
	CreatedAt  time.Time
}
