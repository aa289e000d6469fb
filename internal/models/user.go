// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User is a row of the shared users table. Credentials are managed by the
// auth service; this backend only reads identities and edits profile fields.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DisplayName string    `gorm:"size:120;not null" json:"display_name"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	Role        string    `gorm:"size:32;not null;default:user" json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Identity is the public view of a user.
type Identity struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// Identity projects the user onto its public fields.
func (u *User) Identity() Identity {
	return Identity{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        u.Role,
	}
}

// IdentityWithFollow annotates a search result with the caller's follow state.
type IdentityWithFollow struct {
	Identity
	IsFollowing    bool  `json:"is_following"`
	FollowersCount int64 `json:"followers_count"`
}
