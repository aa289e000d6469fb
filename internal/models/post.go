package models

import (
	"time"
)

// Post is a social post. The author's display name and email are captured at
// creation time and are not refreshed when the profile changes.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	AuthorName    string    `gorm:"size:120;not null" json:"author_name"`
	AuthorEmail   string    `gorm:"size:255" json:"author_email"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	ImageURL      string    `json:"image_url,omitempty"`
	RecipeID      *uint     `gorm:"index" json:"recipe_id,omitempty"`
	LikesCount    int       `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PostAuthor is the identity snapshot stamped on a new post.
type PostAuthor struct {
	ID    uint
	Name  string
	Email string
}

// OwnedBy reports whether userID authored the post.
func (p *Post) OwnedBy(userID uint) bool {
	return p.UserID == userID
}
