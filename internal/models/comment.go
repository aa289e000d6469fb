package models

import (
	"time"
)

// Comment is a comment on a post. Replies point at a top-level comment of the
// same post; threads are one level deep.
type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PostID          uint      `gorm:"not null;index" json:"post_id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	AuthorName      string    `gorm:"size:120;not null" json:"author_name"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id,omitempty"`
	RepliesCount    int       `gorm:"not null;default:0" json:"replies_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OwnedBy reports whether userID wrote the comment.
func (c *Comment) OwnedBy(userID uint) bool {
	return c.UserID == userID
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
