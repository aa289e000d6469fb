package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrSelfFollow is returned by the storage hook when an edge points at its own source.
var ErrSelfFollow = errors.New("follower and following must differ")

// Follow is a directed edge: FollowerID follows FollowingID.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follows_pair;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

// BeforeCreate rejects self edges even when a caller skips the service checks.
func (f *Follow) BeforeCreate(_ *gorm.DB) error {
	if f.FollowerID == f.FollowingID {
		return ErrSelfFollow
	}
	return nil
}

// FollowToggleResult reports the follow state after a toggle.
type FollowToggleResult struct {
	Following bool `json:"following"`
}
