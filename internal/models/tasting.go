package models

import "time"

// SensoryProfile scores a tasting on a 0..100 scale per attribute.
type SensoryProfile struct {
	Acidity    int `gorm:"column:acidity;not null" json:"acidity"`
	Sweetness  int `gorm:"column:sweetness;not null" json:"sweetness"`
	Bitterness int `gorm:"column:bitterness;not null" json:"bitterness"`
}

// TastingRecord is a standalone tasting-history entry. It never publishes.
type TastingRecord struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	MethodName    string         `gorm:"size:120;not null" json:"method_name"`
	OverallRating int            `gorm:"not null" json:"overall_rating"`
	Profile       SensoryProfile `gorm:"embedded" json:"profile"`
	Notes         string         `gorm:"type:text" json:"notes,omitempty"`
	TastedAt      time.Time      `gorm:"not null;index" json:"tasted_at"`
	CreatedAt     time.Time      `json:"created_at"`
}

// OwnedBy reports whether userID recorded the tasting.
func (r *TastingRecord) OwnedBy(userID uint) bool {
	return r.UserID == userID
}
