package models

import (
	"math"
	"time"
)

// Field limits for coffee bags.
const (
	BagNameMaxLen   = 120
	BagDetailMaxLen = 80
	BagNotesMaxLen  = 200
	BagGrindMaxLen  = 120
)

// CoffeeBag is a quantity of beans owned by one user, debited as it is brewed.
// RemainingWeight is stored with two decimals and never goes below zero.
type CoffeeBag struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Name            string    `gorm:"size:120;not null" json:"name"`
	Origin          string    `gorm:"size:80" json:"origin,omitempty"`
	Roaster         string    `gorm:"size:80" json:"roaster,omitempty"`
	Varietal        string    `gorm:"size:80" json:"varietal,omitempty"`
	Notes           string    `gorm:"size:200" json:"notes,omitempty"`
	GrindSuggestion string    `gorm:"size:120" json:"grind_suggestion,omitempty"`
	InitialWeight   float64   `gorm:"type:numeric(10,2);not null" json:"initial_weight"`
	RemainingWeight float64   `gorm:"type:numeric(10,2);not null" json:"remaining_weight"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RoundGrams rounds a weight to the two decimals the ledger stores.
func RoundGrams(v float64) float64 {
	return math.Round(v*100) / 100
}

// OwnedBy reports whether userID owns the bag.
func (b *CoffeeBag) OwnedBy(userID uint) bool {
	return b.UserID == userID
}
