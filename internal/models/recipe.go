package models

import (
	"time"

	"gorm.io/datatypes"
)

// Recipe is a brewing method with its parameters. Built-in recipes are owned by the system.
type Recipe struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:120;not null" json:"name"`
	Method      string `gorm:"size:80;not null;index" json:"method"`
	Label       string `gorm:"size:80" json:"label,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Ratio       string `gorm:"size:32;not null" json:"ratio"`
	Notes       string `gorm:"type:text" json:"notes"`
	Owner
	Rating            int                                     `gorm:"not null;default:3" json:"rating"`
	CoffeeGrams       float64                                 `json:"coffee_grams,omitempty"`
	WaterMl           float64                                 `json:"water_ml,omitempty"`
	WaterTemperature  float64                                 `json:"water_temperature,omitempty"`
	ExtractionSeconds int                                     `json:"extraction_seconds,omitempty"`
	IsPublic          bool                                    `gorm:"not null" json:"is_public"`
	IsSystemDefault   bool                                    `gorm:"not null;default:false;index" json:"is_system_default"`
	Configuration     datatypes.JSONType[RecipeConfiguration] `gorm:"not null" json:"configuration"`
	CreatedAt         time.Time                               `json:"created_at"`
	UpdatedAt         time.Time                               `json:"updated_at"`
}

// RecipeConfiguration is the step-by-step brewing guide of a recipe.
type RecipeConfiguration struct {
	Grind            string       `json:"grind,omitempty" yaml:"grind"`
	Temperature      float64      `json:"temperature,omitempty" yaml:"temperature"`
	Base             RecipeBase   `json:"base" yaml:"base"`
	TotalTimeSeconds int          `json:"total_time_seconds,omitempty" yaml:"total_time_seconds"`
	Steps            []RecipeStep `json:"steps,omitempty" yaml:"steps"`
}

// RecipeBase holds the reference dose the steps are computed for.
type RecipeBase struct {
	CoffeeGrams  float64 `json:"coffee_g" yaml:"coffee_g"`
	WaterTotalMl float64 `json:"water_total_ml" yaml:"water_total_ml"`
}

// RecipeStep is one timed action of a brew.
type RecipeStep struct {
	Step                 int     `json:"step" yaml:"step"`
	TimeStart            int     `json:"time_start" yaml:"time_start"`
	TimeEnd              int     `json:"time_end" yaml:"time_end"`
	Action               string  `json:"action" yaml:"action"`
	WaterMl              float64 `json:"water_ml" yaml:"water_ml"`
	Calculation          string  `json:"calculation,omitempty" yaml:"calculation"`
	RequiresManualAction bool    `json:"requires_manual_action" yaml:"requires_manual_action"`
}
