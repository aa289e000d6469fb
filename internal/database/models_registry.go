package database

import "brewhub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order follows foreign-key dependencies so AutoMigrate can create tables in one pass.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Recipe{},
		&models.CoffeeBag{},
		&models.TastingRecord{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Follow{},
	}
}
