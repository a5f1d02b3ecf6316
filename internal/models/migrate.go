package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every model this service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserProfile{},
		&Friendship{},
		&Community{},
		&CommunityMember{},
		&SystemLog{},
	)
}
