package config

import (
	"github.com/Danidiaz0799/fungicloud/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is a global variable to hold the database connection
var DB *gorm.DB

// Connect opens the PostgreSQL connection and stores it in the global DB.
func Connect(dsn string) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserBilling{},
		&models.LocalServer{},
		&models.SyncData{},
		&models.SyncEvent{},
	)
}
