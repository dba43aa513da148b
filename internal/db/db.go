package db

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aleksandergalganski/employee-api/internal/config"
	"github.com/aleksandergalganski/employee-api/internal/models"
)

func Connect(cfg config.Config) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormLogger,
	})
}

// Migrate creates or updates the employee and address tables.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(&models.Employee{}, &models.Address{})
}
