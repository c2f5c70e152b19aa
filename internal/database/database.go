package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/projecthub/projecthub/internal/config"
	"github.com/projecthub/projecthub/internal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host": cfg.DBHost,
		"name": cfg.DBName,
	}).Info("database connection established")
	return nil
}

func Migrate() error {
	return MigrateWith(DB)
}

// MigrateWith registers the collaborator join tables and runs auto-migration.
// Extracted so tests can migrate their own in-memory database.
func MigrateWith(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Project{}, "Collaborators", &models.ProjectCollaborator{}); err != nil {
		return fmt.Errorf("failed to set up project collaborators join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Task{}, "Collaborators", &models.TaskCollaborator{}); err != nil {
		return fmt.Errorf("failed to set up task collaborators join table: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.ProjectCollaborator{},
		&models.TaskCollaborator{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
