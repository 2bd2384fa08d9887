package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/config"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the database selected by the DSN. postgres:// URLs go to the
// Postgres driver, everything else is treated as a MySQL DSN. TranslateError
// is required so duplicate-key collisions surface as gorm.ErrDuplicatedKey,
// which the ingestion counters depend on.
func Connect(cfg *config.Config) error {
	dsn := cfg.DSN()

	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	var err error
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		DB, err = gorm.Open(postgres.Open(dsn), gormCfg)
	} else {
		DB, err = gorm.Open(mysql.Open(dsn), gormCfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return nil
}

func Migrate() error {
	log.Println("Running database migrations...")
	err := DB.AutoMigrate(
		&models.User{},
		&models.Upload{},
		&models.DataRow{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
