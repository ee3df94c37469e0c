package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"comm-service/internal/model"
	"comm-service/pkg/config"
)

var db *gorm.DB

// InitDB opens the PostgreSQL connection, tunes the pool and migrates the
// schema.
func InitDB(cfg *config.Config) error {
	// PreferSimpleProtocol avoids "prepared statement already exists" errors
	// behind connection poolers.
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true,
	}

	var err error
	db, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.DB.LogLevel),
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	return db.AutoMigrate(
		&model.User{},
		&model.Package{},
		&model.Customer{},
		&model.AuditLog{},
		&model.PasswordReset{},
		&model.FailedLoginAttempt{},
		&model.ContactSubmission{},
	)
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}
