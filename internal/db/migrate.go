package db

import (
	"fmt" // Error wrapping

	"proxy_manager/internal/domain" // Importing domain models
	"proxy_manager/internal/utils"  // Logger bridge

	"github.com/glebarez/sqlite" // Pure-Go SQLite driver for GORM
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/gorm"            // GORM ORM library
)

// Open opens a GORM connection for driver ("mysql", "postgres" or "sqlite")
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql", "":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: utils.GormLogger(),
		// Users can be removed while their proxies remain.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", driver, err)
	}
	return conn, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(conn *gorm.DB) error {
	// AutoMigrate will create tables, missing columns and indexes
	if err := conn.AutoMigrate(&domain.User{}, &domain.Ssl{}, &domain.Proxy{}); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
