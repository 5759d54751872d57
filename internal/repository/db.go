package repository

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/iyunix/go-chatfront/internal/domain"
)

// OpenSQLite opens (creating if needed) the message database at path and
// migrates the schema. ":memory:" gives a private in-memory database.
func OpenSQLite(path string, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database, and SQLite
	// serializes writers anyway.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&domain.Message{}); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return db, nil
}
