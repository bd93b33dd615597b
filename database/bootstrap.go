// database/bootstrap.go
package database

import (
	"fmt"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"feedbackgen/entities"
)

// OpenSQLite opens (or creates) the database file and migrates the schema.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// one writer at a time; sqlite serialises anyway and this avoids SQLITE_BUSY
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec(`PRAGMA journal_mode=WAL`).Error; err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if err := db.AutoMigrate(&entities.KVEntry{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
