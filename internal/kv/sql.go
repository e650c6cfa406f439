package kv

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/danieljhkim/festie/internal/clock"
)

// entry is one stored key.
type entry struct {
	Name      string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

func (entry) TableName() string {
	return "kv_entries"
}

// SQLStore implements Store on a SQLite database through gorm.
type SQLStore struct {
	db    *gorm.DB
	clock clock.Clock
}

// OpenSQLStore opens (creating if needed) the SQLite database at path and
// migrates the kv_entries table. Rows are stamped with clk.
func OpenSQLStore(path string, clk clock.Clock) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}

	return &SQLStore{db: db, clock: clk}, nil
}

// Get loads the row for key.
func (s *SQLStore) Get(key string) ([]byte, bool, error) {
	var e entry
	err := s.db.Where("name = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return e.Value, true, nil
}

// Set upserts the row for key.
func (s *SQLStore) Set(key string, value []byte) error {
	e := entry{Name: key, Value: value, UpdatedAt: s.clock.Now().UTC()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes the row for key.
func (s *SQLStore) Delete(key string) error {
	if err := s.db.Where("name = ?", key).Delete(&entry{}).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
