// Package history keeps a local SQLite ledger of completed operations.
package history

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mediakit/internal/util"
)

// Status values stored in Record.Status.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusPlanned   = "planned"
)

// Record is one operation outcome.
type Record struct {
	ID           uint      `gorm:"primaryKey"`
	JobID        string    `gorm:"index;not null"`
	Operation    string    `gorm:"index;not null"`
	Input        string    `gorm:"type:text"`
	Output       string    `gorm:"type:text"`
	Status       string    `gorm:"not null"`
	Error        string    `gorm:"type:text"`
	UsedFallback bool
	Bytes        int64
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

// Store is safe for concurrent use.
type Store struct {
	db *gorm.DB
}

// Open creates or opens the ledger at path. ":memory:" is accepted for tests.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history database path is empty")
	}
	if path != ":memory:" {
		if err := util.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// SQLite allows one writer at a time.
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return &Store{db: db}, nil
}

// Add inserts r and fills in its ID and CreatedAt.
func (s *Store) Add(r *Record) error {
	if r.Status == "" {
		r.Status = StatusSucceeded
	}
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. A limit <= 0 means 20.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Record
	if err := s.db.Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return out, nil
}

// ByOperation returns up to limit records for one operation, newest first.
func (s *Store) ByOperation(op string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Record
	err := s.db.Where("operation = ?", op).Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return out, nil
}

// Clear deletes every record and returns how many were removed.
func (s *Store) Clear() (int64, error) {
	res := s.db.Where("1 = 1").Delete(&Record{})
	if res.Error != nil {
		return 0, fmt.Errorf("clear history: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
