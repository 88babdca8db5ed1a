package storage

import (
	"os"
	"path/filepath"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"voiceguard-server-go/internal/platform/config"
	"voiceguard-server-go/internal/platform/errors"
)

// db is the process-wide database handle, opened once at bootstrap.
var db *gorm.DB

// InitDatabase opens the SQLite database used for the detection audit trail.
func InitDatabase(cfg *config.StorageConfig) error {
	if db != nil {
		return nil
	}

	dataDir := "./data"
	file := "voiceguard.db"
	if cfg != nil {
		if cfg.Dir != "" {
			dataDir = cfg.Dir
		}
		if cfg.File != "" {
			file = cfg.File
		}
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return errors.Wrap(errors.KindStorage, "storage.init", "failed to create data directory", err)
	}

	dbPath := filepath.Join(dataDir, file)

	var err error
	db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return errors.Wrap(errors.KindStorage, "storage.init", "failed to open database", err)
	}

	if err := db.AutoMigrate(&DetectionRecord{}); err != nil {
		return errors.Wrap(errors.KindStorage, "storage.init", "failed to migrate database", err)
	}

	return nil
}

// GetDB returns the global database instance.
func GetDB() *gorm.DB {
	if db == nil {
		panic("database not initialized, call InitDatabase() first")
	}
	return db
}

// DetectionRecord is the persisted audit row for a completed detection.
type DetectionRecord struct {
	ID                   uint           `gorm:"primaryKey"`
	RequestID            string         `gorm:"uniqueIndex;size:36"`
	FingerprintHex       string         `gorm:"index;size:64"`
	Language             string         `gorm:"size:16"`
	Classification       string         `gorm:"size:16"`
	Confidence           float64        ``
	AudioDurationSeconds float64        ``
	ProcessingTimeMs     float64        ``
	PayloadBytes         int64          ``
	Explanation          datatypes.JSON ``
	CreatedAt            time.Time      ``
}

// TableName keeps the audit table name stable.
func (DetectionRecord) TableName() string {
	return "detection_records"
}
