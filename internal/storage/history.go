package storage

import (
	"fmt"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ytget/browser-shell/internal/download"
	"github.com/ytget/browser-shell/internal/model"
)

// DatabaseFilename is the history database inside the data directory
const DatabaseFilename = "downloads.db"

// HistoryEntry is one download that reached a terminal state
type HistoryEntry struct {
	ID            string              `gorm:"primaryKey"`
	URL           string              `gorm:"not null;index"`
	Destination   string
	ContentType   string
	State         model.DownloadState `gorm:"not null;index"`
	Error         string
	ReceivedBytes int64
	TotalBytes    int64
	StartedAt     time.Time
	FinishedAt    time.Time `gorm:"index"`
}

// EntryFromDownload snapshots d
func EntryFromDownload(d *download.Download) HistoryEntry {
	entry := HistoryEntry{
		ID:            d.ID(),
		URL:           d.URL(),
		Destination:   d.DestinationPath(),
		ContentType:   d.ContentType(),
		State:         d.State(),
		ReceivedBytes: d.Transfer().ReceivedLength(),
		TotalBytes:    d.Transfer().ContentLength(),
		StartedAt:     d.StartedAt(),
		FinishedAt:    d.FinishedAt(),
	}
	if err := d.Err(); err != nil {
		entry.Error = err.Error()
	}
	return entry
}

// HistoryStore keeps finished downloads in SQLite
type HistoryStore struct {
	db *gorm.DB
}

var _ download.Recorder = (*HistoryStore)(nil)

// OpenHistory opens (creating if needed) the database at dbPath
func OpenHistory(dbPath string) (*HistoryStore, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&HistoryEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

// OpenHistoryInDir opens DatabaseFilename inside dataDir
func OpenHistoryInDir(dataDir string) (*HistoryStore, error) {
	return OpenHistory(filepath.Join(dataDir, DatabaseFilename))
}

// Record saves a snapshot of d, replacing an earlier one with the same ID
func (s *HistoryStore) Record(d *download.Download) error {
	entry := EntryFromDownload(d)
	return s.Save(&entry)
}

// Save inserts or updates entry
func (s *HistoryStore) Save(entry *HistoryEntry) error {
	return s.db.Save(entry).Error
}

// List returns the most recently finished entries first. A limit of zero
// returns everything.
func (s *HistoryStore) List(limit int) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	query := s.db.Order("finished_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&entries).Error
	return entries, err
}

// Delete removes the entry with id
func (s *HistoryStore) Delete(id string) error {
	return s.db.Delete(&HistoryEntry{}, "id = ?", id).Error
}

// Clear removes every entry
func (s *HistoryStore) Clear() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&HistoryEntry{}).Error
}

// Close closes the database
func (s *HistoryStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
