package storage

// Package storage persists the download history in SQLite through gorm.

