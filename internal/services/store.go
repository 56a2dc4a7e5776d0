package services

import (
	"time"

	"selenex/internal/models"
	"selenex/pkg/database"
)

// RecordingStore is the persistence the background services need.
type RecordingStore interface {
	ActiveRecordings() ([]models.Recording, error)
	UpdateRecordingStatus(id uint, status string) error
	PurgeUnsavedRecordings(cutoff time.Time) (int64, error)
}

// SessionTracker reports on live recorder sessions.
type SessionTracker interface {
	IsActive(sessionID string) bool
	StaleSessions(olderThan time.Duration) []string
	CleanupRecording(sessionID string)
}

type dbStore struct{}

// DatabaseStore is backed by the global gorm connection.
var DatabaseStore RecordingStore = dbStore{}

func (dbStore) ActiveRecordings() ([]models.Recording, error) {
	return database.ActiveRecordings()
}

func (dbStore) UpdateRecordingStatus(id uint, status string) error {
	return database.UpdateRecordingStatus(id, status)
}

func (dbStore) PurgeUnsavedRecordings(cutoff time.Time) (int64, error) {
	return database.PurgeUnsavedRecordings(cutoff)
}
