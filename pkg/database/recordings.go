package database

import (
	"time"

	"selenex/internal/models"
)

// ActiveRecordings returns recordings persisted while their browser session
// was still running.
func ActiveRecordings() ([]models.Recording, error) {
	var recordings []models.Recording
	err := DB.Select("id, session_id, status, updated_at").
		Where("status = ?", models.RecordingActive).
		Find(&recordings).Error
	return recordings, err
}

func UpdateRecordingStatus(id uint, status string) error {
	return DB.Model(&models.Recording{}).Where("id = ?", id).Update("status", status).Error
}

// PurgeUnsavedRecordings deletes stopped and aborted recordings last touched
// before cutoff. Saved recordings are never purged.
func PurgeUnsavedRecordings(cutoff time.Time) (int64, error) {
	result := DB.Where("status IN ? AND updated_at < ?",
		[]string{models.RecordingStopped, models.RecordingAborted}, cutoff).
		Delete(&models.Recording{})
	return result.RowsAffected, result.Error
}
