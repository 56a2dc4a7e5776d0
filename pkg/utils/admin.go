package utils

import (
	"selenex/internal/models"
	"selenex/pkg/database"

	"gorm.io/gorm"
)

const AdminUsername = "admin"

// IsAdmin checks if the user with given ID is an admin user
func IsAdmin(userID uint) bool {
	var user models.User
	err := database.DB.First(&user, userID).Error
	if err != nil {
		return false
	}
	return user.Username == AdminUsername
}

// HasPermissionOnRecording checks if user owns the recording or is admin
func HasPermissionOnRecording(userID uint, recordingID uint) bool {
	if IsAdmin(userID) {
		return true
	}

	var recording models.Recording
	err := database.DB.Where("id = ? AND user_id = ?", recordingID, userID).First(&recording).Error
	return err == nil
}

// HasPermissionOnScript checks if user owns the script or is admin
func HasPermissionOnScript(userID uint, scriptID uint) bool {
	if IsAdmin(userID) {
		return true
	}

	var script models.Script
	err := database.DB.Where("id = ? AND user_id = ?", scriptID, userID).First(&script).Error
	return err == nil
}

// OwnerScope limits a query to rows owned by userID unless the user is admin.
func OwnerScope(userID uint) func(db *gorm.DB) *gorm.DB {
	admin := IsAdmin(userID)
	return func(db *gorm.DB) *gorm.DB {
		if admin {
			return db
		}
		return db.Where("user_id = ?", userID)
	}
}
