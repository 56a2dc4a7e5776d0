package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type User struct {
	BaseModel
	Username string `json:"username" gorm:"uniqueIndex;size:100;not null"`
	Email    string `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password string `json:"-" gorm:"size:255;not null"`
	Status   int    `json:"status" gorm:"default:1"` // 1:active, 0:inactive
}

// Recording statuses.
const (
	RecordingActive  = "recording"
	RecordingStopped = "stopped"
	RecordingSaved   = "saved"
	RecordingAborted = "aborted"
)

type Recording struct {
	BaseModel
	SessionID  string `json:"session_id" gorm:"uniqueIndex;size:64;not null"`
	Name       string `json:"name" gorm:"size:200"`
	StartURL   string `json:"start_url" gorm:"size:1000"`
	Device     string `json:"device" gorm:"size:100"`
	Events     string `json:"events" gorm:"type:longtext"` // JSON array of Event
	EventCount int    `json:"event_count"`
	Status     string `json:"status" gorm:"size:20;index"`
	UserID     uint   `json:"user_id" gorm:"not null"`
	User       User   `json:"user" gorm:"foreignKey:UserID"`
}

func (r *Recording) GetEvents() ([]Event, error) {
	var events []Event
	if r.Events == "" {
		return events, nil
	}
	err := json.Unmarshal([]byte(r.Events), &events)
	return events, err
}

func (r *Recording) SetEvents(events []Event) error {
	if events == nil {
		events = []Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	r.Events = string(data)
	r.EventCount = len(events)
	return nil
}

type Script struct {
	BaseModel
	Name        string     `json:"name" gorm:"size:200;not null"`
	RecordingID *uint      `json:"recording_id"`
	Recording   *Recording `json:"recording,omitempty" gorm:"foreignKey:RecordingID"`
	StartURL    string     `json:"start_url" gorm:"size:1000"`
	Content     string     `json:"content" gorm:"type:longtext"`
	BlockCount  int        `json:"block_count"`
	UserID      uint       `json:"user_id" gorm:"not null"`
	User        User       `json:"user" gorm:"foreignKey:UserID"`
}
