package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"selenex/internal/models"
	"selenex/internal/recorder"
	"selenex/pkg/database"
	"selenex/pkg/metrics"
	"selenex/pkg/response"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func recorderError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, recorder.ErrSessionNotFound):
		response.NotFound(c, "recording session not found")
	case errors.Is(err, recorder.ErrUnknownDevice):
		response.BadRequest(c, err.Error())
	case errors.Is(err, recorder.ErrAlreadyRecording), errors.Is(err, recorder.ErrNotRecording):
		response.Conflict(c, err.Error())
	default:
		response.InternalServerError(c, "failed to "+action+": "+err.Error())
	}
}

func StartRecording(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		URL    string `json:"url" binding:"required,url"`
		Device string `json:"device"`
		Name   string `json:"name" binding:"max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if req.Device == "" {
		req.Device = defaultDevice
	}
	sessionID := uuid.New().String()
	if err := recorder.Manager.StartRecording(sessionID, req.URL, req.Device); err != nil {
		recorderError(c, "start recording", err)
		return
	}

	rec, _ := recorder.Manager.GetRecorder(sessionID)
	name := req.Name
	if name == "" {
		name = "Recording " + time.Now().Format("2006-01-02 15:04:05")
	}
	recording := models.Recording{
		SessionID: sessionID,
		Name:      name,
		StartURL:  req.URL,
		Device:    rec.DeviceName(),
		Status:    models.RecordingActive,
		UserID:    userID,
	}
	recording.SetEvents(nil)
	if err := database.DB.Create(&recording).Error; err != nil {
		recorder.Manager.CleanupRecording(sessionID)
		response.InternalServerError(c, "failed to persist recording")
		return
	}

	response.SuccessWithMessage(c, "recording started", gin.H{
		"session_id":   sessionID,
		"recording_id": recording.ID,
		"device":       recording.Device,
	})
}

func StopRecording(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	recording, ok := ownedSession(c, userID, req.SessionID)
	if !ok {
		return
	}

	if err := recorder.Manager.StopRecording(req.SessionID); err != nil {
		recorderError(c, "stop recording", err)
		return
	}

	_, events, _ := recorder.Manager.GetRecordingStatus(req.SessionID)
	recording.SetEvents(events)
	recording.Status = models.RecordingStopped
	if err := database.DB.Save(recording).Error; err != nil {
		response.InternalServerError(c, "failed to update recording")
		return
	}

	response.SuccessWithMessage(c, "recording stopped", gin.H{
		"session_id":  req.SessionID,
		"event_count": recording.EventCount,
	})
}

func GetRecordingStatus(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.BadRequest(c, "session_id is required")
		return
	}

	isRecording, events, err := recorder.Manager.GetRecordingStatus(sessionID)
	if err != nil {
		recorderError(c, "get recording status", err)
		return
	}
	if events == nil {
		events = make([]models.Event, 0)
	}

	response.Success(c, gin.H{
		"is_recording": isRecording,
		"event_count":  len(events),
		"events":       events,
	})
}

// SaveRecording persists the captured events of a stopped session and stores
// the script generated from them.
func SaveRecording(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		SessionID string `json:"session_id" binding:"required"`
		Name      string `json:"name" binding:"required,min=1,max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	recording, ok := ownedSession(c, userID, req.SessionID)
	if !ok {
		return
	}

	isRecording, events, err := recorder.Manager.GetRecordingStatus(req.SessionID)
	if err != nil {
		recorderError(c, "save recording", err)
		return
	}
	if isRecording {
		response.BadRequest(c, "stop the recording before saving")
		return
	}
	if len(events) == 0 {
		response.BadRequest(c, "no events were recorded")
		return
	}

	program, err := scriptGenerator.Generate(events)
	if err != nil {
		response.InternalServerError(c, "failed to generate script: "+err.Error())
		return
	}
	metrics.Default().ScriptGenerated("recording", newGenerateResponse(program).Kinds)

	recording.Name = req.Name
	recording.Status = models.RecordingSaved
	if err := recording.SetEvents(events); err != nil {
		response.InternalServerError(c, "failed to encode events")
		return
	}
	script := models.Script{
		Name:        req.Name,
		RecordingID: &recording.ID,
		StartURL:    program.StartURL,
		Content:     program.String(),
		BlockCount:  len(program.Blocks),
		UserID:      userID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(recording).Error; err != nil {
			return err
		}
		return tx.Create(&script).Error
	})
	if err != nil {
		response.InternalServerError(c, "failed to save recording")
		return
	}

	recorder.Manager.CleanupRecording(req.SessionID)

	response.SuccessWithMessage(c, "recording saved", gin.H{
		"recording": recording,
		"script":    script,
	})
}

func ownedSession(c *gin.Context, userID uint, sessionID string) (*models.Recording, bool) {
	var recording models.Recording
	err := database.DB.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&recording).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "recording session not found")
		} else {
			response.InternalServerError(c, "failed to load recording")
		}
		return nil, false
	}
	return &recording, true
}

// RecordingWebSocket streams captured events of a live session. The session
// ID is only known to the user who started it, so no token is required.
func RecordingWebSocket(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	chromeRecorder, exists := recorder.Manager.GetRecorder(sessionID)
	if !exists {
		conn.WriteJSON(gin.H{"error": "recording session not found"})
		return
	}

	chromeRecorder.SetWebSocketConnection(conn)
	defer chromeRecorder.ClearWebSocketConnection(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
	}
}
