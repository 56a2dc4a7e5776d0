package handlers

import (
	"github.com/gin-gonic/gin"

	"selenex/internal/models"
	"selenex/internal/recorder"
	"selenex/pkg/database"
	"selenex/pkg/metrics"
	"selenex/pkg/response"
	"selenex/pkg/utils"
)

func GetRecordings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	query := database.DB.Model(&models.Recording{}).Scopes(utils.OwnerScope(userID))
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var recordings []models.Recording
	err := query.Omit("events").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&recordings).Error
	if err != nil {
		response.InternalServerError(c, "failed to list recordings")
		return
	}

	response.Page(c, recordings, total, page, pageSize)
}

func loadRecording(c *gin.Context) (*models.Recording, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	id, ok := idParam(c)
	if !ok {
		return nil, false
	}
	if !utils.HasPermissionOnRecording(userID, id) {
		response.NotFound(c, "recording not found")
		return nil, false
	}

	var recording models.Recording
	if err := database.DB.First(&recording, id).Error; err != nil {
		response.NotFound(c, "recording not found")
		return nil, false
	}
	return &recording, true
}

func GetRecording(c *gin.Context) {
	recording, ok := loadRecording(c)
	if !ok {
		return
	}
	response.Success(c, recording)
}

func DeleteRecording(c *gin.Context) {
	recording, ok := loadRecording(c)
	if !ok {
		return
	}

	recorder.Manager.CleanupRecording(recording.SessionID)
	if err := database.DB.Delete(recording).Error; err != nil {
		response.InternalServerError(c, "failed to delete recording")
		return
	}
	response.SuccessWithMessage(c, "recording deleted", nil)
}

// GenerateFromRecording renders a new script from the stored events of a
// recording.
func GenerateFromRecording(c *gin.Context) {
	recording, ok := loadRecording(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, err.Error())
		return
	}

	events, err := recording.GetEvents()
	if err != nil {
		response.InternalServerError(c, "stored events are corrupt: "+err.Error())
		return
	}
	if len(events) == 0 {
		response.BadRequest(c, "recording has no events")
		return
	}

	program, err := scriptGenerator.Generate(events)
	if err != nil {
		response.InternalServerError(c, "failed to generate script: "+err.Error())
		return
	}
	metrics.Default().ScriptGenerated("recording", newGenerateResponse(program).Kinds)

	name := req.Name
	if name == "" {
		name = recording.Name
	}
	script := models.Script{
		Name:        name,
		RecordingID: &recording.ID,
		StartURL:    program.StartURL,
		Content:     program.String(),
		BlockCount:  len(program.Blocks),
		UserID:      c.GetUint("user_id"),
	}
	if err := database.DB.Create(&script).Error; err != nil {
		response.InternalServerError(c, "failed to save script")
		return
	}

	response.SuccessWithMessage(c, "script generated", script)
}
