package handlers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"

	"selenex/internal/generator"
	"selenex/internal/models"
	"selenex/internal/session"
	"selenex/pkg/database"
	"selenex/pkg/metrics"
	"selenex/pkg/response"
	"selenex/pkg/utils"
)

const generateCacheSize = 256

// generateCache holds responses for recently posted sessions, keyed by the
// SHA-256 of the request body. Reset whenever the generator changes.
var generateCache, _ = lru.New[string, GenerateResponse](generateCacheSize)

type GenerateResponse struct {
	Script   string         `json:"script"`
	StartURL string         `json:"start_url"`
	Blocks   int            `json:"blocks"`
	Kinds    map[string]int `json:"kinds"`
}

func newGenerateResponse(program *generator.Program) GenerateResponse {
	kinds := make(map[string]int)
	for _, block := range program.Blocks {
		kinds[block.Kind]++
	}
	return GenerateResponse{
		Script:   program.String(),
		StartURL: program.StartURL,
		Blocks:   len(program.Blocks),
		Kinds:    kinds,
	}
}

// GenerateScript turns a posted event array into a script without storing
// anything.
func GenerateScript(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxSessionBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(c, fmt.Sprintf("session exceeds %d bytes", tooLarge.Limit))
		} else {
			response.InternalServerError(c, "failed to read request body")
		}
		return
	}
	sum := sha256.Sum256(body)
	key := hex.EncodeToString(sum[:])
	if cached, ok := generateCache.Get(key); ok {
		response.Success(c, cached)
		return
	}

	events, err := session.Parse(bytes.NewReader(body))
	if err != nil {
		if errors.Is(err, session.ErrMalformedSession) {
			response.BadRequest(c, err.Error())
		} else {
			response.InternalServerError(c, "failed to read request body")
		}
		return
	}

	program, err := scriptGenerator.Generate(events)
	if err != nil {
		response.InternalServerError(c, "failed to generate script: "+err.Error())
		return
	}

	resp := newGenerateResponse(program)
	metrics.Default().ScriptGenerated("api", resp.Kinds)
	generateCache.Add(key, resp)
	response.Success(c, resp)
}

func GetScripts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	query := database.DB.Model(&models.Script{}).Scopes(utils.OwnerScope(userID))
	if recordingID := c.Query("recording_id"); recordingID != "" {
		query = query.Where("recording_id = ?", recordingID)
	}

	var total int64
	query.Count(&total)

	var scripts []models.Script
	err := query.Omit("content").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&scripts).Error
	if err != nil {
		response.InternalServerError(c, "failed to list scripts")
		return
	}

	response.Page(c, scripts, total, page, pageSize)
}

func loadScript(c *gin.Context) (*models.Script, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	id, ok := idParam(c)
	if !ok {
		return nil, false
	}
	if !utils.HasPermissionOnScript(userID, id) {
		response.NotFound(c, "script not found")
		return nil, false
	}

	var script models.Script
	if err := database.DB.First(&script, id).Error; err != nil {
		response.NotFound(c, "script not found")
		return nil, false
	}
	return &script, true
}

func GetScript(c *gin.Context) {
	script, ok := loadScript(c)
	if !ok {
		return
	}
	response.Success(c, script)
}

func DownloadScript(c *gin.Context) {
	script, ok := loadScript(c)
	if !ok {
		return
	}
	response.Attachment(c, scriptFilename(script.Name), "text/x-python; charset=utf-8", []byte(script.Content))
}

func DeleteScript(c *gin.Context) {
	script, ok := loadScript(c)
	if !ok {
		return
	}
	if err := database.DB.Delete(script).Error; err != nil {
		response.InternalServerError(c, "failed to delete script")
		return
	}
	response.SuccessWithMessage(c, "script deleted", nil)
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// scriptFilename turns a display name into a safe Python file name.
func scriptFilename(name string) string {
	base := strings.TrimSuffix(path.Base(name), ".py")
	base = strings.Trim(unsafeFilename.ReplaceAllString(base, "_"), "_")
	if base == "" {
		base = "test_script"
	}
	return strings.ToLower(base) + ".py"
}
