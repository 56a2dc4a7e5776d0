package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"selenex/internal/config"
	"selenex/internal/generator"
	"selenex/pkg/auth"
	"selenex/pkg/response"
)

var (
	scriptGenerator = generator.New(nil, generator.DefaultOptions())
	tokenExpire     = 24 * 3600
	defaultDevice   = ""
	maxSessionBytes = int64(10 << 20)
)

// Configure wires the handlers to the loaded configuration. Call it before
// serving requests.
func Configure(cfg *config.Config, gen *generator.Generator) {
	if gen != nil {
		scriptGenerator = gen
		generateCache.Purge()
	}
	tokenExpire = cfg.JWT.ExpireTime
	defaultDevice = cfg.Chrome.Device
	if cfg.Generator.MaxSessionBytes > 0 {
		maxSessionBytes = int64(cfg.Generator.MaxSessionBytes)
	}
	auth.SetSecret(cfg.JWT.Secret)
}

func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "user not logged in")
		return 0, false
	}
	userID, ok := value.(uint)
	if !ok {
		response.Unauthorized(c, "user not logged in")
		return 0, false
	}
	return userID, true
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
