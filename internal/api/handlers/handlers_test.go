package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selenex/internal/recorder"
	"selenex/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(handler gin.HandlerFunc, method, target, body string, userID uint) *httptest.ResponseRecorder {
	router := gin.New()
	router.Handle(method, "/*path", func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		handler(c)
	})
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const sessionJSON = `[
  {"action":"click","fingerprint":{"url":"https://shop.example/home"},
   "elementContext":{"tag":"BUTTON","text":"Submit","attributes":{}}},
  {"action":"input","value":"hello","fingerprint":{"url":"https://shop.example/home"},
   "elementContext":{"tag":"INPUT","attributes":{"name":"q"}}},
  {"action":"click","fingerprint":{"url":"https://shop.example/cart"},
   "elementContext":{"tag":"A","text":"Checkout","attributes":{"href":"/checkout"}}}
]`

func TestGenerateScript(t *testing.T) {
	w := perform(GenerateScript, http.MethodPost, "/scripts/generate", sessionJSON, 0)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int              `json:"code"`
		Data GenerateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 200, body.Code)
	assert.Equal(t, "https://shop.example/home", body.Data.StartURL)
	assert.Equal(t, 4, body.Data.Blocks)
	assert.Equal(t, map[string]int{"click": 2, "input": 1, "navigation": 1}, body.Data.Kinds)
	assert.Contains(t, body.Data.Script, `driver.get("https://shop.example/home")`)
	assert.Contains(t, body.Data.Script, `"//button[normalize-space()='Submit']"`)
	assert.Contains(t, body.Data.Script, `EC.url_contains("cart")`)
}

func TestGenerateScriptCachesBySessionBody(t *testing.T) {
	generateCache.Purge()
	body := `[{"action":"scroll","x":0,"y":300,"fingerprint":{"url":"https://cache.example/feed"}}]`

	first := perform(GenerateScript, http.MethodPost, "/scripts/generate", body, 0)
	assert.Equal(t, 1, generateCache.Len())
	second := perform(GenerateScript, http.MethodPost, "/scripts/generate", body, 0)

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, generateCache.Len())
	assert.Contains(t, second.Body.String(), "window.scrollTo(0, 300)")
}

func TestGenerateScriptEmptySession(t *testing.T) {
	w := perform(GenerateScript, http.MethodPost, "/scripts/generate", `[]`, 0)

	var body struct {
		Code int              `json:"code"`
		Data GenerateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 200, body.Code)
	assert.Equal(t, "https://google.com", body.Data.StartURL)
	assert.Zero(t, body.Data.Blocks)
}

func TestGenerateScriptRejectsMalformedBody(t *testing.T) {
	for _, body := range []string{`{"action":"click"}`, `not json`, `[{"action":`} {
		w := perform(GenerateScript, http.MethodPost, "/scripts/generate", body, 0)
		assert.Equal(t, 400, envelope(t, w).Code, body)
	}
}

func TestGenerateScriptRejectsOversizedBody(t *testing.T) {
	previous := maxSessionBytes
	maxSessionBytes = int64(len(sessionJSON) - 1)
	t.Cleanup(func() { maxSessionBytes = previous })
	generateCache.Purge()

	w := perform(GenerateScript, http.MethodPost, "/scripts/generate", sessionJSON, 0)
	body := envelope(t, w)
	assert.Equal(t, 413, body.Code)
	assert.Contains(t, body.Message, fmt.Sprintf("exceeds %d bytes", maxSessionBytes))
	assert.Zero(t, generateCache.Len())

	maxSessionBytes = int64(len(sessionJSON))
	w = perform(GenerateScript, http.MethodPost, "/scripts/generate", sessionJSON, 0)
	assert.Equal(t, 200, envelope(t, w).Code)
}

func TestStartRecordingValidation(t *testing.T) {
	w := perform(StartRecording, http.MethodPost, "/recording/start", `{"device":"iPad Pro"}`, 1)
	assert.Equal(t, 400, envelope(t, w).Code)

	w = perform(StartRecording, http.MethodPost, "/recording/start", `{"url":"not a url"}`, 1)
	assert.Equal(t, 400, envelope(t, w).Code)

	w = perform(StartRecording, http.MethodPost, "/recording/start", `{"url":"https://a.example"}`, 0)
	assert.Equal(t, 401, envelope(t, w).Code)
}

func TestGetRecordingStatusUnknownSession(t *testing.T) {
	w := perform(GetRecordingStatus, http.MethodGet, "/recording/status?session_id=nope", "", 1)
	assert.Equal(t, 404, envelope(t, w).Code)

	w = perform(GetRecordingStatus, http.MethodGet, "/recording/status", "", 1)
	assert.Equal(t, 400, envelope(t, w).Code)
}

func TestRecorderErrorMapping(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("%w: x", recorder.ErrSessionNotFound):  404,
		fmt.Errorf("%w: x", recorder.ErrUnknownDevice):    400,
		fmt.Errorf("%w: x", recorder.ErrAlreadyRecording): 409,
		recorder.ErrNotRecording:                          409,
		errors.New("chrome crashed"):                      500,
	}
	for err, code := range cases {
		w := perform(func(c *gin.Context) { recorderError(c, "stop recording", err) }, http.MethodGet, "/", "", 0)
		assert.Equal(t, code, envelope(t, w).Code, err.Error())
	}
}

func TestScriptFilename(t *testing.T) {
	tests := map[string]string{
		"Checkout flow":       "checkout_flow.py",
		"login.py":            "login.py",
		"../../etc/passwd":    "passwd.py",
		"":                    "test_script.py",
		"Überprüfung #2 (v1)": "berpr_fung_2_v1.py",
	}
	for name, want := range tests {
		assert.Equal(t, want, scriptFilename(name), name)
	}
}

func TestPageParams(t *testing.T) {
	var page, size int
	perform(func(c *gin.Context) { page, size = pageParams(c) }, http.MethodGet, "/?page=3&page_size=500", "", 0)
	assert.Equal(t, 3, page)
	assert.Equal(t, 10, size)

	perform(func(c *gin.Context) { page, size = pageParams(c) }, http.MethodGet, "/?page=-1&page_size=25", "", 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 25, size)
}

func TestIDParam(t *testing.T) {
	router := gin.New()
	var got uint
	router.GET("/scripts/:id", func(c *gin.Context) {
		if id, ok := idParam(c); ok {
			got = id
			response.Success(c, nil)
		}
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scripts/17", nil))
	assert.Equal(t, uint(17), got)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scripts/abc", nil))
	assert.Equal(t, 400, envelope(t, w).Code)
}
