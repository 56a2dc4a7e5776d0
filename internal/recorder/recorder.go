package recorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"selenex/internal/models"
	"selenex/pkg/chrome"
	"selenex/pkg/metrics"
)

var (
	ErrSessionNotFound  = errors.New("recording session not found")
	ErrAlreadyRecording = errors.New("recording is already in progress")
	ErrNotRecording     = errors.New("no recording in progress")
	ErrUnknownDevice    = errors.New("unknown device")
	ErrChromeNotFound   = errors.New("chrome browser not found, install Google Chrome or Chromium or set CHROME_PATH")
)

const wsWriteTimeout = 2 * time.Second

// ChromeRecorder captures the events of one recording session.
type ChromeRecorder struct {
	sessionID   string
	targetURL   string
	deviceName  string
	browser     Browser
	isRecording bool
	events      []models.Event
	startedAt   time.Time
	stoppedAt   time.Time
	done        chan struct{}
	mutex       sync.RWMutex

	wsMutex sync.Mutex
	wsConn  *websocket.Conn
}

func NewChromeRecorder(sessionID, deviceName string, browser Browser) *ChromeRecorder {
	return &ChromeRecorder{
		sessionID:  sessionID,
		deviceName: deviceName,
		browser:    browser,
		events:     make([]models.Event, 0),
	}
}

func (r *ChromeRecorder) StartRecording(targetURL string) error {
	r.mutex.Lock()
	if r.isRecording {
		r.mutex.Unlock()
		return ErrAlreadyRecording
	}
	r.isRecording = true
	r.targetURL = targetURL
	r.events = make([]models.Event, 0)
	r.startedAt = time.Now()
	r.stoppedAt = time.Time{}
	r.done = make(chan struct{})
	r.mutex.Unlock()
	metrics.Default().RecordingStarted()

	if err := r.browser.Open(targetURL, r.handlePayload); err != nil {
		r.mutex.Lock()
		r.finishLocked()
		r.mutex.Unlock()
		return fmt.Errorf("failed to start recording: %w", err)
	}

	go r.watchBrowser()
	return nil
}

// watchBrowser ends the recording when the user closes the window.
func (r *ChromeRecorder) watchBrowser() {
	<-r.browser.Done()

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.isRecording {
		log.Printf("🛑 Browser for recording %s closed, %d events captured", r.sessionID, len(r.events))
		r.finishLocked()
	}
}

func (r *ChromeRecorder) finishLocked() {
	metrics.Default().RecordingEnded()
	r.isRecording = false
	r.stoppedAt = time.Now()
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}

// Done is closed when the recording ends, whether stopped or because the
// browser went away.
func (r *ChromeRecorder) Done() <-chan struct{} {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.done
}

func (r *ChromeRecorder) StopRecording() error {
	r.mutex.Lock()
	if !r.isRecording {
		r.mutex.Unlock()
		return ErrNotRecording
	}
	r.finishLocked()
	r.mutex.Unlock()

	r.browser.Close()
	return nil
}

func (r *ChromeRecorder) handlePayload(payload string) {
	var event models.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Printf("⚠️ Dropping malformed event from recording %s: %v", r.sessionID, err)
		return
	}

	r.mutex.Lock()
	if !r.isRecording {
		r.mutex.Unlock()
		return
	}
	r.events = append(r.events, event)
	r.mutex.Unlock()
	metrics.Default().EventCaptured(event.Action)

	r.wsMutex.Lock()
	defer r.wsMutex.Unlock()
	if r.wsConn == nil {
		return
	}
	r.wsConn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := r.wsConn.WriteJSON(event); err != nil {
		log.Printf("⚠️ WebSocket write failed for recording %s: %v", r.sessionID, err)
		r.wsConn = nil
	}
}

func (r *ChromeRecorder) SetWebSocketConnection(conn *websocket.Conn) {
	r.wsMutex.Lock()
	defer r.wsMutex.Unlock()
	r.wsConn = conn
}

// ClearWebSocketConnection detaches conn unless a newer connection has
// already replaced it.
func (r *ChromeRecorder) ClearWebSocketConnection(conn *websocket.Conn) {
	r.wsMutex.Lock()
	defer r.wsMutex.Unlock()
	if r.wsConn == conn {
		r.wsConn = nil
	}
}

func (r *ChromeRecorder) GetEvents() []models.Event {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return append([]models.Event(nil), r.events...)
}

func (r *ChromeRecorder) IsRecording() bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.isRecording
}

func (r *ChromeRecorder) TargetURL() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.targetURL
}

func (r *ChromeRecorder) DeviceName() string { return r.deviceName }

// StoppedAt is zero while the session is still recording.
func (r *ChromeRecorder) StoppedAt() time.Time {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.stoppedAt
}

type RecorderManager struct {
	recorders  map[string]*ChromeRecorder
	options    ChromeOptions
	newBrowser BrowserFactory
	mutex      sync.RWMutex
}

var Manager = NewRecorderManager(ChromeOptions{}, nil)

// NewRecorderManager returns a manager that opens browsers through factory,
// or through chromedp when factory is nil.
func NewRecorderManager(opts ChromeOptions, factory BrowserFactory) *RecorderManager {
	if factory == nil {
		factory = newChromeBrowser
	}
	return &RecorderManager{
		recorders:  make(map[string]*ChromeRecorder),
		options:    opts,
		newBrowser: factory,
	}
}

func (rm *RecorderManager) Configure(opts ChromeOptions) {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()
	rm.options = opts
}

func (rm *RecorderManager) StartRecording(sessionID, targetURL, deviceName string) error {
	dev, ok := chrome.LookupDevice(deviceName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, deviceName)
	}

	rm.mutex.Lock()
	if _, exists := rm.recorders[sessionID]; exists {
		rm.mutex.Unlock()
		return fmt.Errorf("%w: session %s", ErrAlreadyRecording, sessionID)
	}
	recorder := NewChromeRecorder(sessionID, dev.Name, rm.newBrowser(rm.options, dev))
	rm.recorders[sessionID] = recorder
	rm.mutex.Unlock()

	if err := recorder.StartRecording(targetURL); err != nil {
		rm.CleanupRecording(sessionID)
		return err
	}

	log.Printf("🎬 Recording %s started on %s (%s)", sessionID, targetURL, dev.Name)
	return nil
}

func (rm *RecorderManager) StopRecording(sessionID string) error {
	recorder, exists := rm.GetRecorder(sessionID)
	if !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	// The recorder stays registered so its events can still be saved.
	return recorder.StopRecording()
}

func (rm *RecorderManager) GetRecorder(sessionID string) (*ChromeRecorder, bool) {
	rm.mutex.RLock()
	defer rm.mutex.RUnlock()

	recorder, exists := rm.recorders[sessionID]
	return recorder, exists
}

func (rm *RecorderManager) GetRecordingStatus(sessionID string) (bool, []models.Event, error) {
	recorder, exists := rm.GetRecorder(sessionID)
	if !exists {
		return false, nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return recorder.IsRecording(), recorder.GetEvents(), nil
}

// CleanupRecording forgets a session, closing its browser if it is still open.
func (rm *RecorderManager) CleanupRecording(sessionID string) {
	rm.mutex.Lock()
	recorder, exists := rm.recorders[sessionID]
	delete(rm.recorders, sessionID)
	rm.mutex.Unlock()

	if exists && recorder.IsRecording() {
		recorder.StopRecording()
	}
}

// StaleSessions lists sessions that stopped more than olderThan ago.
func (rm *RecorderManager) StaleSessions(olderThan time.Duration) []string {
	rm.mutex.RLock()
	defer rm.mutex.RUnlock()

	cutoff := time.Now().Add(-olderThan)
	var stale []string
	for id, recorder := range rm.recorders {
		stoppedAt := recorder.StoppedAt()
		if !stoppedAt.IsZero() && stoppedAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	return stale
}

func (rm *RecorderManager) IsActive(sessionID string) bool {
	recorder, exists := rm.GetRecorder(sessionID)
	return exists && recorder.IsRecording()
}
