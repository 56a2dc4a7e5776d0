package services

import (
	"log"
	"sync"
	"time"

	"selenex/internal/models"
)

// StatusSyncService marks recordings whose browser session is gone as aborted.
type StatusSyncService struct {
	store    RecordingStore
	sessions SessionTracker
	interval time.Duration
	// grace skips rows updated this recently so a starting session is not
	// aborted before it registers.
	grace time.Duration

	mutex sync.Mutex
	stop  chan struct{}
	done  chan struct{}
}

func NewStatusSyncService(store RecordingStore, sessions SessionTracker) *StatusSyncService {
	return &StatusSyncService{
		store:    store,
		sessions: sessions,
		interval: 30 * time.Second,
		grace:    30 * time.Second,
	}
}

// Start begins the status synchronization service
func (s *StatusSyncService) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.stop != nil {
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.syncLoop(s.stop, s.done)
	log.Println("Status sync service started")
}

// Stop stops the status synchronization service
func (s *StatusSyncService) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.stop == nil {
		return
	}

	close(s.stop)
	<-s.done
	s.stop = nil
	log.Println("Status sync service stopped")
}

func (s *StatusSyncService) syncLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SyncRecordingStates()
		case <-stop:
			return
		}
	}
}

// SyncRecordingStates returns how many recordings were marked aborted.
func (s *StatusSyncService) SyncRecordingStates() int {
	recordings, err := s.store.ActiveRecordings()
	if err != nil {
		log.Printf("Failed to query active recordings: %v", err)
		return 0
	}

	fixed := 0
	for _, recording := range recordings {
		if s.sessions.IsActive(recording.SessionID) {
			continue
		}
		if time.Since(recording.UpdatedAt) < s.grace {
			continue
		}

		if err := s.store.UpdateRecordingStatus(recording.ID, models.RecordingAborted); err != nil {
			log.Printf("❌ Failed to abort recording %d: %v", recording.ID, err)
			continue
		}
		log.Printf("🔧 Recording %d (%s) has no live session, marked aborted", recording.ID, recording.SessionID)
		fixed++
	}

	if fixed > 0 {
		log.Printf("Status sync aborted %d orphaned recordings", fixed)
	}
	return fixed
}
