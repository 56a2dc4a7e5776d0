package services

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs the periodic retention cleanup.
type SchedulerService struct {
	cron      *cron.Cron
	store     RecordingStore
	sessions  SessionTracker
	retention time.Duration
}

var GlobalScheduler *SchedulerService

func NewSchedulerService(store RecordingStore, sessions SessionTracker, retention time.Duration) *SchedulerService {
	return &SchedulerService{
		cron:      cron.New(cron.WithSeconds()),
		store:     store,
		sessions:  sessions,
		retention: retention,
	}
}

// InitScheduler registers the cleanup job on the cron expression and starts the global
// scheduler.
func InitScheduler(spec string, store RecordingStore, sessions SessionTracker, retention time.Duration) error {
	s := NewSchedulerService(store, sessions, retention)
	if err := s.Schedule(spec); err != nil {
		return err
	}

	GlobalScheduler = s
	s.cron.Start()
	log.Println("Scheduler service initialized")
	return nil
}

func (s *SchedulerService) Schedule(spec string) error {
	entryID, err := s.cron.AddFunc(spec, s.Cleanup)
	if err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", spec, err)
	}

	log.Printf("Added retention cleanup (entry %d): %s", entryID, spec)
	return nil
}

// Cleanup drops stopped recorder sessions and unsaved recordings older than
// the retention window.
func (s *SchedulerService) Cleanup() {
	dropped := 0
	for _, sessionID := range s.sessions.StaleSessions(s.retention) {
		s.sessions.CleanupRecording(sessionID)
		dropped++
	}

	purged, err := s.store.PurgeUnsavedRecordings(time.Now().Add(-s.retention))
	if err != nil {
		log.Printf("❌ Failed to purge unsaved recordings: %v", err)
		return
	}

	if dropped > 0 || purged > 0 {
		log.Printf("🧹 Retention cleanup dropped %d sessions and purged %d recordings", dropped, purged)
	}
}

func (s *SchedulerService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
