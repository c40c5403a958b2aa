package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// SessionJanitor periodically purges sessions whose upstream token expired
type SessionJanitor struct {
	store    *SessionStore
	schedule string
	cron     *cron.Cron
	now      func() time.Time
}

// NewSessionJanitor creates a new session janitor
func NewSessionJanitor(store *SessionStore, schedule string) *SessionJanitor {
	return &SessionJanitor{
		store:    store,
		schedule: schedule,
		cron:     cron.New(),
		now:      time.Now,
	}
}

// Start schedules the purge job. An empty schedule disables it.
func (j *SessionJanitor) Start() error {
	if j.schedule == "" {
		log.Println("⚠️ Session janitor disabled (SESSION_PURGE_SCHEDULE not set)")
		return nil
	}

	if _, err := cron.ParseStandard(j.schedule); err != nil {
		return fmt.Errorf("invalid SESSION_PURGE_SCHEDULE '%s': %w", j.schedule, err)
	}

	if _, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.RunOnce(context.Background()); err != nil {
			log.Printf("❌ Session purge failed: %v", err)
		}
	}); err != nil {
		return err
	}

	j.cron.Start()
	log.Printf("✅ Session janitor scheduled (cron: %s)", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running job
func (j *SessionJanitor) Stop() {
	<-j.cron.Stop().Done()
}

// RunOnce purges expired sessions now
func (j *SessionJanitor) RunOnce(ctx context.Context) (int, error) {
	n, err := j.store.PurgeExpired(ctx, j.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("🧹 Purged %d expired sessions", n)
	}
	return n, nil
}
