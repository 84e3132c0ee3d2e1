package services

import (
	"context"
	"log"
	"sync"
	"time"

	"ai-interviewer/internal/models"
	"ai-interviewer/internal/repositories"
)

// SessionReaper locks pending sessions whose verification token outlived
// its TTL, so abandoned invitations never linger as startable sessions.
type SessionReaper interface {
	Start(ctx context.Context)
	Stop()
}

type sessionReaper struct {
	sessions repositories.SessionRepository
	interval time.Duration
	tokenTTL time.Duration
	batch    int
	wg       sync.WaitGroup
	stopChan chan struct{}
}

func NewSessionReaper(sessions repositories.SessionRepository, interval, tokenTTL time.Duration) SessionReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &sessionReaper{
		sessions: sessions,
		interval: interval,
		tokenTTL: tokenTTL,
		batch:    50,
		stopChan: make(chan struct{}),
	}
}

// Start implements SessionReaper.
func (r *sessionReaper) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.run(ctx)
	log.Printf("🧹 Session reaper started (interval %s, token TTL %s)", r.interval, r.tokenTTL)
}

// Stop implements SessionReaper.
func (r *sessionReaper) Stop() {
	close(r.stopChan)
	r.wg.Wait()
	log.Println("🧹 Session reaper stopped")
}

func (r *sessionReaper) run(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *sessionReaper) sweep() {
	cutoff := time.Now().UTC().Add(-r.tokenTTL)

	expired, err := r.sessions.FindExpiredPending(cutoff, r.batch)
	if err != nil {
		log.Printf("⚠️  Reaper failed to fetch expired sessions: %v", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	log.Printf("🧹 Locking %d expired pending sessions", len(expired))

	for _, session := range expired {
		if err := ValidateTransition(session.Status, models.SessionLocked); err != nil {
			continue
		}
		if err := r.sessions.UpdateStatus(session.ID, models.SessionLocked); err != nil {
			log.Printf("⚠️  Reaper failed to lock session %s: %v", session.ID, err)
		}
	}
}
