package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"riskdesk/internal/adapters/persistence/models"
	"riskdesk/internal/adapters/persistence/repositories"
	"riskdesk/internal/core/domain"
	"riskdesk/internal/pkg/tokenhash"

	"gorm.io/gorm"
)

// SessionStore keeps the authentication state of every client session.
// Memory is a write-through cache of the session repository.
type SessionStore struct {
	repo repositories.SessionRepository

	mu    sync.RWMutex
	cache map[string]*domain.Session
	now   func() time.Time
}

// NewSessionStore creates a new session store
func NewSessionStore(repo repositories.SessionRepository) *SessionStore {
	return &SessionStore{
		repo:  repo,
		cache: make(map[string]*domain.Session),
		now:   time.Now,
	}
}

// Warm re-derives the in-memory state from the persisted sessions
func (s *SessionStore) Warm(ctx context.Context) error {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	s.cache = make(map[string]*domain.Session, len(rows))
	for _, row := range rows {
		if session := toSession(row, now); session != nil {
			s.cache[row.ID] = session
		}
	}

	log.Printf("✅ Session store warmed [%d sessions]", len(s.cache))
	return nil
}

// Load returns the session of a client, or nil when the client is not logged in.
// A persisted row missing token or role counts as no session, and so does one
// past its expiry that the janitor has not purged yet.
func (s *SessionStore) Load(ctx context.Context, sid string) (*domain.Session, error) {
	if sid == "" {
		return nil, nil
	}
	key := tokenhash.Hash(sid)
	now := s.now().UTC()

	s.mu.RLock()
	session, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return live(session, now), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.cache[key]; ok {
		return live(session, now), nil
	}

	row, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	session = toSession(row, now)
	if session == nil {
		return nil, nil
	}
	s.cache[key] = session
	return clone(session), nil
}

// Set replaces the session of a client. Partial sessions are rejected.
func (s *SessionStore) Set(ctx context.Context, sid string, session *domain.Session) error {
	if sid == "" {
		return domain.ErrNoSession
	}
	if !session.Complete() {
		return domain.ErrIncompleteSession
	}
	key := tokenhash.Hash(sid)

	stored := clone(session)
	stored.Role = domain.ParseRole(string(session.Role))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Upsert(ctx, &models.ClientSession{
		ID:        key,
		Token:     stored.Token,
		Role:      string(stored.Role),
		Username:  stored.Username,
		ExpiresAt: stored.ExpiresAt,
	}); err != nil {
		return err
	}

	s.cache[key] = stored
	return nil
}

// Clear removes the session of a client. Clearing twice is not an error.
func (s *SessionStore) Clear(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	key := tokenhash.Hash(sid)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}

	delete(s.cache, key)
	return nil
}

// PurgeExpired removes sessions whose upstream token expired before now
func (s *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		delete(s.cache, id)
	}
	return len(ids), nil
}

// toSession converts a persisted row, returning nil for partial or expired rows
func toSession(row *models.ClientSession, now time.Time) *domain.Session {
	if row == nil || row.Token == "" || row.Role == "" || row.IsExpired(now) {
		return nil
	}
	return &domain.Session{
		Token:     row.Token,
		Role:      domain.ParseRole(row.Role),
		Username:  row.Username,
		ExpiresAt: row.ExpiresAt,
	}
}

// live returns a copy of a cached session, or nil once it has expired
func live(session *domain.Session, now time.Time) *domain.Session {
	if session.Expired(now) {
		return nil
	}
	return clone(session)
}

func clone(session *domain.Session) *domain.Session {
	if session == nil {
		return nil
	}
	c := *session
	return &c
}
