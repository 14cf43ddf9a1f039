package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"book-discovery-service/internal/domain"
)

// Session bundles the per-visitor search state.
type Session struct {
	ID      string
	Search  *SearchSession
	Suggest *Suggester

	lastSeen atomic.Int64 // unix nanoseconds
}

// LastSeen returns when the session was last acquired.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) close() {
	s.Search.Close()
	s.Suggest.Close()
}

// SessionConfig holds session registry settings.
type SessionConfig struct {
	PageSize    int
	Suggest     SuggesterConfig
	IdleTTL     time.Duration
	MaxSessions int
}

// SessionRegistry owns every live Session. Sessions are created on first
// use, kept alive by each acquisition and closed once idle for IdleTTL.
type SessionRegistry struct {
	catalog domain.Catalog
	cfg     SessionConfig
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry(catalog domain.Catalog, cfg SessionConfig, logger *zap.Logger) *SessionRegistry {
	return &SessionRegistry{
		catalog:  catalog,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Acquire returns the session for id, creating a fresh one under a new id
// when id is empty, malformed or unknown. created reports the latter.
func (r *SessionRegistry) Acquire(id string) (sess *Session, created bool) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := uuid.Parse(id); err == nil {
		if sess, ok := r.sessions[id]; ok {
			sess.touch(now)
			return sess, false
		}
	}

	if r.cfg.MaxSessions > 0 && len(r.sessions) >= r.cfg.MaxSessions {
		r.evictOldestLocked()
	}

	sess = &Session{
		ID:      uuid.NewString(),
		Search:  NewSearchSession(r.catalog, r.cfg.PageSize, r.logger),
		Suggest: NewSuggester(r.catalog, r.cfg.Suggest, r.logger),
	}
	sess.touch(now)
	r.sessions[sess.ID] = sess

	r.logger.Debug("session created", zap.String("session_id", sess.ID), zap.Int("active", len(r.sessions)))

	return sess, true
}

// Get returns the session for id without creating one.
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	return sess, ok
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Reap closes and removes every session idle for longer than IdleTTL and
// returns how many were removed.
func (r *SessionRegistry) Reap() int {
	if r.cfg.IdleTTL <= 0 {
		return 0
	}

	cutoff := r.now().Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	var expired []*Session
	for id, sess := range r.sessions {
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, sess)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, sess := range expired {
		sess.close()
	}

	return len(expired)
}

// CloseAll closes and removes every session.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}

func (r *SessionRegistry) evictOldestLocked() {
	var oldest *Session
	for _, sess := range r.sessions {
		if oldest == nil || sess.LastSeen().Before(oldest.LastSeen()) {
			oldest = sess
		}
	}
	if oldest == nil {
		return
	}

	delete(r.sessions, oldest.ID)
	oldest.close()

	r.logger.Debug("session evicted", zap.String("session_id", oldest.ID))
}
