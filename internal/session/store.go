// Package session keeps live practice sessions in memory: the analyzed job
// profile, the open questions, and the progress tracker for one candidate.
//
// The store is an arena with handles. Sessions are created against a
// capacity cap, touched on every access, and reaped by a background janitor
// once idle past the TTL. Nothing is persisted; an evicted session is gone.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"prepcoach/internal/config"
	"prepcoach/internal/errors"
	"prepcoach/internal/progress"
	"prepcoach/internal/types"
)

// openQuestionLimit caps how many unanswered questions a session retains.
const openQuestionLimit = 50

// Session holds the in-memory state of one practice session. Fields set at
// creation are immutable; the mutable state behind the mutex is safe for
// concurrent handlers.
type Session struct {
	ID        string
	Profile   *types.JobProfile
	CreatedAt time.Time

	mu        sync.Mutex
	lastSeen  time.Time
	questions map[string]*types.Question
	order     []string
	progress  *progress.Tracker
}

// AddQuestion registers a generated question so a later answer can reference
// it by ID. Beyond the open-question limit the oldest question is dropped.
func (s *Session) AddQuestion(question *types.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.questions[question.ID]; !exists {
		s.order = append(s.order, question.ID)
	}
	s.questions[question.ID] = question
	if len(s.order) > openQuestionLimit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.questions, oldest)
	}
}

// Question returns an open question by ID.
func (s *Session) Question(id string) (*types.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	question, ok := s.questions[id]
	return question, ok
}

// OpenQuestions returns how many questions are waiting for an answer.
func (s *Session) OpenQuestions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Progress returns the session's progress tracker.
func (s *Session) Progress() *progress.Tracker {
	return s.progress
}

// LastSeen returns when the session was last accessed.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Info is a point-in-time view of one session for stats reporting.
type Info struct {
	ID            string    `json:"id"`
	JobTitle      string    `json:"jobTitle"`
	CreatedAt     time.Time `json:"createdAt"`
	LastSeen      time.Time `json:"lastSeen"`
	OpenQuestions int       `json:"openQuestions"`
	TotalAnswers  int       `json:"totalAnswers"`
}

// Store owns every live session and enforces the capacity and TTL bounds.
type Store struct {
	mu       sync.RWMutex
	cfg      config.SessionConfig
	logger   *errors.Logger
	sessions map[string]*Session

	stopChan chan struct{}
	closed   bool
}

// NewStore builds a store from the session configuration and starts the
// eviction janitor. Call Close to stop it. Non-positive settings fall back
// to the configuration defaults.
func NewStore(cfg config.SessionConfig, logger *errors.Logger) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	s := &Store{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*Session),
		stopChan: make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Create opens a session around an analyzed job profile. At capacity the
// expired sessions are dropped first, then the oldest-idle one.
func (s *Store) Create(profile *types.JobProfile) *Session {
	if profile == nil {
		profile = &types.JobProfile{}
	}
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		Profile:   profile,
		CreatedAt: now,
		lastSeen:  now,
		questions: make(map[string]*types.Question),
		progress:  progress.NewTracker(s.cfg.HistoryLimit, s.logger),
	}

	s.mu.Lock()
	if len(s.sessions) >= s.cfg.MaxSessions {
		s.evictExpiredLocked(now)
	}
	for len(s.sessions) >= s.cfg.MaxSessions {
		s.evictOldestLocked()
	}
	s.sessions[sess.ID] = sess
	total := len(s.sessions)
	s.mu.Unlock()

	s.logger.Info("session created",
		"session_id", sess.ID,
		"job_title", profile.JobTitle,
		"active_sessions", total)
	return sess
}

// Get returns a live session and marks it as seen. An expired session is
// reported as missing even before the janitor removes it.
func (s *Store) Get(id string) (*Session, error) {
	now := time.Now().UTC()
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || now.Sub(sess.LastSeen()) > s.cfg.TTL {
		return nil, errors.NewSessionError(errors.ErrCodeSessionNotFound, "Session not found or expired", nil)
	}
	sess.touch(now)
	return sess, nil
}

// Delete removes a session. It reports whether the ID was present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if ok {
		s.logger.Info("session deleted", "session_id", id)
	}
	return ok
}

// Len returns the number of sessions currently held, expired ones included
// until the next sweep.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// List snapshots every held session, most recently seen first.
func (s *Store) List() []Info {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	infos := make([]Info, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, Info{
			ID:            sess.ID,
			JobTitle:      sess.Profile.JobTitle,
			CreatedAt:     sess.CreatedAt,
			LastSeen:      sess.LastSeen(),
			OpenQuestions: sess.OpenQuestions(),
			TotalAnswers:  sess.Progress().Summary().TotalAnswers,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].LastSeen.After(infos[j].LastSeen)
	})
	return infos
}

// Close stops the background janitor. Sessions still expire on access; they
// are just no longer swept in the background.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.stopChan)
	s.logger.Info("session store closed")
}

func (s *Store) janitor() {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep(time.Now().UTC())
		case <-s.stopChan:
			return
		}
	}
}

// sweep removes every session idle past the TTL.
func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	removed := s.evictExpiredLocked(now)
	remaining := len(s.sessions)
	s.mu.Unlock()
	if removed > 0 {
		s.logger.Info("expired sessions swept",
			"removed", removed,
			"active_sessions", remaining)
	}
}

func (s *Store) evictExpiredLocked(now time.Time) int {
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.cfg.TTL {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldestSeen time.Time
	for id, sess := range s.sessions {
		seen := sess.LastSeen()
		if oldestID == "" || seen.Before(oldestSeen) {
			oldestID = id
			oldestSeen = seen
		}
	}
	if oldestID == "" {
		return
	}
	delete(s.sessions, oldestID)
	s.logger.Warn("session evicted at capacity",
		"session_id", oldestID,
		"last_seen", oldestSeen)
}
