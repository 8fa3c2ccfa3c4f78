package exam

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coding-online/mco-exam/internal/catalog"
)

var (
	ErrSessionNotFound = errors.New("exam: session not found")
	// ErrInvalidAnswer rejects out-of-range option indexes so corrupt review
	// data can't reach the scorer.
	ErrInvalidAnswer   = errors.New("exam: answer index out of range")
	ErrUnknownQuestion = errors.New("exam: question not in session")
)

type ManagerOption func(*Manager)

// WithRand injects the shuffle source; tests seed it for determinism.
func WithRand(r *rand.Rand) ManagerOption { return func(m *Manager) { m.rnd = r } }

// Manager holds in-flight sessions. All access goes through the mutex; the
// rand source is guarded by the same lock.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	rnd      *rand.Rand
	now      func() time.Time
}

func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: map[string]*Session{},
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Start selects min(def.QuestionCount, len(pool)) questions by uniform
// shuffle-then-truncate and registers the new session. Each call draws an
// independent random ordering.
func (m *Manager) Start(def catalog.ExamDefinition, userID string, pool []catalog.Question) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	picked := append([]catalog.Question(nil), pool...)
	m.rnd.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if def.QuestionCount < len(picked) {
		picked = picked[:def.QuestionCount]
	}

	s := &Session{
		ID:        uuid.NewString(),
		ExamID:    def.ID,
		UserID:    userID,
		StartedAt: m.now().UnixMilli(),
		Questions: picked,
		Answers:   map[int]int{},
	}
	m.sessions[s.ID] = s
	return snapshot(s)
}

// RecordAnswer stores or overwrites the answer for one question.
func (m *Manager) RecordAnswer(sessionID, userID string, questionID, optionIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.owned(sessionID, userID)
	if err != nil {
		return err
	}
	for _, q := range s.Questions {
		if q.ID != questionID {
			continue
		}
		if optionIndex < 0 || optionIndex >= len(q.Options) {
			return ErrInvalidAnswer
		}
		s.Answers[questionID] = optionIndex
		return nil
	}
	return ErrUnknownQuestion
}

// Get returns a copy of the session, owner-checked.
func (m *Manager) Get(sessionID, userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.owned(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return snapshot(s), nil
}

// Remove discards a session after submit or abandonment.
func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// owned resolves a session without revealing other users' session ids: a
// wrong owner gets the same not-found as a missing session.
func (m *Manager) owned(sessionID, userID string) (*Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func snapshot(s *Session) *Session {
	cp := *s
	cp.Questions = append([]catalog.Question(nil), s.Questions...)
	cp.Answers = make(map[int]int, len(s.Answers))
	for k, v := range s.Answers {
		cp.Answers[k] = v
	}
	return &cp
}
