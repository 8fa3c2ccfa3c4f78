package exam

import (
	"context"
	"errors"
	"fmt"

	"github.com/coding-online/mco-exam/internal/catalog"
	"github.com/coding-online/mco-exam/internal/grading"
	"github.com/coding-online/mco-exam/internal/logging"
	"github.com/coding-online/mco-exam/internal/policy"
	"github.com/coding-online/mco-exam/internal/results"
)

// Service runs the attempt lifecycle: authorize, start, record answers,
// re-authorize + grade + append on submit.
type Service struct {
	catalog  *catalog.Catalog
	sessions *Manager
	gate     policy.Gate
	scorer   *grading.Scorer
	store    results.Store
	locks    *results.KeyedLock
	log      *logging.Logger
}

func NewService(cat *catalog.Catalog, sessions *Manager, gate policy.Gate, scorer *grading.Scorer, store results.Store, log *logging.Logger) *Service {
	return &Service{
		catalog:  cat,
		sessions: sessions,
		gate:     gate,
		scorer:   scorer,
		store:    store,
		locks:    results.NewKeyedLock(),
		log:      log,
	}
}

// Start authorizes the attempt and, only if allowed, resolves the pool and
// creates a session. No partial session exists on denial.
func (s *Service) Start(ctx context.Context, user policy.User, examID string) (*Session, error) {
	def, ok := s.catalog.Exam(examID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNoTopicMapping, examID)
	}

	prior, err := s.store.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list prior results: %w", err)
	}
	if dec := s.gate.Authorize(user, def, prior, s.catalog.IsPractice); !dec.Allowed {
		return nil, &policy.DeniedError{Reason: dec.Reason}
	}

	pool, err := s.catalog.Resolve(examID)
	if err != nil {
		return nil, err
	}
	sess := s.sessions.Start(def, user.ID, pool)
	s.log.Info("attempt started",
		"exam_id", examID, "user_id", user.ID,
		"session_id", sess.ID, "questions", len(sess.Questions))
	return sess, nil
}

// Answer records one selection on an open session.
func (s *Service) Answer(_ context.Context, user policy.User, sessionID string, questionID, optionIndex int) error {
	return s.sessions.RecordAnswer(sessionID, user.ID, questionID, optionIndex)
}

// Session returns an owner-checked snapshot of an open session.
func (s *Service) Session(_ context.Context, user policy.User, sessionID string) (*Session, error) {
	return s.sessions.Get(sessionID, user.ID)
}

// Submit grades the session and appends the result. The policy gate runs
// again here, under a per-user-per-exam lock, so two attempts racing a retry
// ceiling can't both land: the check and the append are one critical section.
// On success the session is gone; a denied or failed submit leaves it open.
func (s *Service) Submit(ctx context.Context, user policy.User, sessionID string) (grading.ResultRecord, error) {
	sess, err := s.sessions.Get(sessionID, user.ID)
	if err != nil {
		return grading.ResultRecord{}, err
	}
	def, ok := s.catalog.Exam(sess.ExamID)
	if !ok {
		return grading.ResultRecord{}, fmt.Errorf("%w: %s", catalog.ErrNoTopicMapping, sess.ExamID)
	}

	unlock := s.locks.Lock(user.ID + "|" + sess.ExamID)
	defer unlock()

	prior, err := s.store.ListForUser(ctx, user.ID)
	if err != nil {
		return grading.ResultRecord{}, fmt.Errorf("list prior results: %w", err)
	}
	if dec := s.gate.Authorize(user, def, prior, s.catalog.IsPractice); !dec.Allowed {
		s.log.Warn("submission denied",
			"exam_id", sess.ExamID, "user_id", user.ID, "reason", string(dec.Reason))
		return grading.ResultRecord{}, &policy.DeniedError{Reason: dec.Reason}
	}

	rec, err := s.scorer.Grade(user.ID, sess.ExamID, sess.Questions, sess.Answers)
	if err != nil {
		return grading.ResultRecord{}, err
	}
	if err := s.store.Append(ctx, rec); err != nil {
		if errors.Is(err, results.ErrDuplicateTestID) {
			s.log.Error("duplicate test id on append", "test_id", rec.TestID)
		}
		return grading.ResultRecord{}, fmt.Errorf("append result: %w", err)
	}
	s.sessions.Remove(sessionID)

	s.log.Info("attempt submitted",
		"exam_id", sess.ExamID, "user_id", user.ID, "test_id", rec.TestID,
		"score", rec.Score, "unanswered", sess.UnansweredCount())
	return rec, nil
}
