package grading

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/coding-online/mco-exam/internal/catalog"
)

// Unanswered is the sentinel answer index for questions the user skipped.
const Unanswered = -1

// AnswerReview is the per-question audit entry embedded in a ResultRecord.
type AnswerReview struct {
	QuestionID         int      `json:"questionId"`
	QuestionText       string   `json:"question"`
	Options            []string `json:"options"`
	UserAnswerIndex    int      `json:"userAnswer"`
	CorrectAnswerIndex int      `json:"correctAnswer"`
}

// ResultRecord is the immutable outcome of one graded attempt. Append-only:
// the result store never updates or deletes one.
type ResultRecord struct {
	TestID          string         `json:"testId"`
	UserID          string         `json:"userId"`
	ExamID          string         `json:"examId"`
	Score           float64        `json:"score"` // 0-100, 2-decimal precision
	CorrectCount    int            `json:"correctCount"`
	TotalQuestions  int            `json:"totalQuestions"`
	TimestampMillis int64          `json:"timestamp"`
	Review          []AnswerReview `json:"review"`
}

// Passed reports whether the record clears the given threshold.
func (r ResultRecord) Passed(thresholdPercent float64) bool {
	return r.Score >= thresholdPercent
}

type Option func(*Scorer)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option { return func(s *Scorer) { s.now = now } }

// WithIDSource overrides test-id generation.
func WithIDSource(newID func() string) Option { return func(s *Scorer) { s.newID = newID } }

// Scorer grades completed sessions. Grading is pure: the same questions and
// answers always yield the same score, counts, and review, differing only in
// TestID and TimestampMillis.
type Scorer struct {
	now   func() time.Time
	newID func() string
}

func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		now:   time.Now,
		newID: func() string { return "test-" + uuid.NewString() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Grade scores every presented question against its answer key. Unanswered
// questions count as incorrect and appear in the review with the Unanswered
// sentinel. A duplicate question id in the input marks the session malformed
// and nothing is graded.
func (s *Scorer) Grade(userID, examID string, questions []catalog.Question, answers map[int]int) (ResultRecord, error) {
	seen := make(map[int]struct{}, len(questions))
	review := make([]AnswerReview, 0, len(questions))
	correct := 0
	for _, q := range questions {
		if _, dup := seen[q.ID]; dup {
			return ResultRecord{}, fmt.Errorf("grading: duplicate question %d in session", q.ID)
		}
		seen[q.ID] = struct{}{}

		given, answered := answers[q.ID]
		if !answered {
			given = Unanswered
		}
		if given == q.Correct {
			correct++
		}
		review = append(review, AnswerReview{
			QuestionID:         q.ID,
			QuestionText:       q.Text,
			Options:            q.Options,
			UserAnswerIndex:    given,
			CorrectAnswerIndex: q.Correct,
		})
	}

	total := len(questions)
	score := 0.0
	if total > 0 {
		score = round2(float64(correct) / float64(total) * 100)
	}
	return ResultRecord{
		TestID:          s.newID(),
		UserID:          userID,
		ExamID:          examID,
		Score:           score,
		CorrectCount:    correct,
		TotalQuestions:  total,
		TimestampMillis: s.now().UnixMilli(),
		Review:          review,
	}, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
