package exam

import (
	"github.com/coding-online/mco-exam/internal/catalog"
)

// Session is one in-progress attempt. Transient by design: sessions live only
// in process memory and are discarded on submit or abandonment. A restart
// mid-attempt loses the answers and the user starts over.
type Session struct {
	ID        string `json:"id"`
	ExamID    string `json:"exam_id"`
	UserID    string `json:"user_id"`
	StartedAt int64  `json:"started_at"`

	// Questions is the ordered subset presented for this attempt,
	// length = min(exam question count, pool size).
	Questions []catalog.Question `json:"questions"`

	// Answers maps question id -> selected option index. Unanswered
	// questions are simply absent.
	Answers map[int]int `json:"answers"`
}

func (s *Session) UnansweredCount() int {
	return len(s.Questions) - len(s.Answers)
}
