package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	authmw "github.com/coding-online/mco-exam/internal/auth/middleware"
	"github.com/coding-online/mco-exam/internal/catalog"
	"github.com/coding-online/mco-exam/internal/exam"
	"github.com/coding-online/mco-exam/internal/grading"
	"github.com/coding-online/mco-exam/internal/logging"
	"github.com/coding-online/mco-exam/internal/policy"
	"github.com/coding-online/mco-exam/internal/results"
)

func testRouter(t *testing.T) (*chi.Mux, results.Store) {
	t.Helper()
	exams := []catalog.ExamDefinition{
		{ID: "exam-p", Name: "Practice", QuestionCount: 3, PassThresholdPercent: 70,
			IsPractice: true, TopicIDs: []string{"t1"}},
	}
	cat := catalog.New(exams, []catalog.Topic{{ID: "t1"}})
	qs := make([]catalog.Question, 5)
	for i := range qs {
		qs[i] = catalog.Question{ID: i + 1, Text: "q", Options: []string{"a", "b"}, Correct: 0}
	}
	cat.SetTopicQuestions("t1", qs)

	store := results.NewInMemoryStore()
	svc := exam.NewService(cat, exam.NewManager(), policy.NewGate(10, 3),
		grading.NewScorer(), store, logging.NewNop())

	r := chi.NewRouter()
	r.Get("/exams", ListExamsHandler(cat))
	r.Post("/attempts", StartAttemptHandler(svc))
	r.Post("/attempts/{attemptID}/answers", SaveAnswerHandler(svc))
	r.Post("/attempts/{attemptID}/submit", SubmitAttemptHandler(svc))
	r.Get("/results", ListResultsHandler(store, cat))
	r.Get("/results/{testID}", GetResultHandler(store, cat, logging.NewNop()))
	return r, store
}

func asUser(req *http.Request, userID string) *http.Request {
	claims := &authmw.Claims{User: authmw.User{ID: userID}}
	return req.WithContext(authmw.WithClaims(req.Context(), claims))
}

func TestAttemptFlowOverHTTP(t *testing.T) {
	r, _ := testRouter(t)

	// start
	req := asUser(httptest.NewRequest("POST", "/attempts", strings.NewReader(`{"exam_id":"exam-p"}`)), "u1")
	rw := httptest.NewRecorder()
	r.ServeHTTP(rw, req)
	if rw.Code != http.StatusCreated {
		t.Fatalf("start status = %d, body %s", rw.Code, rw.Body.String())
	}
	var sess struct {
		ID        string `json:"id"`
		Questions []struct {
			ID      int      `json:"id"`
			Options []string `json:"options"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(rw.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if len(sess.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(sess.Questions))
	}
	// the answer key must not appear in the payload
	if strings.Contains(rw.Body.String(), `"correct"`) || strings.Contains(rw.Body.String(), "Correct") {
		t.Errorf("session payload leaks answer key: %s", rw.Body.String())
	}

	// answer the first question (option 0 is correct in the fixture)
	req = asUser(httptest.NewRequest("POST", "/attempts/"+sess.ID+"/answers",
		strings.NewReader(`{"question_id":`+strconv.Itoa(sess.Questions[0].ID)+`,"option_index":0}`)), "u1")
	rw = httptest.NewRecorder()
	r.ServeHTTP(rw, req)
	if rw.Code != http.StatusNoContent {
		t.Fatalf("answer status = %d, body %s", rw.Code, rw.Body.String())
	}

	// out-of-range answer is rejected
	req = asUser(httptest.NewRequest("POST", "/attempts/"+sess.ID+"/answers",
		strings.NewReader(`{"question_id":`+strconv.Itoa(sess.Questions[0].ID)+`,"option_index":5}`)), "u1")
	rw = httptest.NewRecorder()
	r.ServeHTTP(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("bad answer status = %d, want 400", rw.Code)
	}

	// submit: 1 correct of 3
	req = asUser(httptest.NewRequest("POST", "/attempts/"+sess.ID+"/submit", nil), "u1")
	rw = httptest.NewRecorder()
	r.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body %s", rw.Code, rw.Body.String())
	}
	var rec grading.ResultRecord
	if err := json.Unmarshal(rw.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.CorrectCount != 1 || rec.TotalQuestions != 3 || rec.Score != 33.33 {
		t.Errorf("got score=%v correct=%d total=%d", rec.Score, rec.CorrectCount, rec.TotalQuestions)
	}
}

func TestResultHandlersEnforceOwnership(t *testing.T) {
	r, store := testRouter(t)
	rec := grading.ResultRecord{TestID: "t1", UserID: "u1", ExamID: "exam-p",
		Score: 80, CorrectCount: 4, TotalQuestions: 5, TimestampMillis: 100}
	if err := store.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	rw := httptest.NewRecorder()
	r.ServeHTTP(rw, asUser(httptest.NewRequest("GET", "/results/t1", nil), "u1"))
	if rw.Code != http.StatusOK {
		t.Fatalf("owner fetch = %d", rw.Code)
	}
	if !strings.Contains(rw.Body.String(), `"passed":true`) {
		t.Errorf("missing pass flag: %s", rw.Body.String())
	}

	rw = httptest.NewRecorder()
	r.ServeHTTP(rw, asUser(httptest.NewRequest("GET", "/results/t1", nil), "u2"))
	if rw.Code != http.StatusForbidden {
		t.Errorf("cross-user fetch = %d, want 403", rw.Code)
	}

	rw = httptest.NewRecorder()
	r.ServeHTTP(rw, asUser(httptest.NewRequest("GET", "/results/missing", nil), "u1"))
	if rw.Code != http.StatusNotFound {
		t.Errorf("missing fetch = %d, want 404", rw.Code)
	}
}

func TestDenialMapsTo403(t *testing.T) {
	r, store := testRouter(t)
	// exhaust the global practice quota
	for i := 0; i < 10; i++ {
		rec := grading.ResultRecord{TestID: "t" + strconv.Itoa(i), UserID: "u1", ExamID: "exam-p",
			Score: 50, TotalQuestions: 3, TimestampMillis: int64(i)}
		if err := store.Append(context.Background(), rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	rw := httptest.NewRecorder()
	r.ServeHTTP(rw, asUser(httptest.NewRequest("POST", "/attempts", strings.NewReader(`{"exam_id":"exam-p"}`)), "u1"))
	if rw.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rw.Code)
	}
	if !strings.Contains(rw.Body.String(), "quota_exceeded") {
		t.Errorf("body = %s, want quota_exceeded", rw.Body.String())
	}
}

func TestMissingClaimsIsUnauthorized(t *testing.T) {
	r, _ := testRouter(t)
	rw := httptest.NewRecorder()
	r.ServeHTTP(rw, httptest.NewRequest("POST", "/attempts", strings.NewReader(`{"exam_id":"exam-p"}`)))
	if rw.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rw.Code)
	}
}

