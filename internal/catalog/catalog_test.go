package catalog

import (
	"errors"
	"testing"
)

func q(id int) Question {
	return Question{ID: id, Text: "question", Options: []string{"a", "b", "c"}, Correct: 1}
}

func testCatalog() *Catalog {
	exams := []ExamDefinition{
		{ID: "exam-a", Name: "A", QuestionCount: 5, PassThresholdPercent: 70, IsPractice: true,
			TopicIDs: []string{"t1", "t2"}},
		{ID: "exam-b", Name: "B", QuestionCount: 5, PassThresholdPercent: 70,
			TopicIDs: []string{"t2"}},
		{ID: "exam-unmapped", Name: "U", QuestionCount: 5, PassThresholdPercent: 70},
	}
	topics := []Topic{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}
	return New(exams, topics)
}

func TestResolveDeduplicatesOverlappingTopics(t *testing.T) {
	c := testCatalog()
	c.SetTopicQuestions("t1", []Question{q(1), q(2), q(3)})
	c.SetTopicQuestions("t2", []Question{q(2), q(3), q(4)})

	pool, err := c.Resolve("exam-a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(pool) != 4 {
		t.Fatalf("pool size = %d, want 4", len(pool))
	}
	seen := map[int]int{}
	for _, qq := range pool {
		seen[qq.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("question %d appears %d times, want 1", id, n)
		}
	}
	// first-seen order before dedup
	want := []int{1, 2, 3, 4}
	for i, qq := range pool {
		if qq.ID != want[i] {
			t.Errorf("pool[%d].ID = %d, want %d", i, qq.ID, want[i])
		}
	}
}

func TestResolveErrors(t *testing.T) {
	c := testCatalog()
	c.SetTopicQuestions("t1", []Question{q(1)})

	if _, err := c.Resolve("exam-missing"); !errors.Is(err, ErrNoTopicMapping) {
		t.Errorf("unknown exam: err = %v, want ErrNoTopicMapping", err)
	}
	if _, err := c.Resolve("exam-unmapped"); !errors.Is(err, ErrNoTopicMapping) {
		t.Errorf("unmapped exam: err = %v, want ErrNoTopicMapping", err)
	}
	if _, err := c.Resolve("exam-b"); !errors.Is(err, ErrEmptyPool) {
		t.Errorf("empty topic: err = %v, want ErrEmptyPool", err)
	}
}

func TestExamsKeepsCatalogOrder(t *testing.T) {
	c := testCatalog()
	got := c.Exams()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, id := range []string{"exam-a", "exam-b", "exam-unmapped"} {
		if got[i].ID != id {
			t.Errorf("Exams()[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestIsPractice(t *testing.T) {
	c := testCatalog()
	if !c.IsPractice("exam-a") {
		t.Error("exam-a should be practice")
	}
	if c.IsPractice("exam-b") {
		t.Error("exam-b should not be practice")
	}
	if c.IsPractice("nope") {
		t.Error("unknown exam should not be practice")
	}
}

func TestDefaultCatalogResolves(t *testing.T) {
	c := New(DefaultExams(), DefaultTopics())
	for _, topic := range DefaultTopics() {
		c.SetTopicQuestions(topic.ID, []Question{q(1), q(2)})
	}
	for _, def := range c.Exams() {
		pool, err := c.Resolve(def.ID)
		if err != nil {
			t.Errorf("Resolve(%s): %v", def.ID, err)
			continue
		}
		if len(pool) != 2 {
			t.Errorf("Resolve(%s) pool = %d, want 2 (deduplicated)", def.ID, len(pool))
		}
	}
}
