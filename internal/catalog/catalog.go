package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNoTopicMapping means the exam id has no configured topic buckets.
	ErrNoTopicMapping = errors.New("catalog: no topic mapping for exam")
	// ErrEmptyPool means the exam's topics resolved to zero questions.
	ErrEmptyPool = errors.New("catalog: question pool is empty")
)

// Catalog is the injected, read-mostly exam/question registry. Exam
// definitions are fixed at construction; topic buckets are replaced wholesale
// by Refresh or SetTopicQuestions.
type Catalog struct {
	mu     sync.RWMutex
	order  []string
	exams  map[string]ExamDefinition
	topics map[string][]Question
}

func New(exams []ExamDefinition, topics []Topic) *Catalog {
	c := &Catalog{
		exams:  make(map[string]ExamDefinition, len(exams)),
		topics: make(map[string][]Question, len(topics)),
	}
	for _, e := range exams {
		if _, dup := c.exams[e.ID]; dup {
			continue
		}
		c.exams[e.ID] = e
		c.order = append(c.order, e.ID)
	}
	for _, t := range topics {
		c.topics[t.ID] = nil
	}
	return c
}

func (c *Catalog) Exam(id string) (ExamDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.exams[id]
	return e, ok
}

// Exams returns definitions in catalog order.
func (c *Catalog) Exams() []ExamDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ExamDefinition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.exams[id])
	}
	return out
}

// IsPractice reports whether id names a known practice exam.
func (c *Catalog) IsPractice(id string) bool {
	e, ok := c.Exam(id)
	return ok && e.IsPractice
}

// SetTopicQuestions replaces one topic bucket.
func (c *Catalog) SetTopicQuestions(topicID string, qs []Question) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics[topicID] = append([]Question(nil), qs...)
}

// Resolve gathers the candidate pool for an exam: every question tagged under
// each of its topics, deduplicated by question id in first-seen order. The
// caller treats the result as an unordered pool.
func (c *Catalog) Resolve(examID string) ([]Question, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.exams[examID]
	if !ok || len(e.TopicIDs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTopicMapping, examID)
	}

	seen := make(map[int]struct{})
	var pool []Question
	for _, tid := range e.TopicIDs {
		for _, q := range c.topics[tid] {
			if _, dup := seen[q.ID]; dup {
				continue
			}
			seen[q.ID] = struct{}{}
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPool, examID)
	}
	return pool, nil
}

// Refresh re-fetches the master feed and repopulates every topic bucket with
// the full question set. Topic-level curation happened upstream in earlier
// product revisions; the current feed is a single master list shared by all
// topics, so exams still differ by question count and topic overlap.
func (c *Catalog) Refresh(ctx context.Context, src FeedSource) error {
	qs, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("catalog refresh: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for tid := range c.topics {
		c.topics[tid] = qs
	}
	return nil
}
