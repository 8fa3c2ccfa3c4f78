package results

import (
	"context"
	"sort"
	"sync"

	"github.com/coding-online/mco-exam/internal/grading"
)

type memoryStore struct {
	mu     sync.RWMutex
	byID   map[string]grading.ResultRecord
	byUser map[string][]string
}

// NewInMemoryStore returns a Store for tests and single-node dev runs.
func NewInMemoryStore() Store {
	return &memoryStore{
		byID:   map[string]grading.ResultRecord{},
		byUser: map[string][]string{},
	}
}

func (m *memoryStore) Append(_ context.Context, rec grading.ResultRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[rec.TestID]; exists {
		return ErrDuplicateTestID
	}
	m.byID[rec.TestID] = rec
	m.byUser[rec.UserID] = append(m.byUser[rec.UserID], rec.TestID)
	return nil
}

func (m *memoryStore) GetByTestID(_ context.Context, testID, userID string) (grading.ResultRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.byID[testID]
	if !ok {
		return grading.ResultRecord{}, ErrNotFound
	}
	if rec.UserID != userID {
		return grading.ResultRecord{}, ErrAccessDenied
	}
	return rec, nil
}

func (m *memoryStore) ListForUser(_ context.Context, userID string) ([]grading.ResultRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.byUser[userID]
	out := make([]grading.ResultRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.byID[id])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimestampMillis != out[j].TimestampMillis {
			return out[i].TimestampMillis > out[j].TimestampMillis
		}
		return out[i].TestID > out[j].TestID
	})
	return out, nil
}
