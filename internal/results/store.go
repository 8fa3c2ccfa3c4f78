package results

import (
	"context"
	"errors"

	"github.com/coding-online/mco-exam/internal/grading"
)

var (
	// ErrNotFound means no record exists for the test id.
	ErrNotFound = errors.New("results: not found")
	// ErrAccessDenied means the record belongs to a different user.
	// Treated as security-relevant by callers and logged as such.
	ErrAccessDenied = errors.New("results: access denied")
	// ErrDuplicateTestID is a defensive check; the scorer guarantees unique
	// ids, so hitting this indicates a bug and must never overwrite.
	ErrDuplicateTestID = errors.New("results: duplicate test id")
)

// Store persists result records. Append-only: no update, no delete.
type Store interface {
	Append(ctx context.Context, rec grading.ResultRecord) error
	// GetByTestID enforces ownership: a mismatched userID yields
	// ErrAccessDenied, never another user's data.
	GetByTestID(ctx context.Context, testID, userID string) (grading.ResultRecord, error)
	// ListForUser returns the user's records newest-first.
	ListForUser(ctx context.Context, userID string) ([]grading.ResultRecord, error)
}
