package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coding-online/mco-exam/internal/grading"
)

// SQLStore persists records in the results table (sqlite offline, postgres
// online). Placeholders stay $1-style: modernc's sqlite accepts them too.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Append(ctx context.Context, rec grading.ResultRecord) error {
	review, err := json.Marshal(rec.Review)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO results
		(test_id, user_id, exam_id, score, correct_count, total_questions, timestamp_ms, review_json)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (test_id) DO NOTHING`,
		rec.TestID, rec.UserID, rec.ExamID, rec.Score, rec.CorrectCount,
		rec.TotalQuestions, rec.TimestampMillis, string(review))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDuplicateTestID
	}
	return nil
}

func (s *SQLStore) GetByTestID(ctx context.Context, testID, userID string) (grading.ResultRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT test_id, user_id, exam_id, score,
		correct_count, total_questions, timestamp_ms, review_json
		FROM results WHERE test_id=$1`, testID)
	rec, err := scanRecord(row)
	if err != nil {
		return grading.ResultRecord{}, err
	}
	if rec.UserID != userID {
		return grading.ResultRecord{}, ErrAccessDenied
	}
	return rec, nil
}

func (s *SQLStore) ListForUser(ctx context.Context, userID string) ([]grading.ResultRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT test_id, user_id, exam_id, score,
		correct_count, total_questions, timestamp_ms, review_json
		FROM results WHERE user_id=$1
		ORDER BY timestamp_ms DESC, test_id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []grading.ResultRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (grading.ResultRecord, error) {
	var rec grading.ResultRecord
	var review string
	err := row.Scan(&rec.TestID, &rec.UserID, &rec.ExamID, &rec.Score,
		&rec.CorrectCount, &rec.TotalQuestions, &rec.TimestampMillis, &review)
	if errors.Is(err, sql.ErrNoRows) {
		return grading.ResultRecord{}, ErrNotFound
	}
	if err != nil {
		return grading.ResultRecord{}, err
	}
	if err := json.Unmarshal([]byte(review), &rec.Review); err != nil {
		return grading.ResultRecord{}, fmt.Errorf("unmarshal review: %w", err)
	}
	return rec, nil
}
