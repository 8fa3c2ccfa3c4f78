package results

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/coding-online/mco-exam/internal/grading"
)

// RedisStore keeps the production key shape: one hash per record at
// result:<testId>, plus a per-user index set at user:<userId>:results.
type RedisStore struct {
	rdb *goredis.Client
}

func NewRedisStore(addr string) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

func resultKey(testID string) string { return "result:" + testID }
func userKey(userID string) string   { return "user:" + userID + ":results" }

func (s *RedisStore) Append(ctx context.Context, rec grading.ResultRecord) error {
	// HSETNX on the id field doubles as the duplicate guard: the first writer
	// claims the key, a second append of the same test id fails instead of
	// overwriting.
	claimed, err := s.rdb.HSetNX(ctx, resultKey(rec.TestID), "testId", rec.TestID).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return ErrDuplicateTestID
	}

	review, err := json.Marshal(rec.Review)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, resultKey(rec.TestID), map[string]interface{}{
		"userId":         rec.UserID,
		"examId":         rec.ExamID,
		"score":          strconv.FormatFloat(rec.Score, 'f', 2, 64),
		"correctCount":   rec.CorrectCount,
		"totalQuestions": rec.TotalQuestions,
		"timestamp":      rec.TimestampMillis,
		"review":         string(review),
	})
	pipe.SAdd(ctx, userKey(rec.UserID), rec.TestID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) GetByTestID(ctx context.Context, testID, userID string) (grading.ResultRecord, error) {
	fields, err := s.rdb.HGetAll(ctx, resultKey(testID)).Result()
	if err != nil {
		return grading.ResultRecord{}, err
	}
	if len(fields) == 0 {
		return grading.ResultRecord{}, ErrNotFound
	}
	rec, err := recordFromFields(fields)
	if err != nil {
		return grading.ResultRecord{}, err
	}
	if rec.UserID != userID {
		return grading.ResultRecord{}, ErrAccessDenied
	}
	return rec, nil
}

func (s *RedisStore) ListForUser(ctx context.Context, userID string) ([]grading.ResultRecord, error) {
	ids, err := s.rdb.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make([]*goredis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, resultKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	out := make([]grading.ResultRecord, 0, len(ids))
	for _, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			continue // dangling index entry
		}
		rec, err := recordFromFields(fields)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimestampMillis != out[j].TimestampMillis {
			return out[i].TimestampMillis > out[j].TimestampMillis
		}
		return out[i].TestID > out[j].TestID
	})
	return out, nil
}

func recordFromFields(fields map[string]string) (grading.ResultRecord, error) {
	rec := grading.ResultRecord{
		TestID: fields["testId"],
		UserID: fields["userId"],
		ExamID: fields["examId"],
	}
	var err error
	if rec.Score, err = strconv.ParseFloat(fields["score"], 64); err != nil {
		return grading.ResultRecord{}, fmt.Errorf("parse score: %w", err)
	}
	if rec.CorrectCount, err = strconv.Atoi(fields["correctCount"]); err != nil {
		return grading.ResultRecord{}, fmt.Errorf("parse correctCount: %w", err)
	}
	if rec.TotalQuestions, err = strconv.Atoi(fields["totalQuestions"]); err != nil {
		return grading.ResultRecord{}, fmt.Errorf("parse totalQuestions: %w", err)
	}
	if rec.TimestampMillis, err = strconv.ParseInt(fields["timestamp"], 10, 64); err != nil {
		return grading.ResultRecord{}, fmt.Errorf("parse timestamp: %w", err)
	}
	if raw := fields["review"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &rec.Review); err != nil {
			return grading.ResultRecord{}, fmt.Errorf("unmarshal review: %w", err)
		}
	}
	return rec, nil
}
