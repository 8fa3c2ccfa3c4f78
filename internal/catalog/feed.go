package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrNoQuestions means the feed parsed to zero usable rows.
var ErrNoQuestions = errors.New("catalog: no questions parsed from feed")

// FeedSource supplies the raw question pool. The production source is a
// published spreadsheet exported as CSV.
type FeedSource interface {
	Fetch(ctx context.Context) ([]Question, error)
}

// HTTPFeed fetches and parses the master CSV feed:
// one header row, then question text, pipe-delimited options, and the
// 1-based index of the correct option.
type HTTPFeed struct {
	URL    string
	Client *http.Client
}

func NewHTTPFeed(url string) *HTTPFeed {
	return &HTTPFeed{URL: url, Client: &http.Client{Timeout: 30 * time.Second}}
}

func (f *HTTPFeed) Fetch(ctx context.Context) ([]Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch question feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch question feed: unexpected status %s", resp.Status)
	}
	return ParseQuestions(resp.Body)
}

// ParseQuestions reads the CSV feed. Malformed rows are skipped, matching the
// storefront's tolerant loader; an entirely unusable feed is an error.
func ParseQuestions(r io.Reader) ([]Question, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var qs []Question
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse question feed: %w", err)
		}
		line++
		if line == 1 {
			continue // header
		}
		q, ok := parseRow(rec, line-1)
		if !ok {
			continue
		}
		qs = append(qs, q)
	}
	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}
	return qs, nil
}

func parseRow(rec []string, id int) (Question, bool) {
	if len(rec) < 3 {
		return Question{}, false
	}
	text := strings.TrimSpace(rec[0])
	optionsStr := strings.TrimSpace(rec[1])
	correctStr := strings.TrimSpace(rec[2])
	if text == "" || optionsStr == "" || correctStr == "" {
		return Question{}, false
	}
	options := strings.Split(optionsStr, "|")
	if len(options) < 2 {
		return Question{}, false
	}
	// The feed column is 1-based.
	n, err := strconv.Atoi(correctStr)
	if err != nil || n < 1 || n > len(options) {
		return Question{}, false
	}
	return Question{ID: id, Text: text, Options: options, Correct: n - 1}, true
}
