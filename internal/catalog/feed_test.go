package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleFeed = `Question,Options,Answer
What does CPT stand for?,Current Procedural Terminology|Clinical Procedure Test|Coding Practice Table,1
"ICD-10-CM is used for, among other things, what?",Diagnoses|Procedures only,1
Which code set covers supplies?,HCPCS Level II|CPT Category I|ICD-10-PCS,1
`

func TestParseQuestions(t *testing.T) {
	qs, err := ParseQuestions(strings.NewReader(sampleFeed))
	if err != nil {
		t.Fatalf("ParseQuestions: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("parsed %d questions, want 3", len(qs))
	}
	if qs[0].ID != 1 || qs[2].ID != 3 {
		t.Errorf("ids = %d..%d, want 1..3", qs[0].ID, qs[2].ID)
	}
	if got := qs[0].Options; len(got) != 3 || got[0] != "Current Procedural Terminology" {
		t.Errorf("options = %v", got)
	}
	// feed column is 1-based, stored index is 0-based
	if qs[0].Correct != 0 {
		t.Errorf("correct = %d, want 0", qs[0].Correct)
	}
	if !strings.Contains(qs[1].Text, "among other things") {
		t.Errorf("quoted comma mishandled: %q", qs[1].Text)
	}
}

func TestParseQuestionsSkipsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"too few columns", "only a question"},
		{"single option", "q,lonely,1"},
		{"answer not a number", "q,a|b,x"},
		{"answer out of range", "q,a|b,3"},
		{"answer zero", "q,a|b,0"},
		{"empty fields", ",a|b,1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := "header,header,header\n" + tt.row + "\nok,a|b,2\n"
			qs, err := ParseQuestions(strings.NewReader(feed))
			if err != nil {
				t.Fatalf("ParseQuestions: %v", err)
			}
			if len(qs) != 1 || qs[0].Text != "ok" {
				t.Errorf("got %v, want just the valid row", qs)
			}
		})
	}
}

func TestParseQuestionsEmptyFeed(t *testing.T) {
	if _, err := ParseQuestions(strings.NewReader("header,header,header\n")); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}

func TestHTTPFeedFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	qs, err := NewHTTPFeed(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(qs) != 3 {
		t.Errorf("fetched %d questions, want 3", len(qs))
	}
}

func TestHTTPFeedFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewHTTPFeed(srv.URL).Fetch(context.Background()); err == nil {
		t.Error("expected error on non-200 response")
	}
}
