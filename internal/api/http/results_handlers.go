package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coding-online/mco-exam/internal/catalog"
	"github.com/coding-online/mco-exam/internal/grading"
	"github.com/coding-online/mco-exam/internal/logging"
	"github.com/coding-online/mco-exam/internal/results"
)

type resultView struct {
	grading.ResultRecord
	Passed bool `json:"passed"`
}

func viewOf(rec grading.ResultRecord, cat *catalog.Catalog) resultView {
	v := resultView{ResultRecord: rec}
	if def, ok := cat.Exam(rec.ExamID); ok {
		v.Passed = rec.Passed(def.PassThresholdPercent)
	}
	return v
}

// ListResultsHandler serves the caller's history, newest first.
func ListResultsHandler(store results.Store, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := policyUser(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		recs, err := store.ListForUser(r.Context(), user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		views := make([]resultView, 0, len(recs))
		for _, rec := range recs {
			views = append(views, viewOf(rec, cat))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

// GetResultHandler serves one record with its review, owner-checked by the
// store. Cross-user reads are logged before the 403 goes out.
func GetResultHandler(store results.Store, cat *catalog.Catalog, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := policyUser(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		testID := chi.URLParam(r, "testID")
		rec, err := store.GetByTestID(r.Context(), testID, user.ID)
		if err != nil {
			if errors.Is(err, results.ErrAccessDenied) {
				log.Warn("cross-user result access blocked",
					"test_id", testID, "requester", user.ID)
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(rec, cat))
	}
}
