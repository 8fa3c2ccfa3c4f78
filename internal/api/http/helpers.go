package http

import (
	"encoding/json"
	"errors"
	"net/http"

	authmw "github.com/coding-online/mco-exam/internal/auth/middleware"
	"github.com/coding-online/mco-exam/internal/catalog"
	"github.com/coding-online/mco-exam/internal/exam"
	"github.com/coding-online/mco-exam/internal/policy"
	"github.com/coding-online/mco-exam/internal/results"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var denied *policy.DeniedError
	switch {
	case errors.As(err, &denied):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": string(denied.Reason)})
	case errors.Is(err, results.ErrAccessDenied):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "access_denied"})
	case errors.Is(err, catalog.ErrNoTopicMapping),
		errors.Is(err, results.ErrNotFound),
		errors.Is(err, exam.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
	case errors.Is(err, exam.ErrInvalidAnswer),
		errors.Is(err, exam.ErrUnknownQuestion):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, catalog.ErrEmptyPool):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no_questions_available"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
}

// policyUser maps verified SSO claims to the policy view of the user.
func policyUser(r *http.Request) (policy.User, bool) {
	c := authmw.ClaimsFromContext(r.Context())
	if c == nil || c.User.ID == "" {
		return policy.User{}, false
	}
	return policy.User{
		ID:          c.User.ID,
		Unlimited:   c.Unlimited,
		PaidExamIDs: c.PaidExamIDs,
	}, true
}
