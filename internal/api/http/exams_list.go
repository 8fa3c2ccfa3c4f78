package http

import (
	"net/http"

	"github.com/coding-online/mco-exam/internal/catalog"
)

// ListExamsHandler serves the storefront catalog. Topic mappings and answer
// data never appear here.
func ListExamsHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cat.Exams())
	}
}
