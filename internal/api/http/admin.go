package http

import (
	"net/http"

	"github.com/coding-online/mco-exam/internal/catalog"
	"github.com/coding-online/mco-exam/internal/logging"
)

// RefreshCatalogHandler re-fetches the master question feed into the catalog.
// Mounted behind the admin guard.
func RefreshCatalogHandler(cat *catalog.Catalog, feed catalog.FeedSource, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cat.Refresh(r.Context(), feed); err != nil {
			log.Error("catalog refresh failed", "err", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "feed_unavailable"})
			return
		}
		log.Info("catalog refreshed")
		w.WriteHeader(http.StatusNoContent)
	}
}
