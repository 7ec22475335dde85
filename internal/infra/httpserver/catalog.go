package httpserver

import (
	"net/http"

	appanalytics "github.com/Hoblayerta/Loudao.aleph/internal/application/analytics"
	"github.com/Hoblayerta/Loudao.aleph/internal/domain/ledger"
)

// GET /api/support-organizations?category=
func (r *Router) handleSupportOrgs(w http.ResponseWriter, req *http.Request) error {
	if category := req.URL.Query().Get("category"); category != "" {
		writeJSON(w, http.StatusOK, r.catalog.ByCategory(category))
		return nil
	}
	writeJSON(w, http.StatusOK, r.catalog.All())
	return nil
}

// GET /api/support-organizations/grouped
func (r *Router) handleSupportGrouped(w http.ResponseWriter, req *http.Request) error {
	writeJSON(w, http.StatusOK, r.catalog.Grouped())
	return nil
}

type analyticsResponse struct {
	*appanalytics.Snapshot
	SupportOrganizations int `json:"supportOrganizations"`
}

// GET /api/analytics
func (r *Router) handleAnalytics(w http.ResponseWriter, req *http.Request) error {
	snap, err := r.analytics.Snapshot(req.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, analyticsResponse{Snapshot: snap, SupportOrganizations: r.catalog.Len()})
	return nil
}

// GET /api/ledger/stats
func (r *Router) handleLedgerStats(w http.ResponseWriter, req *http.Request) error {
	if r.ledger == nil {
		return ledger.ErrUnsupported
	}
	stats, err := r.ledger.Stats(req.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, stats)
	return nil
}
