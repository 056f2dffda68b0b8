package api

import (
	"net/http"
	"strconv"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/audit"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
	"github.com/gorilla/mux"
)

type HistoryHandler struct {
	trail *audit.Trail
}

func NewHistoryHandler(trail *audit.Trail) *HistoryHandler {
	return &HistoryHandler{trail: trail}
}

func (h *HistoryHandler) ByApplication(w http.ResponseWriter, r *http.Request) {
	entries, err := h.trail.ByApplication(r.Context(), mux.Vars(r)["id"], historyLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeHistory(w, entries)
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := historyLimit(r)

	var (
		entries []models.History
		err     error
	)
	switch {
	case q.Get("seeker_id") != "":
		entries, err = h.trail.BySeeker(r.Context(), q.Get("seeker_id"), limit)
	case q.Get("company_id") != "":
		entries, err = h.trail.ByCompany(r.Context(), q.Get("company_id"), limit)
	default:
		http.Error(w, "seeker_id or company_id is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeHistory(w, entries)
}

// Stats aggregates one application's trail: action counts, a chronological
// timeline and time-to-hire.
func (h *HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.trail.ApplicationStats(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stats, http.StatusOK)
}

func writeHistory(w http.ResponseWriter, entries []models.History) {
	if entries == nil {
		entries = []models.History{}
	}
	writeJSON(w, map[string]any{"items": entries}, http.StatusOK)
}

func historyLimit(r *http.Request) int {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}
	return limit
}
