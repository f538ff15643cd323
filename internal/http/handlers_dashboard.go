package http

import (
	"net/http"
	"time"

	"bilancio/internal/analytics"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	granularity, err := parseGranularity(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	reference, err := parseReference(r, granularity, time.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.snapshots.Dashboard(r.Context(), owner, granularity, reference)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, buildDashboardResponse(granularity, snap))
}

// fullHistorySnapshot serves the endpoints whose views are not window-scoped:
// bills, insights and the health score all look at the whole history.
func (s *Server) fullHistorySnapshot(w http.ResponseWriter, r *http.Request) (analytics.Snapshot, bool) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return analytics.Snapshot{}, false
	}

	snap, err := s.snapshots.Dashboard(r.Context(), owner, analytics.GranularityNone, time.Now())
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return analytics.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.fullHistorySnapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, buildBillList(snap.UpcomingBills))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.fullHistorySnapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, buildInsightList(snap.Insights))
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.fullHistorySnapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, buildHealthResponse(snap.Health))
}
