package handlers

import (
	"net/http"

	"github.com/Dosada05/leaguify/services"
)

type StatisticsHandler struct {
	statsService services.StatsService
}

func NewStatisticsHandler(ss services.StatsService) *StatisticsHandler {
	return &StatisticsHandler{statsService: ss}
}

func (h *StatisticsHandler) GetLeagueStatistics(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.statsService.ComputeStandings(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Health answers liveness checks.
func Health(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
