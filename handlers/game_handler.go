package handlers

import (
	"net/http"

	"github.com/Dosada05/leaguify/models"
	"github.com/Dosada05/leaguify/services"
)

type GameHandler struct {
	leagueService services.LeagueService
	cycleService  services.CycleService
}

func NewGameHandler(ls services.LeagueService, cs services.CycleService) *GameHandler {
	return &GameHandler{
		leagueService: ls,
		cycleService:  cs,
	}
}

type submitOutcomesInput struct {
	Outcomes []models.PlayerScore `json:"outcomes"`
}

func (h *GameHandler) GetOutcomes(w http.ResponseWriter, r *http.Request) {
	gameID, err := urlParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcomes, err := h.leagueService.GameOutcomes(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"outcomes": outcomes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) SubmitOutcomes(w http.ResponseWriter, r *http.Request) {
	gameID, err := urlParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input submitOutcomesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.cycleService.RecordOutcomes(r.Context(), gameID, input.Outcomes)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"game":          result.Game,
		"outcomes":      result.Outcomes,
		"cycle_started": result.Cycle.Started,
		"cycle_number":  result.Cycle.CycleNumber,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
