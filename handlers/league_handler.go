package handlers

import (
	"net/http"

	"github.com/Dosada05/leaguify/services"
)

type LeagueHandler struct {
	leagueService services.LeagueService
	cycleService  services.CycleService
}

func NewLeagueHandler(ls services.LeagueService, cs services.CycleService) *LeagueHandler {
	return &LeagueHandler{
		leagueService: ls,
		cycleService:  cs,
	}
}

func (h *LeagueHandler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	var input services.CreateLeagueInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	details, err := h.leagueService.CreateLeague(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"league": details.League, "players": details.Players, "games": details.Games}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.leagueService.ListLeagues(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leagues": leagues}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) GetLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	league, err := h.leagueService.GetLeague(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.leagueService.ListPlayers(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.leagueService.ListGames(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) CurrentCycleGames(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cycle, err := h.leagueService.CurrentCycleGames(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"cycle_number": cycle.CycleNumber, "games": cycle.Games}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) AddGame(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.cycleService.AddGameToCurrentCycle(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartNextCycle is the manual advance; it answers 409 while the current cycle has pending games.
func (h *LeagueHandler) StartNextCycle(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	advance, err := h.cycleService.StartNextCycle(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if !advance.Started {
		status = http.StatusOK
	}
	if err := writeJSON(w, status, jsonResponse{"cycle": advance}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
