package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/leaguify/services"
	"github.com/Dosada05/leaguify/storage"
)

// multipart overhead on top of the image itself
const maxAvatarRequestBytes = storage.MaxAvatarBytes + 512<<10

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(ps services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: ps}
}

type updatePlayersInput struct {
	Players []services.PlayerUpdate `json:"players"`
}

type updatePlayerNameInput struct {
	Name string `json:"name"`
}

func (h *PlayerHandler) UpdatePlayers(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input updatePlayersInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.playerService.UpdatePlayers(r.Context(), leagueID, input.Players)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) UpdatePlayerName(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input updatePlayerNameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.UpdatePlayerName(r.Context(), playerID, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadAvatar expects a multipart form with the image in the "avatar" field.
func (h *PlayerHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := urlParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarRequestBytes)
	if err := r.ParseMultipartForm(maxAvatarRequestBytes); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			badRequestResponse(w, r, fmt.Errorf("avatar must not be larger than %d bytes", storage.MaxAvatarBytes))
			return
		}
		badRequestResponse(w, r, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		badRequestResponse(w, r, errors.New("avatar file is required"))
		return
	}
	defer file.Close()

	player, err := h.playerService.UploadAvatar(r.Context(), leagueID, playerID, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) GetVictories(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := urlParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	wins, err := h.playerService.GetVictories(r.Context(), leagueID, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player_id": playerID, "victories": wins}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
