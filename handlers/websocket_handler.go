package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/leaguify/realtime"
	"github.com/Dosada05/leaguify/services"
)

type WebSocketHandler struct {
	hub           *realtime.Hub
	leagueService services.LeagueService
	upgrader      websocket.Upgrader
	logger        *slog.Logger
}

// NewWebSocketHandler accepts connections from allowedOrigins; an empty list or "*"
// accepts any origin.
func NewWebSocketHandler(hub *realtime.Hub, ls services.LeagueService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	allowAll := len(allowedOrigins) == 0
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = true
	}

	return &WebSocketHandler{
		hub:           hub,
		leagueService: ls,
		logger:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || origins[origin]
			},
		},
	}
}

// ServeWs подписывает клиента на события лиги: /ws/leagues/{leagueID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParam(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.leagueService.GetLeague(r.Context(), leagueID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP ошибку клиенту
		h.logger.Warn("failed to upgrade websocket connection", slog.String("league_id", leagueID), slog.Any("error", err))
		return
	}

	h.hub.Serve(conn, realtime.LeagueRoom(leagueID))
	h.logger.Debug("websocket client connected", slog.String("league_id", leagueID))
}
