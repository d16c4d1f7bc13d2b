package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/leaguify/handlers"
	"github.com/Dosada05/leaguify/middleware"
)

type Handlers struct {
	League     *handlers.LeagueHandler
	Game       *handlers.GameHandler
	Player     *handlers.PlayerHandler
	Statistics *handlers.StatisticsHandler
	WebSocket  *handlers.WebSocketHandler
}

func SetupRoutes(r chi.Router, logger *slog.Logger, allowedOrigins []string, h Handlers) {
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"the requested resource could not be found"}` + "\n"))
	})

	r.Get("/health", handlers.Health)

	// websocket соединения живут дольше любого таймаута запроса
	r.Get("/ws/leagues/{leagueID}", h.WebSocket.ServeWs)

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/leagues", func(r chi.Router) {
			r.Post("/", h.League.CreateLeague)
			r.Get("/", h.League.ListLeagues)

			r.Route("/{leagueID}", func(r chi.Router) {
				r.Get("/", h.League.GetLeague)

				r.Get("/players", h.League.ListPlayers)
				r.Put("/players", h.Player.UpdatePlayers)
				r.Put("/players/{playerID}/avatar", h.Player.UploadAvatar)
				r.Get("/players/{playerID}/victories", h.Player.GetVictories)

				r.Get("/games", h.League.ListGames)
				r.Get("/games/current", h.League.CurrentCycleGames)
				r.Post("/games", h.League.AddGame)

				r.Post("/cycles", h.League.StartNextCycle)
			})
		})

		r.Route("/games/{gameID}", func(r chi.Router) {
			r.Get("/outcomes", h.Game.GetOutcomes)
			r.Post("/outcomes", h.Game.SubmitOutcomes)
		})

		r.Put("/players/{playerID}/name", h.Player.UpdatePlayerName)

		r.Get("/statistics/leagues/{leagueID}", h.Statistics.GetLeagueStatistics)
	})

}
