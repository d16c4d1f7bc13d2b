// Package realtime pushes league events to websocket subscribers. Each league is a
// room; a client joins exactly one room for the lifetime of its connection.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Типы событий, отправляемых клиентам.
const (
	EventOutcomesRecorded = "OUTCOMES_RECORDED"
	EventCycleStarted     = "CYCLE_STARTED"
	EventGameAdded        = "GAME_ADDED"
	EventPlayersUpdated   = "PLAYERS_UPDATED"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

type roomMessage struct {
	room string
	data []byte
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	done       chan struct{}
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 256),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// LeagueRoom is the room id of a league.
func LeagueRoom(leagueID string) string {
	return "league_" + leagueID
}

// Run owns room membership until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for room, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("client registered", slog.String("room", client.room), slog.Int("clients", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok && clients[client] {
				close(client.send)
				delete(clients, client)
				if len(clients) == 0 {
					delete(h.rooms, client.room)
				}
				h.logger.Debug("client unregistered", slog.String("room", client.room))
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.rooms[msg.room] {
				select {
				case client.send <- msg.data:
				default:
					h.logger.Warn("client send buffer full, dropping message", slog.String("room", msg.room))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastToLeague queues an event for every subscriber of the league. It never
// blocks; when the queue is full the event is dropped.
func (h *Hub) BroadcastToLeague(leagueID, eventType string, payload interface{}) {
	room := LeagueRoom(leagueID)
	data, err := json.Marshal(Message{Type: eventType, Payload: payload, RoomID: room})
	if err != nil {
		h.logger.Error("failed to marshal websocket message", slog.String("room", room), slog.Any("error", err))
		return
	}

	select {
	case h.broadcast <- roomMessage{room: room, data: data}:
	default:
		h.logger.Warn("broadcast queue full, dropping message", slog.String("room", room), slog.String("type", eventType))
	}
}

// ClientCount returns the number of clients currently in a room.
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
