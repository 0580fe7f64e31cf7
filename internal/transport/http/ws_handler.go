package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/StarRy7c/Gamebot/internal/app"
	"github.com/StarRy7c/Gamebot/internal/domain"
)

// WSHandler is the reference messaging collaborator: it attaches chat clients
// to rooms over websockets, forwards their traffic into the engine and
// renders the engine's events back out.
type WSHandler struct {
	service  *app.GameService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Questions int `json:"questions"`
}

type guessPayload struct {
	Text string `json:"text"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type leaderboardPayload struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game
// engine. Room membership and admin status come from the transport; the
// engine stays transport-agnostic.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	userID := r.URL.Query().Get("userId")
	displayName := r.URL.Query().Get("name")
	if roomID == "" || userID == "" || displayName == "" {
		http.Error(w, "missing roomId, userId, or name", http.StatusBadRequest)
		return
	}
	isAdmin := r.URL.Query().Get("admin") == "true"
	isPrivate := r.URL.Query().Get("private") == "true"

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	events, cancel := h.service.Subscribe(roomID)
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Warn().Err(err).Str("room", roomID).Msg("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: event.EventType(), Payload: event}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					send <- errorMessage("invalid start payload")
					continue
				}
			}
			if isPrivate {
				send <- errorMessage("this game can only be played in group rooms")
				continue
			}
			if err := h.service.StartGame(r.Context(), roomID, payload.Questions); err != nil {
				send <- errorMessage(err.Error())
			}
		case "guess":
			var payload guessPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage("invalid guess payload")
				continue
			}
			h.service.HandleMessage(r.Context(), roomID, userID, displayName, payload.Text)
		case "stop":
			if err := h.service.StopGame(r.Context(), roomID, userID, isPrivate, isAdmin); err != nil {
				if errors.Is(err, domain.ErrNoActiveGame) {
					// unsolicited stops are expected traffic, not errors
					continue
				}
				send <- errorMessage(err.Error())
			}
		case "leaderboard":
			send <- outboundMessage[any]{Type: "dailyLeaderboard", Payload: leaderboardPayload{
				Entries: h.service.DailyLeaderboard(roomID),
			}}
		case "stats":
			send <- outboundMessage[any]{Type: "playerStats", Payload: h.service.PlayerStats(roomID, userID)}
		default:
			send <- errorMessage("unsupported message type")
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}
