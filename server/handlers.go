// File: server/handlers.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/lguibr/ludo/bollywood"
	"github.com/lguibr/ludo/game"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/websocket"
)

// HandleSubscribe spawns a ConnectionHandlerActor for each websocket and
// keeps the handler alive until that actor stops.
func (s *Server) HandleSubscribe() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("module", "server").Interface("panic", r).Str("stack", string(debug.Stack())).Msg("panic in subscribe handler")
			}
			_ = ws.Close()
		}()

		if s.engine == nil || s.roomManagerPID == nil || s.broadcasterPID == nil {
			log.Error().Str("module", "server").Msg("server not wired to actors, refusing connection")
			return
		}

		done := make(chan struct{})
		pid := s.engine.Spawn(bollywood.NewProps(NewConnectionHandlerProducer(ConnectionHandlerArgs{
			Conn:           ws,
			Engine:         s.engine,
			RoomManagerPID: s.roomManagerPID,
			BroadcasterPID: s.broadcasterPID,
			ReadTimeout:    s.cfg.ReadTimeout,
			WriteTimeout:   s.cfg.WriteTimeout,
			Done:           done,
		})))
		if pid == nil {
			return
		}
		<-done
	}
}

// HandleRooms lists live rooms by asking the room manager.
func (s *Server) HandleRooms() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, ok := s.roomList(w)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, rooms)
	}
}

// HandleRoom reports the summary of one live room.
func (s *Server) HandleRoom() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		rooms, ok := s.roomList(w)
		if !ok {
			return
		}
		summary, found := rooms.Rooms[roomID]
		if !found {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// roomList asks the manager for the room listing and writes the error
// response itself when that fails.
func (s *Server) roomList(w http.ResponseWriter) (game.RoomListResponse, bool) {
	reply, err := s.engine.Ask(s.roomManagerPID, game.GetRoomListRequest{}, s.cfg.AskTimeout)
	if err != nil {
		log.Error().Str("module", "server").Err(err).Msg("room list request failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "room list unavailable"})
		return game.RoomListResponse{}, false
	}
	rooms, ok := reply.(game.RoomListResponse)
	if !ok {
		log.Error().Str("module", "server").Str("type", fmt.Sprintf("%T", reply)).Msg("unexpected room list reply")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return game.RoomListResponse{}, false
	}
	return rooms, true
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
}

// HandleHealth reports liveness and the number of open connections.
func (s *Server) HandleHealth() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		reply, err := s.engine.Ask(s.broadcasterPID, game.GetClientCount{}, s.cfg.AskTimeout)
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
		count, _ := reply.(int)
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Clients: count})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Str("module", "server").Err(err).Msg("failed to write response")
	}
}
