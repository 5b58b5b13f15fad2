// File: server/server.go
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lguibr/ludo/bollywood"
	"github.com/lguibr/ludo/utils"
	"golang.org/x/net/websocket"
)

// Server holds the actor handles the HTTP handlers talk to.
type Server struct {
	engine         *bollywood.Engine
	roomManagerPID *bollywood.PID
	broadcasterPID *bollywood.PID
	cfg            utils.Config
}

// New creates a new Server instance.
func New(engine *bollywood.Engine, roomManagerPID, broadcasterPID *bollywood.PID, cfg utils.Config) *Server {
	return &Server{
		engine:         engine,
		roomManagerPID: roomManagerPID,
		broadcasterPID: broadcasterPID,
		cfg:            cfg,
	}
}

// Routes wires every endpoint into one router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/subscribe", websocket.Handler(s.HandleSubscribe()))
	r.Get("/rooms", s.HandleRooms())
	r.Get("/rooms/{roomID}", s.HandleRoom())
	r.Get("/healthz", s.HandleHealth())
	return r
}
