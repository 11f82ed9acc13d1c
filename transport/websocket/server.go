// Package websocket is the push transport: it upgrades per-room connections
// and pumps viewer-redacted state snapshots produced by the room.
package websocket

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/codr1/santase-sub001/internal/apperror"
	"github.com/codr1/santase-sub001/internal/entity"
	"github.com/codr1/santase-sub001/internal/usecase"
)

type Server struct {
	logger       *slog.Logger
	registry     *usecase.Registry
	pingInterval time.Duration
	upgrader     websocket.Upgrader
}

func New(logger *slog.Logger, registry *usecase.Registry, pingInterval time.Duration) *Server {
	return &Server{
		logger:       logger.With("component", "websocket"),
		registry:     registry,
		pingInterval: pingInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handle - GET /rooms/:code/ws. Players authenticate with their seat token
// in the token query parameter; without one the connection is a read-only
// spectator.
func (that *Server) Handle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := that.logger.With("method", "Handle")

	room, err := that.registry.Get(ps.ByName("code"))
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	token := r.URL.Query().Get("token")
	seat := entity.SeatNone

	if token != "" {
		seat, err = room.SeatFor(token)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(conn)

	if err := room.Attach(client, seat, token); err != nil {
		log.Info("connection rejected", "room", room.Code, "error", err)

		deadline := time.Now().Add(writeWait)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(closeCodeFor(err), err.Error()), deadline)
		_ = conn.Close()

		return
	}

	go client.writePump(that.pingInterval)
	client.readPump(room.Detach, that.pingInterval)
}

func closeCodeFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrRoomConnectionLimit),
		errors.Is(err, apperror.ErrGlobalConnectionLimit):
		return websocket.CloseTryAgainLater
	case errors.Is(err, apperror.ErrUnauthorized):
		return websocket.ClosePolicyViolation
	default:
		return websocket.CloseInternalServerErr
	}
}
