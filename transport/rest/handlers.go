package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/codr1/santase-sub001/internal/apperror"
	"github.com/codr1/santase-sub001/internal/entity"
	"github.com/codr1/santase-sub001/internal/usecase"
)

type nameRequest struct {
	Name string `json:"name"`
}

type playRequest struct {
	Card entity.Card `json:"card"`
}

type marriageRequest struct {
	Suit entity.Suit `json:"suit"`
}

type nextRoundRequest struct {
	Rematch bool `json:"rematch"`
}

type createRoomResponse struct {
	RoomCode string      `json:"roomCode"`
	Seat     entity.Seat `json:"seat"`
	Token    string      `json:"token"`
}

type joinRoomResponse struct {
	Seat  entity.Seat `json:"seat"`
	Token string      `json:"token"`
}

// decodeBody - parses a JSON body capped at the configured byte limit; the
// cap is enforced before any parsing happens.
func (that *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, that.conf.Limits.MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}

		return fmt.Errorf("%w: %w", apperror.ErrValidation, err)
	}

	return nil
}

func (that *Server) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (that *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req nameRequest
	if err := that.decodeBody(w, r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	room, token, err := that.registry.CreateRoom(realIP(r), req.Name)
	if err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createRoomResponse{
		RoomCode: room.Code,
		Seat:     entity.SeatHost,
		Token:    token,
	})
}

func (that *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req nameRequest
	if err := that.decodeBody(w, r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	_, token, err := that.registry.JoinRoom(ps.ByName("code"), req.Name)
	if err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, joinRoomResponse{
		Seat:  entity.SeatGuest,
		Token: token,
	})
}

// room mutation handlers: authenticate the seat token, apply the action
// through the room actor, return the mover's own view on success.

func (that *Server) handlePlayCard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req playRequest
	if err := that.decodeBody(w, r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	if !req.Card.Valid() {
		that.writeError(w, fmt.Errorf("%w: unknown card", apperror.ErrValidation))
		return
	}

	that.applyAction(w, r, ps, func(room *usecase.Room, token string) error {
		return room.PlayCard(token, req.Card)
	})
}

func (that *Server) handleDeclareMarriage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req marriageRequest
	if err := that.decodeBody(w, r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	that.applyAction(w, r, ps, func(room *usecase.Room, token string) error {
		return room.DeclareMarriage(token, req.Suit)
	})
}

func (that *Server) handleExchangeNine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	that.applyAction(w, r, ps, func(room *usecase.Room, token string) error {
		return room.ExchangeNine(token)
	})
}

func (that *Server) handleCloseTalon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	that.applyAction(w, r, ps, func(room *usecase.Room, token string) error {
		return room.CloseTalon(token)
	})
}

func (that *Server) handleDeclareSixtySix(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	that.applyAction(w, r, ps, func(room *usecase.Room, token string) error {
		return room.DeclareSixtySix(token)
	})
}

func (that *Server) handleNextRound(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req nextRoundRequest
	if r.ContentLength > 0 {
		if err := that.decodeBody(w, r, &req); err != nil {
			that.writeError(w, err)
			return
		}
	}

	that.applyAction(w, r, ps, func(room *usecase.Room, token string) error {
		return room.NextRound(token, req.Rematch)
	})
}

func (that *Server) applyAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params, action func(*usecase.Room, string) error) {
	token := bearerToken(r)
	if token == "" {
		that.writeError(w, apperror.ErrUnauthorized)
		return
	}

	room, err := that.registry.Get(ps.ByName("code"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	if err := action(room, token); err != nil {
		that.writeError(w, err)
		return
	}

	state, err := room.Snapshot(token)
	if err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// handleState - read-only snapshot. With a bearer token the caller sees its
// own hand; without one it gets the spectator view.
func (that *Server) handleState(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := that.registry.Get(ps.ByName("code"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	state, err := room.Snapshot(bearerToken(r))
	if err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// handleQR - a QR code of the join URL, for sharing a room across the
// table.
func (that *Server) handleQR(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	room, err := that.registry.Get(ps.ByName("code"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	png, err := qrcode.Encode(that.conf.PublicURL+"/rooms/"+room.Code, qrcode.Medium, 256)
	if err != nil {
		that.writeError(w, fmt.Errorf("failed to render QR code: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
