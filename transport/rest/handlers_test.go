package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/santase-sub001/internal/config"
	"github.com/codr1/santase-sub001/internal/entity"
	"github.com/codr1/santase-sub001/internal/usecase"
	ws "github.com/codr1/santase-sub001/transport/websocket"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:  "info",
		HTTPPort:  "0",
		PublicURL: "http://santase.test",
		Limits: config.Limits{
			RoomConnections:   4,
			GlobalConnections: 256,
			RoomsPerIP:        5,
			RoomsPerIPWindow:  time.Minute,
			MaxBodyBytes:      1024,
		},
		Lifetimes: config.Lifetimes{
			RoomTTL:       2 * time.Hour,
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
			PingInterval:  30 * time.Second,
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	conf := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	registry := usecase.NewRegistry(logger, usecase.RegistryOptions{
		RoomTTL:           conf.Lifetimes.RoomTTL,
		IdleTTL:           conf.Lifetimes.IdleTTL,
		RoomConnections:   conf.Limits.RoomConnections,
		GlobalConnections: conf.Limits.GlobalConnections,
		RoomsPerIP:        conf.Limits.RoomsPerIP,
		RoomsPerIPWindow:  conf.Limits.RoomsPerIPWindow,
	}, nil, nil)

	realtime := ws.New(logger, registry, conf.Lifetimes.PingInterval)

	return New(logger, registry, realtime, conf)
}

func do(t *testing.T, server *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

func createTestRoom(t *testing.T, server *Server) createRoomResponse {
	t.Helper()

	rec := do(t, server, http.MethodPost, "/rooms", "", nameRequest{Name: "alice"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created createRoomResponse
	decodeInto(t, rec, &created)

	return created
}

func joinTestRoom(t *testing.T, server *Server, code string) joinRoomResponse {
	t.Helper()

	rec := do(t, server, http.MethodPost, "/rooms/"+code+"/join", "", nameRequest{Name: "bob"})
	require.Equal(t, http.StatusOK, rec.Code)

	var joined joinRoomResponse
	decodeInto(t, rec, &joined)

	return joined
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body errorBody
	decodeInto(t, rec, &body)

	return body.Code
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t)

	rec := do(t, server, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHandleCreateRoom(t *testing.T) {
	t.Run("Returns code, seat, and token", func(t *testing.T) {
		server := newTestServer(t)

		created := createTestRoom(t, server)

		assert.Len(t, created.RoomCode, 6)
		assert.Equal(t, entity.SeatHost, created.Seat)
		assert.NotEmpty(t, created.Token)
	})

	t.Run("Malformed JSON is a validation error", func(t *testing.T) {
		server := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", errorCode(t, rec))
	})

	t.Run("An oversized body is rejected before parsing", func(t *testing.T) {
		server := newTestServer(t)

		huge := `{"name":"` + strings.Repeat("a", 2048) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader(huge))
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "request_too_large", errorCode(t, rec))
	})

	t.Run("The sixth creation from one address is throttled", func(t *testing.T) {
		server := newTestServer(t)

		for i := 0; i < 5; i++ {
			rec := do(t, server, http.MethodPost, "/rooms", "", nameRequest{Name: "alice"})
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := do(t, server, http.MethodPost, "/rooms", "", nameRequest{Name: "alice"})

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "rate_limited", errorCode(t, rec))
	})
}

func TestHandleJoinRoom(t *testing.T) {
	t.Run("The guest receives its seat token", func(t *testing.T) {
		server := newTestServer(t)
		created := createTestRoom(t, server)

		joined := joinTestRoom(t, server, created.RoomCode)

		assert.Equal(t, entity.SeatGuest, joined.Seat)
		assert.NotEmpty(t, joined.Token)
		assert.NotEqual(t, created.Token, joined.Token)
	})

	t.Run("A full room answers 409", func(t *testing.T) {
		server := newTestServer(t)
		created := createTestRoom(t, server)
		joinTestRoom(t, server, created.RoomCode)

		rec := do(t, server, http.MethodPost, "/rooms/"+created.RoomCode+"/join", "", nameRequest{Name: "carol"})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "room_full", errorCode(t, rec))
	})

	t.Run("An unknown code answers 404", func(t *testing.T) {
		server := newTestServer(t)

		rec := do(t, server, http.MethodPost, "/rooms/NOSUCH/join", "", nameRequest{Name: "bob"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "room_not_found", errorCode(t, rec))
	})
}

func TestHandleState(t *testing.T) {
	server := newTestServer(t)
	created := createTestRoom(t, server)
	joinTestRoom(t, server, created.RoomCode)

	t.Run("A player sees its own hand", func(t *testing.T) {
		rec := do(t, server, http.MethodGet, "/rooms/"+created.RoomCode+"/state", created.Token, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var state entity.GameState
		decodeInto(t, rec, &state)
		assert.Equal(t, entity.SeatHost, state.You)
		require.NotNil(t, state.Round)
		assert.Len(t, state.Round.Hand, 6)
	})

	t.Run("No token means the spectator view", func(t *testing.T) {
		rec := do(t, server, http.MethodGet, "/rooms/"+created.RoomCode+"/state", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var state entity.GameState
		decodeInto(t, rec, &state)
		assert.Equal(t, entity.SeatNone, state.You)
		require.NotNil(t, state.Round)
		assert.Empty(t, state.Round.Hand)
		assert.Equal(t, [2]int{6, 6}, state.Round.HandSizes)
	})

	t.Run("A forged token is unauthorized, not a spectator", func(t *testing.T) {
		rec := do(t, server, http.MethodGet, "/rooms/"+created.RoomCode+"/state", "forged", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandlePlayCard(t *testing.T) {
	t.Run("Requires a bearer token", func(t *testing.T) {
		server := newTestServer(t)
		created := createTestRoom(t, server)
		joinTestRoom(t, server, created.RoomCode)

		rec := do(t, server, http.MethodPost, "/rooms/"+created.RoomCode+"/play", "",
			playRequest{Card: entity.Card{Rank: entity.RankAce, Suit: entity.SuitSpades}})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Rejects a card that does not exist", func(t *testing.T) {
		server := newTestServer(t)
		created := createTestRoom(t, server)
		joinTestRoom(t, server, created.RoomCode)

		rec := do(t, server, http.MethodPost, "/rooms/"+created.RoomCode+"/play", created.Token,
			playRequest{Card: entity.Card{Rank: "7", Suit: entity.SuitSpades}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", errorCode(t, rec))
	})

	t.Run("Playing out of turn maps to illegal_move", func(t *testing.T) {
		server := newTestServer(t)
		created := createTestRoom(t, server)
		joined := joinTestRoom(t, server, created.RoomCode)

		// The host leads the first round, so any guest play is out of turn
		rec := do(t, server, http.MethodPost, "/rooms/"+created.RoomCode+"/play", joined.Token,
			playRequest{Card: entity.Card{Rank: entity.RankAce, Suit: entity.SuitSpades}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "illegal_move", errorCode(t, rec))
	})

	t.Run("Playing before the guest joins is a conflict", func(t *testing.T) {
		server := newTestServer(t)
		created := createTestRoom(t, server)

		rec := do(t, server, http.MethodPost, "/rooms/"+created.RoomCode+"/play", created.Token,
			playRequest{Card: entity.Card{Rank: entity.RankAce, Suit: entity.SuitSpades}})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "conflict", errorCode(t, rec))
	})

	t.Run("A legal lead comes back as the mover's updated view", func(t *testing.T) {
		server := newTestServer(t)
		created := createTestRoom(t, server)
		joinTestRoom(t, server, created.RoomCode)

		stateRec := do(t, server, http.MethodGet, "/rooms/"+created.RoomCode+"/state", created.Token, nil)
		require.Equal(t, http.StatusOK, stateRec.Code)

		var state entity.GameState
		decodeInto(t, stateRec, &state)
		require.NotEmpty(t, state.Round.Hand)
		lead := state.Round.Hand[0]

		rec := do(t, server, http.MethodPost, "/rooms/"+created.RoomCode+"/play", created.Token,
			playRequest{Card: lead})

		require.Equal(t, http.StatusOK, rec.Code)
		var after entity.GameState
		decodeInto(t, rec, &after)
		require.NotNil(t, after.Round.Trick)
		assert.Equal(t, lead, *after.Round.Trick)
		assert.Len(t, after.Round.Hand, 5)
		assert.Equal(t, entity.SeatGuest, after.Round.Turn)
	})
}

func TestHandleNextRound(t *testing.T) {
	server := newTestServer(t)
	created := createTestRoom(t, server)
	joinTestRoom(t, server, created.RoomCode)

	// A round is in progress, so dealing the next one is a conflict
	rec := do(t, server, http.MethodPost, "/rooms/"+created.RoomCode+"/next-round", created.Token, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", errorCode(t, rec))
}

func TestHandleQR(t *testing.T) {
	t.Run("Serves a PNG of the join URL", func(t *testing.T) {
		server := newTestServer(t)
		created := createTestRoom(t, server)

		rec := do(t, server, http.MethodGet, "/rooms/"+created.RoomCode+"/qr", "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.NotEmpty(t, rec.Body.Bytes())
	})

	t.Run("Unknown room answers 404", func(t *testing.T) {
		server := newTestServer(t)

		rec := do(t, server, http.MethodGet, "/rooms/NOSUCH/qr", "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
