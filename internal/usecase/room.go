package usecase

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codr1/santase-sub001/internal/apperror"
	"github.com/codr1/santase-sub001/internal/entity"
	"github.com/codr1/santase-sub001/internal/santase"
	"github.com/codr1/santase-sub001/internal/service"
)

// Subscriber is one live realtime connection as the room sees it. Deliver
// is best-effort: a false return means the connection could not keep up and
// will be closed without affecting the others.
type Subscriber interface {
	ID() uuid.UUID
	Deliver(state entity.GameState) bool
	Close()
}

type connection struct {
	sub  Subscriber
	seat entity.Seat // SeatNone for spectators
}

// Room owns the authoritative match state for one room code, its seat
// tokens, and its set of live connections. Every mutation, from gameplay to
// attach/detach to sweep teardown, runs under mu, so the room behaves as a
// single-writer actor.
type Room struct {
	Code string

	logger   *slog.Logger
	registry *Registry
	rng      *rand.Rand

	mu           sync.Mutex
	match        *entity.Match
	tokens       [2]string
	createdAt    time.Time
	lastActivity time.Time
	conns        []connection
	closed       bool
}

// seatForLocked - resolves a presented token to its bound seat. Both slots
// are compared in constant time regardless of where the match is found.
func (that *Room) seatForLocked(token string) (entity.Seat, error) {
	seat := entity.SeatNone

	for i, issued := range that.tokens {
		if service.VerifyToken(issued, token) {
			seat = entity.Seat(i)
		}
	}

	if seat == entity.SeatNone {
		return seat, apperror.ErrUnauthorized
	}

	return seat, nil
}

// mutate - runs one gameplay action under the room lock: token check,
// engine call, round settlement, activity touch, broadcast. The engine
// validates fully before mutating, so a rejection leaves state unchanged.
func (that *Room) mutate(token string, action func(seat entity.Seat) error) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return apperror.ErrRoomNotFound
	}

	seat, err := that.seatForLocked(token)
	if err != nil {
		return err
	}

	if err := action(seat); err != nil {
		return err
	}

	that.settleLocked()
	that.lastActivity = that.registry.now()
	that.broadcastLocked()

	return nil
}

// settleLocked - folds a just-finished round into the match exactly once.
func (that *Room) settleLocked() {
	round := that.match.Round
	if round == nil || round.Outcome == nil {
		return
	}

	if that.match.LastOutcome == round.Outcome {
		return // already settled
	}

	santase.Settle(that.match)
}

func (that *Room) requireRound() (*entity.Round, error) {
	if !that.match.BothSeated() || that.match.Round == nil {
		return nil, apperror.ErrMatchNotStarted
	}

	if that.match.IsOver() {
		return nil, apperror.ErrMatchFinished
	}

	return that.match.Round, nil
}

func (that *Room) PlayCard(token string, card entity.Card) error {
	return that.mutate(token, func(seat entity.Seat) error {
		round, err := that.requireRound()
		if err != nil {
			return err
		}

		return santase.PlayCard(round, seat, card)
	})
}

func (that *Room) DeclareMarriage(token string, suit entity.Suit) error {
	return that.mutate(token, func(seat entity.Seat) error {
		round, err := that.requireRound()
		if err != nil {
			return err
		}

		return santase.DeclareMarriage(round, seat, suit)
	})
}

func (that *Room) ExchangeNine(token string) error {
	return that.mutate(token, func(seat entity.Seat) error {
		round, err := that.requireRound()
		if err != nil {
			return err
		}

		return santase.ExchangeNine(round, seat)
	})
}

func (that *Room) CloseTalon(token string) error {
	return that.mutate(token, func(seat entity.Seat) error {
		round, err := that.requireRound()
		if err != nil {
			return err
		}

		return santase.CloseTalon(round, seat)
	})
}

func (that *Room) DeclareSixtySix(token string) error {
	return that.mutate(token, func(seat entity.Seat) error {
		round, err := that.requireRound()
		if err != nil {
			return err
		}

		return santase.DeclareSixtySix(round, seat)
	})
}

func (that *Room) NextRound(token string, rematch bool) error {
	return that.mutate(token, func(entity.Seat) error {
		return santase.NextRound(that.match, rematch, that.rng)
	})
}

// SeatFor - resolves a token to its bound seat.
func (that *Room) SeatFor(token string) (entity.Seat, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return entity.SeatNone, apperror.ErrRoomNotFound
	}

	return that.seatForLocked(token)
}

// Snapshot - the current state as seen by the holder of token, or by a
// spectator when token is empty.
func (that *Room) Snapshot(token string) (entity.GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return entity.GameState{}, apperror.ErrRoomNotFound
	}

	viewer := entity.SeatNone
	if token != "" {
		seat, err := that.seatForLocked(token)
		if err != nil {
			return entity.GameState{}, err
		}
		viewer = seat
	}

	return that.match.View(that.Code, viewer), nil
}

// Attach - admits a realtime connection. Players present their seat token;
// spectators attach read-only with seat SeatNone and no token. Spectators
// count against the same per-room cap as players.
func (that *Room) Attach(sub Subscriber, seat entity.Seat, token string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return apperror.ErrRoomNotFound
	}

	if seat.Valid() {
		bound, err := that.seatForLocked(token)
		if err != nil || bound != seat {
			return apperror.ErrUnauthorized
		}
	}

	if len(that.conns) >= that.registry.roomConnLimit {
		return apperror.ErrRoomConnectionLimit
	}

	if err := that.registry.acquireConn(); err != nil {
		return err
	}

	that.conns = append(that.conns, connection{sub: sub, seat: seat})

	if !sub.Deliver(that.match.View(that.Code, seat)) {
		sub.Close()
	}

	return nil
}

// Detach - removes a connection. When the last connection of a bound seat
// drops while the match is live, the remaining seat wins by forfeit.
func (that *Room) Detach(id uuid.UUID) {
	that.mu.Lock()
	defer that.mu.Unlock()

	seat := entity.SeatNone
	found := false

	kept := that.conns[:0]
	for _, conn := range that.conns {
		if conn.sub.ID() == id {
			found = true
			seat = conn.seat
			continue
		}
		kept = append(kept, conn)
	}
	that.conns = kept

	if !found {
		return
	}

	that.registry.releaseConn()

	if that.closed || !seat.Valid() {
		return
	}

	for _, conn := range that.conns {
		if conn.seat == seat {
			return // seat still connected elsewhere
		}
	}

	if !that.match.BothSeated() || that.match.IsOver() {
		return
	}

	that.logger.Info("player disconnected, forfeiting match", "room", that.Code, "seat", int(seat))
	santase.Forfeit(that.match, seat)
	that.broadcastLocked()
}

// broadcastLocked - fans the post-mutation state out to every connection,
// each with its own view. A connection that cannot take the event is closed;
// its pump will detach it. Delivery never blocks the room.
func (that *Room) broadcastLocked() {
	for _, conn := range that.conns {
		if !conn.sub.Deliver(that.match.View(that.Code, conn.seat)) {
			conn.sub.Close()
		}
	}
}

// expired - TTL check used by the registry sweep. Absolute TTL counts from
// creation even under continuous play; idle TTL counts from the last
// gameplay mutation, never from heartbeats.
func (that *Room) expired(now time.Time) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return now.Sub(that.createdAt) >= that.registry.roomTTL ||
		now.Sub(that.lastActivity) >= that.registry.idleTTL
}

// shutdown - marks the room dead and closes every live connection. Called
// only by the registry, after the room is unreachable through the map.
func (that *Room) shutdown() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closed = true

	for _, conn := range that.conns {
		conn.sub.Close()
		that.registry.releaseConn()
	}
	that.conns = nil
}
