package usecase

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/codr1/santase-sub001/internal/apperror"
	"github.com/codr1/santase-sub001/internal/entity"
	"github.com/codr1/santase-sub001/internal/santase"
	"github.com/codr1/santase-sub001/internal/service"
)

const roomCodeLength = 6

// Alphabet for room codes. Uppercase plus digits keeps codes easy to read
// out loud.
const roomCodeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RegistryOptions - caps and lifetimes applied to every room.
type RegistryOptions struct {
	RoomTTL           time.Duration
	IdleTTL           time.Duration
	RoomConnections   int
	GlobalConnections int
	RoomsPerIP        int
	RoomsPerIPWindow  time.Duration
}

// Registry owns the process-wide room code mapping. It is the only
// component allowed to create or delete a Room. The clock and the shuffle
// source are injected so TTL sweeps and deals are deterministic in tests.
type Registry struct {
	logger *slog.Logger

	now    func() time.Time
	newRNG func() *mathrand.Rand

	roomTTL         time.Duration
	idleTTL         time.Duration
	roomConnLimit   int
	globalConnLimit int

	limiter *ipLimiter

	mu    sync.Mutex
	rooms map[string]*Room

	connMu sync.Mutex
	connN  int
}

// NewRegistry - builds a registry. Pass nil for now/newRNG to use the real
// clock and a time-seeded shuffle source.
func NewRegistry(logger *slog.Logger, opts RegistryOptions, now func() time.Time, newRNG func() *mathrand.Rand) *Registry {
	if now == nil {
		now = time.Now
	}

	if newRNG == nil {
		newRNG = func() *mathrand.Rand {
			return mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
		}
	}

	return &Registry{
		logger:          logger.With("component", "registry"),
		now:             now,
		newRNG:          newRNG,
		roomTTL:         opts.RoomTTL,
		idleTTL:         opts.IdleTTL,
		roomConnLimit:   opts.RoomConnections,
		globalConnLimit: opts.GlobalConnections,
		limiter:         newIPLimiter(opts.RoomsPerIP, opts.RoomsPerIPWindow, now),
		rooms:           make(map[string]*Room),
	}
}

// CreateRoom - admits one room creation for ip, generates a collision-free
// code, binds the host seat, and issues the host token.
func (that *Registry) CreateRoom(ip, hostName string) (*Room, string, error) {
	if !that.limiter.Allow(ip) {
		return nil, "", apperror.ErrRateLimited
	}

	token, err := service.NewToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue host token: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	code, err := that.freeCodeLocked()
	if err != nil {
		return nil, "", err
	}

	now := that.now()
	room := &Room{
		Code:         code,
		logger:       that.logger.With("room", code),
		registry:     that,
		rng:          that.newRNG(),
		match:        entity.NewMatch(hostName),
		createdAt:    now,
		lastActivity: now,
	}
	room.tokens[entity.SeatHost] = token

	that.rooms[code] = room
	that.logger.Info("room created", "room", code, "rooms", len(that.rooms))

	return room, token, nil
}

// JoinRoom - binds the guest seat, issues the guest token, and deals the
// first round. A second join is a conflict reported as ErrRoomFull.
func (that *Registry) JoinRoom(code, guestName string) (*Room, string, error) {
	room, err := that.Get(code)
	if err != nil {
		return nil, "", err
	}

	token, err := room.join(guestName)
	if err != nil {
		return nil, "", err
	}

	return room, token, nil
}

func (that *Room) join(guestName string) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return "", apperror.ErrRoomNotFound
	}

	if that.match.Players[entity.SeatGuest].Bound {
		return "", apperror.ErrRoomFull
	}

	token, err := service.NewToken()
	if err != nil {
		return "", fmt.Errorf("failed to issue guest token: %w", err)
	}

	that.tokens[entity.SeatGuest] = token
	that.match.Players[entity.SeatGuest] = entity.Player{Name: guestName, Bound: true}

	santase.BeginRound(that.match, that.rng)

	that.lastActivity = that.registry.now()
	that.broadcastLocked()

	return token, nil
}

// Get - looks a live room up by code.
func (that *Registry) Get(code string) (*Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[code]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return room, nil
}

// RemoveRoom - the single deletion path: unlink the code first so no new
// request can reach the room, then close every connection it still holds.
func (that *Registry) RemoveRoom(code string) {
	that.mu.Lock()
	room, ok := that.rooms[code]
	if ok {
		delete(that.rooms, code)
	}
	that.mu.Unlock()

	if !ok {
		return
	}

	room.shutdown()
	that.logger.Info("room removed", "room", code)
}

// Sweep - one pass of TTL enforcement. Expiry is judged per room under that
// room's own lock, never while holding the registry lock.
func (that *Registry) Sweep() {
	that.mu.Lock()
	candidates := make([]*Room, 0, len(that.rooms))
	for _, room := range that.rooms {
		candidates = append(candidates, room)
	}
	that.mu.Unlock()

	now := that.now()
	for _, room := range candidates {
		if room.expired(now) {
			that.RemoveRoom(room.Code)
		}
	}
}

// Len - number of live rooms.
func (that *Registry) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.rooms)
}

func (that *Registry) freeCodeLocked() (string, error) {
	for attempt := 0; attempt < 100; attempt++ {
		code, err := randomRoomCode(roomCodeLength)
		if err != nil {
			return "", err
		}

		if _, taken := that.rooms[code]; !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("failed to find a free room code")
}

// randomRoomCode - unbiased random code via rejection sampling.
func randomRoomCode(n int) (string, error) {
	const max = byte(255 - (256 % len(roomCodeLetters)))

	out := make([]byte, 0, n)
	buf := make([]byte, n*2)

	for {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}

		for _, b := range buf {
			if b <= max {
				out = append(out, roomCodeLetters[int(b)%len(roomCodeLetters)])
				if len(out) == n {
					return string(out), nil
				}
			}
		}
	}
}

func (that *Registry) acquireConn() error {
	that.connMu.Lock()
	defer that.connMu.Unlock()

	if that.connN >= that.globalConnLimit {
		return apperror.ErrGlobalConnectionLimit
	}

	that.connN++

	return nil
}

func (that *Registry) releaseConn() {
	that.connMu.Lock()
	defer that.connMu.Unlock()

	if that.connN > 0 {
		that.connN--
	}
}
