package apperror

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is the common ancestor of every game-rule rejection, so the
// transport layer can map the whole family with a single errors.Is check.
var ErrIllegalMove = errors.New("illegal move")

var (
	ErrNotYourTurn             = fmt.Errorf("%w: it's not your turn", ErrIllegalMove)
	ErrCardNotHeld             = fmt.Errorf("%w: card is not in your hand", ErrIllegalMove)
	ErrMustFollowSuit          = fmt.Errorf("%w: must follow the led suit", ErrIllegalMove)
	ErrMustPlayTrump           = fmt.Errorf("%w: must play a trump", ErrIllegalMove)
	ErrNotLeading              = fmt.Errorf("%w: only the player on lead may do that", ErrIllegalMove)
	ErrMarriageAlreadyDeclared = fmt.Errorf("%w: marriage already declared in this suit", ErrIllegalMove)
	ErrMarriageNotHeld         = fmt.Errorf("%w: king and queen of the suit required", ErrIllegalMove)
	ErrExchangeUnavailable     = fmt.Errorf("%w: nine exchange is not available", ErrIllegalMove)
	ErrTalonAlreadyClosed      = fmt.Errorf("%w: talon is already closed", ErrIllegalMove)
	ErrTalonTooSmall           = fmt.Errorf("%w: not enough stock left to close", ErrIllegalMove)
	ErrDeclareNotArmed         = fmt.Errorf("%w: sixty-six can only be declared right after winning a trick or declaring a marriage", ErrIllegalMove)
	ErrRoundFinished           = fmt.Errorf("%w: round is already over", ErrIllegalMove)
)

var (
	ErrRoundInProgress = errors.New("round is still in progress")
	ErrMatchFinished   = errors.New("match is already finished")
	ErrMatchNotStarted = errors.New("waiting for an opponent to join")
)

var (
	ErrValidation            = errors.New("invalid request")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrRoomNotFound          = errors.New("room not found")
	ErrRoomFull              = errors.New("room is full")
	ErrRateLimited           = errors.New("too many rooms created from this address")
	ErrRoomConnectionLimit   = errors.New("room connection limit reached")
	ErrGlobalConnectionLimit = errors.New("server connection limit reached")
)
