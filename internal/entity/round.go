package entity

type Seat int

const (
	SeatNone  Seat = -1
	SeatHost  Seat = 0
	SeatGuest Seat = 1
)

func (that Seat) Other() Seat {
	if that == SeatHost {
		return SeatGuest
	}
	return SeatHost
}

func (that Seat) Valid() bool {
	return that == SeatHost || that == SeatGuest
}

type RoundPhase string

const (
	// PhaseLeading and PhaseFollowing cover trick play while the talon still
	// has cards; PhaseRunOff replaces them once the stock is exhausted.
	PhaseLeading   RoundPhase = "leading"
	PhaseFollowing RoundPhase = "following"
	PhaseRunOff    RoundPhase = "run_off"
	PhaseRoundOver RoundPhase = "round_over"
)

type OutcomeReason string

const (
	ReasonDeclared66      OutcomeReason = "declared_66"
	ReasonOpponentForfeit OutcomeReason = "opponent_forfeit"
	ReasonRunOffLastTrick OutcomeReason = "run_off_last_trick"
	ReasonCloserFailed66  OutcomeReason = "closer_failed_66"
)

// RoundOutcome - summary of a finished round, retained for client display.
type RoundOutcome struct {
	Winner      Seat          `json:"winner"`
	Reason      OutcomeReason `json:"reason"`
	RoundPoints int           `json:"round_points"`
	Scores      [2]int        `json:"scores"`
}

// Round is the authoritative state of one Santase hand. It is owned by
// exactly one Match and mutated only by the santase engine under the room
// lock.
type Round struct {
	Trump     Suit
	TrumpCard *Card // face-up trump; nil once exchanged or drawn
	Stock     []Card
	Hands     [2][]Card

	Trick  *Card // card led in the current trick, nil between tricks
	Leader Seat  // leader of the current trick

	Closed bool
	Closer Seat // valid only when Closed

	Marriages [2]map[Suit]bool
	Won       [2][]Card
	Points    [2]int
	Tricks    [2]int

	// Declarable is set while the current leader may still call sixty-six:
	// right after winning a trick or declaring a marriage, until they lead.
	Declarable bool

	Phase   RoundPhase
	Outcome *RoundOutcome
}

// Strict - reports whether follow-suit/forced-trump rules are in effect,
// which happens once the talon is closed or the stock has run out.
func (that *Round) Strict() bool {
	return that.Closed || that.Phase == PhaseRunOff || that.Phase == PhaseRoundOver
}

// Turn - the seat expected to act next.
func (that *Round) Turn() Seat {
	if that.Phase == PhaseRoundOver {
		return SeatNone
	}
	if that.Trick != nil {
		return that.Leader.Other()
	}
	return that.Leader
}

// AboutToLead - true when the seat is on lead and has not yet led a card,
// the only window for marriages, the nine exchange, and closing the talon.
func (that *Round) AboutToLead(seat Seat) bool {
	return that.Phase != PhaseRoundOver && that.Trick == nil && that.Leader == seat
}

// TalonSize - face-down stock plus the face-up trump card.
func (that *Round) TalonSize() int {
	size := len(that.Stock)
	if that.TrumpCard != nil {
		size++
	}
	return size
}

func (that *Round) HandContains(seat Seat, card Card) bool {
	for _, held := range that.Hands[seat] {
		if held == card {
			return true
		}
	}
	return false
}

func (that *Round) HandHasSuit(seat Seat, suit Suit) bool {
	for _, held := range that.Hands[seat] {
		if held.Suit == suit {
			return true
		}
	}
	return false
}

// RemoveFromHand - takes the card out of the seat's hand; the caller must
// have checked ownership first.
func (that *Round) RemoveFromHand(seat Seat, card Card) {
	hand := that.Hands[seat]
	for i, held := range hand {
		if held == card {
			that.Hands[seat] = append(hand[:i], hand[i+1:]...)
			return
		}
	}
}
