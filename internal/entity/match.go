package entity

type MatchPhase string

const (
	MatchInProgress MatchPhase = "in_progress"
	MatchOver       MatchPhase = "over"
)

// TargetMatchPoints - a seat wins the match once its round-point total
// reaches this value.
const TargetMatchPoints = 11

type Player struct {
	Name  string `json:"name"`
	Bound bool   `json:"bound"`
}

// Match tracks round-point totals across rounds and owns the current Round.
type Match struct {
	Players     [2]Player
	Scores      [2]int
	Round       *Round
	Phase       MatchPhase
	Winner      Seat // valid only when Phase is MatchOver
	LastOutcome *RoundOutcome

	// NextLeader is the seat leading the next round: the loser of the
	// previous one, the host for the very first.
	NextLeader Seat
}

// NewMatch - a match with the host seated and the guest seat empty. The
// first round is dealt when the guest joins.
func NewMatch(hostName string) *Match {
	return &Match{
		Players:    [2]Player{{Name: hostName, Bound: true}, {}},
		Phase:      MatchInProgress,
		Winner:     SeatNone,
		NextLeader: SeatHost,
	}
}

func (that *Match) IsOver() bool {
	return that.Phase == MatchOver
}

func (that *Match) BothSeated() bool {
	return that.Players[SeatHost].Bound && that.Players[SeatGuest].Bound
}

// BetweenRounds - true when a round has finished but the match has not.
func (that *Match) BetweenRounds() bool {
	return that.Round != nil && that.Round.Phase == PhaseRoundOver && !that.IsOver()
}
