// Package santase implements the rules state machine for the card game
// Santase (66/Schnapsen): dealing, trick play, the nine exchange, marriages,
// closing the talon, declaring sixty-six, and round scoring. Functions
// operate on entity state and never touch transport or room concerns.
package santase

import (
	"math/rand"

	"github.com/codr1/santase-sub001/internal/apperror"
	"github.com/codr1/santase-sub001/internal/entity"
)

const (
	targetPoints = 66 // recorded points needed to win a round

	marriagePoints      = 20
	trumpMarriagePoints = 40
)

// NewRound - deals a fresh hand: three cards each, the face-up trump, three
// more each, the remaining eleven as face-down stock.
func NewRound(leader entity.Seat, rng *rand.Rand) *entity.Round {
	deck := entity.ShuffledDeck(rng)
	follower := leader.Other()

	round := &entity.Round{
		Leader:    leader,
		Phase:     entity.PhaseLeading,
		Closer:    entity.SeatNone,
		Marriages: [2]map[entity.Suit]bool{{}, {}},
	}

	round.Hands[leader] = append(round.Hands[leader], deck[0:3]...)
	round.Hands[follower] = append(round.Hands[follower], deck[3:6]...)

	trump := deck[6]
	round.Trump = trump.Suit
	round.TrumpCard = &trump

	round.Hands[leader] = append(round.Hands[leader], deck[7:10]...)
	round.Hands[follower] = append(round.Hands[follower], deck[10:13]...)

	round.Stock = append(round.Stock, deck[13:]...)

	return round
}

// PlayCard - applies one card played by seat, resolving the trick when both
// seats have played. Rejections leave the round untouched.
func PlayCard(round *entity.Round, seat entity.Seat, card entity.Card) error {
	if round.Phase == entity.PhaseRoundOver {
		return apperror.ErrRoundFinished
	}

	if round.Turn() != seat {
		return apperror.ErrNotYourTurn
	}

	if !round.HandContains(seat, card) {
		return apperror.ErrCardNotHeld
	}

	if round.Trick == nil {
		return leadCard(round, seat, card)
	}

	return followCard(round, seat, card)
}

func leadCard(round *entity.Round, seat entity.Seat, card entity.Card) error {
	round.RemoveFromHand(seat, card)
	led := card
	round.Trick = &led
	round.Declarable = false

	if round.Phase == entity.PhaseLeading {
		round.Phase = entity.PhaseFollowing
	}

	return nil
}

func followCard(round *entity.Round, seat entity.Seat, card entity.Card) error {
	led := *round.Trick

	// Before the talon is closed or exhausted any card may be played in
	// reply. Afterwards the follower must follow suit if holding one, else
	// play a trump if holding one.
	if round.Strict() {
		switch {
		case round.HandHasSuit(seat, led.Suit):
			if card.Suit != led.Suit {
				return apperror.ErrMustFollowSuit
			}
		case round.HandHasSuit(seat, round.Trump):
			if card.Suit != round.Trump {
				return apperror.ErrMustPlayTrump
			}
		}
	}

	round.RemoveFromHand(seat, card)
	resolveTrick(round, led, card)

	return nil
}

func resolveTrick(round *entity.Round, led, reply entity.Card) {
	leader := round.Leader
	follower := leader.Other()

	winner := leader
	if reply.Beats(led, round.Trump) {
		winner = follower
	}

	round.Won[winner] = append(round.Won[winner], led, reply)
	round.Points[winner] += led.Points() + reply.Points()
	round.Tricks[winner]++

	round.Trick = nil
	round.Leader = winner
	round.Declarable = true

	drew := false
	if !round.Closed && round.Phase != entity.PhaseRunOff {
		drawCard(round, winner)
		drawCard(round, winner.Other())
		drew = true
	}

	switch {
	case len(round.Hands[entity.SeatHost]) == 0:
		concludeExhausted(round, winner)
	case drew && len(round.Stock) == 0 && round.TrumpCard == nil:
		round.Phase = entity.PhaseRunOff
	case round.Phase == entity.PhaseRunOff && round.Points[winner] >= targetPoints:
		// Terminal run-off rule: the round ends as soon as a trick win
		// carries a player to sixty-six.
		conclude(round, winner, entity.ReasonDeclared66, naturalScore(round, winner))
	case round.Phase == entity.PhaseFollowing:
		round.Phase = entity.PhaseLeading
	}
}

func drawCard(round *entity.Round, seat entity.Seat) {
	switch {
	case len(round.Stock) > 0:
		round.Hands[seat] = append(round.Hands[seat], round.Stock[0])
		round.Stock = round.Stock[1:]
	case round.TrumpCard != nil:
		// The face-up trump is the last card of the talon.
		round.Hands[seat] = append(round.Hands[seat], *round.TrumpCard)
		round.TrumpCard = nil
	}
}

// concludeExhausted - both hands are empty: the closer is judged against
// sixty-six if the talon was closed, otherwise the last trick decides.
func concludeExhausted(round *entity.Round, lastTrickWinner entity.Seat) {
	if round.Closed {
		if round.Points[round.Closer] >= targetPoints {
			conclude(round, round.Closer, entity.ReasonDeclared66, naturalScore(round, round.Closer))
			return
		}

		conclude(round, round.Closer.Other(), entity.ReasonCloserFailed66, 3)
		return
	}

	if round.Points[lastTrickWinner] >= targetPoints {
		conclude(round, lastTrickWinner, entity.ReasonDeclared66, naturalScore(round, lastTrickWinner))
		return
	}

	conclude(round, lastTrickWinner, entity.ReasonRunOffLastTrick, naturalScore(round, lastTrickWinner))
}

// DeclareMarriage - scores a held king+queen pair: 20 points, 40 in trumps.
// Only the player about to lead may declare, once per suit per round.
func DeclareMarriage(round *entity.Round, seat entity.Seat, suit entity.Suit) error {
	if round.Phase == entity.PhaseRoundOver {
		return apperror.ErrRoundFinished
	}

	if !round.AboutToLead(seat) {
		return apperror.ErrNotLeading
	}

	if round.Marriages[seat][suit] {
		return apperror.ErrMarriageAlreadyDeclared
	}

	king := entity.Card{Rank: entity.RankKing, Suit: suit}
	queen := entity.Card{Rank: entity.RankQueen, Suit: suit}
	if !round.HandContains(seat, king) || !round.HandContains(seat, queen) {
		return apperror.ErrMarriageNotHeld
	}

	round.Marriages[seat][suit] = true

	if suit == round.Trump {
		round.Points[seat] += trumpMarriagePoints
	} else {
		round.Points[seat] += marriagePoints
	}

	round.Declarable = true

	return nil
}

// ExchangeNine - swaps the nine of trumps for the face-up trump card.
// Allowed only on lead, while the talon is open and at least three cards
// remain in it counting the face-up trump.
func ExchangeNine(round *entity.Round, seat entity.Seat) error {
	if round.Phase == entity.PhaseRoundOver {
		return apperror.ErrRoundFinished
	}

	if !round.AboutToLead(seat) {
		return apperror.ErrNotLeading
	}

	nine := entity.Card{Rank: entity.RankNine, Suit: round.Trump}

	if round.Closed || round.TrumpCard == nil || round.TalonSize() < 3 || !round.HandContains(seat, nine) {
		return apperror.ErrExchangeUnavailable
	}

	taken := *round.TrumpCard
	round.RemoveFromHand(seat, nine)
	round.Hands[seat] = append(round.Hands[seat], taken)
	round.TrumpCard = &nine

	return nil
}

// CloseTalon - the leader ends open play early, accepting strict rules and
// the closer-failed penalty. Requires at least one face-down stock card.
func CloseTalon(round *entity.Round, seat entity.Seat) error {
	if round.Phase == entity.PhaseRoundOver {
		return apperror.ErrRoundFinished
	}

	if !round.AboutToLead(seat) {
		return apperror.ErrNotLeading
	}

	if round.Closed {
		return apperror.ErrTalonAlreadyClosed
	}

	if len(round.Stock) < 1 {
		return apperror.ErrTalonTooSmall
	}

	round.Closed = true
	round.Closer = seat

	return nil
}

// DeclareSixtySix - ends the round on the declarer's claim. A wrong claim
// (fewer than sixty-six recorded points) forfeits the round to the opponent
// for the full three round-points.
func DeclareSixtySix(round *entity.Round, seat entity.Seat) error {
	if round.Phase == entity.PhaseRoundOver {
		return apperror.ErrRoundFinished
	}

	if !round.AboutToLead(seat) || !round.Declarable {
		return apperror.ErrDeclareNotArmed
	}

	if round.Points[seat] >= targetPoints {
		conclude(round, seat, entity.ReasonDeclared66, naturalScore(round, seat))
		return nil
	}

	conclude(round, seat.Other(), entity.ReasonCloserFailed66, 3)

	return nil
}

// naturalScore - round-points for the winner: 3 when the loser took no
// trick, 2 when the loser stayed under 33, otherwise 1.
func naturalScore(round *entity.Round, winner entity.Seat) int {
	loser := winner.Other()

	switch {
	case round.Tricks[loser] == 0:
		return 3
	case round.Points[loser] < 33:
		return 2
	default:
		return 1
	}
}

func conclude(round *entity.Round, winner entity.Seat, reason entity.OutcomeReason, roundPoints int) {
	round.Phase = entity.PhaseRoundOver
	round.Declarable = false
	round.Outcome = &entity.RoundOutcome{
		Winner:      winner,
		Reason:      reason,
		RoundPoints: roundPoints,
		Scores:      round.Points,
	}
}
