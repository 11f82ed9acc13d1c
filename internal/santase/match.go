package santase

import (
	"math/rand"

	"github.com/codr1/santase-sub001/internal/apperror"
	"github.com/codr1/santase-sub001/internal/entity"
)

// BeginRound - deals the next round, led by the loser of the previous one.
func BeginRound(match *entity.Match, rng *rand.Rand) {
	match.Round = NewRound(match.NextLeader, rng)
}

// Settle - folds a finished round's outcome into the match: round-points to
// the winner, outcome retained for display, match over at the target.
func Settle(match *entity.Match) {
	outcome := match.Round.Outcome
	if outcome == nil {
		return
	}

	match.Scores[outcome.Winner] += outcome.RoundPoints
	match.LastOutcome = outcome
	match.NextLeader = outcome.Winner.Other()

	if match.Scores[outcome.Winner] >= entity.TargetMatchPoints {
		match.Phase = entity.MatchOver
		match.Winner = outcome.Winner
	}
}

// Forfeit - ends the match in favor of the seat that stayed, bypassing
// normal scoring. Used when a player's last connection drops mid-match.
func Forfeit(match *entity.Match, leaver entity.Seat) {
	if match.IsOver() {
		return
	}

	winner := leaver.Other()

	outcome := &entity.RoundOutcome{
		Winner: winner,
		Reason: entity.ReasonOpponentForfeit,
	}

	if match.Round != nil {
		outcome.Scores = match.Round.Points
		match.Round.Phase = entity.PhaseRoundOver
		match.Round.Declarable = false
		match.Round.Outcome = outcome
	}

	match.LastOutcome = outcome
	match.Phase = entity.MatchOver
	match.Winner = winner
}

// NextRound - deals a new round between rounds, or resets for a rematch when
// the match is over and rematch was requested explicitly.
func NextRound(match *entity.Match, rematch bool, rng *rand.Rand) error {
	if !match.BothSeated() {
		return apperror.ErrMatchNotStarted
	}

	if match.IsOver() {
		if !rematch {
			return apperror.ErrMatchFinished
		}

		match.Scores = [2]int{}
		match.Phase = entity.MatchInProgress
		match.Winner = entity.SeatNone
		match.LastOutcome = nil
		BeginRound(match, rng)

		return nil
	}

	if match.Round != nil && match.Round.Phase != entity.PhaseRoundOver {
		return apperror.ErrRoundInProgress
	}

	BeginRound(match, rng)

	return nil
}
