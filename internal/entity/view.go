package entity

// GameState is the full snapshot pushed to one viewer after every accepted
// mutation. Each seat sees its own hand; opponents' hands and the stock are
// reduced to counts. Spectators get no hand at all.
type GameState struct {
	RoomCode    string        `json:"room_code"`
	Phase       MatchPhase    `json:"phase"`
	Scores      [2]int        `json:"scores"`
	Winner      *Seat         `json:"winner,omitempty"`
	Players     [2]Player     `json:"players"`
	LastOutcome *RoundOutcome `json:"last_outcome,omitempty"`
	You         Seat          `json:"you"` // -1 for spectators
	Round       *RoundView    `json:"round,omitempty"`
}

type RoundView struct {
	Phase      RoundPhase `json:"phase"`
	Trump      Suit       `json:"trump"`
	TrumpCard  *Card      `json:"trump_card,omitempty"`
	StockSize  int        `json:"stock_size"`
	Hand       []Card     `json:"hand"`
	HandSizes  [2]int     `json:"hand_sizes"`
	Trick      *Card      `json:"trick,omitempty"`
	Leader     Seat       `json:"leader"`
	Turn       Seat       `json:"turn"`
	Closed     bool       `json:"closed"`
	Closer     *Seat      `json:"closer,omitempty"`
	Marriages  [2][]Suit  `json:"marriages"`
	Points     [2]int     `json:"points"`
	Tricks     [2]int     `json:"tricks"`
	Declarable bool       `json:"declarable"`
}

// View - builds the redacted snapshot of the match for one viewer. Pass
// SeatNone for spectators.
func (that *Match) View(code string, viewer Seat) GameState {
	state := GameState{
		RoomCode:    code,
		Phase:       that.Phase,
		Scores:      that.Scores,
		Players:     that.Players,
		LastOutcome: that.LastOutcome,
		You:         viewer,
	}

	if that.IsOver() {
		winner := that.Winner
		state.Winner = &winner
	}

	if that.Round != nil {
		state.Round = that.Round.view(viewer)
	}

	return state
}

func (that *Round) view(viewer Seat) *RoundView {
	view := &RoundView{
		Phase:      that.Phase,
		Trump:      that.Trump,
		TrumpCard:  that.TrumpCard,
		StockSize:  len(that.Stock),
		Hand:       []Card{},
		HandSizes:  [2]int{len(that.Hands[SeatHost]), len(that.Hands[SeatGuest])},
		Trick:      that.Trick,
		Leader:     that.Leader,
		Turn:       that.Turn(),
		Closed:     that.Closed,
		Points:     that.Points,
		Tricks:     that.Tricks,
		Declarable: that.Declarable,
	}

	if that.Closed {
		closer := that.Closer
		view.Closer = &closer
	}

	for seat := range that.Marriages {
		suits := []Suit{}
		for _, suit := range Suits {
			if that.Marriages[seat][suit] {
				suits = append(suits, suit)
			}
		}
		view.Marriages[seat] = suits
	}

	if viewer.Valid() {
		view.Hand = append(view.Hand, that.Hands[viewer]...)
	}

	return view
}
