package entity

import "fmt"

type Suit string

const (
	SuitClubs    Suit = "clubs"
	SuitDiamonds Suit = "diamonds"
	SuitHearts   Suit = "hearts"
	SuitSpades   Suit = "spades"
)

var Suits = [4]Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}

type Rank string

const (
	RankNine  Rank = "9"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	RankTen   Rank = "10"
	RankAce   Rank = "A"
)

var Ranks = [6]Rank{RankNine, RankJack, RankQueen, RankKing, RankTen, RankAce}

// Card point values are fixed by rank.
var rankPoints = map[Rank]int{
	RankNine:  0,
	RankJack:  2,
	RankQueen: 3,
	RankKing:  4,
	RankTen:   10,
	RankAce:   11,
}

// Trick-taking strength is distinct from point value: 9 < J < Q < K < 10 < A.
var rankStrength = map[Rank]int{
	RankNine:  0,
	RankJack:  1,
	RankQueen: 2,
	RankKing:  3,
	RankTen:   4,
	RankAce:   5,
}

type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (that Card) Points() int {
	return rankPoints[that.Rank]
}

func (that Card) Strength() int {
	return rankStrength[that.Rank]
}

func (that Card) Valid() bool {
	_, rankOK := rankPoints[that.Rank]

	switch that.Suit {
	case SuitClubs, SuitDiamonds, SuitHearts, SuitSpades:
		return rankOK
	default:
		return false
	}
}

func (that Card) String() string {
	return fmt.Sprintf("%s of %s", that.Rank, that.Suit)
}

// Beats - reports whether a card played in reply wins the trick against the
// led card. A reply in the led suit wins on higher strength; a trump reply
// beats any non-trump lead; any other off-suit reply loses.
func (that Card) Beats(led Card, trump Suit) bool {
	if that.Suit == led.Suit {
		return that.Strength() > led.Strength()
	}

	return that.Suit == trump && led.Suit != trump
}
