package entity

import "math/rand"

// DeckSize is the fixed size of a Santase deck.
const DeckSize = 24

// NewDeck - returns the 24 cards of a Santase deck in a fixed order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)

	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}

	return deck
}

// ShuffledDeck - returns a fresh deck shuffled with the given source, so
// tests can deal deterministically from a seeded generator.
func ShuffledDeck(rng *rand.Rand) []Card {
	deck := NewDeck()

	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	return deck
}
