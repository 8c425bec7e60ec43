package cards

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

var ErrDeckExhausted = errors.New("deck exhausted")

type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

func (s Suit) String() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Clubs:
		return "Clubs"
	case Spades:
		return "Spades"
	}
	return "Unknown"
}

func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥️"
	case Diamonds:
		return "♦️"
	case Clubs:
		return "♣️"
	case Spades:
		return "♠️"
	}
	return "?"
}

// Rank values match poker ordinals: Two=2 ... Ace=14.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	}
	return fmt.Sprintf("%d", int(r))
}

type Card struct {
	Rank Rank
	Suit Suit
}

// PokerValue is the ordinal used for hand ranking, Ace high.
func (c Card) PokerValue() int {
	return int(c.Rank)
}

// BlackjackValue counts faces as 10 and an Ace as 11. Hand totals soften aces.
func (c Card) BlackjackValue() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.Symbol()
}

type Hand []Card

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Deck is dealt from the end of the slice.
type Deck struct {
	cards []Card
}

// BuildDeck returns numDecks*52 cards shuffled with Fisher-Yates using rng.
func BuildDeck(numDecks int, rng *rand.Rand) *Deck {
	if numDecks < 1 {
		numDecks = 1
	}
	cs := make([]Card, 0, numDecks*52)
	for d := 0; d < numDecks; d++ {
		for _, s := range Suits {
			for _, r := range Ranks {
				cs = append(cs, Card{Rank: r, Suit: s})
			}
		}
	}
	for i := len(cs) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cs[i], cs[j] = cs[j], cs[i]
	}
	return &Deck{cards: cs}
}

// NewDeck builds a deck in the given order; the last card is drawn first.
func NewDeck(cs []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cs...)}
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, fmt.Errorf("draw %d of %d: %w", n, len(d.cards), ErrDeckExhausted)
	}
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		c, _ := d.Draw()
		out = append(out, c)
	}
	return out, nil
}
