package blackjack

import (
	"errors"
	"testing"

	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/games/cards"
)

func card(r cards.Rank) cards.Card {
	return cards.Card{Rank: r, Suit: cards.Spades}
}

// stacked deals the given cards in order.
func stacked(cs ...cards.Card) *cards.Deck {
	rev := make([]cards.Card, len(cs))
	for i, c := range cs {
		rev[len(cs)-1-i] = c
	}
	return cards.NewDeck(rev)
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name string
		hand cards.Hand
		hard int
		soft int
		best int
	}{
		{"ace king", cards.Hand{card(cards.Ace), card(cards.King)}, 11, 21, 21},
		{"two aces", cards.Hand{card(cards.Ace), card(cards.Ace)}, 2, 12, 12},
		{"soft seventeen", cards.Hand{card(cards.Ace), card(cards.Six)}, 7, 17, 17},
		{"ace goes hard", cards.Hand{card(cards.Ace), card(cards.Nine), card(cards.Five)}, 15, 15, 15},
		{"faces", cards.Hand{card(cards.Queen), card(cards.Jack)}, 20, 20, 20},
		{"bust", cards.Hand{card(cards.King), card(cards.Queen), card(cards.Two)}, 22, 22, 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hard, soft := HandValue(tt.hand)
			if hard != tt.hard || soft != tt.soft {
				t.Errorf("HandValue() = (%d, %d), want (%d, %d)", hard, soft, tt.hard, tt.soft)
			}
			if got := BestValue(tt.hand); got != tt.best {
				t.Errorf("BestValue() = %d, want %d", got, tt.best)
			}
		})
	}
}

func TestTenValueWithAceIsBlackjack(t *testing.T) {
	for _, r := range []cards.Rank{cards.Ten, cards.Jack, cards.Queen, cards.King} {
		h := cards.Hand{card(cards.Ace), card(r)}
		if !IsBlackjack(h) {
			t.Errorf("IsBlackjack(%s) = false, want true", h)
		}
		if _, soft := HandValue(h); soft != 21 {
			t.Errorf("soft value of %s = %d, want 21", h, soft)
		}
	}
	if IsBlackjack(cards.Hand{card(cards.Seven), card(cards.Seven), card(cards.Seven)}) {
		t.Error("three-card 21 counted as blackjack")
	}
}

func TestNaturals(t *testing.T) {
	tests := []struct {
		name     string
		deck     *cards.Deck
		result   string
		winnings int64
		loss     int64
		natural  bool
	}{
		{
			name:     "player natural pays three to two",
			deck:     stacked(card(cards.Ace), card(cards.King), card(cards.Nine), card(cards.Seven)),
			result:   "blackjack",
			winnings: 150,
			natural:  true,
		},
		{
			name:   "both natural push",
			deck:   stacked(card(cards.Ace), card(cards.King), card(cards.Queen), card(cards.Ace)),
			result: "push",
		},
		{
			name:   "dealer natural loses",
			deck:   stacked(card(cards.Nine), card(cards.King), card(cards.Ace), card(cards.Jack)),
			result: "dealer_blackjack",
			loss:   100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewWithDeck(games.Bet{Amount: 100}, games.ModeNormal, tt.deck)
			if err != nil {
				t.Fatalf("NewWithDeck() error = %v", err)
			}
			if g.State() != Resolved {
				t.Fatalf("State() = %v, want resolved", g.State())
			}
			out := g.Outcome()
			if out.Meta["result"] != tt.result || out.Winnings != tt.winnings || out.Loss != tt.loss || out.Natural != tt.natural {
				t.Errorf("outcome = %+v", out)
			}
			if _, err := g.Apply(games.ActionHit); !errors.Is(err, games.ErrActionNotLegal) {
				t.Errorf("Hit() after natural error = %v, want ErrActionNotLegal", err)
			}
		})
	}
}

func TestOddBetNaturalFloors(t *testing.T) {
	g, err := NewWithDeck(games.Bet{Amount: 25}, games.ModeNormal,
		stacked(card(cards.Ace), card(cards.King), card(cards.Nine), card(cards.Seven)))
	if err != nil {
		t.Fatalf("NewWithDeck() error = %v", err)
	}
	if got := g.Outcome().Winnings; got != 37 {
		t.Errorf("Winnings = %d, want 37", got)
	}
}

func TestNaturalNeverEntersPlayerTurn(t *testing.T) {
	for seed := int64(1); seed <= 2000; seed++ {
		g, err := New(games.Bet{Amount: 10}, games.ModeNormal, games.NewRand(seed))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if IsBlackjack(g.PlayerHand()) && g.State() == PlayerTurn {
			t.Fatalf("seed %d: natural %s left in player turn", seed, g.PlayerHand())
		}
	}
}

func TestDealerStandsAtSeventeen(t *testing.T) {
	for seed := int64(1); seed <= 1000; seed++ {
		g, err := New(games.Bet{Amount: 10}, games.ModeNormal, games.NewRand(seed))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if g.Done() {
			continue
		}
		if _, err := g.Stand(); err != nil {
			t.Fatalf("Stand() error = %v", err)
		}
		dealer := g.DealerHand()
		if !IsBust(dealer) && BestValue(dealer) < DealerStandsOn {
			t.Fatalf("seed %d: dealer stood on %d with %s", seed, BestValue(dealer), dealer)
		}
		for n := 2; n < len(dealer); n++ {
			if v := BestValue(dealer[:n]); v >= DealerStandsOn {
				t.Fatalf("seed %d: dealer drew on %d with %s", seed, v, dealer[:n])
			}
		}
	}
}

func TestDealerPlaySoftSeventeen(t *testing.T) {
	hand := cards.Hand{card(cards.Ace), card(cards.Six)}
	got, err := DealerPlay(hand, stacked(card(cards.Five)))
	if err != nil {
		t.Fatalf("DealerPlay() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("dealer drew on soft 17: %s", got)
	}
}

func TestHitAndStand(t *testing.T) {
	t.Run("bust on hit", func(t *testing.T) {
		g, _ := NewWithDeck(games.Bet{Amount: 50}, games.ModeNormal,
			stacked(card(cards.King), card(cards.Six), card(cards.Nine), card(cards.Eight), card(cards.Queen)))
		out, err := g.Hit()
		if err != nil {
			t.Fatalf("Hit() error = %v", err)
		}
		if out == nil || out.Meta["result"] != "bust" || out.Loss != 50 || out.Won {
			t.Fatalf("Hit() outcome = %+v, want bust", out)
		}
		if _, err := g.Stand(); !errors.Is(err, games.ErrActionNotLegal) {
			t.Errorf("Stand() after bust error = %v, want ErrActionNotLegal", err)
		}
	})

	t.Run("hit then win on stand", func(t *testing.T) {
		g, _ := NewWithDeck(games.Bet{Amount: 50}, games.ModeNormal,
			stacked(card(cards.Five), card(cards.Six), card(cards.Ten), card(cards.Seven), card(cards.Nine)))
		out, err := g.Hit()
		if err != nil || out != nil {
			t.Fatalf("Hit() = %+v, %v, want game in progress", out, err)
		}
		out, err = g.Stand()
		if err != nil {
			t.Fatalf("Stand() error = %v", err)
		}
		// 20 against the dealer's 17
		if out.Meta["result"] != "win" || out.Winnings != 50 || out.Loss != 0 {
			t.Errorf("Stand() outcome = %+v, want win", out)
		}
	})

	t.Run("push on equal", func(t *testing.T) {
		g, _ := NewWithDeck(games.Bet{Amount: 50}, games.ModeNormal,
			stacked(card(cards.King), card(cards.Eight), card(cards.Ten), card(cards.Eight)))
		out, err := g.Stand()
		if err != nil {
			t.Fatalf("Stand() error = %v", err)
		}
		if !out.Pushed || out.Winnings != 0 || out.Loss != 0 {
			t.Errorf("Stand() outcome = %+v, want push", out)
		}
	})

	t.Run("dealer bust", func(t *testing.T) {
		g, _ := NewWithDeck(games.Bet{Amount: 50}, games.ModeNormal,
			stacked(card(cards.King), card(cards.Two), card(cards.Ten), card(cards.Six), card(cards.Nine)))
		out, err := g.Stand()
		if err != nil {
			t.Fatalf("Stand() error = %v", err)
		}
		if out.Meta["result"] != "dealer_bust" || out.Winnings != 50 {
			t.Errorf("Stand() outcome = %+v, want dealer bust", out)
		}
	})
}

func TestHardModeOnlyHidesValues(t *testing.T) {
	deck := func() *cards.Deck {
		return stacked(card(cards.King), card(cards.Nine), card(cards.Ten), card(cards.Seven))
	}
	easy, _ := NewWithDeck(games.Bet{Amount: 40}, games.ModeNormal, deck())
	hard, _ := NewWithDeck(games.Bet{Amount: 40}, games.ModeHard, deck())

	if !easy.ShowValues() || hard.ShowValues() {
		t.Fatalf("ShowValues() = %v/%v, want true/false", easy.ShowValues(), hard.ShowValues())
	}
	a, _ := easy.Stand()
	b, _ := hard.Stand()
	if a.Winnings != b.Winnings || a.Loss != b.Loss || a.Meta["result"] != b.Meta["result"] {
		t.Errorf("hard mode changed the outcome: %+v vs %+v", a, b)
	}
}

func TestTimeout(t *testing.T) {
	g, _ := NewWithDeck(games.Bet{Amount: 80}, games.ModeNormal,
		stacked(card(cards.King), card(cards.Six), card(cards.Nine), card(cards.Eight)))
	out := g.Timeout()
	if !out.TimedOut || out.Loss != 80 || out.Won {
		t.Errorf("Timeout() = %+v, want forfeited bet", out)
	}
	if g.State() != Resolved {
		t.Errorf("State() = %v, want resolved", g.State())
	}
}

func TestNewRejectsNonPositiveBet(t *testing.T) {
	if _, err := New(games.Bet{Amount: 0}, games.ModeNormal, games.NewRand(1)); !errors.Is(err, games.ErrInvalidBet) {
		t.Errorf("New() error = %v, want ErrInvalidBet", err)
	}
}
