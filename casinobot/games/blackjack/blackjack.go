package blackjack

import (
	"fmt"
	"math/rand"

	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/games/cards"
)

// ShoeDecks is the number of decks shuffled into one shoe.
const ShoeDecks = 6

// DealerStandsOn is the best value at which the dealer stops drawing.
const DealerStandsOn = 17

type State int

const (
	Dealing State = iota
	PlayerTurn
	DealerTurn
	Resolved
)

func (s State) String() string {
	switch s {
	case Dealing:
		return "dealing"
	case PlayerTurn:
		return "player turn"
	case DealerTurn:
		return "dealer turn"
	case Resolved:
		return "resolved"
	}
	return "unknown"
}

// HandValue returns the hard total (aces as 1) and the soft total (one ace as 11 when that
// does not bust). Without a usable ace both totals are equal.
func HandValue(h cards.Hand) (hard, soft int) {
	aces := 0
	for _, c := range h {
		v := c.BlackjackValue()
		if c.Rank == cards.Ace {
			aces++
			v = 1
		}
		hard += v
	}
	soft = hard
	if aces > 0 && hard+10 <= 21 {
		soft = hard + 10
	}
	return hard, soft
}

// BestValue is the highest total that does not bust, or the hard total if both bust.
func BestValue(h cards.Hand) int {
	_, soft := HandValue(h)
	return soft
}

func IsBlackjack(h cards.Hand) bool {
	return len(h) == 2 && BestValue(h) == 21
}

func IsBust(h cards.Hand) bool {
	hard, _ := HandValue(h)
	return hard > 21
}

// DealerPlay draws for the dealer while the best value is below DealerStandsOn.
func DealerPlay(hand cards.Hand, deck *cards.Deck) (cards.Hand, error) {
	for BestValue(hand) < DealerStandsOn {
		c, err := deck.Draw()
		if err != nil {
			return hand, fmt.Errorf("dealer draw: %w", err)
		}
		hand = append(hand, c)
	}
	return hand, nil
}

type Game struct {
	bet  int64
	mode games.Mode
	deck *cards.Deck

	player cards.Hand
	dealer cards.Hand

	state   State
	outcome *games.Outcome
}

// New deals from a freshly shuffled shoe.
func New(bet games.Bet, mode games.Mode, rng *rand.Rand) (*Game, error) {
	return NewWithDeck(bet, mode, cards.BuildDeck(ShoeDecks, rng))
}

// NewWithDeck deals two cards to the player then two to the dealer. A natural on either
// side resolves the game before the player acts.
func NewWithDeck(bet games.Bet, mode games.Mode, deck *cards.Deck) (*Game, error) {
	if bet.Amount <= 0 {
		return nil, fmt.Errorf("bet must be positive: %w", games.ErrInvalidBet)
	}
	g := &Game{
		bet:   bet.Amount,
		mode:  mode,
		deck:  deck,
		state: Dealing,
	}

	var err error
	if g.player, err = deck.DrawN(2); err != nil {
		return nil, err
	}
	if g.dealer, err = deck.DrawN(2); err != nil {
		return nil, err
	}

	playerNatural, dealerNatural := IsBlackjack(g.player), IsBlackjack(g.dealer)
	switch {
	case playerNatural && dealerNatural:
		g.finish("push", 0, 0)
	case playerNatural:
		g.finish("blackjack", g.bet*3/2, 0)
		g.outcome.Natural = true
	case dealerNatural:
		g.finish("dealer_blackjack", 0, g.bet)
	default:
		g.state = PlayerTurn
	}
	return g, nil
}

func (g *Game) State() State { return g.state }
func (g *Game) Done() bool { return g.state == Resolved }
func (g *Game) Outcome() *games.Outcome { return g.outcome }
func (g *Game) Bet() int64 { return g.bet }
func (g *Game) Mode() games.Mode { return g.mode }
func (g *Game) PlayerHand() cards.Hand { return append(cards.Hand(nil), g.player...) }
func (g *Game) DealerHand() cards.Hand { return append(cards.Hand(nil), g.dealer...) }

// DealerUpcard is the only dealer card shown while the player is deciding.
func (g *Game) DealerUpcard() cards.Card { return g.dealer[0] }

// ShowValues reports whether hand totals may be displayed. Hard mode hides them.
func (g *Game) ShowValues() bool {
	return g.mode != games.ModeHard
}

// Apply routes a hit or stand decision. The returned outcome is nil until the game resolves.
func (g *Game) Apply(a games.Action) (*games.Outcome, error) {
	switch a {
	case games.ActionHit:
		return g.Hit()
	case games.ActionStand:
		return g.Stand()
	}
	return nil, fmt.Errorf("%s in blackjack: %w", a, games.ErrActionNotLegal)
}

func (g *Game) Hit() (*games.Outcome, error) {
	if g.state != PlayerTurn {
		return nil, fmt.Errorf("hit during %s: %w", g.state, games.ErrActionNotLegal)
	}
	c, err := g.deck.Draw()
	if err != nil {
		return nil, fmt.Errorf("player draw: %w", err)
	}
	g.player = append(g.player, c)
	if IsBust(g.player) {
		g.finish("bust", 0, g.bet)
		return g.outcome, nil
	}
	return nil, nil
}

func (g *Game) Stand() (*games.Outcome, error) {
	if g.state != PlayerTurn {
		return nil, fmt.Errorf("stand during %s: %w", g.state, games.ErrActionNotLegal)
	}
	g.state = DealerTurn

	dealer, err := DealerPlay(g.dealer, g.deck)
	if err != nil {
		return nil, err
	}
	g.dealer = dealer

	player, house := BestValue(g.player), BestValue(g.dealer)
	switch {
	case IsBust(g.dealer):
		g.finish("dealer_bust", g.bet, 0)
	case player > house:
		g.finish("win", g.bet, 0)
	case player < house:
		g.finish("lose", 0, g.bet)
	default:
		g.finish("push", 0, 0)
	}
	return g.outcome, nil
}

// Timeout abandons the game; the bet is forfeited.
func (g *Game) Timeout() games.Outcome {
	if g.outcome == nil {
		g.finish("timeout", 0, g.bet)
		g.outcome.TimedOut = true
	}
	return *g.outcome
}

func (g *Game) finish(result string, winnings, loss int64) {
	g.state = Resolved
	g.outcome = &games.Outcome{
		Kind:     games.KindBlackjack,
		Won:      winnings > 0,
		Pushed:   winnings == 0 && loss == 0,
		Winnings: winnings,
		Loss:     loss,
		Stake:    g.bet,
		Meta: map[string]any{
			"result":       result,
			"player_hand":  g.PlayerHand(),
			"dealer_hand":  g.DealerHand(),
			"player_value": BestValue(g.player),
			"dealer_value": BestValue(g.dealer),
			"show_values":  g.ShowValues(),
		},
	}
}
