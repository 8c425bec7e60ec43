package poker

import (
	"fmt"
	"math/rand"

	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/games/cards"
)

type State int

const (
	PreFlop State = iota
	Flop
	Turn
	River
	Showdown
	Folded
	TimedOut
)

func (s State) String() string {
	switch s {
	case PreFlop:
		return "pre-flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	case Folded:
		return "folded"
	case TimedOut:
		return "timed out"
	}
	return "unknown"
}

func (s State) Terminal() bool {
	return s >= Showdown
}

// AntePayouts apply when the player's rank beats the dealer's. Ranks not listed pay 1:1.
var AntePayouts = map[HandRank]int64{
	RoyalFlush:    100,
	StraightFlush: 50,
	FourOfAKind:   20,
	FullHouse:     7,
	Flush:         5,
	Straight:      4,
	ThreeOfAKind:  3,
	TwoPair:       2,
	Pair:          1,
	HighCard:      1,
}

// BonusPayouts pay off the player's own hand. Ranks not listed lose the bonus.
var BonusPayouts = map[HandRank]int64{
	RoyalFlush:    1000,
	StraightFlush: 200,
	FourOfAKind:   30,
	FullHouse:     8,
	Flush:         6,
	Straight:      5,
	ThreeOfAKind:  4,
	TwoPair:       3,
	Pair:          2,
}

func AnteMultiplier(r HandRank) int64 {
	if m, ok := AntePayouts[r]; ok {
		return m
	}
	return 1
}

// Game is one Texas Hold'em Bonus hand against the dealer.
type Game struct {
	ante   int64
	bonus  int64
	raised int64
	mode   games.Mode

	deck   *cards.Deck
	player cards.Hand
	dealer cards.Hand
	board  cards.Hand

	state   State
	outcome *games.Outcome
}

// New deals a fresh hand from a shuffled single deck.
func New(bet games.Bet, mode games.Mode, rng *rand.Rand) (*Game, error) {
	return NewWithDeck(bet, mode, cards.BuildDeck(1, rng))
}

// NewWithDeck deals from the given deck. In all-in mode the hand is resolved immediately.
func NewWithDeck(bet games.Bet, mode games.Mode, deck *cards.Deck) (*Game, error) {
	if bet.Amount <= 0 {
		return nil, fmt.Errorf("ante must be positive: %w", games.ErrInvalidBet)
	}
	if bet.Bonus < 0 {
		return nil, fmt.Errorf("bonus must not be negative: %w", games.ErrInvalidBet)
	}

	g := &Game{
		ante:  bet.Amount,
		bonus: bet.Bonus,
		mode:  mode,
		deck:  deck,
		state: PreFlop,
	}

	var err error
	if g.player, err = deck.DrawN(2); err != nil {
		return nil, err
	}
	if g.dealer, err = deck.DrawN(2); err != nil {
		return nil, err
	}

	if mode == games.ModeAllIn {
		if err := g.dealBoard(5); err != nil {
			return nil, err
		}
		g.resolve(g.showdown())
		g.state = Showdown
	}
	return g, nil
}

func (g *Game) State() State { return g.state }
func (g *Game) Done() bool { return g.state.Terminal() }
func (g *Game) Outcome() *games.Outcome { return g.outcome }
func (g *Game) PlayerHole() cards.Hand { return append(cards.Hand(nil), g.player...) }
func (g *Game) DealerHole() cards.Hand { return append(cards.Hand(nil), g.dealer...) }
func (g *Game) Board() cards.Hand { return append(cards.Hand(nil), g.board...) }
func (g *Game) Mode() games.Mode { return g.mode }
func (g *Game) Ante() int64 { return g.ante }
func (g *Game) Bonus() int64 { return g.bonus }

// TotalBet is everything the player has put forward, raises included.
func (g *Game) TotalBet() int64 {
	return g.ante + g.bonus + g.raised
}

// Legal reports whether the action may be taken in the current state.
func (g *Game) Legal(a games.Action) bool {
	switch g.state {
	case PreFlop:
		return a == games.ActionPlay || a == games.ActionCheck || a == games.ActionFold
	case Flop, Turn, River:
		return a == games.ActionBet || a == games.ActionCheck || a == games.ActionFold
	}
	return false
}

// Apply advances the hand by one player decision. The returned outcome is nil while
// the hand is still in progress.
func (g *Game) Apply(a games.Action) (*games.Outcome, error) {
	if !g.Legal(a) {
		return nil, fmt.Errorf("%s during %s: %w", a, g.state, games.ErrActionNotLegal)
	}

	if a == games.ActionFold {
		out, err := g.fold()
		if err != nil {
			return nil, err
		}
		g.state = Folded
		g.resolve(out)
		return g.outcome, nil
	}

	switch a {
	case games.ActionPlay:
		g.raised += 2 * g.ante
	case games.ActionBet:
		g.raised += g.ante
	}

	switch g.state {
	case PreFlop:
		if err := g.dealBoard(3); err != nil {
			return nil, err
		}
		g.state = Flop
	case Flop:
		if err := g.dealBoard(1); err != nil {
			return nil, err
		}
		g.state = Turn
	case Turn:
		if err := g.dealBoard(1); err != nil {
			return nil, err
		}
		g.state = River
	case River:
		g.resolve(g.showdown())
		g.state = Showdown
		return g.outcome, nil
	}
	return nil, nil
}

// Timeout abandons the hand and forfeits every committed stake.
func (g *Game) Timeout() games.Outcome {
	if g.outcome != nil {
		return *g.outcome
	}
	stake := g.ante + g.bonus
	g.state = TimedOut
	g.resolve(games.Outcome{
		Kind:     games.KindPoker,
		Loss:     stake,
		Stake:    stake,
		TimedOut: true,
		Meta: map[string]any{
			"total_bet": g.TotalBet(),
			"street":    len(g.board),
		},
	})
	return *g.outcome
}

func (g *Game) dealBoard(n int) error {
	cs, err := g.deck.DrawN(n)
	if err != nil {
		return fmt.Errorf("dealing community cards: %w", err)
	}
	g.board = append(g.board, cs...)
	return nil
}

func (g *Game) resolve(o games.Outcome) {
	g.outcome = &o
}

func seven(hole, board cards.Hand) [7]cards.Card {
	var out [7]cards.Card
	copy(out[:2], hole)
	copy(out[2:], board)
	return out
}

func (g *Game) showdown() games.Outcome {
	pBest, pRank, _ := BestHand(seven(g.player, g.board))
	dBest, dRank, _ := BestHand(seven(g.dealer, g.board))

	mult := int64(1)
	if g.mode == games.ModeAllIn {
		mult = 2
	}

	var winnings, loss int64
	anteResult := "lost"
	switch {
	case pRank > dRank:
		winnings += g.ante * AnteMultiplier(pRank) * mult
		anteResult = "won"
	case pRank == dRank:
		anteResult = "push"
	default:
		loss += g.ante
	}

	bonusResult := ""
	if g.bonus > 0 {
		if m, ok := BonusPayouts[pRank]; ok {
			winnings += g.bonus * m * mult
			bonusResult = "won"
		} else {
			loss += g.bonus
			bonusResult = "lost"
		}
	}

	return games.Outcome{
		Kind:     games.KindPoker,
		Won:      winnings > 0,
		Pushed:   winnings == 0 && loss == 0,
		Winnings: winnings,
		Loss:     loss,
		Stake:    g.ante + g.bonus,
		AllIn:    g.mode == games.ModeAllIn,
		Meta: map[string]any{
			"player_rank":   pRank,
			"dealer_rank":   dRank,
			"player_best":   cards.Hand(pBest[:]),
			"dealer_best":   cards.Hand(dBest[:]),
			"player_desc":   Describe(append(g.PlayerHole(), g.board...)),
			"dealer_desc":   Describe(append(g.DealerHole(), g.board...)),
			"ante_result":   anteResult,
			"bonus_result":  bonusResult,
			"total_bet":     g.TotalBet(),
			"payout_factor": mult,
		},
	}
}

// fold forfeits the ante. The bonus is still settled once the flop is out, on a board padded
// to five cards; folding earlier forfeits the bonus too.
func (g *Game) fold() (games.Outcome, error) {
	out := games.Outcome{
		Kind:  games.KindPoker,
		Loss:  g.ante,
		Stake: g.ante + g.bonus,
		Meta: map[string]any{
			"ante_result": "folded",
			"total_bet":   g.TotalBet(),
		},
	}
	if g.bonus == 0 {
		return out, nil
	}

	if len(g.board) < 3 {
		out.Loss += g.bonus
		out.Meta["bonus_result"] = "lost"
		return out, nil
	}

	board := append(cards.Hand(nil), g.board...)
	pad, err := g.deck.DrawN(5 - len(board))
	if err != nil {
		return games.Outcome{}, fmt.Errorf("padding board on fold: %w", err)
	}
	board = append(board, pad...)

	_, rank, _ := BestHand(seven(g.player, board))
	out.Meta["player_rank"] = rank
	out.Meta["board"] = board
	if m, ok := BonusPayouts[rank]; ok {
		out.Winnings = g.bonus * m
		out.Won = true
		out.Meta["bonus_result"] = "won"
	} else {
		out.Loss += g.bonus
		out.Meta["bonus_result"] = "lost"
	}
	return out, nil
}
