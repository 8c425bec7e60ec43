package games

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/disgoorg/casino-bot/casinobot/games/cards"
)

var (
	// ErrInvalidBet is returned for malformed or unparseable player input. Nothing has been dealt or spun.
	ErrInvalidBet = errors.New("invalid bet")
	// ErrActionNotLegal is returned when an action is not allowed in the current state. The game is unchanged.
	ErrActionNotLegal = errors.New("action not legal in current state")
	// ErrGameTimeout marks an interactive game resolved by the idle timeout.
	ErrGameTimeout = errors.New("game timed out")
	// ErrDeckExhausted means an engine tried to draw past the end of its deck. Always a bug.
	ErrDeckExhausted = cards.ErrDeckExhausted
)

type Kind string

const (
	KindBlackjack Kind = "blackjack"
	KindCoinflip  Kind = "coinflip"
	KindSlots     Kind = "slots"
	KindRoulette  Kind = "roulette"
	KindPoker     Kind = "poker"
)

var Kinds = []Kind{KindBlackjack, KindCoinflip, KindSlots, KindRoulette, KindPoker}

func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Interactive reports whether games of this kind wait for player decisions.
func (k Kind) Interactive() bool {
	return k == KindBlackjack || k == KindPoker
}

// Mode is a per-game toggle chosen when the game starts.
type Mode int

const (
	ModeNormal Mode = iota
	// ModeHard hides blackjack hand totals. Display only.
	ModeHard
	// ModeAllIn skips every poker betting round and doubles payouts.
	ModeAllIn
)

func (m Mode) String() string {
	switch m {
	case ModeHard:
		return "hard"
	case ModeAllIn:
		return "all-in"
	default:
		return "normal"
	}
}

type Action string

const (
	ActionHit   Action = "hit"
	ActionStand Action = "stand"
	ActionPlay  Action = "play"
	ActionCheck Action = "check"
	ActionBet   Action = "bet"
	ActionFold  Action = "fold"
)

// Bet carries the stake and the game-specific shape of a wager.
type Bet struct {
	Amount     int64
	Bonus      int64
	Prediction string
}

func (b Bet) Total() int64 {
	return b.Amount + b.Bonus
}

// Outcome is the final result of one game. The ledger credits Winnings and debits Loss.
type Outcome struct {
	Kind     Kind
	Won      bool
	Pushed   bool
	Winnings int64
	Loss     int64
	Stake    int64
	// Natural is set for a blackjack dealt in the first two cards.
	Natural  bool
	AllIn    bool
	TimedOut bool
	Meta     map[string]any
}

// Net is the signed balance change the outcome produces.
func (o Outcome) Net() int64 {
	return o.Winnings - o.Loss
}

func (o Outcome) String() string {
	switch {
	case o.TimedOut:
		return "timed out"
	case o.Pushed:
		return "push"
	case o.Won:
		return "win"
	default:
		return "loss"
	}
}

// NewRand returns a random source seeded from the clock when seed is zero.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
