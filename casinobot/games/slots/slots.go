package slots

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/disgoorg/casino-bot/casinobot/games"
)

// Reels is the number of symbols drawn per spin.
const Reels = 5

// Symbol is one reel face. Payouts are in hundredths of the bet; zero means no payout.
type Symbol struct {
	Emoji  string
	Name   string
	Weight int
	Three  int64
	Two    int64
}

var DefaultSymbols = []Symbol{
	{Emoji: "💎", Name: "Diamond", Weight: 1, Three: 50000, Two: 2500},
	{Emoji: "🔔", Name: "Bell", Weight: 3, Three: 2500, Two: 1000},
	{Emoji: "🍇", Name: "Grapes", Weight: 8, Three: 500, Two: 300},
	{Emoji: "🍊", Name: "Orange", Weight: 12, Three: 300, Two: 200},
	{Emoji: "🍋", Name: "Lemon", Weight: 18, Three: 200, Two: 100},
	{Emoji: "🍒", Name: "Cherry", Weight: 25, Three: 100, Two: 100},
	{Emoji: "🔴", Name: "Red", Weight: 15, Three: 75, Two: 100},
	{Emoji: "🟡", Name: "Yellow", Weight: 18, Three: 50, Two: 75},
}

// FormatMultiplier renders a hundredths multiplier such as 75 as "0.75x".
func FormatMultiplier(hundredths int64) string {
	s := fmt.Sprintf("%d.%02d", hundredths/100, hundredths%100)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + "x"
}

type Machine struct {
	symbols []Symbol
	pool    []int
}

func NewMachine() *Machine {
	return NewMachineWith(DefaultSymbols)
}

// NewMachineWith builds a machine whose draw pool repeats each symbol Weight times.
func NewMachineWith(symbols []Symbol) *Machine {
	m := &Machine{symbols: symbols}
	for i, s := range symbols {
		for w := 0; w < s.Weight; w++ {
			m.pool = append(m.pool, i)
		}
	}
	return m
}

// PayoutTable lists the symbols in display order.
func (m *Machine) PayoutTable() []Symbol {
	return append([]Symbol(nil), m.symbols...)
}

func (m *Machine) Spin(rng *rand.Rand) []Symbol {
	reels := make([]Symbol, Reels)
	for i := range reels {
		reels[i] = m.symbols[m.pool[rng.Intn(len(m.pool))]]
	}
	return reels
}

// Match describes the winning combination of a spin.
type Match struct {
	Symbol Symbol
	Count  int
	Payout int64
}

// Evaluate counts symbols in order of first appearance. A three-or-more match is always a
// candidate; a pair only counts while nothing has paid yet. The best candidate wins.
func Evaluate(reels []Symbol, bet int64) (Match, map[string]int) {
	counts := map[string]int{}
	var order []Symbol
	for _, s := range reels {
		if counts[s.Emoji] == 0 {
			order = append(order, s)
		}
		counts[s.Emoji]++
	}

	var best Match
	for _, s := range order {
		n := counts[s.Emoji]
		switch {
		case n >= 3 && s.Three > 0:
			if p := bet * s.Three / 100; p > best.Payout {
				best = Match{Symbol: s, Count: n, Payout: p}
			}
		case n >= 2 && s.Two > 0 && best.Payout == 0:
			if p := bet * s.Two / 100; p > best.Payout {
				best = Match{Symbol: s, Count: n, Payout: p}
			}
		}
	}
	return best, counts
}

func (m *Machine) Play(bet games.Bet, rng *rand.Rand) (games.Outcome, error) {
	if bet.Amount <= 0 {
		return games.Outcome{}, fmt.Errorf("bet must be positive: %w", games.ErrInvalidBet)
	}
	reels := m.Spin(rng)
	return Settle(reels, bet.Amount), nil
}

// Settle turns a finished spin into an outcome.
func Settle(reels []Symbol, bet int64) games.Outcome {
	match, counts := Evaluate(reels, bet)
	out := games.Outcome{
		Kind:  games.KindSlots,
		Stake: bet,
		Meta: map[string]any{
			"reels":  reels,
			"counts": counts,
		},
	}
	if match.Payout > 0 {
		out.Won = true
		out.Winnings = match.Payout
		out.Meta["match"] = match
		out.Meta["result"] = fmt.Sprintf("%dx %s %s", match.Count, match.Symbol.Emoji, match.Symbol.Name)
	} else {
		out.Loss = bet
		out.Meta["result"] = "No match"
	}
	return out
}

func Render(reels []Symbol) string {
	parts := make([]string, len(reels))
	for i, s := range reels {
		parts[i] = s.Emoji
	}
	return strings.Join(parts, " | ")
}
