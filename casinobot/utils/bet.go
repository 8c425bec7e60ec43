package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/economy"
)

var (
	ErrUnparseableBet = errors.New("could not understand that bet amount")
	ErrBetTooSmall    = fmt.Errorf("bets must be at least %d", config.MinBet)
)

var betSuffixes = []struct {
	suffix string
	mult   float64
}{
	{"k", 1_000},
	{"m", 1_000_000},
	{"b", 1_000_000_000},
}

// ParseBetAmount reads a bet as typed by a player: plain or decimal numbers with optional
// comma separators, k/m/b suffixes, a percentage of the balance, or max/all for everything.
func ParseBetAmount(s string, balance int64) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "m", "max", "a", "all", "allin":
		return balance, nil
	}

	if pct, ok := strings.CutSuffix(s, "%"); ok {
		if p, err := parseDecimal(pct); err == nil && p >= 0 && p <= 100 {
			return int64(float64(balance) * p / 100), nil
		}
		return 0, ErrUnparseableBet
	}

	for _, sf := range betSuffixes {
		if base, ok := strings.CutSuffix(s, sf.suffix); ok {
			if v, err := parseDecimal(base); err == nil {
				return toAmount(v * sf.mult)
			}
		}
	}

	v, err := parseDecimal(s)
	if err != nil {
		return 0, ErrUnparseableBet
	}
	return toAmount(v)
}

func parseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrUnparseableBet
	}
	return v, nil
}

func toAmount(v float64) (int64, error) {
	if v >= math.MaxInt64 || v <= math.MinInt64 {
		return 0, ErrUnparseableBet
	}
	return int64(v), nil
}

// ValidateBet checks a parsed amount against the minimum and the player's balance.
func ValidateBet(amount, balance int64) error {
	if amount < config.MinBet {
		return ErrBetTooSmall
	}
	if amount > balance {
		return fmt.Errorf("you only have %s coins: %w", FormatNumber(balance), economy.ErrInsufficientFunds)
	}
	return nil
}
