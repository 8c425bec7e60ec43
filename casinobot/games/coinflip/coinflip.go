package coinflip

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/disgoorg/casino-bot/casinobot/games"
)

type Side string

const (
	Heads Side = "heads"
	Tails Side = "tails"
)

func (s Side) Emoji() string {
	if s == Heads {
		return "🟡"
	}
	return "⚫"
}

// Normalize maps a free-form prediction onto a side.
func Normalize(prediction string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(prediction)) {
	case "h", "head", "heads":
		return Heads, nil
	case "t", "tail", "tails":
		return Tails, nil
	}
	return "", fmt.Errorf("unknown coin side %q: %w", prediction, games.ErrInvalidBet)
}

func Flip(rng *rand.Rand) Side {
	if rng.Intn(2) == 0 {
		return Heads
	}
	return Tails
}

// Play flips once and pays 1:1 when the prediction matches.
func Play(bet games.Bet, rng *rand.Rand) (games.Outcome, error) {
	if bet.Amount <= 0 {
		return games.Outcome{}, fmt.Errorf("bet must be positive: %w", games.ErrInvalidBet)
	}
	pick, err := Normalize(bet.Prediction)
	if err != nil {
		return games.Outcome{}, err
	}

	result := Flip(rng)
	out := games.Outcome{
		Kind:  games.KindCoinflip,
		Stake: bet.Amount,
		Meta: map[string]any{
			"prediction": pick,
			"result":     result,
		},
	}
	if result == pick {
		out.Won = true
		out.Winnings = bet.Amount
	} else {
		out.Loss = bet.Amount
	}
	return out, nil
}
