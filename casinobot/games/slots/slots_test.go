package slots

import (
	"errors"
	"testing"

	"github.com/disgoorg/casino-bot/casinobot/games"
)

func sym(emoji string) Symbol {
	for _, s := range DefaultSymbols {
		if s.Emoji == emoji {
			return s
		}
	}
	panic("unknown symbol " + emoji)
}

func reels(emojis ...string) []Symbol {
	out := make([]Symbol, len(emojis))
	for i, e := range emojis {
		out[i] = sym(e)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		reels  []Symbol
		bet    int64
		payout int64
		emoji  string
	}{
		{"three diamonds", reels("💎", "💎", "💎", "🍒", "🍋"), 100, 50000, "💎"},
		{"pair of bells", reels("🔔", "🍒", "🔔", "🍋", "🍊"), 100, 1000, "🔔"},
		{"nothing", reels("💎", "🔔", "🍇", "🍊", "🍋"), 100, 0, ""},
		{"yellow triple floors", reels("🟡", "🟡", "🟡", "🍒", "🍋"), 3, 1, "🟡"},
		{"red triple below bet", reels("🔴", "🔴", "🔴", "🔴", "🍋"), 100, 75, "🔴"},
		{"triple blocks later pair", reels("🍒", "🍒", "🍒", "🍇", "🍇"), 100, 100, "🍒"},
		// the first pair to pay blocks every later pair
		{"earlier pair preempts richer pair", reels("🍒", "🍒", "💎", "💎", "🍋"), 100, 100, "🍒"},
		// a triple found after a paying pair still competes
		{"later triple still counts", reels("🍋", "🍋", "🍊", "🍊", "🍊"), 100, 300, "🍊"},
		{"pair ignored once a triple paid", reels("🍇", "🍇", "🍇", "💎", "💎"), 100, 500, "🍇"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, _ := Evaluate(tt.reels, tt.bet)
			if match.Payout != tt.payout {
				t.Errorf("Payout = %d, want %d", match.Payout, tt.payout)
			}
			if match.Symbol.Emoji != tt.emoji {
				t.Errorf("Symbol = %q, want %q", match.Symbol.Emoji, tt.emoji)
			}
		})
	}
}

func TestSettle(t *testing.T) {
	win := Settle(reels("🍊", "🍊", "🍊", "🍒", "🍋"), 40)
	if !win.Won || win.Winnings != 120 || win.Loss != 0 {
		t.Errorf("winning spin = %+v", win)
	}
	loss := Settle(reels("💎", "🔔", "🍇", "🍊", "🍋"), 40)
	if loss.Won || loss.Winnings != 0 || loss.Loss != 40 {
		t.Errorf("losing spin = %+v", loss)
	}
}

func TestSpinFollowsWeights(t *testing.T) {
	m := NewMachine()
	rng := games.NewRand(5)
	counts := map[string]int{}
	const spins = 20000
	for i := 0; i < spins; i++ {
		for _, s := range m.Spin(rng) {
			counts[s.Emoji]++
		}
	}
	if counts["🍒"] <= counts["💎"]*5 {
		t.Errorf("cherry drawn %d times, diamond %d; weights not applied", counts["🍒"], counts["💎"])
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if total != spins*Reels {
		t.Errorf("drew %d symbols, want %d", total, spins*Reels)
	}
}

func TestPlayRejectsNonPositiveBet(t *testing.T) {
	if _, err := NewMachine().Play(games.Bet{Amount: -5}, games.NewRand(1)); !errors.Is(err, games.ErrInvalidBet) {
		t.Errorf("Play() error = %v, want ErrInvalidBet", err)
	}
}

func TestFormatMultiplier(t *testing.T) {
	tests := map[int64]string{50000: "500x", 75: "0.75x", 50: "0.5x", 100: "1x", 250: "2.5x"}
	for in, want := range tests {
		if got := FormatMultiplier(in); got != want {
			t.Errorf("FormatMultiplier(%d) = %q, want %q", in, got, want)
		}
	}
}
