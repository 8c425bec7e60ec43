package roulette

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/disgoorg/casino-bot/casinobot/games"
)

// DoubleZero is the slot written "00" on an American wheel.
const DoubleZero = 37

// Slots is the number of pockets on the wheel.
const Slots = 38

// MaxMultiNumbers bounds comma lists and ranges.
const MaxMultiNumbers = 18

var (
	redNumbers   = set(1, 3, 5, 7, 9, 12, 14, 16, 18, 19, 21, 23, 25, 27, 30, 32, 34, 36)
	blackNumbers = set(2, 4, 6, 8, 10, 11, 13, 15, 17, 20, 22, 24, 26, 28, 29, 31, 33, 35)
	greenNumbers = set(0, DoubleZero)
)

func set(ns ...int) map[int]struct{} {
	m := make(map[int]struct{}, len(ns))
	for _, n := range ns {
		m[n] = struct{}{}
	}
	return m
}

func span(from, to int) map[int]struct{} {
	m := make(map[int]struct{}, to-from+1)
	for n := from; n <= to; n++ {
		m[n] = struct{}{}
	}
	return m
}

func step(from, to, by int) map[int]struct{} {
	m := map[int]struct{}{}
	for n := from; n <= to; n += by {
		m[n] = struct{}{}
	}
	return m
}

type BetType string

const (
	BetNumber   BetType = "number"
	BetColor    BetType = "color"
	BetHalf     BetType = "half"
	BetDozen    BetType = "dozen"
	BetColumn   BetType = "column"
	BetParity   BetType = "parity"
	BetMultiple BetType = "multiple"
	BetRange    BetType = "range"
)

// Prediction is a parsed wager: the pockets it covers and what it pays per unit staked.
type Prediction struct {
	Type       BetType
	Numbers    map[int]struct{}
	Multiplier int64
}

func (p Prediction) Covers(n int) bool {
	_, ok := p.Numbers[n]
	return ok
}

// Sorted lists the covered pockets in wheel order, with 00 last.
func (p Prediction) Sorted() []int {
	out := make([]int, 0, len(p.Numbers))
	for n := range p.Numbers {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func multiplierFor(count int) int64 {
	return int64(max(1, 36/count-1))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, games.ErrInvalidBet)...)
}

// ParsePrediction accepts numbers, colors, halves, dozens, columns, parity, comma lists and ranges.
func ParsePrediction(s string) (Prediction, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "00", "37":
		return Prediction{Type: BetNumber, Numbers: set(DoubleZero), Multiplier: 35}, nil
	case "red":
		return Prediction{Type: BetColor, Numbers: redNumbers, Multiplier: 1}, nil
	case "black":
		return Prediction{Type: BetColor, Numbers: blackNumbers, Multiplier: 1}, nil
	case "green":
		return Prediction{Type: BetColor, Numbers: greenNumbers, Multiplier: 17}, nil
	case "1sthalf", "1-18", "low":
		return Prediction{Type: BetHalf, Numbers: span(1, 18), Multiplier: 1}, nil
	case "2ndhalf", "19-36", "high":
		return Prediction{Type: BetHalf, Numbers: span(19, 36), Multiplier: 1}, nil
	case "1st12", "1-12":
		return Prediction{Type: BetDozen, Numbers: span(1, 12), Multiplier: 2}, nil
	case "2nd12", "13-24":
		return Prediction{Type: BetDozen, Numbers: span(13, 24), Multiplier: 2}, nil
	case "3rd12", "25-36":
		return Prediction{Type: BetDozen, Numbers: span(25, 36), Multiplier: 2}, nil
	case "1stcol", "col1":
		return Prediction{Type: BetColumn, Numbers: step(1, 34, 3), Multiplier: 2}, nil
	case "2ndcol", "col2":
		return Prediction{Type: BetColumn, Numbers: step(2, 35, 3), Multiplier: 2}, nil
	case "3rdcol", "col3":
		return Prediction{Type: BetColumn, Numbers: step(3, 36, 3), Multiplier: 2}, nil
	case "even":
		return Prediction{Type: BetParity, Numbers: step(2, 36, 2), Multiplier: 1}, nil
	case "odd":
		return Prediction{Type: BetParity, Numbers: step(1, 35, 2), Multiplier: 1}, nil
	}

	if isDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil || n > 36 {
			return Prediction{}, invalid("number %q out of range", s)
		}
		return Prediction{Type: BetNumber, Numbers: set(n), Multiplier: 35}, nil
	}

	if strings.Contains(s, ",") {
		return parseList(s)
	}

	if strings.Contains(s, "-") && !strings.HasPrefix(s, "-") {
		return parseRange(s)
	}

	return Prediction{}, invalid("unrecognised prediction %q", s)
}

// parseList skips entries that are not pockets; at least one must remain.
func parseList(s string) (Prediction, error) {
	numbers := map[int]struct{}{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "00" {
			numbers[DoubleZero] = struct{}{}
			continue
		}
		if !isDigits(part) {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil && n <= 36 {
			numbers[n] = struct{}{}
		}
	}
	if len(numbers) > MaxMultiNumbers {
		return Prediction{}, invalid("too many numbers selected (max %d)", MaxMultiNumbers)
	}
	if len(numbers) == 0 {
		return Prediction{}, invalid("no valid numbers in %q", s)
	}
	return Prediction{Type: BetMultiple, Numbers: numbers, Multiplier: multiplierFor(len(numbers))}, nil
}

func parseRange(s string) (Prediction, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Prediction{}, invalid("malformed range %q", s)
	}
	from, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	to, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || from < 1 || from > to || to > 36 {
		return Prediction{}, invalid("range %q must satisfy 1 <= a <= b <= 36", s)
	}
	count := to - from + 1
	if count > MaxMultiNumbers {
		return Prediction{}, invalid("range too large (max %d numbers)", MaxMultiNumbers)
	}
	return Prediction{Type: BetRange, Numbers: span(from, to), Multiplier: multiplierFor(count)}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Spin picks one of the 38 pockets uniformly.
func Spin(rng *rand.Rand) int {
	return rng.Intn(Slots)
}

func Color(n int) string {
	switch {
	case contains(redNumbers, n):
		return "red"
	case contains(blackNumbers, n):
		return "black"
	}
	return "green"
}

func ColorEmoji(n int) string {
	switch Color(n) {
	case "red":
		return "🔴"
	case "black":
		return "⚫"
	}
	return "🟢"
}

func contains(m map[int]struct{}, n int) bool {
	_, ok := m[n]
	return ok
}

func FormatNumber(n int) string {
	if n == DoubleZero {
		return "00"
	}
	return strconv.Itoa(n)
}

// Play parses the prediction before spinning; a bad prediction never reaches the wheel.
func Play(bet games.Bet, rng *rand.Rand) (games.Outcome, error) {
	if bet.Amount <= 0 {
		return games.Outcome{}, invalid("bet must be positive")
	}
	p, err := ParsePrediction(bet.Prediction)
	if err != nil {
		return games.Outcome{}, err
	}
	return Settle(p, Spin(rng), bet.Amount), nil
}

// Settle resolves a parsed prediction against a spin result.
func Settle(p Prediction, result int, bet int64) games.Outcome {
	out := games.Outcome{
		Kind:  games.KindRoulette,
		Stake: bet,
		Meta: map[string]any{
			"result":     result,
			"color":      Color(result),
			"bet_type":   p.Type,
			"multiplier": p.Multiplier,
		},
	}
	if p.Covers(result) {
		out.Won = true
		out.Winnings = bet * p.Multiplier
	} else {
		out.Loss = bet
	}
	return out
}
