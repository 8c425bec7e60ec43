package poker

import (
	"sort"

	"github.com/disgoorg/casino-bot/casinobot/games/cards"
	ph "github.com/paulhankin/poker"
)

type HandRank int

const (
	HighCard HandRank = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handNames = map[HandRank]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (r HandRank) String() string {
	if n, ok := handNames[r]; ok {
		return n
	}
	return "Unknown"
}

// Evaluate ranks exactly five cards. The tiebreak vector is compared lexicographically
// between hands of equal rank.
func Evaluate(five [5]cards.Card) (HandRank, []int) {
	values := make([]int, 5)
	flush := true
	for i, c := range five {
		values[i] = c.PokerValue()
		if c.Suit != five[0].Suit {
			flush = false
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	straight := true
	if values[0] == 14 && values[1] == 5 && values[2] == 4 && values[3] == 3 && values[4] == 2 {
		values = []int{5, 4, 3, 2, 1}
	} else {
		for i := 0; i < 4; i++ {
			if values[i]-values[i+1] != 1 {
				straight = false
				break
			}
		}
	}

	groups := groupValues(values)

	switch {
	case straight && flush:
		if values[0] == 14 {
			return RoyalFlush, values
		}
		return StraightFlush, values
	case groups[0].count == 4:
		return FourOfAKind, groupTiebreak(groups)
	case groups[0].count == 3 && groups[1].count == 2:
		return FullHouse, groupTiebreak(groups)
	case flush:
		return Flush, values
	case straight:
		return Straight, values
	case groups[0].count == 3:
		return ThreeOfAKind, groupTiebreak(groups)
	case groups[0].count == 2 && groups[1].count == 2:
		return TwoPair, groupTiebreak(groups)
	case groups[0].count == 2:
		return Pair, groupTiebreak(groups)
	default:
		return HighCard, values
	}
}

type valueGroup struct {
	value int
	count int
}

// groupValues orders distinct values by count then value, both descending.
func groupValues(values []int) []valueGroup {
	counts := map[int]int{}
	for _, v := range values {
		counts[v]++
	}
	groups := make([]valueGroup, 0, len(counts))
	for v, n := range counts {
		groups = append(groups, valueGroup{value: v, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})
	return groups
}

func groupTiebreak(groups []valueGroup) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = g.value
	}
	return out
}

// Compare returns 1 if hand a beats hand b, -1 if it loses and 0 on an exact tie.
func Compare(ra HandRank, ta []int, rb HandRank, tb []int) int {
	if ra != rb {
		if ra > rb {
			return 1
		}
		return -1
	}
	for i := 0; i < len(ta) && i < len(tb); i++ {
		if ta[i] != tb[i] {
			if ta[i] > tb[i] {
				return 1
			}
			return -1
		}
	}
	switch {
	case len(ta) > len(tb):
		return 1
	case len(ta) < len(tb):
		return -1
	}
	return 0
}

// BestHand searches all 21 five-card subsets of seven cards.
func BestHand(seven [7]cards.Card) ([5]cards.Card, HandRank, []int) {
	var (
		best      [5]cards.Card
		bestRank  HandRank
		bestBreak []int
		found     bool
	)
	var combo [5]cards.Card
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 4; b++ {
			for c := b + 1; c < 5; c++ {
				for d := c + 1; d < 6; d++ {
					for e := d + 1; e < 7; e++ {
						combo = [5]cards.Card{seven[a], seven[b], seven[c], seven[d], seven[e]}
						rank, tb := Evaluate(combo)
						if !found || Compare(rank, tb, bestRank, bestBreak) > 0 {
							best, bestRank, bestBreak, found = combo, rank, tb, true
						}
					}
				}
			}
		}
	}
	return best, bestRank, bestBreak
}

// Describe renders a hand description such as "ace-high flush". Display only.
func Describe(cs []cards.Card) string {
	converted := make([]ph.Card, 0, len(cs))
	for _, c := range cs {
		pc, err := toLibraryCard(c)
		if err != nil {
			return ""
		}
		converted = append(converted, pc)
	}
	desc, err := ph.Describe(converted)
	if err != nil {
		return ""
	}
	return desc
}

func toLibraryCard(c cards.Card) (ph.Card, error) {
	var s ph.Suit
	switch c.Suit {
	case cards.Clubs:
		s = ph.Club
	case cards.Diamonds:
		s = ph.Diamond
	case cards.Hearts:
		s = ph.Heart
	default:
		s = ph.Spade
	}
	// The library counts the ace as rank 1.
	r := ph.Rank(c.Rank)
	if c.Rank == cards.Ace {
		r = ph.Rank(1)
	}
	return ph.MakeCard(s, r)
}
