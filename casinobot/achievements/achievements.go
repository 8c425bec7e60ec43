package achievements

import (
	"github.com/disgoorg/casino-bot/casinobot/economy"
	"github.com/disgoorg/casino-bot/casinobot/games"
)

type Requirement string

const (
	RequireBalance       Requirement = "balance"
	RequireGamesPlayed   Requirement = "games_played"
	RequireTotalWinnings Requirement = "total_winnings"
	RequireWinStreak     Requirement = "win_streak"
	RequireSingleWin     Requirement = "single_win"
	RequirePokerWins     Requirement = "poker_wins"
	RequireSlotsWins     Requirement = "slots_wins"
	RequireBlackjacks    Requirement = "blackjacks"
	RequireAllIns        Requirement = "all_ins"
	RequireDailyStreak   Requirement = "daily_streak"
)

type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Requirement Requirement
	Value       int64
	XPReward    int64
}

var catalog = []Achievement{
	{"rich_1", "Getting Started", "Reach 5,000 coins", "💰", RequireBalance, 5_000, 100},
	{"rich_2", "Wealthy", "Reach 50,000 coins", "💸", RequireBalance, 50_000, 200},
	{"rich_3", "Millionaire", "Reach 1,000,000 coins", "🏆", RequireBalance, 1_000_000, 500},

	{"gamer_1", "Novice Gambler", "Play 10 games", "🎮", RequireGamesPlayed, 10, 50},
	{"gamer_2", "Experienced Player", "Play 100 games", "🎯", RequireGamesPlayed, 100, 150},
	{"gamer_3", "Casino Veteran", "Play 1,000 games", "🎰", RequireGamesPlayed, 1_000, 300},

	{"winner_1", "Lucky Streak", "Win 5 games in a row", "🍀", RequireWinStreak, 5, 100},
	{"winner_2", "Hot Streak", "Win 10 games in a row", "🔥", RequireWinStreak, 10, 200},
	{"winner_3", "Unstoppable", "Win 20 games in a row", "⚡", RequireWinStreak, 20, 400},

	{"bigwin_1", "Nice Win", "Win 10,000 coins in one game", "💵", RequireSingleWin, 10_000, 75},
	{"bigwin_2", "Jackpot", "Win 100,000 coins in one game", "💎", RequireSingleWin, 100_000, 250},
	{"bigwin_3", "Mega Jackpot", "Win 1,000,000 coins in one game", "👑", RequireSingleWin, 1_000_000, 1000},

	{"total_win_1", "Profit Maker", "Win 100,000 total coins", "📈", RequireTotalWinnings, 100_000, 100},
	{"total_win_2", "High Roller", "Win 1,000,000 total coins", "🎲", RequireTotalWinnings, 1_000_000, 300},
	{"total_win_3", "Casino Legend", "Win 10,000,000 total coins", "🌟", RequireTotalWinnings, 10_000_000, 750},

	{"poker_master", "Poker Face", "Win 50 poker games", "🃏", RequirePokerWins, 50, 200},
	{"slots_king", "Slot Machine King", "Win 100 slots games", "🎰", RequireSlotsWins, 100, 150},
	{"blackjack_ace", "Blackjack Ace", "Get 25 blackjacks", "🖤", RequireBlackjacks, 25, 180},

	{"risk_1", "Risk Taker", "Bet all-in 10 times", "⚠️", RequireAllIns, 10, 120},
	{"risk_2", "Daredevil", "Bet all-in 50 times", "💀", RequireAllIns, 50, 300},

	{"daily_1", "Daily Player", "Claim the daily bonus 7 days in a row", "📅", RequireDailyStreak, 7, 150},
	{"daily_2", "Dedicated Gambler", "Claim the daily bonus 30 days in a row", "🗓️", RequireDailyStreak, 30, 500},
}

var byID = func() map[string]Achievement {
	m := make(map[string]Achievement, len(catalog))
	for _, a := range catalog {
		m[a.ID] = a
	}
	return m
}()

// All returns the catalog in display order.
func All() []Achievement {
	return append([]Achievement(nil), catalog...)
}

func Get(id string) (Achievement, bool) {
	a, ok := byID[id]
	return a, ok
}

// current is the account's progress value for a requirement. Single wins report the
// biggest win so far.
func current(a *economy.Account, r Requirement) int64 {
	switch r {
	case RequireBalance:
		return a.Balance
	case RequireGamesPlayed:
		return a.GamesPlayed
	case RequireTotalWinnings:
		return a.TotalWinnings
	case RequireWinStreak:
		return a.CurrentWinStreak
	case RequireSingleWin:
		return a.BiggestWin
	case RequirePokerWins:
		return a.Wins(games.KindPoker)
	case RequireSlotsWins:
		return a.Wins(games.KindSlots)
	case RequireBlackjacks:
		return a.Blackjacks
	case RequireAllIns:
		return a.AllIns
	case RequireDailyStreak:
		return a.DailyStreak
	}
	return 0
}

func met(a *economy.Account, ach Achievement, latest *games.Outcome) bool {
	if ach.Requirement == RequireSingleWin {
		return latest != nil && latest.Won && latest.Winnings >= ach.Value
	}
	return current(a, ach.Requirement) >= ach.Value
}

// CheckNewUnlocks lists achievements the account now qualifies for but has not been granted.
// Single-win achievements only unlock from the latest outcome. The account is not modified.
func CheckNewUnlocks(a *economy.Account, latest *games.Outcome) []Achievement {
	var out []Achievement
	for _, ach := range catalog {
		if a.HasAchievement(ach.ID) {
			continue
		}
		if met(a, ach, latest) {
			out = append(out, ach)
		}
	}
	return out
}

// Grants converts unlocks into ledger grants.
func Grants(unlocked []Achievement) []economy.Grant {
	out := make([]economy.Grant, len(unlocked))
	for i, a := range unlocked {
		out[i] = economy.Grant{ID: a.ID, XP: a.XPReward}
	}
	return out
}

type Progress struct {
	Achievement Achievement
	Completed   bool
	Current     int64
	Percentage  float64
}

func ProgressFor(a *economy.Account) []Progress {
	out := make([]Progress, 0, len(catalog))
	for _, ach := range catalog {
		if a.HasAchievement(ach.ID) {
			out = append(out, Progress{Achievement: ach, Completed: true, Current: ach.Value, Percentage: 100})
			continue
		}
		cur := current(a, ach.Requirement)
		out = append(out, Progress{
			Achievement: ach,
			Current:     cur,
			Percentage:  min(100, float64(cur)/float64(ach.Value)*100),
		})
	}
	return out
}

// Earned lists the catalog entries the account holds, skipping unknown ids.
func Earned(a *economy.Account) []Achievement {
	var out []Achievement
	for _, id := range a.Achievements {
		if ach, ok := byID[id]; ok {
			out = append(out, ach)
		}
	}
	return out
}
