package mock

import (
	"time"

	"github.com/disgoorg/casino-bot/casinobot/economy"
	"github.com/disgoorg/casino-bot/casinobot/games"
)

var joined = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Accounts are fixtures for tests that stub the store.
var Accounts = []*economy.Account{
	{
		UserID:      "123",
		Balance:     2500,
		XP:          300,
		GamesPlayed: 12,
		GamesWon:    5,
		GameWins:    map[games.Kind]int64{games.KindSlots: 3, games.KindPoker: 2},
		CreatedAt:   joined,
		LastActive:  joined,
	},
	{
		UserID:      "456",
		Balance:     90000,
		XP:          1200,
		GamesPlayed: 140,
		GamesWon:    70,
		GameWins:    map[games.Kind]int64{games.KindBlackjack: 70},
		CreatedAt:   joined,
		LastActive:  joined,
	},
	{
		UserID:     "789",
		Balance:    1_000_000,
		GameWins:   map[games.Kind]int64{},
		Banned:     true,
		BanReason:  "alt account",
		CreatedAt:  joined,
		LastActive: joined,
	},
}
