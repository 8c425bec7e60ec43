package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	UserID  string `bun:"user_id,pk"`
	Balance int64  `bun:"balance,notnull,default:0"`
	XP      int64  `bun:"xp,notnull,default:0"`

	GamesPlayed      int64            `bun:"games_played,notnull,default:0"`
	GamesWon         int64            `bun:"games_won,notnull,default:0"`
	TotalWinnings    int64            `bun:"total_winnings,notnull,default:0"`
	TotalLosses      int64            `bun:"total_losses,notnull,default:0"`
	CurrentWinStreak int64            `bun:"current_win_streak,notnull,default:0"`
	BestWinStreak    int64            `bun:"best_win_streak,notnull,default:0"`
	BiggestWin       int64            `bun:"biggest_win,notnull,default:0"`
	GameWins         map[string]int64 `bun:"game_wins,type:jsonb"`
	Blackjacks       int64            `bun:"blackjacks,notnull,default:0"`
	AllIns           int64            `bun:"all_ins,notnull,default:0"`

	DailyStreak int64     `bun:"daily_streak,notnull,default:0"`
	LastDaily   time.Time `bun:"last_daily,nullzero"`

	Achievements []string `bun:"achievements,type:jsonb"`

	Banned    bool      `bun:"banned,notnull,default:false"`
	BanReason string    `bun:"ban_reason"`
	BannedAt  time.Time `bun:"banned_at,nullzero"`

	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	LastActive time.Time `bun:"last_active,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
