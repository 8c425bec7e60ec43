package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/database/models"
	"github.com/disgoorg/casino-bot/casinobot/economy"
	"github.com/disgoorg/casino-bot/casinobot/games"
)

type accountRepository struct {
	db *bun.DB
}

// NewAccountRepository returns the postgres backed account store.
func NewAccountRepository(db *bun.DB) economy.AccountStore {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, userID string) (*economy.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	m := new(models.Account)
	err := r.db.NewSelect().
		Model(m).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, economy.ErrAccountNotFound
		}
		slog.Error("Database error when getting account",
			slog.String("type", "db"),
			slog.String("operation", "Get"),
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, fmt.Errorf("get account %s: %w", userID, err)
	}
	return ToAccount(m), nil
}

// Save upserts the whole record.
func (r *accountRepository) Save(ctx context.Context, account *economy.Account) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	m := FromAccount(account)
	m.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(m).
		On("CONFLICT (user_id) DO UPDATE").
		Set("balance = EXCLUDED.balance").
		Set("xp = EXCLUDED.xp").
		Set("games_played = EXCLUDED.games_played").
		Set("games_won = EXCLUDED.games_won").
		Set("total_winnings = EXCLUDED.total_winnings").
		Set("total_losses = EXCLUDED.total_losses").
		Set("current_win_streak = EXCLUDED.current_win_streak").
		Set("best_win_streak = EXCLUDED.best_win_streak").
		Set("biggest_win = EXCLUDED.biggest_win").
		Set("game_wins = EXCLUDED.game_wins").
		Set("blackjacks = EXCLUDED.blackjacks").
		Set("all_ins = EXCLUDED.all_ins").
		Set("daily_streak = EXCLUDED.daily_streak").
		Set("last_daily = EXCLUDED.last_daily").
		Set("achievements = EXCLUDED.achievements").
		Set("banned = EXCLUDED.banned").
		Set("ban_reason = EXCLUDED.ban_reason").
		Set("banned_at = EXCLUDED.banned_at").
		Set("last_active = EXCLUDED.last_active").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		slog.Error("Failed to save account",
			slog.String("type", "db"),
			slog.String("operation", "Save"),
			slog.String("user_id", account.UserID),
			slog.Any("error", err))
		return fmt.Errorf("save account %s: %w", account.UserID, err)
	}
	return nil
}

func (r *accountRepository) All(ctx context.Context) ([]*economy.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, config.StatsQueryTimeout)
	defer cancel()

	var rows []*models.Account
	if err := r.db.NewSelect().
		Model(&rows).
		Order("user_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]*economy.Account, len(rows))
	for i, m := range rows {
		out[i] = ToAccount(m)
	}
	return out, nil
}

func (r *accountRepository) Delete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.Account)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete account %s: %w", userID, err)
	}
	return nil
}

func ToAccount(m *models.Account) *economy.Account {
	a := &economy.Account{
		UserID:           m.UserID,
		Balance:          m.Balance,
		XP:               m.XP,
		GamesPlayed:      m.GamesPlayed,
		GamesWon:         m.GamesWon,
		TotalWinnings:    m.TotalWinnings,
		TotalLosses:      m.TotalLosses,
		CurrentWinStreak: m.CurrentWinStreak,
		BestWinStreak:    m.BestWinStreak,
		BiggestWin:       m.BiggestWin,
		GameWins:         make(map[games.Kind]int64, len(m.GameWins)),
		Blackjacks:       m.Blackjacks,
		AllIns:           m.AllIns,
		DailyStreak:      m.DailyStreak,
		LastDaily:        m.LastDaily,
		Achievements:     append([]string(nil), m.Achievements...),
		Banned:           m.Banned,
		BanReason:        m.BanReason,
		BannedAt:         m.BannedAt,
		CreatedAt:        m.CreatedAt,
		LastActive:       m.LastActive,
	}
	for k, v := range m.GameWins {
		a.GameWins[games.Kind(k)] = v
	}
	return a
}

func FromAccount(a *economy.Account) *models.Account {
	m := &models.Account{
		UserID:           a.UserID,
		Balance:          a.Balance,
		XP:               a.XP,
		GamesPlayed:      a.GamesPlayed,
		GamesWon:         a.GamesWon,
		TotalWinnings:    a.TotalWinnings,
		TotalLosses:      a.TotalLosses,
		CurrentWinStreak: a.CurrentWinStreak,
		BestWinStreak:    a.BestWinStreak,
		BiggestWin:       a.BiggestWin,
		GameWins:         make(map[string]int64, len(a.GameWins)),
		Blackjacks:       a.Blackjacks,
		AllIns:           a.AllIns,
		DailyStreak:      a.DailyStreak,
		LastDaily:        a.LastDaily,
		Achievements:     append([]string{}, a.Achievements...),
		Banned:           a.Banned,
		BanReason:        a.BanReason,
		BannedAt:         a.BannedAt,
		CreatedAt:        a.CreatedAt,
		LastActive:       a.LastActive,
	}
	for k, v := range a.GameWins {
		m.GameWins[string(k)] = v
	}
	return m
}
