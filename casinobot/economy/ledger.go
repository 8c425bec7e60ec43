package economy

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/games"
)

type Settings struct {
	StartingBalance   int64
	DailyBonus        int64
	DailyInterval     time.Duration
	DailyStreakWindow time.Duration
	MaxBalance        int64
	XPPerGame         int64
	XPPerWin          map[games.Kind]int64
	CacheSize         int
}

func DefaultSettings() Settings {
	return Settings{
		StartingBalance:   config.DefaultStartingBalance,
		DailyBonus:        config.DailyBonusAmount,
		DailyInterval:     config.DailyInterval,
		DailyStreakWindow: config.DailyStreakWindow,
		MaxBalance:        config.MaxBalance,
		XPPerGame:         config.XPPerGame,
		XPPerWin: map[games.Kind]int64{
			games.KindBlackjack: config.XPBlackjackWin,
			games.KindCoinflip:  config.XPCoinflipWin,
			games.KindSlots:     config.XPSlotsWin,
			games.KindRoulette:  config.XPRouletteWin,
			games.KindPoker:     config.XPPokerWin,
		},
		CacheSize: config.AccountCacheSize,
	}
}

// Grant is an achievement unlock and the XP it awards.
type Grant struct {
	ID string
	XP int64
}

type DailyResult struct {
	Claimed   bool
	Amount    int64
	Streak    int64
	Balance   int64
	Remaining time.Duration
}

type Stats struct {
	Users        int
	Banned       int
	TotalBalance int64
	TotalXP      int64
	GamesPlayed  int64
	GamesWon     int64
	Richest      *Account
}

// Ledger applies balance changes. Every read-modify-write for one user runs under that
// user's lock stripe; different users proceed in parallel.
type Ledger struct {
	store    AccountStore
	cache    *lru.Cache
	stripes  [config.LedgerLockStripes]sync.Mutex
	settings Settings
	now      func() time.Time
}

func NewLedger(store AccountStore, settings Settings) (*Ledger, error) {
	if settings.CacheSize <= 0 {
		settings.CacheSize = config.AccountCacheSize
	}
	if settings.MaxBalance <= 0 {
		settings.MaxBalance = config.MaxBalance
	}
	cache, err := lru.New(settings.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create account cache: %w", err)
	}
	return &Ledger{
		store:    store,
		cache:    cache,
		settings: settings,
		now:      time.Now,
	}, nil
}

func (l *Ledger) Settings() Settings {
	return l.settings
}

func (l *Ledger) stripe(userID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &l.stripes[h.Sum32()%uint32(len(l.stripes))]
}

// load returns the cached or stored account, creating it on first use. Caller holds the stripe.
func (l *Ledger) load(ctx context.Context, userID string) (*Account, error) {
	if v, ok := l.cache.Get(userID); ok {
		return v.(*Account), nil
	}
	a, err := l.store.Get(ctx, userID)
	if errors.Is(err, ErrAccountNotFound) {
		a = NewAccount(userID, l.settings.StartingBalance, l.now())
		if err := l.store.Save(ctx, a); err != nil {
			return nil, fmt.Errorf("failed to create account %s: %w", userID, err)
		}
		slog.Info("Created account",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.Int64("balance", a.Balance))
	} else if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", userID, err)
	}
	if a.GameWins == nil {
		a.GameWins = map[games.Kind]int64{}
	}
	l.cache.Add(userID, a)
	return a, nil
}

// update runs fn on a copy of the account and stores it only if fn and the save succeed.
func (l *Ledger) update(ctx context.Context, userID string, fn func(a *Account) error) (*Account, error) {
	mu := l.stripe(userID)
	mu.Lock()
	defer mu.Unlock()

	current, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.LastActive = l.now()
	if err := l.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save account %s: %w", userID, err)
	}
	l.cache.Add(userID, next)
	return next.Clone(), nil
}

func (l *Ledger) GetAccount(ctx context.Context, userID string) (*Account, error) {
	mu := l.stripe(userID)
	mu.Lock()
	defer mu.Unlock()

	a, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

func (l *Ledger) capBalance(b int64) int64 {
	return max(0, min(b, l.settings.MaxBalance))
}

// Credit adds to the balance, capped at the maximum balance.
func (l *Ledger) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}
	a, err := l.update(ctx, userID, func(a *Account) error {
		a.Balance = l.capBalance(a.Balance + amount)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// Debit subtracts from the balance, never going below zero.
func (l *Ledger) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}
	a, err := l.update(ctx, userID, func(a *Account) error {
		a.Balance = l.capBalance(a.Balance - amount)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

func (l *Ledger) SetBalance(ctx context.Context, userID string, amount int64) (int64, error) {
	a, err := l.update(ctx, userID, func(a *Account) error {
		a.Balance = l.capBalance(amount)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

func (l *Ledger) AddXP(ctx context.Context, userID string, amount int64) (int64, error) {
	a, err := l.update(ctx, userID, func(a *Account) error {
		a.XP = max(0, a.XP+amount)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return a.XP, nil
}

// RecordGameResult updates counters, streaks and biggest win without moving the balance.
func (l *Ledger) RecordGameResult(ctx context.Context, userID string, outcome games.Outcome) (*Account, error) {
	return l.update(ctx, userID, func(a *Account) error {
		recordResult(a, outcome)
		return nil
	})
}

func recordResult(a *Account, o games.Outcome) {
	a.GamesPlayed++
	a.TotalLosses += o.Loss
	switch {
	case o.Won:
		a.GamesWon++
		a.TotalWinnings += o.Winnings
		a.CurrentWinStreak++
		a.BestWinStreak = max(a.BestWinStreak, a.CurrentWinStreak)
		a.BiggestWin = max(a.BiggestWin, o.Winnings)
		a.GameWins[o.Kind]++
		if o.Kind == games.KindBlackjack && o.Natural {
			a.Blackjacks++
		}
	case !o.Pushed:
		a.CurrentWinStreak = 0
	}
	if o.AllIn {
		a.AllIns++
	}
}

// Settle applies a final game outcome in one critical section: balance movement, result
// counters and game XP.
func (l *Ledger) Settle(ctx context.Context, userID string, outcome games.Outcome) (*Account, error) {
	return l.update(ctx, userID, func(a *Account) error {
		a.Balance = l.capBalance(a.Balance + outcome.Winnings - outcome.Loss)
		recordResult(a, outcome)
		a.XP += l.settings.XPPerGame
		if outcome.Won {
			a.XP += l.settings.XPPerWin[outcome.Kind]
		}
		return nil
	})
}

// ClaimDaily pays the daily bonus once per interval. A claim within the streak window of
// the previous one extends the streak.
func (l *Ledger) ClaimDaily(ctx context.Context, userID string) (DailyResult, error) {
	var res DailyResult
	_, err := l.update(ctx, userID, func(a *Account) error {
		now := l.now()
		if !a.LastDaily.IsZero() {
			since := now.Sub(a.LastDaily)
			if since < l.settings.DailyInterval {
				res = DailyResult{Remaining: l.settings.DailyInterval - since, Streak: a.DailyStreak, Balance: a.Balance}
				return errDailyNotReady
			}
			if since > l.settings.DailyStreakWindow {
				a.DailyStreak = 0
			}
		}
		a.DailyStreak++
		a.LastDaily = now
		a.Balance = l.capBalance(a.Balance + l.settings.DailyBonus)
		res = DailyResult{Claimed: true, Amount: l.settings.DailyBonus, Streak: a.DailyStreak, Balance: a.Balance}
		return nil
	})
	if errors.Is(err, errDailyNotReady) {
		return res, nil
	}
	return res, err
}

var errDailyNotReady = errors.New("daily bonus not ready")

// GrantAchievements records unlocks the account does not have yet and returns the ones applied.
func (l *Ledger) GrantAchievements(ctx context.Context, userID string, grants []Grant) ([]Grant, error) {
	var applied []Grant
	_, err := l.update(ctx, userID, func(a *Account) error {
		applied = applied[:0]
		for _, g := range grants {
			if a.HasAchievement(g.ID) {
				continue
			}
			a.Achievements = append(a.Achievements, g.ID)
			a.XP += g.XP
			applied = append(applied, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

func (l *Ledger) SetBanned(ctx context.Context, userID string, banned bool, reason string) (*Account, error) {
	return l.update(ctx, userID, func(a *Account) error {
		a.Banned = banned
		if banned {
			a.BanReason = reason
			a.BannedAt = l.now()
		} else {
			a.BanReason = ""
			a.BannedAt = time.Time{}
		}
		return nil
	})
}

// Reset replaces the account with a fresh one.
func (l *Ledger) Reset(ctx context.Context, userID string) (*Account, error) {
	mu := l.stripe(userID)
	mu.Lock()
	defer mu.Unlock()

	if err := l.store.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to delete account %s: %w", userID, err)
	}
	l.cache.Remove(userID)
	a, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

// Leaderboard ranks accounts by balance, excluding banned players.
func (l *Ledger) Leaderboard(ctx context.Context, limit int) ([]*Account, error) {
	all, err := l.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	all = slices.DeleteFunc(slices.Clone(all), func(a *Account) bool { return a.Banned })
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Balance != all[j].Balance {
			return all[i].Balance > all[j].Balance
		}
		return all[i].XP > all[j].XP
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Rank is the 1-based leaderboard position of the user, or 0 if unranked.
func (l *Ledger) Rank(ctx context.Context, userID string) (int, error) {
	board, err := l.Leaderboard(ctx, 0)
	if err != nil {
		return 0, err
	}
	for i, a := range board {
		if a.UserID == userID {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (l *Ledger) Stats(ctx context.Context) (Stats, error) {
	all, err := l.store.All(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	var s Stats
	for _, a := range all {
		s.Users++
		s.TotalBalance += a.Balance
		s.TotalXP += a.XP
		s.GamesPlayed += a.GamesPlayed
		s.GamesWon += a.GamesWon
		if a.Banned {
			s.Banned++
		}
		if s.Richest == nil || a.Balance > s.Richest.Balance {
			s.Richest = a
		}
	}
	return s, nil
}

// Snapshot lists every stored account.
func (l *Ledger) Snapshot(ctx context.Context) ([]*Account, error) {
	return l.store.All(ctx)
}
