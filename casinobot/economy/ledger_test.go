package economy_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/disgoorg/casino-bot/casinobot/economy"
	"github.com/disgoorg/casino-bot/casinobot/economy/mock"
	"github.com/disgoorg/casino-bot/casinobot/games"
)

func newLedger(t *testing.T) *economy.Ledger {
	t.Helper()
	l, err := economy.NewLedger(economy.NewMemoryStore(), economy.DefaultSettings())
	require.NoError(t, err)
	return l
}

func TestGetAccountCreatesWithStartingBalance(t *testing.T) {
	l := newLedger(t)
	a, err := l.GetAccount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), a.Balance)
	assert.Equal(t, "u1", a.UserID)
	assert.NotNil(t, a.GameWins)
}

func TestDebitClampsAtZero(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	bal, err := l.Debit(ctx, "u1", 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal)

	bal, err = l.Debit(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal)
}

func TestCreditDebitRoundTrip(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	for _, amount := range []int64{0, 1, 250, 999, 123456} {
		before, err := l.GetAccount(ctx, "u1")
		require.NoError(t, err)
		_, err = l.Credit(ctx, "u1", amount)
		require.NoError(t, err)
		after, err := l.Debit(ctx, "u1", amount)
		require.NoError(t, err)
		assert.Equal(t, before.Balance, after, "amount %d", amount)
	}
}

func TestNegativeAmountsRejected(t *testing.T) {
	l := newLedger(t)
	_, err := l.Credit(context.Background(), "u1", -5)
	assert.ErrorIs(t, err, economy.ErrInvalidAmount)
	_, err = l.Debit(context.Background(), "u1", -5)
	assert.ErrorIs(t, err, economy.ErrInvalidAmount)
}

func TestCreditCapsAtMaxBalance(t *testing.T) {
	l := newLedger(t)
	bal, err := l.Credit(context.Background(), "u1", economy.DefaultSettings().MaxBalance)
	require.NoError(t, err)
	assert.Equal(t, economy.DefaultSettings().MaxBalance, bal)
}

func TestConcurrentCreditsDoNotLoseUpdates(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	const n = 500

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := l.Credit(ctx, "same", 1)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := l.Credit(ctx, "other", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for _, id := range []string{"same", "other"} {
		a, err := l.GetAccount(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(1000+n), a.Balance, id)
	}
}

func TestSettle(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	a, err := l.Settle(ctx, "u1", games.Outcome{Kind: games.KindBlackjack, Won: true, Winnings: 150, Stake: 100, Natural: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1150), a.Balance)
	assert.Equal(t, int64(25+100), a.XP)
	assert.Equal(t, int64(1), a.GamesWon)
	assert.Equal(t, int64(1), a.CurrentWinStreak)
	assert.Equal(t, int64(1), a.Blackjacks)
	assert.Equal(t, int64(150), a.BiggestWin)
	assert.Equal(t, int64(1), a.Wins(games.KindBlackjack))

	a, err = l.Settle(ctx, "u1", games.Outcome{Kind: games.KindRoulette, Pushed: true, Stake: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1150), a.Balance)
	assert.Equal(t, int64(1), a.CurrentWinStreak, "a push keeps the streak")

	a, err = l.Settle(ctx, "u1", games.Outcome{Kind: games.KindSlots, Loss: 200, Stake: 200})
	require.NoError(t, err)
	assert.Equal(t, int64(950), a.Balance)
	assert.Equal(t, int64(0), a.CurrentWinStreak)
	assert.Equal(t, int64(3), a.GamesPlayed)
	assert.Equal(t, int64(200), a.TotalLosses)
	assert.Equal(t, int64(25*3+100), a.XP)
}

func TestSettleMixedPokerOutcome(t *testing.T) {
	l := newLedger(t)
	a, err := l.Settle(context.Background(), "u1", games.Outcome{
		Kind: games.KindPoker, Won: true, Winnings: 120, Loss: 100, Stake: 140, AllIn: false,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1020), a.Balance)
	assert.Equal(t, int64(120), a.TotalWinnings)
	assert.Equal(t, int64(100), a.TotalLosses)
	assert.Equal(t, int64(1), a.Wins(games.KindPoker))
}

func TestSettleCountsAllIns(t *testing.T) {
	l := newLedger(t)
	a, err := l.Settle(context.Background(), "u1", games.Outcome{Kind: games.KindPoker, Loss: 50, Stake: 50, AllIn: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.AllIns)
}

func TestClaimDaily(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	economy.SetClock(l, func() time.Time { return now })

	res, err := l.ClaimDaily(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, res.Claimed)
	assert.Equal(t, int64(500), res.Amount)
	assert.Equal(t, int64(1500), res.Balance)
	assert.Equal(t, int64(1), res.Streak)

	now = now.Add(23 * time.Hour)
	res, err = l.ClaimDaily(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, res.Claimed)
	assert.Equal(t, time.Hour, res.Remaining)
	assert.Equal(t, int64(1500), res.Balance)

	now = now.Add(2 * time.Hour)
	res, err = l.ClaimDaily(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, res.Claimed)
	assert.Equal(t, int64(2), res.Streak)

	now = now.Add(72 * time.Hour)
	res, err = l.ClaimDaily(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Streak, "a missed day restarts the streak")
}

func TestGrantAchievementsOnlyOnce(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	applied, err := l.GrantAchievements(ctx, "u1", []economy.Grant{{ID: "rich_1", XP: 100}, {ID: "gamer_1", XP: 50}})
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	applied, err = l.GrantAchievements(ctx, "u1", []economy.Grant{{ID: "rich_1", XP: 100}})
	require.NoError(t, err)
	assert.Empty(t, applied)

	a, err := l.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), a.XP)
	assert.ElementsMatch(t, []string{"rich_1", "gamer_1"}, a.Achievements)
}

func TestBanAndReset(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	a, err := l.SetBanned(ctx, "u1", true, "cheating")
	require.NoError(t, err)
	assert.True(t, a.Banned)
	assert.Equal(t, "cheating", a.BanReason)
	assert.False(t, a.BannedAt.IsZero())

	a, err = l.SetBanned(ctx, "u1", false, "")
	require.NoError(t, err)
	assert.False(t, a.Banned)
	assert.Empty(t, a.BanReason)

	_, err = l.SetBalance(ctx, "u1", 42)
	require.NoError(t, err)
	a, err = l.Reset(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), a.Balance)
}

func TestLeaderboardAndStats(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	_, _ = l.SetBalance(ctx, "poor", 10)
	_, _ = l.SetBalance(ctx, "rich", 50000)
	_, _ = l.SetBalance(ctx, "middle", 3000)
	_, _ = l.SetBalance(ctx, "cheat", 1_000_000)
	_, _ = l.SetBanned(ctx, "cheat", true, "exploit")

	board, err := l.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "rich", board[0].UserID)
	assert.Equal(t, "middle", board[1].UserID)

	rank, err := l.Rank(ctx, "poor")
	require.NoError(t, err)
	assert.Equal(t, 3, rank)

	stats, err := l.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Users)
	assert.Equal(t, 1, stats.Banned)
	assert.Equal(t, int64(1_053_010), stats.TotalBalance)
	assert.Equal(t, "cheat", stats.Richest.UserID)
}

func TestLedgerWithMockStore(t *testing.T) {
	ctx := context.Background()

	t.Run("store error surfaces", func(t *testing.T) {
		store := mock.NewMockAccountStore(gomock.NewController(t))
		store.EXPECT().Get(gomock.Any(), "123").Return(nil, errors.New("connection refused"))

		l, err := economy.NewLedger(store, economy.DefaultSettings())
		require.NoError(t, err)
		_, err = l.GetAccount(ctx, "123")
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("failed save leaves balance untouched", func(t *testing.T) {
		store := mock.NewMockAccountStore(gomock.NewController(t))
		fixture := mock.Accounts[0].Clone()
		gomock.InOrder(
			store.EXPECT().Get(gomock.Any(), "123").Return(fixture, nil),
			store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full")),
			store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *economy.Account) error {
				assert.Equal(t, int64(2600), a.Balance)
				return nil
			}),
		)

		l, err := economy.NewLedger(store, economy.DefaultSettings())
		require.NoError(t, err)

		_, err = l.Credit(ctx, "123", 100)
		require.Error(t, err)

		bal, err := l.Credit(ctx, "123", 100)
		require.NoError(t, err)
		assert.Equal(t, int64(2600), bal)
	})

	t.Run("missing account is created", func(t *testing.T) {
		store := mock.NewMockAccountStore(gomock.NewController(t))
		store.EXPECT().Get(gomock.Any(), "new").Return(nil, economy.ErrAccountNotFound)
		store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *economy.Account) error {
			assert.Equal(t, "new", a.UserID)
			assert.Equal(t, int64(1000), a.Balance)
			return nil
		})

		l, err := economy.NewLedger(store, economy.DefaultSettings())
		require.NoError(t, err)
		a, err := l.GetAccount(ctx, "new")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), a.Balance)
	})

	t.Run("leaderboard from fixtures", func(t *testing.T) {
		store := mock.NewMockAccountStore(gomock.NewController(t))
		store.EXPECT().All(gomock.Any()).Return(mock.Accounts, nil)

		l, err := economy.NewLedger(store, economy.DefaultSettings())
		require.NoError(t, err)
		board, err := l.Leaderboard(ctx, 10)
		require.NoError(t, err)
		require.Len(t, board, 2)
		assert.Equal(t, "456", board[0].UserID)
	})
}
