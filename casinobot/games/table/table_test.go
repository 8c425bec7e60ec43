package table

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/games/poker"
)

// startLive keeps dealing blackjack until a hand needs a decision.
func startLive(t *testing.T, m *Manager, userID string) *Session {
	t.Helper()
	for i := 0; i < 100; i++ {
		res, err := m.Start(context.Background(), StartRequest{
			Kind:   games.KindBlackjack,
			UserID: userID,
			Bet:    games.Bet{Amount: 100},
		})
		require.NoError(t, err)
		if res.Session != nil {
			return res.Session
		}
		require.NotNil(t, res.Outcome)
	}
	t.Fatal("no live blackjack hand in 100 deals")
	return nil
}

func TestStartPureGames(t *testing.T) {
	m := NewManager(Config{Seed: 1})
	ctx := context.Background()

	for _, req := range []StartRequest{
		{Kind: games.KindCoinflip, UserID: "u1", Bet: games.Bet{Amount: 10, Prediction: "heads"}},
		{Kind: games.KindSlots, UserID: "u1", Bet: games.Bet{Amount: 10}},
		{Kind: games.KindRoulette, UserID: "u1", Bet: games.Bet{Amount: 10, Prediction: "red"}},
	} {
		res, err := m.Start(ctx, req)
		require.NoError(t, err, req.Kind)
		require.True(t, res.Final(), req.Kind)
		assert.Equal(t, req.Kind, res.Outcome.Kind)
		assert.Nil(t, res.Session)
	}
	assert.Equal(t, 0, m.Count())
}

func TestStartValidatesBetShape(t *testing.T) {
	m := NewManager(Config{Seed: 1})
	_, err := m.Start(context.Background(), StartRequest{Kind: games.KindRoulette, UserID: "u1", Bet: games.Bet{Amount: 10, Prediction: "purple"}})
	assert.ErrorIs(t, err, games.ErrInvalidBet)

	_, err = m.Start(context.Background(), StartRequest{Kind: "craps", UserID: "u1", Bet: games.Bet{Amount: 10}})
	assert.ErrorIs(t, err, ErrUnknownGame)
}

func TestAllInPokerIsFinal(t *testing.T) {
	m := NewManager(Config{Seed: 3})
	res, err := m.Start(context.Background(), StartRequest{
		Kind:   games.KindPoker,
		UserID: "u1",
		Bet:    games.Bet{Amount: 50, Bonus: 10},
		Mode:   games.ModeAllIn,
	})
	require.NoError(t, err)
	require.True(t, res.Final())
	assert.True(t, res.Outcome.AllIn)
	g, ok := res.Game.(*poker.Game)
	require.True(t, ok)
	assert.Len(t, g.Board(), 5)
	assert.Nil(t, m.ActiveFor("u1"))
}

func TestOneLiveGamePerUser(t *testing.T) {
	m := NewManager(Config{Seed: 5})
	s := startLive(t, m, "u1")

	assert.Equal(t, s, m.ActiveFor("u1"))
	_, err := m.Start(context.Background(), StartRequest{Kind: games.KindPoker, UserID: "u1", Bet: games.Bet{Amount: 10}})
	assert.ErrorIs(t, err, ErrGameInProgress)

	// pure games are still allowed alongside a live hand
	_, err = m.Start(context.Background(), StartRequest{Kind: games.KindSlots, UserID: "u1", Bet: games.Bet{Amount: 10}})
	assert.NoError(t, err)
}

func TestApply(t *testing.T) {
	m := NewManager(Config{Seed: 7})
	s := startLive(t, m, "u1")

	_, _, err := m.Apply(s.ID, "intruder", games.ActionStand)
	assert.ErrorIs(t, err, ErrNotSessionOwner)

	_, _, err = m.Apply(s.ID, "u1", games.ActionFold)
	assert.ErrorIs(t, err, games.ErrActionNotLegal)

	_, out, err := m.Apply(s.ID, "u1", games.ActionStand)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, games.KindBlackjack, out.Kind)

	assert.Nil(t, m.ActiveFor("u1"))
	_, _, err = m.Apply(s.ID, "u1", games.ActionHit)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestApplyRejectsConcurrentDecision(t *testing.T) {
	m := NewManager(Config{Seed: 9})
	s := startLive(t, m, "u1")

	s.mu.Lock()
	_, _, err := m.Apply(s.ID, "u1", games.ActionStand)
	s.mu.Unlock()
	assert.ErrorIs(t, err, ErrDecisionInFlight)

	_, out, err := m.Apply(s.ID, "u1", games.ActionStand)
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestConcurrentApplyResolvesOnce(t *testing.T) {
	m := NewManager(Config{Seed: 11})
	s := startLive(t, m, "u1")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		resolved int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, out, err := m.Apply(s.ID, "u1", games.ActionStand)
			if err == nil && out != nil {
				mu.Lock()
				resolved++
				mu.Unlock()
				return
			}
			if err != nil && !errors.Is(err, ErrDecisionInFlight) && !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Apply() unexpected error = %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, resolved)
}

func TestTimeout(t *testing.T) {
	m := NewManager(Config{Seed: 13})
	s := startLive(t, m, "u1")

	_, out, err := m.Timeout(s.ID)
	require.NoError(t, err)
	assert.True(t, out.TimedOut)
	assert.Equal(t, int64(100), out.Loss)

	_, _, err = m.Timeout(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestReaper(t *testing.T) {
	m := NewManager(Config{Seed: 15, BlackjackTimeout: time.Millisecond, ReapInterval: 5 * time.Millisecond})
	s := startLive(t, m, "u1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan games.Outcome, 1)
	m.StartReaper(ctx, func(got *Session, out games.Outcome) {
		if got.ID == s.ID {
			done <- out
		}
	})

	select {
	case out := <-done:
		assert.True(t, out.TimedOut)
		assert.Equal(t, int64(100), out.Loss)
	case <-time.After(2 * time.Second):
		t.Fatal("reaper never timed out the idle session")
	}
	assert.Nil(t, m.ActiveFor("u1"))
}

func TestReapSkipsFreshSessions(t *testing.T) {
	m := NewManager(Config{Seed: 17})
	startLive(t, m, "u1")

	var called bool
	m.reap(time.Now(), func(*Session, games.Outcome) { called = true })
	assert.False(t, called)
	assert.Equal(t, 1, m.Count())
}

func TestReapHandsOverTheTimeoutOutcome(t *testing.T) {
	m := NewManager(Config{Seed: 19})
	s := startLive(t, m, "u1")

	var got []games.Outcome
	m.reap(time.Now().Add(time.Hour), func(_ *Session, out games.Outcome) { got = append(got, out) })

	require.Len(t, got, 1)
	assert.True(t, got[0].TimedOut)
	assert.Equal(t, int64(100), got[0].Loss)
	assert.Equal(t, *outcomeOf(s.Game), got[0])
	assert.Zero(t, m.Count())
}
