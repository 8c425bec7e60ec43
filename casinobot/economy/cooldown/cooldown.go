package cooldown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/casino-bot/casinobot/config"
)

var ErrOnCooldown = errors.New("on cooldown")

// Action keys shared by the command layer.
const (
	ActionBlackjack = "blackjack"
	ActionCoinflip  = "coinflip"
	ActionSlots     = "slots"
	ActionRoulette  = "roulette"
	ActionPoker     = "poker"
	ActionDaily     = "daily"
)

// Defaults maps each action to its cooldown.
func Defaults() map[string]time.Duration {
	return map[string]time.Duration{
		ActionBlackjack: config.BlackjackCooldown,
		ActionCoinflip:  config.CoinflipCooldown,
		ActionSlots:     config.SlotsCooldown,
		ActionRoulette:  config.RouletteCooldown,
		ActionPoker:     config.PokerCooldown,
		ActionDaily:     config.DailyCooldown,
	}
}

type key struct {
	userID string
	action string
}

// Manager tracks per-(user, action) expiries. Expired entries are dropped on read and by
// the cleanup routine.
type Manager struct {
	mu        sync.Mutex
	expiries  map[key]time.Time
	durations map[string]time.Duration
	now       func() time.Time
}

func NewManager(durations map[string]time.Duration) *Manager {
	if durations == nil {
		durations = Defaults()
	}
	return &Manager{
		expiries:  map[key]time.Time{},
		durations: durations,
		now:       time.Now,
	}
}

// Duration is the configured cooldown for an action.
func (m *Manager) Duration(action string) time.Duration {
	return m.durations[action]
}

// remaining must be called with mu held.
func (m *Manager) remaining(k key) time.Duration {
	exp, ok := m.expiries[k]
	if !ok {
		return 0
	}
	left := exp.Sub(m.now())
	if left <= 0 {
		delete(m.expiries, k)
		return 0
	}
	return left
}

func (m *Manager) IsBlocked(userID, action string) bool {
	return m.Remaining(userID, action) > 0
}

func (m *Manager) Remaining(userID, action string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining(key{userID, action})
}

// Check returns an error wrapping ErrOnCooldown while the action is blocked.
func (m *Manager) Check(userID, action string) error {
	if left := m.Remaining(userID, action); left > 0 {
		return fmt.Errorf("%s is available again in %s: %w", action, left.Round(time.Second), ErrOnCooldown)
	}
	return nil
}

// Start begins a cooldown. A non-positive duration falls back to the configured one.
func (m *Manager) Start(userID, action string, d time.Duration) {
	if d <= 0 {
		d = m.durations[action]
	}
	if d <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expiries[key{userID, action}] = m.now().Add(d)
}

func (m *Manager) Clear(userID, action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.expiries, key{userID, action})
}

func (m *Manager) ClearUser(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.expiries {
		if k.userID == userID {
			delete(m.expiries, k)
		}
	}
}

// Active returns the running cooldowns of a user by action.
func (m *Manager) Active(userID string) map[string]time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]time.Duration{}
	for k := range m.expiries {
		if k.userID != userID {
			continue
		}
		if left := m.remaining(k); left > 0 {
			out[k.action] = left
		}
	}
	return out
}

func (m *Manager) cleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for k, exp := range m.expiries {
		if !now.Before(exp) {
			delete(m.expiries, k)
			removed++
		}
	}
	return removed
}

func (m *Manager) StartCleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(config.CooldownCleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.cleanupExpired(); n > 0 {
					slog.Debug("Cleaned up expired cooldowns",
						slog.String("type", "sys"),
						slog.Int("count", n))
				}
			}
		}
	}()
}
