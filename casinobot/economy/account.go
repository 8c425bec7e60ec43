package economy

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/disgoorg/casino-bot/casinobot/games"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBanned            = errors.New("account is banned")
	ErrInvalidAmount     = errors.New("amount must not be negative")
)

// Account is one player's persistent economy record.
type Account struct {
	UserID string

	Balance int64
	XP      int64

	GamesPlayed      int64
	GamesWon         int64
	TotalWinnings    int64
	TotalLosses      int64
	CurrentWinStreak int64
	BestWinStreak    int64
	BiggestWin       int64
	GameWins         map[games.Kind]int64
	Blackjacks       int64
	AllIns           int64

	DailyStreak int64
	LastDaily   time.Time

	Achievements []string

	Banned    bool
	BanReason string
	BannedAt  time.Time

	CreatedAt  time.Time
	LastActive time.Time
}

func NewAccount(userID string, balance int64, now time.Time) *Account {
	return &Account{
		UserID:     userID,
		Balance:    balance,
		GameWins:   map[games.Kind]int64{},
		CreatedAt:  now,
		LastActive: now,
	}
}

func (a *Account) Clone() *Account {
	c := *a
	c.GameWins = make(map[games.Kind]int64, len(a.GameWins))
	for k, v := range a.GameWins {
		c.GameWins[k] = v
	}
	c.Achievements = slices.Clone(a.Achievements)
	return &c
}

// WinRate is the percentage of games won.
func (a *Account) WinRate() float64 {
	if a.GamesPlayed == 0 {
		return 0
	}
	return float64(a.GamesWon) / float64(a.GamesPlayed) * 100
}

func (a *Account) NetProfit() int64 {
	return a.TotalWinnings - a.TotalLosses
}

func (a *Account) HasAchievement(id string) bool {
	return slices.Contains(a.Achievements, id)
}

func (a *Account) Wins(kind games.Kind) int64 {
	return a.GameWins[kind]
}

//go:generate go run go.uber.org/mock/mockgen -destination=mock/store.go -package=mock . AccountStore

// AccountStore is the durable keyed collection behind the ledger.
type AccountStore interface {
	Get(ctx context.Context, userID string) (*Account, error)
	Save(ctx context.Context, account *Account) error
	All(ctx context.Context) ([]*Account, error)
	Delete(ctx context.Context, userID string) error
}

// MemoryStore keeps accounts in process. Used for tests and local runs without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: map[string]*Account{}}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[userID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.UserID] = account.Clone()
	return nil
}

func (s *MemoryStore) All(_ context.Context) ([]*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, userID)
	return nil
}
