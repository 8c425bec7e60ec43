package table

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	mrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/games/blackjack"
	"github.com/disgoorg/casino-bot/casinobot/games/coinflip"
	"github.com/disgoorg/casino-bot/casinobot/games/poker"
	"github.com/disgoorg/casino-bot/casinobot/games/roulette"
	"github.com/disgoorg/casino-bot/casinobot/games/slots"
	"github.com/disgoorg/snowflake/v2"
)

var (
	ErrSessionNotFound  = errors.New("game session not found")
	ErrNotSessionOwner  = errors.New("game belongs to another player")
	ErrDecisionInFlight = errors.New("a decision is already being processed")
	ErrGameInProgress   = errors.New("player already has a game in progress")
	ErrUnknownGame      = errors.New("unknown game")
)

// Handle is a live interactive game waiting for player decisions.
type Handle interface {
	Apply(a games.Action) (*games.Outcome, error)
	Timeout() games.Outcome
	Done() bool
}

type Config struct {
	BlackjackTimeout time.Duration
	PokerTimeout     time.Duration
	ReapInterval     time.Duration
	// Seed fixes the random source; zero seeds from the clock.
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		BlackjackTimeout: 2 * time.Minute,
		PokerTimeout:     5 * time.Minute,
		ReapInterval:     15 * time.Second,
	}
}

type StartRequest struct {
	Kind   games.Kind
	UserID string
	Bet    games.Bet
	Mode   games.Mode
}

// Result carries either a final outcome or a live session, never both. Game is set for
// interactive kinds in either case so the dealt hands can be shown.
type Result struct {
	Outcome *games.Outcome
	Session *Session
	Game    Handle
}

func (r Result) Final() bool {
	return r.Outcome != nil
}

type Session struct {
	ID        string
	UserID    string
	Kind      games.Kind
	Bet       games.Bet
	Mode      games.Mode
	Game      Handle
	StartedAt time.Time

	mu         sync.Mutex
	lastAction time.Time
	channelID  snowflake.ID
	messageID  snowflake.ID
}

// SetMessage records where the game is rendered so a timeout can update it.
func (s *Session) SetMessage(channelID, messageID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelID, s.messageID = channelID, messageID
}

func (s *Session) Message() (channelID, messageID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channelID, s.messageID
}

func (s *Session) Blackjack() (*blackjack.Game, bool) {
	g, ok := s.Game.(*blackjack.Game)
	return g, ok
}

func (s *Session) Poker() (*poker.Game, bool) {
	g, ok := s.Game.(*poker.Game)
	return g, ok
}

type Manager struct {
	sessions sync.Map // session id -> *Session
	active   sync.Map // user id -> session id
	machine  *slots.Machine
	cfg      Config

	rngMu sync.Mutex
	rng   *mrand.Rand
}

func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.BlackjackTimeout <= 0 {
		cfg.BlackjackTimeout = def.BlackjackTimeout
	}
	if cfg.PokerTimeout <= 0 {
		cfg.PokerTimeout = def.PokerTimeout
	}
	if cfg.ReapInterval <= 0 {
		cfg.ReapInterval = def.ReapInterval
	}
	return &Manager{
		machine: slots.NewMachine(),
		cfg:     cfg,
		rng:     games.NewRand(cfg.Seed),
	}
}

// Slots exposes the machine for payout tables.
func (m *Manager) Slots() *slots.Machine {
	return m.machine
}

// newRand hands each game its own source so games never share random state.
func (m *Manager) newRand() *mrand.Rand {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	return mrand.New(mrand.NewSource(m.rng.Int63()))
}

func (m *Manager) IdleTimeout(kind games.Kind) time.Duration {
	if kind == games.KindPoker {
		return m.cfg.PokerTimeout
	}
	return m.cfg.BlackjackTimeout
}

// Start validates the bet shape and begins a game. Pure games, naturals and all-in hands
// come back final; everything else is registered as a live session for the user.
func (m *Manager) Start(ctx context.Context, req StartRequest) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Kind.Interactive() && m.ActiveFor(req.UserID) != nil {
		return nil, ErrGameInProgress
	}

	rng := m.newRand()
	var (
		out    games.Outcome
		handle Handle
		err    error
	)
	switch req.Kind {
	case games.KindCoinflip:
		out, err = coinflip.Play(req.Bet, rng)
	case games.KindSlots:
		out, err = m.machine.Play(req.Bet, rng)
	case games.KindRoulette:
		out, err = roulette.Play(req.Bet, rng)
	case games.KindBlackjack:
		handle, err = blackjack.New(req.Bet, req.Mode, rng)
	case games.KindPoker:
		handle, err = poker.New(req.Bet, req.Mode, rng)
	default:
		return nil, fmt.Errorf("%q: %w", req.Kind, ErrUnknownGame)
	}
	if err != nil {
		return nil, err
	}

	if handle == nil {
		return &Result{Outcome: &out}, nil
	}
	if handle.Done() {
		return &Result{Outcome: outcomeOf(handle), Game: handle}, nil
	}

	now := time.Now()
	s := &Session{
		ID:         newSessionID(),
		UserID:     req.UserID,
		Kind:       req.Kind,
		Bet:        req.Bet,
		Mode:       req.Mode,
		Game:       handle,
		StartedAt:  now,
		lastAction: now,
	}
	if _, loaded := m.active.LoadOrStore(req.UserID, s.ID); loaded {
		return nil, ErrGameInProgress
	}
	m.sessions.Store(s.ID, s)

	slog.Debug("Game session started",
		slog.String("type", "game"),
		slog.String("session", s.ID),
		slog.String("user_id", s.UserID),
		slog.String("game", string(s.Kind)))

	return &Result{Session: s, Game: handle}, nil
}

func outcomeOf(h Handle) *games.Outcome {
	switch g := h.(type) {
	case *blackjack.Game:
		return g.Outcome()
	case *poker.Game:
		return g.Outcome()
	}
	return nil
}

func (m *Manager) Get(sessionID string) (*Session, error) {
	v, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return v.(*Session), nil
}

// ActiveFor returns the user's live session, if any.
func (m *Manager) ActiveFor(userID string) *Session {
	id, ok := m.active.Load(userID)
	if !ok {
		return nil
	}
	s, err := m.Get(id.(string))
	if err != nil {
		return nil
	}
	return s
}

// Apply drives a session with one decision. Only one decision per session runs at a time;
// a concurrent second decision is rejected rather than queued.
func (m *Manager) Apply(sessionID, userID string, action games.Action) (*Session, *games.Outcome, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if s.UserID != userID {
		return s, nil, ErrNotSessionOwner
	}
	if !s.mu.TryLock() {
		return s, nil, ErrDecisionInFlight
	}
	defer s.mu.Unlock()

	if s.Game.Done() {
		return s, nil, ErrSessionNotFound
	}

	out, err := s.Game.Apply(action)
	if err != nil {
		return s, nil, err
	}
	s.lastAction = time.Now()
	if out != nil {
		m.remove(s)
	}
	return s, out, nil
}

// Timeout forfeits a session immediately.
func (m *Manager) Timeout(sessionID string) (*Session, games.Outcome, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return nil, games.Outcome{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Game.Done() {
		return s, games.Outcome{}, ErrSessionNotFound
	}
	out := s.Game.Timeout()
	m.remove(s)
	return s, out, nil
}

func (m *Manager) remove(s *Session) {
	m.sessions.Delete(s.ID)
	m.active.CompareAndDelete(s.UserID, s.ID)
}

// Count is the number of live sessions.
func (m *Manager) Count() int {
	n := 0
	m.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// reap times out sessions idle past their game's limit. Sessions busy with a decision are
// left for the next pass.
func (m *Manager) reap(now time.Time, onTimeout func(*Session, games.Outcome)) {
	type expiry struct {
		s   *Session
		out games.Outcome
	}
	var expired []expiry
	m.sessions.Range(func(_, v any) bool {
		s := v.(*Session)
		if !s.mu.TryLock() {
			return true
		}
		if !s.Game.Done() && now.Sub(s.lastAction) > m.IdleTimeout(s.Kind) {
			out := s.Game.Timeout()
			m.remove(s)
			expired = append(expired, expiry{s, out})
		}
		s.mu.Unlock()
		return true
	})

	for _, e := range expired {
		s, out := e.s, e.out
		slog.Info("Game session timed out",
			slog.String("type", "game"),
			slog.String("session", s.ID),
			slog.String("user_id", s.UserID),
			slog.String("game", string(s.Kind)),
			slog.Int64("forfeited", out.Loss))
		if onTimeout != nil {
			onTimeout(s, out)
		}
	}
}

func (m *Manager) StartReaper(ctx context.Context, onTimeout func(*Session, games.Outcome)) {
	ticker := time.NewTicker(m.cfg.ReapInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.reap(now, onTimeout)
			}
		}
	}()
}

func newSessionID() string {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b))
}
