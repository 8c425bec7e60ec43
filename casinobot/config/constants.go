package config

import "time"

// Application-wide constants organized by domain

// UI and Display Constants
const (
	// Pagination
	LeaderboardPageSize = 10
	DefaultPageSize     = 10

	// Colors
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00
	GoldColor    = 0xFFD700
	PurpleColor  = 0x9B59B6

	EmbedDefaultColor = 0x2B2D31
)

// Economy Constants
const (
	DefaultStartingBalance = 1000
	DailyBonusAmount       = 500
	DailyInterval          = 24 * time.Hour

	// A claim later than this after the previous one restarts the streak.
	DailyStreakWindow = 48 * time.Hour
	MaxBalance        = 999_999_999_999
	MinBet            = 1

	XPPerGame          = 25
	XPBlackjackWin     = 100
	XPCoinflipWin      = 100
	XPSlotsWin         = 50
	XPRouletteWin      = 75
	XPPokerWin         = 150
	AccountCacheSize   = 1024
	LedgerLockStripes  = 64
	DefaultLeaderboard = 10
)

// Cooldown Constants
const (
	BlackjackCooldown = 30 * time.Second
	CoinflipCooldown  = 15 * time.Second
	SlotsCooldown     = 20 * time.Second
	RouletteCooldown  = 25 * time.Second
	PokerCooldown     = 45 * time.Second
	DailyCooldown     = 24 * time.Hour

	CooldownCleanupInterval = 30 * time.Second
)

// Game Session Constants
const (
	BlackjackIdleTimeout = 2 * time.Minute
	PokerIdleTimeout     = 5 * time.Minute
	SessionReapInterval  = 15 * time.Second
)

// Database and Performance Constants
const (
	DefaultQueryTimeout     = 30 * time.Second
	StatsQueryTimeout       = 10 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	BackupTimeout           = 2 * time.Minute
)
