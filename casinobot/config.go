package casinobot

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/database"
	"github.com/disgoorg/casino-bot/casinobot/economy"
	"github.com/disgoorg/casino-bot/casinobot/economy/cooldown"
	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/games/table"
	"github.com/disgoorg/casino-bot/casinobot/services"
)

// EnvPrefix prefixes every environment override, e.g. CASINO_BOT_TOKEN.
const EnvPrefix = "CASINO_"

// LoadConfig reads the TOML file at path over the defaults, then applies environment
// overrides. A missing file is fine when the environment supplies the rest.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err = toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("Config file not found, using defaults and environment",
			slog.String("type", "sys"),
			slog.String("path", path))
	default:
		return nil, fmt.Errorf("failed to open config: %w", err)
	}

	if err = env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig             `toml:"log" envPrefix:"LOG_"`
	Bot    BotConfig             `toml:"bot" envPrefix:"BOT_"`
	DB     database.DBConfig     `toml:"db" envPrefix:"DB_"`
	Backup services.BackupConfig `toml:"backup" envPrefix:"BACKUP_"`
	Game   GameConfig            `toml:"game" envPrefix:"GAME_"`
}

type BotConfig struct {
	Token     string         `toml:"token" env:"TOKEN"`
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	AdminIDs  []snowflake.ID `toml:"admin_ids"`
}

type LogConfig struct {
	Level slog.Level `toml:"level" env:"LEVEL"`
	Color bool       `toml:"color"`
}

// GameConfig holds the tunables. Durations are in seconds.
type GameConfig struct {
	StartingBalance  int64 `toml:"starting_balance" env:"STARTING_BALANCE"`
	DailyBonus       int64 `toml:"daily_bonus" env:"DAILY_BONUS"`
	MaxBalance       int64 `toml:"max_balance"`
	BlackjackTimeout int   `toml:"blackjack_timeout"`
	PokerTimeout     int   `toml:"poker_timeout"`
	Seed             int64 `toml:"seed" env:"SEED"`

	Cooldowns CooldownConfig `toml:"cooldowns"`
	XP        XPConfig       `toml:"xp"`
}

type CooldownConfig struct {
	Blackjack int `toml:"blackjack"`
	Coinflip  int `toml:"coinflip"`
	Slots     int `toml:"slots"`
	Roulette  int `toml:"roulette"`
	Poker     int `toml:"poker"`
}

type XPConfig struct {
	PerGame   int64 `toml:"per_game"`
	Blackjack int64 `toml:"blackjack"`
	Coinflip  int64 `toml:"coinflip"`
	Slots     int64 `toml:"slots"`
	Roulette  int64 `toml:"roulette"`
	Poker     int64 `toml:"poker"`
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: slog.LevelInfo, Color: true},
		DB: database.DBConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "casino",
			PoolSize: 10,
		},
		Game: GameConfig{
			StartingBalance:  config.DefaultStartingBalance,
			DailyBonus:       config.DailyBonusAmount,
			MaxBalance:       config.MaxBalance,
			BlackjackTimeout: seconds(config.BlackjackIdleTimeout),
			PokerTimeout:     seconds(config.PokerIdleTimeout),
			Cooldowns: CooldownConfig{
				Blackjack: seconds(config.BlackjackCooldown),
				Coinflip:  seconds(config.CoinflipCooldown),
				Slots:     seconds(config.SlotsCooldown),
				Roulette:  seconds(config.RouletteCooldown),
				Poker:     seconds(config.PokerCooldown),
			},
			XP: XPConfig{
				PerGame:   config.XPPerGame,
				Blackjack: config.XPBlackjackWin,
				Coinflip:  config.XPCoinflipWin,
				Slots:     config.XPSlotsWin,
				Roulette:  config.XPRouletteWin,
				Poker:     config.XPPokerWin,
			},
		},
	}
}

func (c Config) Validate() error {
	if c.Bot.Token == "" {
		return errors.New("bot token is required (set bot.token or CASINO_BOT_TOKEN)")
	}
	if c.Game.StartingBalance < 0 || c.Game.DailyBonus < 0 {
		return errors.New("game amounts must not be negative")
	}
	if c.Game.MaxBalance <= 0 {
		return errors.New("game.max_balance must be positive")
	}
	if c.Backup.Enabled && c.Backup.Bucket == "" {
		return errors.New("backup.bucket is required when backups are enabled")
	}
	return nil
}

func (c Config) IsAdmin(id snowflake.ID) bool {
	return slices.Contains(c.Bot.AdminIDs, id)
}

func (g GameConfig) LedgerSettings() economy.Settings {
	s := economy.DefaultSettings()
	s.StartingBalance = g.StartingBalance
	s.DailyBonus = g.DailyBonus
	s.MaxBalance = g.MaxBalance
	s.XPPerGame = g.XP.PerGame
	s.XPPerWin = map[games.Kind]int64{
		games.KindBlackjack: g.XP.Blackjack,
		games.KindCoinflip:  g.XP.Coinflip,
		games.KindSlots:     g.XP.Slots,
		games.KindRoulette:  g.XP.Roulette,
		games.KindPoker:     g.XP.Poker,
	}
	return s
}

func (g GameConfig) CooldownDurations() map[string]time.Duration {
	d := cooldown.Defaults()
	set := func(action string, secs int) {
		if secs >= 0 {
			d[action] = time.Duration(secs) * time.Second
		}
	}
	set(cooldown.ActionBlackjack, g.Cooldowns.Blackjack)
	set(cooldown.ActionCoinflip, g.Cooldowns.Coinflip)
	set(cooldown.ActionSlots, g.Cooldowns.Slots)
	set(cooldown.ActionRoulette, g.Cooldowns.Roulette)
	set(cooldown.ActionPoker, g.Cooldowns.Poker)
	return d
}

func (g GameConfig) TableConfig() table.Config {
	return table.Config{
		BlackjackTimeout: time.Duration(g.BlackjackTimeout) * time.Second,
		PokerTimeout:     time.Duration(g.PokerTimeout) * time.Second,
		ReapInterval:     config.SessionReapInterval,
		Seed:             g.Seed,
	}
}
