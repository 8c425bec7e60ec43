package casinobot

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disgoorg/casino-bot/casinobot/economy/cooldown"
	"github.com/disgoorg/casino-bot/casinobot/games"
)

const sampleConfig = `
[log]
level = "debug"

[bot]
token = "from-file"
admin_ids = [123456789012345678]

[db]
host = "db.internal"
port = 5433
user = "casino"
database = "casino"

[game]
starting_balance = 2000
poker_timeout = 60

[game.cooldowns]
slots = 5

[game.xp]
poker = 300
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "from-file", cfg.Bot.Token)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.True(t, cfg.IsAdmin(snowflake.ID(123456789012345678)))
	assert.False(t, cfg.IsAdmin(snowflake.ID(1)))

	// untouched keys keep their defaults
	assert.Equal(t, int64(500), cfg.Game.DailyBonus)
	assert.Equal(t, 10, cfg.DB.PoolSize)

	settings := cfg.Game.LedgerSettings()
	assert.Equal(t, int64(2000), settings.StartingBalance)
	assert.Equal(t, int64(300), settings.XPPerWin[games.KindPoker])
	assert.Equal(t, int64(100), settings.XPPerWin[games.KindBlackjack])

	durations := cfg.Game.CooldownDurations()
	assert.Equal(t, 5*time.Second, durations[cooldown.ActionSlots])
	assert.Equal(t, 24*time.Hour, durations[cooldown.ActionDaily])

	tc := cfg.Game.TableConfig()
	assert.Equal(t, time.Minute, tc.PokerTimeout)
	assert.Equal(t, 2*time.Minute, tc.BlackjackTimeout)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CASINO_BOT_TOKEN", "from-env")
	t.Setenv("CASINO_DB_PASSWORD", "hunter2")
	t.Setenv("CASINO_GAME_DAILY_BONUS", "750")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Bot.Token)
	assert.Equal(t, "hunter2", cfg.DB.Password)
	assert.Equal(t, int64(750), cfg.Game.DailyBonus)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("CASINO_BOT_TOKEN", "env-only")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "env-only", cfg.Bot.Token)
	assert.Equal(t, "localhost", cfg.DB.Host)
}

func TestLoadConfigRejects(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "[bot]\ntoken = \"\"\n"))
	assert.ErrorContains(t, err, "token")

	_, err = LoadConfig(writeConfig(t, "[bot]\ntoken = \"x\"\nunknown_key = 1\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "[bot]\ntoken = \"x\"\n[backup]\nenabled = true\n"))
	assert.ErrorContains(t, err, "bucket")
}
