package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/casino-bot/casinobot"
	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/utils"
)

var Commands = []discord.ApplicationCommandCreate{
	User,
	Stats,
	Balance,
	Set,
	Ban,
	Unban,
	Reset,
	Backup,
}

var errBadTarget = errors.New("no valid target user")

var (
	userOption = discord.ApplicationCommandOptionUser{
		Name:        "user",
		Description: "Target player",
	}
	userIDOption = discord.ApplicationCommandOptionString{
		Name:        "user_id",
		Description: "Target player ID, for players no longer in the server",
	}
)

// Only wraps a handler so that it runs for configured admins only.
func Only(b *casinobot.Bot, name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !b.Cfg.IsAdmin(e.User().ID) {
			slog.Warn("Rejected admin command",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()))
			return utils.EH.CreatePermissionError(e, "use /"+name)
		}
		return h(e)
	}
}

// target resolves the user option or, failing that, the raw user_id option.
func target(e *handler.CommandEvent) (snowflake.ID, error) {
	data := e.SlashCommandInteractionData()
	if u, ok := data.OptUser("user"); ok {
		return u.ID, nil
	}
	raw, ok := data.OptString("user_id")
	if !ok {
		return 0, fmt.Errorf("either user or user_id is required: %w", errBadTarget)
	}
	id, err := snowflake.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a user ID: %w", raw, errBadTarget)
	}
	return id, nil
}

func adminContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
}

func audit(e *handler.CommandEvent, action string, targetID snowflake.ID, attrs ...any) {
	args := append([]any{
		slog.String("type", "cmd"),
		slog.String("action", action),
		slog.String("admin_id", e.User().ID.String()),
		slog.String("target_id", targetID.String()),
	}, attrs...)
	slog.Info("Admin action", args...)
}
