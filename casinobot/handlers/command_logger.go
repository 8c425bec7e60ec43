package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/casino-bot/casinobot/config"
)

const slowThreshold = 2 * time.Second

// WrapWithLogging logs start, completion and failures of a slash command.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return run("cmd", name, config.CommandExecutionTimeout, e.User(), e.GuildID(), func() error { return h(e) })
	}
}

// WrapLongRunning is WrapWithLogging for commands that defer their response and may
// legitimately run past the usual execution timeout.
func WrapLongRunning(name string, timeout time.Duration, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return run("cmd", name, timeout, e.User(), e.GuildID(), func() error { return h(e) })
	}
}

func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		return run("component", name, config.CommandExecutionTimeout, e.User(), e.GuildID(), func() error { return h(e) })
	}
}

func run(kind, name string, timeout time.Duration, user discord.User, guildID *snowflake.ID, fn func() error) error {
	start := time.Now()
	guild := ""
	if guildID != nil {
		guild = guildID.String()
	}
	slog.Debug("Interaction started",
		slog.String("type", kind),
		slog.String("name", name),
		slog.String("user_id", user.ID.String()),
		slog.String("user_name", user.Username),
		slog.String("guild_id", guild))

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	attrs := []any{
		slog.String("type", kind),
		slog.String("name", name),
		slog.String("user_id", user.ID.String()),
		slog.String("user_name", user.Username),
	}

	select {
	case err := <-done:
		took := time.Since(start)
		attrs = append(attrs, slog.Duration("took", took))
		switch {
		case err != nil:
			slog.Error("Interaction failed", append(attrs, slog.Any("error", err), slog.String("status", "failed"))...)
		case took > slowThreshold:
			slog.Warn("Interaction executed slowly", append(attrs, slog.String("status", "slow"))...)
		default:
			slog.Info("Interaction completed", append(attrs, slog.String("status", "success"))...)
		}
		return err

	case <-time.After(timeout):
		slog.Error("Interaction timed out", append(attrs,
			slog.String("status", "timeout"),
			slog.Duration("timeout", timeout))...)
		return fmt.Errorf("%s %s timed out after %s", kind, name, timeout)
	}
}
