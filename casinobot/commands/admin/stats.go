package admin

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"golang.org/x/sync/errgroup"

	"github.com/disgoorg/casino-bot/casinobot"
	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/economy"
	"github.com/disgoorg/casino-bot/casinobot/utils"
)

var Stats = discord.SlashCommandCreate{
	Name:        "admin-stats",
	Description: "📈 Casino wide statistics",
}

var Backup = discord.SlashCommandCreate{
	Name:        "admin-backup",
	Description: "💾 Upload a snapshot of all accounts to object storage",
}

type casinoStats struct {
	Ledger     economy.Stats
	DBLatency  time.Duration
	DBErr      error
	LiveGames  int
	Goroutines int
}

// collectStats gathers ledger totals and database health in parallel.
func collectStats(ctx context.Context, b *casinobot.Bot) (casinoStats, error) {
	var out casinoStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := b.Ledger.Stats(gctx)
		if err != nil {
			return err
		}
		out.Ledger = s
		return nil
	})
	if b.DB != nil {
		g.Go(func() error {
			start := time.Now()
			// A failing ping is reported, not fatal.
			out.DBErr = b.DB.Ping(gctx)
			out.DBLatency = time.Since(start)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return casinoStats{}, err
	}
	out.LiveGames = b.Table.Count()
	out.Goroutines = runtime.NumGoroutine()
	return out, nil
}

func StatsHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.StatsQueryTimeout)
		defer cancel()

		s, err := collectStats(ctx, b)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{statsEmbed(b, s)}})
	}
}

func statsEmbed(b *casinobot.Bot, s casinoStats) discord.Embed {
	winRate := 0.0
	if s.Ledger.GamesPlayed > 0 {
		winRate = float64(s.Ledger.GamesWon) / float64(s.Ledger.GamesPlayed) * 100
	}
	richest := "Nobody"
	if s.Ledger.Richest != nil {
		richest = fmt.Sprintf("<@%s> (%s)", s.Ledger.Richest.UserID, utils.FormatNumber(s.Ledger.Richest.Balance))
	}
	storage := "In memory"
	if b.DB != nil {
		storage = fmt.Sprintf("PostgreSQL, ping %s", s.DBLatency.Round(time.Millisecond))
		if s.DBErr != nil {
			storage = "⚠️ PostgreSQL unreachable"
		}
	}

	return discord.NewEmbedBuilder().
		SetTitle("📈 Casino Statistics").
		SetColor(config.PurpleColor).
		AddField("Players", fmt.Sprintf("%d (%d banned)", s.Ledger.Users, s.Ledger.Banned), true).
		AddField("Coins in Circulation", utils.FormatNumber(s.Ledger.TotalBalance), true).
		AddField("Total XP", utils.FormatNumber(s.Ledger.TotalXP), true).
		AddField("Games", fmt.Sprintf("%s played • %.1f%% won",
			utils.FormatNumber(s.Ledger.GamesPlayed), winRate), false).
		AddField("Richest", richest, true).
		AddField("Live Games", fmt.Sprintf("%d", s.LiveGames), true).
		AddField("Storage", storage, false).
		SetFooter(fmt.Sprintf("%s (%s) • up %s • %d goroutines",
			b.Version, b.Commit, utils.FormatDuration(time.Since(b.StartedAt)), s.Goroutines), "").
		Build()
}

func BackupHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if b.Backup == nil {
			return utils.EH.CreateBusinessLogicError(e, "Backups are not configured.")
		}
		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.BackupTimeout)
		defer cancel()

		res, err := b.Backup.Run(ctx, b.Ledger)
		content := ""
		if err != nil {
			slog.Error("Backup failed",
				slog.String("type", "sys"),
				slog.String("admin_id", e.User().ID.String()),
				slog.Any("error", err))
			content = "❌ Backup failed. Check the logs."
		} else {
			content = fmt.Sprintf("✅ Backed up %d accounts (%s bytes) to `%s/%s` in %s",
				res.Accounts, utils.FormatNumber(int64(res.Bytes)), b.Backup.Bucket(), res.AccountsKey,
				res.Took.Round(time.Millisecond))
		}
		_, err = e.UpdateInteractionResponse(discord.MessageUpdate{Content: &content})
		return err
	}
}
