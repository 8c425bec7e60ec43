package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/disgoorg/casino-bot/casinobot"
	"github.com/disgoorg/casino-bot/casinobot/commands"
	"github.com/disgoorg/casino-bot/casinobot/commands/admin"
	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/database"
	"github.com/disgoorg/casino-bot/casinobot/database/repositories"
	"github.com/disgoorg/casino-bot/casinobot/economy"
	"github.com/disgoorg/casino-bot/casinobot/economy/cooldown"
	"github.com/disgoorg/casino-bot/casinobot/games/table"
	"github.com/disgoorg/casino-bot/casinobot/handlers"
	"github.com/disgoorg/casino-bot/casinobot/logger"
	"github.com/disgoorg/casino-bot/casinobot/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	// Bootstrap logger until the configured level is known.
	slog.SetDefault(slog.New(logger.NewHandler(os.Stdout, slog.LevelInfo, true)))

	cfg, err := casinobot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("type", "sys"), slog.Any("error", err))
		os.Exit(-1)
	}
	slog.SetDefault(slog.New(logger.NewHandler(os.Stdout, cfg.Log.Level, cfg.Log.Color)))

	slog.Info("Starting casino bot",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	b := casinobot.New(*cfg, version, commit)

	initCtx, initCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer initCancel()

	g, gctx := errgroup.WithContext(initCtx)
	if cfg.DB.Host != "" {
		g.Go(func() error {
			start := time.Now()
			db, err := database.New(gctx, cfg.DB)
			if err != nil {
				return fmt.Errorf("database connection failed: %w", err)
			}
			if err = db.InitializeSchema(gctx); err != nil {
				db.Close()
				return fmt.Errorf("failed to initialize database schema: %w", err)
			}
			b.DB = db
			slog.Info("Database connected successfully",
				slog.String("type", "db"),
				slog.String("database", cfg.DB.Database),
				slog.Duration("took", time.Since(start)))
			return nil
		})
	}
	if cfg.Backup.Enabled {
		g.Go(func() error {
			svc, err := services.NewBackupService(gctx, cfg.Backup)
			if err != nil {
				return fmt.Errorf("failed to create backup service: %w", err)
			}
			b.Backup = svc
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		slog.Error("Startup failed", slog.String("type", "sys"), slog.Any("error", err))
		os.Exit(-1)
	}
	if b.DB != nil {
		defer b.DB.Close()
	}

	var store economy.AccountStore
	if b.DB != nil {
		store = repositories.NewAccountRepository(b.DB.BunDB())
	} else {
		slog.Warn("No database configured, accounts are kept in memory", slog.String("type", "sys"))
		store = economy.NewMemoryStore()
	}

	if b.Ledger, err = economy.NewLedger(store, cfg.Game.LedgerSettings()); err != nil {
		slog.Error("Failed to create ledger", slog.String("type", "sys"), slog.Any("error", err))
		os.Exit(-1)
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	b.Cooldowns = cooldown.NewManager(cfg.Game.CooldownDurations())
	b.Cooldowns.StartCleanupRoutine(bgCtx)

	b.Table = table.NewManager(cfg.Game.TableConfig())
	b.Table.StartReaper(bgCtx, commands.SessionTimeoutHandler(b))

	h := handler.New()

	// Games
	h.Command("/blackjack", handlers.WrapWithLogging("blackjack", commands.BlackjackHandler(b)))
	h.Command("/coinflip", handlers.WrapWithLogging("coinflip", commands.CoinflipHandler(b)))
	h.Command("/slots", handlers.WrapWithLogging("slots", commands.SlotsHandler(b)))
	h.Command("/roulette", handlers.WrapWithLogging("roulette", commands.RouletteHandler(b)))
	h.Command("/poker", handlers.WrapWithLogging("poker", commands.PokerHandler(b)))
	h.Component("/bj/{action}/{session}", handlers.WrapComponentWithLogging("blackjack-action", commands.GameActionHandler(b)))
	h.Component("/poker/{action}/{session}", handlers.WrapComponentWithLogging("poker-action", commands.GameActionHandler(b)))

	// Player commands
	h.Command("/balance", handlers.WrapWithLogging("balance", commands.BalanceHandler(b)))
	h.Command("/daily", handlers.WrapWithLogging("daily", commands.DailyHandler(b)))
	h.Command("/profile", handlers.WrapWithLogging("profile", commands.ProfileHandler(b)))
	h.Command("/cooldowns", handlers.WrapWithLogging("cooldowns", commands.CooldownsHandler(b)))
	h.Command("/leaderboard", handlers.WrapWithLogging("leaderboard", commands.LeaderboardHandler(b)))
	h.Command("/achievements", handlers.WrapWithLogging("achievements", commands.AchievementsHandler(b)))
	h.Command("/help", handlers.WrapWithLogging("help", commands.HelpHandler(b)))
	h.Command("/payouts", handlers.WrapWithLogging("payouts", commands.PayoutsHandler(b)))

	// Admin commands
	adminRoutes := map[string]func(*casinobot.Bot) handler.CommandHandler{
		"admin-user":    admin.UserHandler,
		"admin-stats":   admin.StatsHandler,
		"admin-balance": admin.BalanceHandler,
		"admin-set":     admin.SetHandler,
		"admin-ban":     admin.BanHandler,
		"admin-unban":   admin.UnbanHandler,
		"admin-reset":   admin.ResetHandler,
	}
	for name, fn := range adminRoutes {
		h.Command("/"+name, handlers.WrapWithLogging(name, admin.Only(b, name, fn(b))))
	}
	h.Command("/admin-backup", handlers.WrapLongRunning("admin-backup", config.BackupTimeout+5*time.Second,
		admin.Only(b, "admin-backup", admin.BackupHandler(b))))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "bot_setup"))
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"))
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.", slog.String("type", "sys"))
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...", slog.String("type", "sys"))
}
