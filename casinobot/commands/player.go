package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/disgoorg/casino-bot/casinobot"
	"github.com/disgoorg/casino-bot/casinobot/achievements"
	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/economy"
	"github.com/disgoorg/casino-bot/casinobot/economy/cooldown"
	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/logger"
	"github.com/disgoorg/casino-bot/casinobot/utils"
)

var Balance = discord.SlashCommandCreate{
	Name:        "balance",
	Description: "💰 View your coins and XP",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Check another player's balance",
		},
	},
}

var Daily = discord.SlashCommandCreate{
	Name:        "daily",
	Description: "🎁 Claim your daily coin bonus",
}

var Profile = discord.SlashCommandCreate{
	Name:        "profile",
	Description: "📊 Show casino statistics for a player",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Player to show",
		},
	},
}

var Cooldowns = discord.SlashCommandCreate{
	Name:        "cooldowns",
	Description: "⏳ See when you can play each game again",
}

var Leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "🏅 The richest players",
}

var Achievements = discord.SlashCommandCreate{
	Name:        "achievements",
	Description: "🏆 Browse achievements and your progress",
}

// targetUser is the user option when given, otherwise the caller.
func targetUser(e *handler.CommandEvent) discord.User {
	if u, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
		return u
	}
	return e.User()
}

func BalanceHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := gameContext()
		defer cancel()

		user := targetUser(e)
		acct, err := b.Ledger.GetAccount(ctx, user.ID.String())
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		embed := discord.NewEmbedBuilder().
			SetTitle("💰 Balance").
			SetColor(config.GoldColor).
			SetThumbnail(user.EffectiveAvatarURL()).
			SetDescription(fmt.Sprintf("%s has **%s** coins", user.Mention(), utils.FormatNumber(acct.Balance))).
			AddField("XP", utils.FormatNumber(acct.XP), true).
			AddField("Net Profit", utils.FormatSigned(acct.NetProfit()), true).
			SetFooter(fmt.Sprintf("Requested by %s", e.User().Username), "").
			SetTimestamp(time.Now()).
			Build()
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
	}
}

// claimDaily pays the daily bonus, starts the daily cooldown and grants any achievements
// the claim unlocked.
func claimDaily(ctx context.Context, b *casinobot.Bot, userID string) (economy.DailyResult, []achievements.Achievement, error) {
	acct, err := b.Ledger.GetAccount(ctx, userID)
	if err != nil {
		return economy.DailyResult{}, nil, err
	}
	if acct.Banned {
		return economy.DailyResult{}, nil, economy.ErrBanned
	}

	res, err := b.Ledger.ClaimDaily(ctx, userID)
	if err != nil {
		return res, nil, err
	}
	if !res.Claimed {
		b.Cooldowns.Start(userID, cooldown.ActionDaily, res.Remaining)
		return res, nil, nil
	}
	b.Cooldowns.Start(userID, cooldown.ActionDaily, 0)

	if acct, err = b.Ledger.GetAccount(ctx, userID); err != nil {
		logger.LogError("Failed to reload account after daily claim", err, "user_id", userID)
		return res, nil, nil
	}
	unlocked := achievements.CheckNewUnlocks(acct, nil)
	if len(unlocked) == 0 {
		return res, nil, nil
	}
	granted, err := b.Ledger.GrantAchievements(ctx, userID, achievements.Grants(unlocked))
	if err != nil {
		logger.LogError("Failed to grant achievements", err, "user_id", userID)
	}
	var as []achievements.Achievement
	for _, g := range granted {
		if a, ok := achievements.Get(g.ID); ok {
			as = append(as, a)
		}
	}
	return res, as, nil
}

func DailyHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := gameContext()
		defer cancel()

		res, unlocked, err := claimDaily(ctx, b, e.User().ID.String())
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		if !res.Claimed {
			return utils.EH.CreateBusinessLogicError(e,
				fmt.Sprintf("Your daily bonus is available again in %s.", utils.FormatDuration(res.Remaining)))
		}

		eb := discord.NewEmbedBuilder().
			SetTitle("🎁 Daily Bonus").
			SetColor(config.SuccessColor).
			SetDescription(fmt.Sprintf("You claimed **%s** coins!", utils.FormatNumber(res.Amount))).
			AddField("Streak", fmt.Sprintf("🔥 %d day(s)", res.Streak), true).
			AddField("Balance", utils.FormatCoins(res.Balance), true)
		if len(unlocked) > 0 {
			eb.AddField("🏆 Achievements Unlocked", achievementLines(unlocked), false)
		}
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{eb.Build()}})
	}
}

func ProfileHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := gameContext()
		defer cancel()

		user := targetUser(e)
		acct, err := b.Ledger.GetAccount(ctx, user.ID.String())
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		rank, err := b.Ledger.Rank(ctx, acct.UserID)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{profileEmbed(user, acct, rank)}})
	}
}

func profileEmbed(user discord.User, acct *economy.Account, rank int) discord.Embed {
	rankText := "Unranked"
	if rank > 0 {
		rankText = fmt.Sprintf("#%d", rank)
	}

	var wins []string
	for _, k := range games.Kinds {
		wins = append(wins, fmt.Sprintf("%s: %d", k, acct.Wins(k)))
	}

	eb := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("📊 %s", user.Username)).
		SetThumbnail(user.EffectiveAvatarURL()).
		SetColor(config.InfoColor).
		AddField("Balance", utils.FormatCoins(acct.Balance), true).
		AddField("XP", utils.FormatNumber(acct.XP), true).
		AddField("Rank", rankText, true).
		AddField("Games", fmt.Sprintf("%d played • %d won • %.1f%%", acct.GamesPlayed, acct.GamesWon, acct.WinRate()), false).
		AddField("Winnings", fmt.Sprintf("+%s / -%s", utils.FormatNumber(acct.TotalWinnings), utils.FormatNumber(acct.TotalLosses)), true).
		AddField("Biggest Win", utils.FormatNumber(acct.BiggestWin), true).
		AddField("Streak", fmt.Sprintf("%d (best %d)", acct.CurrentWinStreak, acct.BestWinStreak), true).
		AddField("Wins by Game", strings.Join(wins, "\n"), false).
		AddField("Achievements", fmt.Sprintf("%d / %d", len(achievements.Earned(acct)), len(achievements.All())), true).
		SetFooter("Member since", "").
		SetTimestamp(acct.CreatedAt)
	if acct.Banned {
		eb.SetColor(config.ErrorColor)
		eb.SetDescription("🚫 Banned: " + acct.BanReason)
	}
	return eb.Build()
}

func CooldownsHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		active := b.Cooldowns.Active(e.User().ID.String())

		var sb strings.Builder
		for _, k := range games.Kinds {
			if left, ok := active[string(k)]; ok {
				fmt.Fprintf(&sb, "⏳ **%s**: %s\n", k, utils.FormatDuration(left))
			} else {
				fmt.Fprintf(&sb, "✅ **%s**: ready\n", k)
			}
		}
		return utils.EH.CreateInfoEmbed(e, sb.String())
	}
}

func LeaderboardHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := gameContext()
		defer cancel()

		board, err := b.Ledger.Leaderboard(ctx, 0)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		if len(board) == 0 {
			return utils.EH.CreateInfoEmbed(e, "Nobody has played yet.")
		}

		pages := (len(board) + config.LeaderboardPageSize - 1) / config.LeaderboardPageSize
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				embed.SetTitle("🏅 Leaderboard").
					SetColor(config.GoldColor).
					SetDescription(leaderboardPage(board, page, e.User().ID.String())).
					SetFooter(fmt.Sprintf("Page %d/%d • %d players", page+1, pages, len(board)), "")
			},
			Pages:      pages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func leaderboardPage(board []*economy.Account, page int, caller string) string {
	start := page * config.LeaderboardPageSize
	end := min(start+config.LeaderboardPageSize, len(board))

	var sb strings.Builder
	for i, a := range board[start:end] {
		pos := start + i + 1
		marker := ""
		if a.UserID == caller {
			marker = " ⬅️"
		}
		fmt.Fprintf(&sb, "%s <@%s> • **%s** coins%s\n", medal(pos), a.UserID, utils.FormatNumber(a.Balance), marker)
	}
	return sb.String()
}

func medal(pos int) string {
	switch pos {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return fmt.Sprintf("`#%d`", pos)
}

const achievementsPerPage = 6

func AchievementsHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := gameContext()
		defer cancel()

		acct, err := b.Ledger.GetAccount(ctx, e.User().ID.String())
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		progress := achievements.ProgressFor(acct)
		// Completed first, then closest to completion.
		slices.SortStableFunc(progress, func(a, b achievements.Progress) int {
			if a.Completed != b.Completed {
				if a.Completed {
					return -1
				}
				return 1
			}
			switch {
			case a.Percentage > b.Percentage:
				return -1
			case a.Percentage < b.Percentage:
				return 1
			}
			return 0
		})

		earned := len(achievements.Earned(acct))
		pages := (len(progress) + achievementsPerPage - 1) / achievementsPerPage
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * achievementsPerPage
				end := min(start+achievementsPerPage, len(progress))
				embed.SetTitle("🏆 Achievements").
					SetColor(config.PurpleColor).
					SetDescription(fmt.Sprintf("Unlocked **%d** of **%d**", earned, len(progress)))
				for _, p := range progress[start:end] {
					embed.AddField(achievementTitle(p), achievementBody(p), false)
				}
				embed.SetFooter(fmt.Sprintf("Page %d/%d", page+1, pages), "")
			},
			Pages:      pages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func achievementTitle(p achievements.Progress) string {
	status := "🔒"
	if p.Completed {
		status = "✅"
	}
	return fmt.Sprintf("%s %s %s", status, p.Achievement.Icon, p.Achievement.Name)
}

func achievementBody(p achievements.Progress) string {
	body := fmt.Sprintf("%s\n+%d XP", p.Achievement.Description, p.Achievement.XPReward)
	if p.Completed {
		return body
	}
	return fmt.Sprintf("%s\n%s %d/%d", body, utils.ProgressBar(p.Percentage),
		p.Current, p.Achievement.Value)
}
