package admin

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/disgoorg/casino-bot/casinobot"
	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/utils"
)

var User = discord.SlashCommandCreate{
	Name:        "admin-user",
	Description: "🔎 Inspect a player's account",
	Options:     []discord.ApplicationCommandOption{userOption, userIDOption},
}

var Balance = discord.SlashCommandCreate{
	Name:        "admin-balance",
	Description: "➕ Add or remove coins from a player",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "Coins to add, negative to remove",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Why the balance is adjusted",
			Required:    true,
		},
		userOption,
		userIDOption,
	},
}

var Set = discord.SlashCommandCreate{
	Name:        "admin-set",
	Description: "✏️ Set a player's balance",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "New balance",
			Required:    true,
			MinValue:    &[]int{0}[0],
		},
		userOption,
		userIDOption,
	},
}

var Ban = discord.SlashCommandCreate{
	Name:        "admin-ban",
	Description: "🚫 Ban a player from the casino",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Reason shown on the player's profile",
			Required:    true,
		},
		userOption,
		userIDOption,
	},
}

var Unban = discord.SlashCommandCreate{
	Name:        "admin-unban",
	Description: "✅ Lift a casino ban",
	Options:     []discord.ApplicationCommandOption{userOption, userIDOption},
}

var Reset = discord.SlashCommandCreate{
	Name:        "admin-reset",
	Description: "♻️ Wipe a player's account back to the starting balance",
	Options:     []discord.ApplicationCommandOption{userOption, userIDOption},
}

func UserHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		id, err := target(e)
		if err != nil {
			return utils.EH.CreateUserError(e, err.Error())
		}
		ctx, cancel := adminContext()
		defer cancel()

		acct, err := b.Ledger.GetAccount(ctx, id.String())
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		status := "Active"
		if acct.Banned {
			status = fmt.Sprintf("Banned <t:%d:R>: %s", acct.BannedAt.Unix(), acct.BanReason)
		}
		session := "None"
		if s := b.Table.ActiveFor(acct.UserID); s != nil {
			session = fmt.Sprintf("%s `%s` bet %s", s.Kind, s.ID, utils.FormatNumber(s.Bet.Total()))
		}

		var cooldowns []string
		for action, left := range b.Cooldowns.Active(acct.UserID) {
			cooldowns = append(cooldowns, fmt.Sprintf("%s %s", action, utils.FormatDuration(left)))
		}
		if len(cooldowns) == 0 {
			cooldowns = append(cooldowns, "None")
		}

		embed := discord.NewEmbedBuilder().
			SetTitle("🔎 Account").
			SetDescription(fmt.Sprintf("<@%s> `%s`", acct.UserID, acct.UserID)).
			SetColor(config.InfoColor).
			AddField("Balance", utils.FormatNumber(acct.Balance), true).
			AddField("XP", utils.FormatNumber(acct.XP), true).
			AddField("Net", utils.FormatSigned(acct.NetProfit()), true).
			AddField("Games", fmt.Sprintf("%d played, %d won", acct.GamesPlayed, acct.GamesWon), true).
			AddField("Daily Streak", fmt.Sprintf("%d", acct.DailyStreak), true).
			AddField("Achievements", fmt.Sprintf("%d", len(acct.Achievements)), true).
			AddField("Status", status, false).
			AddField("Live Game", session, false).
			AddField("Cooldowns", strings.Join(cooldowns, ", "), false).
			SetFooter(fmt.Sprintf("Created %s • last active %s",
				acct.CreatedAt.Format("2006-01-02"), acct.LastActive.Format("2006-01-02 15:04")), "").
			Build()
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}, Flags: discord.MessageFlagEphemeral})
	}
}

func BalanceHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		id, err := target(e)
		if err != nil {
			return utils.EH.CreateUserError(e, err.Error())
		}
		data := e.SlashCommandInteractionData()
		amount := int64(data.Int("amount"))
		reason := data.String("reason")
		if amount == 0 {
			return utils.EH.CreateUserError(e, "Amount must not be zero.")
		}

		ctx, cancel := adminContext()
		defer cancel()

		var balance int64
		if amount > 0 {
			balance, err = b.Ledger.Credit(ctx, id.String(), amount)
		} else {
			balance, err = b.Ledger.Debit(ctx, id.String(), -amount)
		}
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		audit(e, "balance", id, slog.Int64("amount", amount), slog.String("reason", reason))
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Adjusted <@%s> by **%s** (%s). New balance: **%s**",
			id, utils.FormatSigned(amount), reason, utils.FormatNumber(balance)))
	}
}

func SetHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		id, err := target(e)
		if err != nil {
			return utils.EH.CreateUserError(e, err.Error())
		}
		amount := int64(e.SlashCommandInteractionData().Int("amount"))

		ctx, cancel := adminContext()
		defer cancel()

		balance, err := b.Ledger.SetBalance(ctx, id.String(), amount)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		audit(e, "set", id, slog.Int64("amount", amount))
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Set <@%s>'s balance to **%s**", id, utils.FormatNumber(balance)))
	}
}

func BanHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		id, err := target(e)
		if err != nil {
			return utils.EH.CreateUserError(e, err.Error())
		}
		reason := e.SlashCommandInteractionData().String("reason")

		ctx, cancel := adminContext()
		defer cancel()

		if _, err = b.Ledger.SetBanned(ctx, id.String(), true, reason); err != nil {
			return utils.EH.HandleError(e, err)
		}
		audit(e, "ban", id, slog.String("reason", reason))
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Banned <@%s>: %s", id, reason))
	}
}

func UnbanHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		id, err := target(e)
		if err != nil {
			return utils.EH.CreateUserError(e, err.Error())
		}
		ctx, cancel := adminContext()
		defer cancel()

		acct, err := b.Ledger.GetAccount(ctx, id.String())
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		if !acct.Banned {
			return utils.EH.CreateBusinessLogicError(e, fmt.Sprintf("<@%s> is not banned.", id))
		}
		if _, err = b.Ledger.SetBanned(ctx, id.String(), false, ""); err != nil {
			return utils.EH.HandleError(e, err)
		}
		audit(e, "unban", id)
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Unbanned <@%s>", id))
	}
}

func ResetHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		id, err := target(e)
		if err != nil {
			return utils.EH.CreateUserError(e, err.Error())
		}
		if s := b.Table.ActiveFor(id.String()); s != nil {
			return utils.EH.CreateBusinessLogicError(e, fmt.Sprintf("<@%s> is in the middle of a %s game.", id, s.Kind))
		}

		ctx, cancel := adminContext()
		defer cancel()

		acct, err := b.Ledger.Reset(ctx, id.String())
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		b.Cooldowns.ClearUser(id.String())
		audit(e, "reset", id)
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Reset <@%s> to **%s** coins", id, utils.FormatNumber(acct.Balance)))
	}
}
