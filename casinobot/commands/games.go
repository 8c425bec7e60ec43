package commands

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/disgoorg/casino-bot/casinobot"
	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/games/blackjack"
	"github.com/disgoorg/casino-bot/casinobot/games/poker"
	"github.com/disgoorg/casino-bot/casinobot/games/table"
	"github.com/disgoorg/casino-bot/casinobot/utils"
)

var betOption = discord.ApplicationCommandOptionString{
	Name:        "bet",
	Description: "Amount to bet: 100, 2.5k, 50%, all",
	Required:    true,
}

var Blackjack = discord.SlashCommandCreate{
	Name:        "blackjack",
	Description: "🃏 Play blackjack against the dealer",
	Options: []discord.ApplicationCommandOption{
		betOption,
		discord.ApplicationCommandOptionBool{
			Name:        "hard",
			Description: "Hide hand totals",
		},
	},
}

var Coinflip = discord.SlashCommandCreate{
	Name:        "coinflip",
	Description: "🪙 Call heads or tails for double or nothing",
	Options: []discord.ApplicationCommandOption{
		betOption,
		discord.ApplicationCommandOptionString{
			Name:        "side",
			Description: "Heads or tails",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Heads", Value: "heads"},
				{Name: "Tails", Value: "tails"},
			},
		},
	},
}

var Slots = discord.SlashCommandCreate{
	Name:        "slots",
	Description: "🎰 Spin the five reel slot machine",
	Options:     []discord.ApplicationCommandOption{betOption},
}

var Roulette = discord.SlashCommandCreate{
	Name:        "roulette",
	Description: "🎡 Bet on the American roulette wheel",
	Options: []discord.ApplicationCommandOption{
		betOption,
		discord.ApplicationCommandOptionString{
			Name:        "prediction",
			Description: "red, black, even, 1-18, 1st12, col2, 00, 7, 1,5,9 or 1-10",
			Required:    true,
		},
	},
}

var Poker = discord.SlashCommandCreate{
	Name:        "poker",
	Description: "♠️ Play Casino Hold'em against the dealer",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "ante",
			Description: "Ante amount: 100, 2.5k, 50%, all",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "bonus",
			Description: "Optional bonus side bet paid on your own hand",
		},
		discord.ApplicationCommandOptionBool{
			Name:        "allin",
			Description: "Skip all betting rounds for double payouts",
		},
	},
}

func gameContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
}

func BlackjackHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		req := playRequest{Kind: games.KindBlackjack, Bet: data.String("bet")}
		if data.Bool("hard") {
			req.Mode = games.ModeHard
		}
		return playInteractive(b, e, req)
	}
}

func PokerHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		req := playRequest{Kind: games.KindPoker, Bet: data.String("ante"), Bonus: data.String("bonus")}
		if data.Bool("allin") {
			req.Mode = games.ModeAllIn
		}
		return playInteractive(b, e, req)
	}
}

// playInteractive starts blackjack or poker and either shows the final hand or the
// live table with its buttons.
func playInteractive(b *casinobot.Bot, e *handler.CommandEvent, req playRequest) error {
	ctx, cancel := gameContext()
	defer cancel()

	userID := e.User().ID.String()
	res, s, err := startGame(ctx, b, userID, req)
	if err != nil {
		return utils.EH.HandleError(e, err)
	}

	if res.Final() {
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{finalEmbed(res, s)}})
	}

	sess := res.Session
	embed, components := liveView(sess)
	if err = e.CreateMessage(discord.MessageCreate{
		Embeds:     []discord.Embed{embed},
		Components: components,
	}); err != nil {
		return err
	}

	msg, err := e.GetInteractionResponse()
	if err != nil {
		slog.Warn("Could not fetch game message, timeouts will not update it",
			slog.String("type", "game"),
			slog.String("session", sess.ID),
			slog.Any("error", err))
		return nil
	}
	sess.SetMessage(msg.ChannelID, msg.ID)
	return nil
}

// finalEmbed renders a game that resolved on the deal: naturals and all-in poker.
func finalEmbed(res *table.Result, s *settlement) discord.Embed {
	switch g := res.Game.(type) {
	case *blackjack.Game:
		return blackjackEmbed(g, s)
	case *poker.Game:
		return pokerEmbed(g, s)
	}
	return discord.NewEmbedBuilder().SetTitle(string(s.Outcome.Kind)).Build()
}

func liveView(sess *table.Session) (discord.Embed, []discord.ContainerComponent) {
	if g, ok := sess.Blackjack(); ok {
		return blackjackEmbed(g, nil), blackjackButtons(sess.ID)
	}
	g, _ := sess.Poker()
	return pokerEmbed(g, nil), pokerButtons(g, sess.ID)
}

// GameActionHandler drives a live blackjack or poker hand from its buttons.
func GameActionHandler(b *casinobot.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		action := games.Action(e.Vars["action"])
		sess, out, err := b.Table.Apply(e.Vars["session"], e.User().ID.String(), action)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		if out == nil {
			embed, components := liveView(sess)
			return e.UpdateMessage(discord.MessageUpdate{
				Embeds:     &[]discord.Embed{embed},
				Components: &components,
			})
		}

		ctx, cancel := gameContext()
		defer cancel()
		s, err := settle(ctx, b, sess.UserID, *out)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		return e.UpdateMessage(discord.MessageUpdate{
			Embeds:     &[]discord.Embed{finalEmbed(&table.Result{Outcome: out, Game: sess.Game}, s)},
			Components: &[]discord.ContainerComponent{},
		})
	}
}

// SessionTimeoutHandler settles hands abandoned past the idle limit and closes their message.
func SessionTimeoutHandler(b *casinobot.Bot) func(*table.Session, games.Outcome) {
	return func(sess *table.Session, out games.Outcome) {
		ctx, cancel := gameContext()
		defer cancel()

		s, err := settle(ctx, b, sess.UserID, out)
		if err != nil {
			slog.Error("Failed to settle timed out game",
				slog.String("type", "game"),
				slog.String("session", sess.ID),
				slog.String("user_id", sess.UserID),
				slog.Any("error", err))
			return
		}

		channelID, messageID := sess.Message()
		if channelID == 0 || b.Client == nil {
			return
		}
		embed := finalEmbed(&table.Result{Outcome: &out, Game: sess.Game}, s)
		if _, err = b.Client.Rest().UpdateMessage(channelID, messageID, discord.MessageUpdate{
			Embeds:     &[]discord.Embed{embed},
			Components: &[]discord.ContainerComponent{},
		}); err != nil {
			slog.Warn("Failed to update timed out game message",
				slog.String("type", "game"),
				slog.String("session", sess.ID),
				slog.Any("error", err))
		}
	}
}

func CoinflipHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		s, err := playPure(b, e.User().ID.String(), playRequest{
			Kind:       games.KindCoinflip,
			Bet:        data.String("bet"),
			Prediction: data.String("side"),
		})
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{coinflipEmbed(s)}})
	}
}

func SlotsHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		s, err := playPure(b, e.User().ID.String(), playRequest{
			Kind: games.KindSlots,
			Bet:  e.SlashCommandInteractionData().String("bet"),
		})
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{slotsEmbed(s)}})
	}
}

func RouletteHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		prediction := data.String("prediction")
		s, err := playPure(b, e.User().ID.String(), playRequest{
			Kind:       games.KindRoulette,
			Bet:        data.String("bet"),
			Prediction: prediction,
		})
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{rouletteEmbed(s, prediction)}})
	}
}

func playPure(b *casinobot.Bot, userID string, req playRequest) (*settlement, error) {
	ctx, cancel := gameContext()
	defer cancel()
	_, s, err := startGame(ctx, b, userID, req)
	return s, err
}
