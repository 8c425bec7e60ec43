package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/sahilm/fuzzy"

	"github.com/disgoorg/casino-bot/casinobot"
	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/games/slots"
	"github.com/disgoorg/casino-bot/casinobot/utils"
)

var Help = discord.SlashCommandCreate{
	Name:        "help",
	Description: "📖 How to play and the list of commands",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "game",
			Description: "Show the rules of one game",
		},
	},
}

var Payouts = discord.SlashCommandCreate{
	Name:        "payouts",
	Description: "💵 Slots payout table and roulette bet guide",
}

type gameGuide struct {
	Kind    games.Kind
	Title   string
	Usage   string
	Rules   string
	Aliases []string
}

var guides = []gameGuide{
	{
		Kind:  games.KindBlackjack,
		Title: "🃏 Blackjack",
		Usage: "/blackjack bet:<amount> [hard:true]",
		Rules: "Get closer to 21 than the dealer without going over. Hit to draw, stand to hold. " +
			"The dealer stands on 17. A natural blackjack pays 3 to 2, ties push. Hard mode hides hand totals.",
		Aliases: []string{"bj", "21"},
	},
	{
		Kind:    games.KindCoinflip,
		Title:   "🪙 Coinflip",
		Usage:   "/coinflip bet:<amount> side:<heads|tails>",
		Rules:   "Call the coin. A correct call doubles your bet.",
		Aliases: []string{"flip", "coin", "cf"},
	},
	{
		Kind:  games.KindSlots,
		Title: "🎰 Slots",
		Usage: "/slots bet:<amount>",
		Rules: "Five reels. Three or more of a symbol pays its triple payout, two of a kind pays the pair payout " +
			"when nothing better landed. See /payouts for the table.",
		Aliases: []string{"slot", "spin"},
	},
	{
		Kind:  games.KindRoulette,
		Title: "🎡 Roulette",
		Usage: "/roulette bet:<amount> prediction:<bet>",
		Rules: "American wheel with 0 and 00. Bet on a color, parity, half, dozen, column, a single number, " +
			"a list like 1,5,9 or a range like 1-10. Fewer numbers pay more. See /payouts.",
		Aliases: []string{"wheel", "rl"},
	},
	{
		Kind:  games.KindPoker,
		Title: "♠️ Casino Hold'em",
		Usage: "/poker ante:<amount> [bonus:<amount>] [allin:true]",
		Rules: "Pre-flop you fold or play for twice the ante. After the flop and turn you may bet one ante or check. " +
			"The dealer needs a pair of fours to qualify, otherwise the ante pays even money and the rest push. " +
			"The bonus pays on your own hand from a pair of aces up. All-in skips the betting and doubles payouts.",
		Aliases: []string{"holdem", "hold'em", "texas"},
	},
}

type guideKey struct {
	key   string
	guide int
}

// guideSource indexes every guide name and alias for fuzzy search.
type guideSource []guideKey

func (s guideSource) String(i int) string { return s[i].key }
func (s guideSource) Len() int            { return len(s) }

func newGuideSource() guideSource {
	var src guideSource
	for i, g := range guides {
		src = append(src, guideKey{string(g.Kind), i})
		for _, a := range g.Aliases {
			src = append(src, guideKey{a, i})
		}
	}
	return src
}

var guideIndex = newGuideSource()

// findGuide resolves a loosely typed game name to its guide.
func findGuide(query string) (gameGuide, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return gameGuide{}, false
	}
	if k, ok := games.ParseKind(query); ok {
		for _, g := range guides {
			if g.Kind == k {
				return g, true
			}
		}
	}
	matches := fuzzy.FindFrom(query, guideIndex)
	if len(matches) == 0 {
		return gameGuide{}, false
	}
	return guides[guideIndex[matches[0].Index].guide], true
}

func HelpHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if query, ok := e.SlashCommandInteractionData().OptString("game"); ok {
			g, found := findGuide(query)
			if !found {
				return utils.EH.CreateUserError(e, fmt.Sprintf("No game matches `%s`.", query))
			}
			return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{guideEmbed(b, g)}})
		}
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{helpOverview(b)}})
	}
}

func guideEmbed(b *casinobot.Bot, g gameGuide) discord.Embed {
	cd := b.Cooldowns.Duration(string(g.Kind))
	return discord.NewEmbedBuilder().
		SetTitle(g.Title).
		SetColor(config.InfoColor).
		SetDescription(g.Rules).
		AddField("Usage", "`"+g.Usage+"`", false).
		AddField("Cooldown", utils.FormatDuration(cd), true).
		AddField("XP per Win", utils.FormatNumber(b.Ledger.Settings().XPPerWin[g.Kind]), true).
		SetFooter("Bets accept 100, 2.5k, 50% or all", "").
		Build()
}

func helpOverview(b *casinobot.Bot) discord.Embed {
	var gameList []string
	for _, g := range guides {
		gameList = append(gameList, fmt.Sprintf("`/%s`", g.Kind))
	}
	return discord.NewEmbedBuilder().
		SetTitle("📖 Casino Help").
		SetColor(config.InfoColor).
		SetDescription(fmt.Sprintf("Start with **%s** coins and claim **%s** more every day.",
			utils.FormatNumber(b.Ledger.Settings().StartingBalance), utils.FormatNumber(b.Ledger.Settings().DailyBonus))).
		AddField("🎲 Games", strings.Join(gameList, " • "), false).
		AddField("💰 Economy", "`/balance` • `/daily` • `/profile` • `/leaderboard` • `/cooldowns`", false).
		AddField("🏆 Progress", "`/achievements` • `/payouts`", false).
		SetFooter(fmt.Sprintf("%s • up %s • /help game:<name> for rules",
			b.Version, utils.FormatDuration(time.Since(b.StartedAt))), "").
		Build()
}

func PayoutsHandler(b *casinobot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{
			slotsPayoutEmbed(b.Table.Slots()),
			roulettePayoutEmbed(),
		}})
	}
}

func slotsPayoutEmbed(m *slots.Machine) discord.Embed {
	var sb strings.Builder
	sb.WriteString("```\nSymbol      3+ of a kind   Pair\n")
	for _, s := range m.PayoutTable() {
		fmt.Fprintf(&sb, "%s %-8s %-14s %s\n", s.Emoji, s.Name, slots.FormatMultiplier(s.Three), slots.FormatMultiplier(s.Two))
	}
	sb.WriteString("```")
	return discord.NewEmbedBuilder().
		SetTitle("🎰 Slots Payouts").
		SetColor(config.GoldColor).
		SetDescription(sb.String()).
		SetFooter("Only the best combination pays", "").
		Build()
}

func roulettePayoutEmbed() discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("🎡 Roulette Bets").
		SetColor(config.GoldColor).
		AddField("Even Money (1x)", "`red` `black` `even` `odd` `1-18` `19-36`", false).
		AddField("Dozens and Columns (2x)", "`1st12` `2nd12` `3rd12` `col1` `col2` `col3`", false).
		AddField("Green (17x)", "`green` covers 0 and 00", false).
		AddField("Single Number (35x)", "`0` `00` `1` … `36`", false).
		AddField("Custom", "Lists like `1,5,9` or ranges like `1-10` pay `36/n - 1`", false).
		Build()
}
