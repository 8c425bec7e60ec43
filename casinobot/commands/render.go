package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"

	"github.com/disgoorg/casino-bot/casinobot/achievements"
	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/games/blackjack"
	"github.com/disgoorg/casino-bot/casinobot/games/cards"
	"github.com/disgoorg/casino-bot/casinobot/games/coinflip"
	"github.com/disgoorg/casino-bot/casinobot/games/poker"
	"github.com/disgoorg/casino-bot/casinobot/games/roulette"
	"github.com/disgoorg/casino-bot/casinobot/games/slots"
	"github.com/disgoorg/casino-bot/casinobot/utils"
)

const hiddenCard = "🂠"

func outcomeColor(out games.Outcome) int {
	switch {
	case out.Won:
		return config.SuccessColor
	case out.Pushed:
		return config.InfoColor
	}
	return config.ErrorColor
}

func outcomeHeadline(out games.Outcome) string {
	switch {
	case out.TimedOut:
		return fmt.Sprintf("⏱️ Timed out. You forfeited **%s** coins.", utils.FormatNumber(out.Loss))
	case out.Pushed:
		return "🤝 Push. Your bet is returned."
	case out.Net() > 0:
		return fmt.Sprintf("🎉 You won **%s** coins!", utils.FormatNumber(out.Net()))
	case out.Net() == 0:
		return "😐 You broke even."
	}
	return fmt.Sprintf("💸 You lost **%s** coins.", utils.FormatNumber(-out.Net()))
}

// addSettlement appends the result, new balance and any unlocks.
func addSettlement(eb *discord.EmbedBuilder, s *settlement) {
	eb.AddField("Result", outcomeHeadline(s.Outcome), false)
	eb.AddField("Balance", fmt.Sprintf("💰 %s (%s)", utils.FormatNumber(s.Account.Balance), utils.FormatSigned(s.Outcome.Net())), true)
	if len(s.Unlocked) > 0 {
		eb.AddField("🏆 Achievements Unlocked", achievementLines(s.Unlocked), false)
	}
	eb.SetColor(outcomeColor(s.Outcome))
}

func achievementLines(as []achievements.Achievement) string {
	var sb strings.Builder
	for _, a := range as {
		fmt.Fprintf(&sb, "%s **%s** (+%d XP)\n", a.Icon, a.Name, a.XPReward)
	}
	return sb.String()
}

func handLine(h cards.Hand, value int, show bool) string {
	if show {
		return fmt.Sprintf("%s\n**Value:** %d", h, value)
	}
	return h.String()
}

func blackjackEmbed(g *blackjack.Game, s *settlement) discord.Embed {
	eb := discord.NewEmbedBuilder().
		SetTitle("🃏 Blackjack").
		SetColor(config.GoldColor).
		SetFooter(fmt.Sprintf("Bet: %s • Mode: %s", utils.FormatNumber(g.Bet()), g.Mode()), "")

	player := g.PlayerHand()
	eb.AddField("Your Hand", handLine(player, blackjack.BestValue(player), g.ShowValues()), true)
	if g.Done() {
		dealer := g.DealerHand()
		eb.AddField("Dealer's Hand", handLine(dealer, blackjack.BestValue(dealer), g.ShowValues()), true)
	} else {
		up := g.DealerUpcard()
		eb.AddField("Dealer's Hand", handLine(cards.Hand{up}, up.BlackjackValue(), g.ShowValues())+" "+hiddenCard, true)
	}

	if s != nil {
		if r, ok := s.Outcome.Meta["result"].(string); ok {
			eb.SetDescription(blackjackResultText(r))
		}
		addSettlement(eb, s)
	} else {
		eb.SetDescription("Hit or stand?")
	}
	return eb.Build()
}

func blackjackResultText(result string) string {
	switch result {
	case "blackjack":
		return "**Blackjack!** Pays 3 to 2."
	case "dealer_blackjack":
		return "The dealer has blackjack."
	case "bust":
		return "**Bust!** You went over 21."
	case "dealer_bust":
		return "The dealer busts!"
	case "win":
		return "You beat the dealer."
	case "lose":
		return "The dealer wins."
	case "push":
		return "It's a tie."
	case "timeout":
		return "The hand was abandoned."
	}
	return ""
}

func blackjackButtons(sessionID string) []discord.ContainerComponent {
	return []discord.ContainerComponent{
		discord.NewActionRow(
			discord.NewPrimaryButton("Hit", fmt.Sprintf("/bj/%s/%s", games.ActionHit, sessionID)),
			discord.NewSecondaryButton("Stand", fmt.Sprintf("/bj/%s/%s", games.ActionStand, sessionID)),
		),
	}
}

func pokerEmbed(g *poker.Game, s *settlement) discord.Embed {
	eb := discord.NewEmbedBuilder().
		SetTitle("♠️ Casino Hold'em").
		SetColor(config.PurpleColor).
		SetFooter(fmt.Sprintf("Ante: %s • Bonus: %s • Total bet: %s",
			utils.FormatNumber(g.Ante()), utils.FormatNumber(g.Bonus()), utils.FormatNumber(g.TotalBet())), "")

	eb.AddField("Your Hand", g.PlayerHole().String(), true)
	board := g.Board()
	if s != nil && g.State() == poker.Showdown {
		eb.AddField("Dealer's Hand", g.DealerHole().String(), true)
	} else {
		eb.AddField("Dealer's Hand", hiddenCard+" "+hiddenCard, true)
	}
	boardText := board.String()
	for range 5 - len(board) {
		boardText = strings.TrimSpace(boardText + " " + hiddenCard)
	}
	eb.AddField("Board", boardText, false)

	if s == nil {
		eb.SetDescription(fmt.Sprintf("**%s**. Choose your move.", g.State()))
		return eb.Build()
	}

	meta := s.Outcome.Meta
	if pd, ok := meta["player_desc"].(string); ok {
		eb.AddField("Showdown", fmt.Sprintf("You: %s\nDealer: %s", pd, meta["dealer_desc"]), false)
	}
	var lines []string
	if r, ok := meta["ante_result"].(string); ok {
		lines = append(lines, "Ante: "+r)
	}
	if r, ok := meta["bonus_result"].(string); ok && r != "" {
		lines = append(lines, "Bonus: "+r)
	}
	if f, ok := meta["payout_factor"].(int64); ok && f > 1 {
		lines = append(lines, fmt.Sprintf("All-in: payouts x%d", f))
	}
	eb.SetDescription(strings.Join(lines, " • "))
	addSettlement(eb, s)
	return eb.Build()
}

func pokerButtons(g *poker.Game, sessionID string) []discord.ContainerComponent {
	var buttons []discord.InteractiveComponent
	id := func(a games.Action) string { return fmt.Sprintf("/poker/%s/%s", a, sessionID) }
	if g.Legal(games.ActionPlay) {
		buttons = append(buttons, discord.NewSuccessButton(fmt.Sprintf("Play (%s)", utils.FormatNumber(2*g.Ante())), id(games.ActionPlay)))
	}
	if g.Legal(games.ActionBet) {
		buttons = append(buttons, discord.NewSuccessButton(fmt.Sprintf("Bet (%s)", utils.FormatNumber(g.Ante())), id(games.ActionBet)))
	}
	if g.Legal(games.ActionCheck) {
		buttons = append(buttons, discord.NewSecondaryButton("Check", id(games.ActionCheck)))
	}
	if g.Legal(games.ActionFold) {
		buttons = append(buttons, discord.NewDangerButton("Fold", id(games.ActionFold)))
	}
	return []discord.ContainerComponent{discord.NewActionRow(buttons...)}
}

func coinflipEmbed(s *settlement) discord.Embed {
	result, _ := s.Outcome.Meta["result"].(coinflip.Side)
	pick, _ := s.Outcome.Meta["prediction"].(coinflip.Side)
	eb := discord.NewEmbedBuilder().
		SetTitle("🪙 Coinflip").
		SetDescription(fmt.Sprintf("You called **%s**. The coin landed on %s **%s**.", pick, result.Emoji(), result))
	addSettlement(eb, s)
	return eb.Build()
}

func slotsEmbed(s *settlement) discord.Embed {
	reels, _ := s.Outcome.Meta["reels"].([]slots.Symbol)
	result, _ := s.Outcome.Meta["result"].(string)
	eb := discord.NewEmbedBuilder().
		SetTitle("🎰 Slots").
		SetDescription(fmt.Sprintf("**[ %s ]**\n\n%s", slots.Render(reels), result))
	if m, ok := s.Outcome.Meta["match"].(slots.Match); ok {
		eb.AddField("Payout", fmt.Sprintf("%s %s x%d", m.Symbol.Emoji, m.Symbol.Name, m.Count), true)
	}
	addSettlement(eb, s)
	return eb.Build()
}

func rouletteEmbed(s *settlement, prediction string) discord.Embed {
	n, _ := s.Outcome.Meta["result"].(int)
	mult, _ := s.Outcome.Meta["multiplier"].(int64)
	eb := discord.NewEmbedBuilder().
		SetTitle("🎡 Roulette").
		SetDescription(fmt.Sprintf("The ball lands on %s **%s**.", roulette.ColorEmoji(n), roulette.FormatNumber(n))).
		AddField("Your Bet", fmt.Sprintf("`%s` (pays %dx)", prediction, mult), true)
	addSettlement(eb, s)
	return eb.Build()
}
