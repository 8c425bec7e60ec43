package commands

import (
	"github.com/disgoorg/disgo/discord"

	"github.com/disgoorg/casino-bot/casinobot/commands/admin"
)

var Commands = []discord.ApplicationCommandCreate{
	Blackjack,
	Coinflip,
	Slots,
	Roulette,
	Poker,
	Balance,
	Daily,
	Profile,
	Cooldowns,
	Leaderboard,
	Achievements,
	Help,
	Payouts,
}

func init() {
	Commands = append(Commands, admin.Commands...)
}
