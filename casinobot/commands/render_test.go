package commands

import (
	"strings"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/economy"
	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/games/coinflip"
)

func TestBlackjackButtonsRouteToSession(t *testing.T) {
	rows := blackjackButtons("abc123")
	require.Len(t, rows, 1)

	row, ok := rows[0].(discord.ActionRowComponent)
	require.True(t, ok)

	var ids []string
	for _, c := range row.Components() {
		if btn, ok := c.(discord.ButtonComponent); ok {
			ids = append(ids, btn.CustomID)
		}
	}
	assert.Equal(t, []string{"/bj/hit/abc123", "/bj/stand/abc123"}, ids)
}

func TestOutcomeHeadline(t *testing.T) {
	tests := []struct {
		out  games.Outcome
		want string
	}{
		{games.Outcome{Won: true, Winnings: 1500}, "won **1,500**"},
		{games.Outcome{Loss: 200}, "lost **200**"},
		{games.Outcome{Pushed: true}, "Push"},
		{games.Outcome{TimedOut: true, Loss: 300}, "forfeited **300**"},
		{games.Outcome{Winnings: 100, Loss: 100}, "broke even"},
	}
	for _, tt := range tests {
		assert.Contains(t, outcomeHeadline(tt.out), tt.want)
	}
}

func TestOutcomeColor(t *testing.T) {
	assert.Equal(t, config.SuccessColor, outcomeColor(games.Outcome{Won: true}))
	assert.Equal(t, config.InfoColor, outcomeColor(games.Outcome{Pushed: true}))
	assert.Equal(t, config.ErrorColor, outcomeColor(games.Outcome{}))
}

func TestCoinflipEmbed(t *testing.T) {
	s := &settlement{
		Outcome: games.Outcome{
			Kind:     games.KindCoinflip,
			Won:      true,
			Winnings: 250,
			Meta:     map[string]any{"prediction": coinflip.Heads, "result": coinflip.Heads},
		},
		Account: &economy.Account{Balance: 1250},
	}
	embed := coinflipEmbed(s)
	assert.Contains(t, embed.Description, "heads")
	require.NotEmpty(t, embed.Fields)
	assert.Contains(t, embed.Fields[0].Value, "250")
}

func TestLeaderboardPage(t *testing.T) {
	var board []*economy.Account
	for i := 0; i < 12; i++ {
		board = append(board, &economy.Account{UserID: string(rune('a' + i)), Balance: int64(1000 - i)})
	}

	first := leaderboardPage(board, 0, "b")
	assert.Equal(t, config.LeaderboardPageSize, strings.Count(first, "\n"))
	assert.Contains(t, first, "🥇 <@a>")
	assert.Contains(t, first, "<@b> • **999** coins ⬅️")

	second := leaderboardPage(board, 1, "b")
	assert.Equal(t, 2, strings.Count(second, "\n"))
	assert.Contains(t, second, "`#11`")
}

func TestFindGuide(t *testing.T) {
	tests := map[string]games.Kind{
		"blackjack": games.KindBlackjack,
		"BJ":        games.KindBlackjack,
		"holdem":    games.KindPoker,
		"rlette":    games.KindRoulette,
		"slot":      games.KindSlots,
		"flip":      games.KindCoinflip,
	}
	for query, want := range tests {
		g, ok := findGuide(query)
		if assert.True(t, ok, query) {
			assert.Equal(t, want, g.Kind, query)
		}
	}

	_, ok := findGuide("")
	assert.False(t, ok)
	_, ok = findGuide("zzzz")
	assert.False(t, ok)
}
