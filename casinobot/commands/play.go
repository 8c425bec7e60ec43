package commands

import (
	"context"
	"fmt"

	"github.com/disgoorg/casino-bot/casinobot"
	"github.com/disgoorg/casino-bot/casinobot/achievements"
	"github.com/disgoorg/casino-bot/casinobot/economy"
	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/games/table"
	"github.com/disgoorg/casino-bot/casinobot/logger"
	"github.com/disgoorg/casino-bot/casinobot/utils"
)

// playRequest is a game start as typed by the player, before the bet is resolved.
type playRequest struct {
	Kind       games.Kind
	Bet        string
	Bonus      string
	Prediction string
	Mode       games.Mode
}

// settlement is a finished game after the ledger has applied it.
type settlement struct {
	Outcome  games.Outcome
	Account  *economy.Account
	Unlocked []achievements.Achievement
}

// resolveBet turns typed amounts into a bet the player can cover.
func resolveBet(req playRequest, balance int64) (games.Bet, error) {
	amount, err := utils.ParseBetAmount(req.Bet, balance)
	if err != nil {
		return games.Bet{}, err
	}
	if err = utils.ValidateBet(amount, balance); err != nil {
		return games.Bet{}, err
	}

	var bonus int64
	if req.Bonus != "" {
		if bonus, err = utils.ParseBetAmount(req.Bonus, balance-amount); err != nil {
			return games.Bet{}, err
		}
		if bonus < 0 {
			return games.Bet{}, fmt.Errorf("bonus must not be negative: %w", games.ErrInvalidBet)
		}
	}
	if amount+bonus > balance {
		return games.Bet{}, fmt.Errorf("bet of %s with bonus %s: %w",
			utils.FormatNumber(amount), utils.FormatNumber(bonus), economy.ErrInsufficientFunds)
	}
	return games.Bet{Amount: amount, Bonus: bonus, Prediction: req.Prediction}, nil
}

// available is the balance not already staked on the player's live hand.
func available(b *casinobot.Bot, acct *economy.Account) int64 {
	balance := acct.Balance
	if s := b.Table.ActiveFor(acct.UserID); s != nil {
		balance -= s.Bet.Total()
	}
	return max(balance, 0)
}

// startGame runs the checks every game shares and hands the bet to the table. Final
// outcomes are settled before returning.
func startGame(ctx context.Context, b *casinobot.Bot, userID string, req playRequest) (*table.Result, *settlement, error) {
	acct, err := b.Ledger.GetAccount(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if acct.Banned {
		return nil, nil, economy.ErrBanned
	}
	if err = b.Cooldowns.Check(userID, string(req.Kind)); err != nil {
		return nil, nil, err
	}

	bet, err := resolveBet(req, available(b, acct))
	if err != nil {
		return nil, nil, err
	}

	res, err := b.Table.Start(ctx, table.StartRequest{
		Kind:   req.Kind,
		UserID: userID,
		Bet:    bet,
		Mode:   req.Mode,
	})
	if err != nil {
		return nil, nil, err
	}
	if !res.Final() {
		return res, nil, nil
	}

	s, err := settle(ctx, b, userID, *res.Outcome)
	if err != nil {
		return nil, nil, err
	}
	return res, s, nil
}

// settle applies a final outcome, grants any unlocked achievements and starts the cooldown.
func settle(ctx context.Context, b *casinobot.Bot, userID string, out games.Outcome) (*settlement, error) {
	acct, err := b.Ledger.Settle(ctx, userID, out)
	if err != nil {
		return nil, fmt.Errorf("failed to settle %s: %w", out.Kind, err)
	}
	b.Cooldowns.Start(userID, string(out.Kind), 0)

	s := &settlement{Outcome: out, Account: acct}
	if unlocked := achievements.CheckNewUnlocks(acct, &out); len(unlocked) > 0 {
		granted, err := b.Ledger.GrantAchievements(ctx, userID, achievements.Grants(unlocked))
		if err != nil {
			logger.LogError("Failed to grant achievements", err, "user_id", userID)
		}
		for _, g := range granted {
			if a, ok := achievements.Get(g.ID); ok {
				s.Unlocked = append(s.Unlocked, a)
			}
		}
	}

	logger.LogGame(userID, string(out.Kind), out.String(), out.Net(),
		"balance", acct.Balance,
		"achievements", len(s.Unlocked))
	return s, nil
}
