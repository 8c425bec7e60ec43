package utils

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"

	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/economy"
	"github.com/disgoorg/casino-bot/casinobot/economy/cooldown"
	"github.com/disgoorg/casino-bot/casinobot/games"
	"github.com/disgoorg/casino-bot/casinobot/games/table"
)

// ResponseHandler provides standardized response methods for commands and components.
type ResponseHandler struct{}

var EH = &ResponseHandler{}

type ErrorType int

const (
	// UserError covers bad input and validation failures.
	UserError ErrorType = iota
	// SystemError covers database, network and internal failures.
	SystemError
	NotFoundError
	PermissionError
	// BusinessLogicError covers cooldowns, insufficient funds and game rule violations.
	BusinessLogicError
)

type messageCreator interface {
	CreateMessage(messageCreate discord.MessageCreate, opts ...rest.RequestOpt) error
}

func errorPrefix(t ErrorType) string {
	switch t {
	case UserError:
		return "⚠️"
	case SystemError:
		return "🔧"
	case NotFoundError:
		return "🔍"
	case PermissionError:
		return "🚫"
	case BusinessLogicError:
		return "⏰"
	}
	return "❌"
}

func errorColor(t ErrorType) int {
	switch t {
	case UserError, BusinessLogicError:
		return config.WarningColor
	case NotFoundError:
		return config.InfoColor
	}
	return config.ErrorColor
}

// Classify maps a domain error to the category shown to the player.
func Classify(err error) ErrorType {
	switch {
	case errors.Is(err, games.ErrInvalidBet),
		errors.Is(err, ErrUnparseableBet),
		errors.Is(err, ErrBetTooSmall),
		errors.Is(err, economy.ErrInvalidAmount):
		return UserError
	case errors.Is(err, economy.ErrInsufficientFunds),
		errors.Is(err, games.ErrActionNotLegal),
		errors.Is(err, table.ErrGameInProgress),
		errors.Is(err, cooldown.ErrOnCooldown),
		errors.Is(err, table.ErrDecisionInFlight):
		return BusinessLogicError
	case errors.Is(err, economy.ErrBanned),
		errors.Is(err, table.ErrNotSessionOwner):
		return PermissionError
	case errors.Is(err, economy.ErrAccountNotFound),
		errors.Is(err, table.ErrSessionNotFound):
		return NotFoundError
	}
	return SystemError
}

// Describe is the player facing text for an error. System errors never leak details.
func Describe(err error) string {
	switch {
	case errors.Is(err, table.ErrSessionNotFound):
		return "This game has already ended."
	case errors.Is(err, table.ErrNotSessionOwner):
		return "This isn't your game."
	case errors.Is(err, table.ErrDecisionInFlight):
		return "Hold on, your last move is still being processed."
	case errors.Is(err, table.ErrGameInProgress):
		return "Finish your current game first."
	case errors.Is(err, economy.ErrBanned):
		return "You are banned from the casino."
	case errors.Is(err, economy.ErrInsufficientFunds):
		return "You don't have enough coins."
	}
	if Classify(err) == SystemError {
		return "Something went wrong. Please try again later."
	}
	return capitalize(err.Error())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

func (h *ResponseHandler) CreateSuccessEmbed(e messageCreator, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{Description: message, Color: config.SuccessColor}},
	})
}

func (h *ResponseHandler) CreateInfoEmbed(e messageCreator, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{Description: message, Color: config.InfoColor}},
	})
}

// CreateClassifiedError replies with an embed for commands and an ephemeral message for components.
func (h *ResponseHandler) CreateClassifiedError(e messageCreator, t ErrorType, message string) error {
	text := errorPrefix(t) + " " + message
	if _, ok := e.(*handler.ComponentEvent); ok {
		return e.CreateMessage(discord.MessageCreate{
			Content: text,
			Flags:   discord.MessageFlagEphemeral,
		})
	}
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{Description: text, Color: errorColor(t)}},
		Flags:  discord.MessageFlagEphemeral,
	})
}

func (h *ResponseHandler) CreateUserError(e messageCreator, message string) error {
	return h.CreateClassifiedError(e, UserError, message)
}

func (h *ResponseHandler) CreateSystemError(e messageCreator, message string) error {
	return h.CreateClassifiedError(e, SystemError, message)
}

func (h *ResponseHandler) CreateBusinessLogicError(e messageCreator, message string) error {
	return h.CreateClassifiedError(e, BusinessLogicError, message)
}

func (h *ResponseHandler) CreatePermissionError(e messageCreator, action string) error {
	return h.CreateClassifiedError(e, PermissionError, fmt.Sprintf("You don't have permission to %s", action))
}

// HandleError classifies err and replies with its player facing text.
func (h *ResponseHandler) HandleError(e messageCreator, err error) error {
	return h.CreateClassifiedError(e, Classify(err), Describe(err))
}
