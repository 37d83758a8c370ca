package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command is a slash command with its handler and the description shown in the Telegram menu.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
}
