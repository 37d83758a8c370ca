package convbot

import (
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/nbrbbot/core/telegram"
	"github.com/m3rciful/nbrbbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/nbrbbot/core/telegram/helpers"
	"github.com/m3rciful/nbrbbot/core/telegram/keyboard"
)

// MenuMarkup builds the main reply keyboard.
func MenuMarkup() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(MenuRows()...)
}

// Register wires the bot commands and the text fallback into reg.
// Every entry point goes through HandleUpdate, which classifies the message itself.
func (d *Dispatcher) Register(reg *tg.Registry) {
	reg.RegisterCommand(CmdStart, commands.Command{Handler: d.HandleUpdate, Description: "Главное меню"})
	reg.RegisterCommand(CmdHelp, commands.Command{Handler: d.HandleUpdate, Description: "Помощь"})
	reg.RegisterCommand(CmdID, commands.Command{Handler: d.HandleUpdate, Description: "Ваш Telegram ID"})
	reg.SetTextFallback(d.HandleUpdate)
}

// HandleUpdate adapts a telebot update to Handle and sends the reply.
func (d *Dispatcher) HandleUpdate(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return SendReply(c, d.Handle(ctx, inboundFrom(c)))
}

// SendReply delivers r through the outbound sender.
func SendReply(c tele.Context, r Reply) error {
	var markup *tele.ReplyMarkup
	if r.Menu {
		markup = MenuMarkup()
	}
	if r.Markdown {
		return tghelpers.SendMD(c, r.Text, markup)
	}
	return tghelpers.SendText(c, r.Text, &tele.SendOptions{ReplyMarkup: markup})
}

// UseMenu answers non-text messages with the menu prompt.
func UseMenu(c tele.Context) error {
	return SendReply(c, Reply{Text: textUseMenu, Menu: true})
}

// TooFast answers updates dropped by the rate limiter. The pending state is kept,
// so the user can resend the same amount.
func TooFast(c tele.Context) error {
	return SendReply(c, Reply{Text: textTooFast})
}

func inboundFrom(c tele.Context) Inbound {
	msg := Inbound{UpdateID: c.Update().ID, Text: c.Text()}
	if u := c.Sender(); u != nil {
		msg.UserID = u.ID
	}
	if ch := c.Chat(); ch != nil {
		msg.ChatID = ch.ID
	}
	return msg
}
