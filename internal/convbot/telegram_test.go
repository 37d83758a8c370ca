package convbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/nbrbbot/core/telegram"
	"github.com/m3rciful/nbrbbot/core/telegram/state"
	"github.com/m3rciful/nbrbbot/internal/currency"
)

type sentMessage struct {
	text string
	opts *tele.SendOptions
}

type fakeContext struct {
	tele.Context
	text  string
	store map[string]any
	sent  []sentMessage
}

func newFakeContext(text string) *fakeContext {
	return &fakeContext{text: text, store: make(map[string]any)}
}

func (f *fakeContext) Update() tele.Update   { return tele.Update{ID: 7} }
func (f *fakeContext) Sender() *tele.User    { return &tele.User{ID: userID} }
func (f *fakeContext) Chat() *tele.Chat      { return &tele.Chat{ID: userID} }
func (f *fakeContext) Text() string          { return f.text }
func (f *fakeContext) Get(key string) any    { return f.store[key] }
func (f *fakeContext) Set(key string, v any) { f.store[key] = v }

func (f *fakeContext) Send(what any, opts ...any) error {
	msg := sentMessage{text: what.(string)}
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok {
			msg.opts = so
		}
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestHandleUpdateConversation(t *testing.T) {
	h := newHarness(t, state.NewMemoryBackend())

	tap := newFakeContext(ConvertLabel(currency.RUBToUSD))
	require.NoError(t, h.d.HandleUpdate(tap))
	require.Len(t, tap.sent, 1)
	assert.Equal(t, "Введите сумму в *RUB*:", tap.sent[0].text)
	assert.Equal(t, tele.ModeMarkdown, tap.sent[0].opts.ParseMode)
	assert.Nil(t, tap.sent[0].opts.ReplyMarkup)

	amount := newFakeContext("1000,50")
	require.NoError(t, h.d.HandleUpdate(amount))
	require.Len(t, amount.sent, 1)
	assert.Contains(t, amount.sent[0].text, "*9.69 USD*")
	require.NotNil(t, amount.sent[0].opts.ReplyMarkup)
	assert.NotEmpty(t, amount.sent[0].opts.ReplyMarkup.ReplyKeyboard)
}

func TestUseMenuAnswersMedia(t *testing.T) {
	c := newFakeContext("")
	require.NoError(t, UseMenu(c))
	require.Len(t, c.sent, 1)
	assert.Equal(t, textUseMenu, c.sent[0].text)
	assert.Empty(t, c.sent[0].opts.ParseMode)
	assert.NotNil(t, c.sent[0].opts.ReplyMarkup)
}

func TestRegisterWiresCommandsAndFallback(t *testing.T) {
	h := newHarness(t, state.NewMemoryBackend())
	reg := tg.NewRegistry()
	h.d.Register(reg)

	for _, name := range []string{CmdStart, CmdHelp, CmdID} {
		_, _, ok := reg.LookupCommand(name)
		assert.True(t, ok, name)
	}
	assert.NotNil(t, reg.TextFallback())
	assert.Len(t, reg.ListCommands(), 3)
}

func TestTooFastKeepsPending(t *testing.T) {
	h := newHarness(t, state.NewMemoryBackend())
	h.send("💱 USD → BYN")

	c := newFakeContext("100")
	require.NoError(t, TooFast(c))
	require.Len(t, c.sent, 1)
	assert.Equal(t, textTooFast, c.sent[0].text)

	assert.Contains(t, h.send("100").Text, "BYN*")
}
