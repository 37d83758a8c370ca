package convbot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/nbrbbot/core/telegram/state"
	"github.com/m3rciful/nbrbbot/internal/currency"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Input
	}{
		{"/start", Input{Kind: KindCommand, Command: CmdStart, Text: "/start"}},
		{"/HELP@NbrbBot extra", Input{Kind: KindCommand, Command: CmdHelp, Text: "/HELP@NbrbBot extra"}},
		{" /id ", Input{Kind: KindCommand, Command: CmdID, Text: "/id"}},
		{"/convert", Input{Kind: KindFreeText, Text: "/convert"}},
		{"💱 BYN → USD", Input{Kind: KindMenu, Action: Action{Kind: ActionConvert, Pair: currency.BYNToUSD}, Text: "💱 BYN → USD"}},
		{"BYN → RUB", Input{Kind: KindMenu, Action: Action{Kind: ActionConvert, Pair: currency.BYNToRUB}, Text: "BYN → RUB"}},
		{"📊 Курсы валют", Input{Kind: KindMenu, Action: Action{Kind: ActionRates}, Text: "📊 Курсы валют"}},
		{"Курсы валют", Input{Kind: KindMenu, Action: Action{Kind: ActionRates}, Text: "Курсы валют"}},
		{"ℹ️ О боте", Input{Kind: KindMenu, Action: Action{Kind: ActionAbout}, Text: "ℹ️ О боте"}},
		{"100,5", Input{Kind: KindFreeText, Text: "100,5"}},
		{"", Input{Kind: KindFreeText}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.text), tt.text)
	}
}

func TestMenuRows(t *testing.T) {
	assert.Equal(t, [][]string{
		{"💱 BYN → USD", "💱 USD → BYN"},
		{"💱 RUB → USD", "💱 USD → RUB"},
		{"💱 RUB → BYN", "💱 BYN → RUB"},
		{"📊 Курсы валют"},
		{"ℹ️ О боте"},
	}, MenuRows())
}

func TestMenuMarkup(t *testing.T) {
	m := MenuMarkup()
	require.Len(t, m.ReplyKeyboard, 5)
	assert.True(t, m.ResizeKeyboard)
	assert.Equal(t, "💱 RUB → USD", m.ReplyKeyboard[1][0].Text)
	assert.Equal(t, "ℹ️ О боте", m.ReplyKeyboard[4][0].Text)
}

func TestPendingStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := state.NewStore(state.NewMemoryBackend())
	require.NoError(t, err)
	p := NewPendingStore(store)

	require.NoError(t, p.SetPending(ctx, 1, currency.USDToRUB))
	st, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, state.State("awaiting_amount:USD_RUB"), st)

	pair, ok, err := p.TakePending(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, currency.USDToRUB, pair)

	_, ok, err = p.TakePending(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPendingStorePeekKeepsState(t *testing.T) {
	ctx := context.Background()
	store, err := state.NewStore(state.NewMemoryBackend())
	require.NoError(t, err)
	p := NewPendingStore(store)

	_, ok, err := p.PeekPending(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.SetPending(ctx, 1, currency.RUBToBYN))
	for i := 0; i < 2; i++ {
		pair, ok, err := p.PeekPending(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, currency.RUBToBYN, pair)
	}

	require.NoError(t, store.Set(ctx, 1, "something_else"))
	_, ok, err = p.PeekPending(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPendingStoreIgnoresForeignStates(t *testing.T) {
	ctx := context.Background()
	store, err := state.NewStore(state.NewMemoryBackend())
	require.NoError(t, err)
	p := NewPendingStore(store)

	for _, raw := range []state.State{"something_else", "awaiting_amount:EUR_BYN"} {
		require.NoError(t, store.Set(ctx, 1, raw))
		_, ok, err := p.TakePending(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok, raw)

		got, err := store.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, state.StateIdle, got)
	}
}
