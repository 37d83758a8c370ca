package convbot

import (
	"strings"

	"github.com/m3rciful/nbrbbot/core/telegram/keyboard"
	"github.com/m3rciful/nbrbbot/internal/currency"
)

// ActionKind tells the dispatcher what a menu button does.
type ActionKind int

const (
	// ActionConvert starts an amount prompt for Pair.
	ActionConvert ActionKind = iota + 1
	// ActionRates shows today's official rates.
	ActionRates
	// ActionAbout shows the about text.
	ActionAbout
)

// Action is the meaning of a menu button.
type Action struct {
	Kind ActionKind
	Pair currency.Pair
}

type menuItem struct {
	Label  string
	Action Action
	// Wide items take a whole keyboard row.
	Wide bool
}

const (
	labelRates = "📊 Курсы валют"
	labelAbout = "ℹ️ О боте"
)

// menuItems is the single source for both the keyboard and label classification.
var menuItems = buildMenu()

func buildMenu() []menuItem {
	items := make([]menuItem, 0, 8)
	for _, p := range currency.SupportedPairs() {
		items = append(items, menuItem{
			Label:  ConvertLabel(p),
			Action: Action{Kind: ActionConvert, Pair: p},
		})
	}
	return append(items,
		menuItem{Label: labelRates, Action: Action{Kind: ActionRates}, Wide: true},
		menuItem{Label: labelAbout, Action: Action{Kind: ActionAbout}, Wide: true},
	)
}

// ConvertLabel is the button text for a conversion pair.
func ConvertLabel(p currency.Pair) string {
	return "💱 " + string(p.From) + " → " + string(p.To)
}

// MenuRows lays the menu out for a reply keyboard: conversions two per row,
// wide items one per row.
func MenuRows() [][]string {
	var pairs, wide []string
	for _, it := range menuItems {
		if it.Wide {
			wide = append(wide, it.Label)
		} else {
			pairs = append(pairs, it.Label)
		}
	}
	return append(keyboard.Chunk(pairs, 2), keyboard.Chunk(wide, 1)...)
}

// lookupAction matches text against the menu labels, with or without the leading emoji.
func lookupAction(text string) (Action, bool) {
	for _, it := range menuItems {
		if text == it.Label {
			return it.Action, true
		}
		if _, bare, ok := strings.Cut(it.Label, " "); ok && text == bare {
			return it.Action, true
		}
	}
	return Action{}, false
}
