package convbot

import "strings"

// Kind is the class of an inbound message.
type Kind int

const (
	// KindFreeText is anything that is neither a known command nor a menu label.
	KindFreeText Kind = iota
	// KindCommand is one of the known slash commands.
	KindCommand
	// KindMenu is a menu button tap.
	KindMenu
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindMenu:
		return "menu"
	default:
		return "free_text"
	}
}

// Known commands.
const (
	CmdStart = "/start"
	CmdHelp  = "/help"
	CmdID    = "/id"
)

var knownCommands = map[string]struct{}{
	CmdStart: {},
	CmdHelp:  {},
	CmdID:    {},
}

// Input is a classified inbound message.
type Input struct {
	Kind    Kind
	Command string
	Action  Action
	Text    string
}

// Classify decides once per message whether it is a command, a menu action or free text.
func Classify(text string) Input {
	trimmed := strings.TrimSpace(text)
	in := Input{Kind: KindFreeText, Text: trimmed}

	if cmd, ok := parseCommand(trimmed); ok {
		in.Kind, in.Command = KindCommand, cmd
		return in
	}
	if act, ok := lookupAction(trimmed); ok {
		in.Kind, in.Action = KindMenu, act
	}
	return in
}

// parseCommand strips the @botname suffix and arguments from a slash command.
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	head := strings.Fields(text)[0]
	head, _, _ = strings.Cut(head, "@")
	head = strings.ToLower(head)
	if _, ok := knownCommands[head]; !ok {
		return "", false
	}
	return head, true
}
