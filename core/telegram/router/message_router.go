package router

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/nbrbbot/core/telegram"
)

// TextOptions controls fallbacks for updates that carry no text.
type TextOptions struct {
	// UnknownMedia answers photos, documents and stickers.
	UnknownMedia tele.HandlerFunc
}

// TextRoutes routes plain text: a registered command first, then the registry
// text fallback. Text with neither is logged and ignored.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	text := func(c tele.Context) error {
		if reg != nil {
			if strings.HasPrefix(c.Text(), "/") {
				if key, cmd, ok := reg.LookupCommand(c.Text()); ok {
					return handleWithSummary(c, normalizeHandlerName(key), func() error { return cmd.Handler(c) })
				}
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "text", func() error { return fb(c) })
			}
		}
		return handleWithSummary(c, "unhandled_text", func() error { return nil })
	}

	routes := []tg.Route{{Endpoint: tele.OnText, Handler: text}}
	if opts.UnknownMedia != nil {
		media := func(c tele.Context) error {
			return handleWithSummary(c, "unexpected_media", func() error { return opts.UnknownMedia(c) })
		}
		for _, ep := range []string{tele.OnPhoto, tele.OnDocument, tele.OnSticker} {
			routes = append(routes, tg.Route{Endpoint: ep, Handler: media})
		}
	}
	return routes
}
