package middleware

import (
	"log/slog"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/nbrbbot/core/logger"
	tghelpers "github.com/m3rciful/nbrbbot/core/telegram/helpers"
)

const dedupWindow = 10 * time.Second

// updateSeen remembers recently logged update ids so a chain applied on
// several branches logs each update once.
type updateSeen struct {
	mu   sync.Mutex
	seen map[int]time.Time
}

var recent = &updateSeen{seen: make(map[int]time.Time)}

func (u *updateSeen) firstTime(updateID int, now time.Time) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for id, ts := range u.seen {
		if now.Sub(ts) > dedupWindow {
			delete(u.seen, id)
		}
	}
	if _, ok := u.seen[updateID]; ok {
		return false
	}
	u.seen[updateID] = now
	return true
}

// LoggerMiddleware sets the request id and logs one receipt line per update.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		var chatID, userID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		user := c.Sender()
		if user != nil {
			userID = user.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set(tghelpers.RIDKey, rid)
		ctx := tghelpers.BuildContext(c)

		if logger.ShouldSampleDebug() && recent.firstTime(upd.ID, time.Now()) {
			attrs := []slog.Attr{slog.String("status", "ok")}
			if user != nil && user.LanguageCode != "" {
				attrs = append(attrs, slog.String("lang", user.LanguageCode))
			}
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
			}
			logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "update.received", attrs...)
		}
		return next(c)
	}
}
