// Package convbot implements the conversion bot conversation: message
// classification, per-user pending state and replies.
package convbot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m3rciful/nbrbbot/core/logger"
	"github.com/m3rciful/nbrbbot/internal/conversion"
	"github.com/m3rciful/nbrbbot/internal/currency"
)

// RateSource fetches one official rate.
type RateSource interface {
	FetchRate(ctx context.Context, code currency.Code) (currency.RateRecord, error)
}

// Converter computes a conversion from fetched rates.
type Converter func(conversion.Request, conversion.Rates) (conversion.Result, error)

// Inbound is a transport-neutral incoming text message.
type Inbound struct {
	UpdateID int
	UserID   int64
	ChatID   int64
	Text     string
}

// Reply is the single outbound message produced for an Inbound.
type Reply struct {
	Text     string
	Markdown bool
	// Menu asks the transport to attach the main menu keyboard.
	Menu bool
}

// ratesBoard lists the currencies shown by the rates menu action.
var ratesBoard = []currency.Code{currency.USD, currency.RUB}

// Dispatcher routes classified messages through the pending-state machine.
type Dispatcher struct {
	pending *PendingStore
	rates   RateSource
	convert Converter
	now     func() time.Time
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithConverter replaces conversion.Convert.
func WithConverter(fn Converter) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.convert = fn
		}
	}
}

// WithClock replaces time.Now for the rates date.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDispatcher builds a dispatcher over the given pending store and rate source.
func NewDispatcher(pending *PendingStore, rates RateSource, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		pending: pending,
		rates:   rates,
		convert: conversion.Convert,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Outcome statuses recorded on dispatch.done.
const (
	statusOK       = "ok"
	statusSkip     = "skip"
	statusReject   = "reject"
	statusDegraded = "degraded"
	statusFail     = "fail"
)

// Handle processes one message and returns exactly one reply.
func (d *Dispatcher) Handle(ctx context.Context, msg Inbound) Reply {
	in := Classify(msg.Text)
	start := time.Now()

	reply, status := d.route(ctx, msg, in)

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("input", in.Kind.String()),
		slog.Duration("duration", logger.Took(start)),
	}
	switch in.Kind {
	case KindCommand:
		attrs = append(attrs, slog.String("action", in.Command))
	case KindMenu:
		attrs = append(attrs, slog.String("action", actionName(in.Action)))
	}
	logger.Debug(ctx, "convbot", "dispatch.done", attrs...)
	return reply
}

func (d *Dispatcher) route(ctx context.Context, msg Inbound, in Input) (Reply, string) {
	switch in.Kind {
	case KindCommand:
		return d.handleCommand(ctx, msg, in.Command)
	case KindMenu:
		return d.handleMenu(ctx, msg, in.Action)
	default:
		return d.handleFreeText(ctx, msg, in.Text)
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, msg Inbound, cmd string) (Reply, string) {
	switch cmd {
	case CmdStart:
		if err := d.pending.Clear(ctx, msg.UserID); err != nil {
			return storeFailure(ctx, "start", err), statusFail
		}
		return Reply{Text: textGreeting, Menu: true}, statusOK
	case CmdHelp:
		return Reply{Text: textHelp}, statusOK
	case CmdID:
		return Reply{Text: textID(msg.UserID), Markdown: true}, statusOK
	}
	return Reply{Text: textUseMenu, Menu: true}, statusSkip
}

func (d *Dispatcher) handleMenu(ctx context.Context, msg Inbound, act Action) (Reply, string) {
	switch act.Kind {
	case ActionConvert:
		prev, had, err := d.pending.PeekPending(ctx, msg.UserID)
		if err != nil {
			return storeFailure(ctx, "peek_pending", err), statusFail
		}
		if err := d.pending.SetPending(ctx, msg.UserID, act.Pair); err != nil {
			return storeFailure(ctx, "set_pending", err), statusFail
		}
		if had && prev != act.Pair {
			logger.Info(ctx, "convbot", "pending.replaced",
				slog.String("status", "ok"),
				slog.String("from", prev.String()),
				slog.String("pair", act.Pair.String()),
			)
		}
		return Reply{Text: promptAmount(act.Pair.From), Markdown: true}, statusOK
	case ActionRates:
		recs, missing := d.fetchAll(ctx, ratesBoard)
		status := statusOK
		if len(missing) > 0 {
			status = statusDegraded
		}
		return Reply{Text: ratesText(d.now(), ratesBoard, recs), Markdown: true}, status
	case ActionAbout:
		return Reply{Text: textAbout}, statusOK
	}
	return Reply{Text: textUseMenu, Menu: true}, statusSkip
}

func (d *Dispatcher) handleFreeText(ctx context.Context, msg Inbound, text string) (Reply, string) {
	// Consumed before validation so a bad amount never leaves a stale state behind.
	pair, ok, err := d.pending.TakePending(ctx, msg.UserID)
	if err != nil {
		return storeFailure(ctx, "take_pending", err), statusFail
	}
	if !ok {
		return Reply{Text: textUseMenu, Menu: true}, statusSkip
	}

	amount, err := conversion.ParseAmount(text)
	if err != nil {
		logger.Info(ctx, "convbot", "conversion.invalid",
			slog.String("status", statusReject),
			slog.String("pair", pair.String()),
			slog.String("input", logger.SanitizeLimit(text, 64)),
		)
		return Reply{Text: textBadInput}, statusReject
	}

	required := conversion.Required(pair)
	recs, missing := d.fetchAll(ctx, required)
	if len(missing) > 0 {
		lines := make([]string, 0, len(missing))
		for _, code := range missing {
			lines = append(lines, rateUnavailable(code))
		}
		return Reply{Text: strings.Join(lines, "\n"), Menu: true}, statusFail
	}

	rates := make(conversion.Rates, len(recs))
	for code, rec := range recs {
		rates[code] = *rec
	}
	res, err := d.convert(conversion.Request{Amount: amount, Pair: pair}, rates)
	if err != nil {
		logger.Error(ctx, "convbot", "conversion.fail",
			slog.String("status", statusFail),
			slog.String("pair", pair.String()),
			slog.String("err", err.Error()),
		)
		return Reply{Text: textFailure, Menu: true}, statusFail
	}

	logger.Info(ctx, "convbot", "conversion.done",
		slog.String("status", statusOK),
		slog.String("pair", pair.String()),
		slog.String("amount", amount.String()),
		slog.String("result", conversion.FormatAmount(res.Converted)),
	)
	return Reply{Text: res.Text(), Markdown: true, Menu: true}, statusOK
}

// fetchAll fetches codes concurrently. A failed fetch leaves a nil record and
// adds the code to missing, in the order of codes.
func (d *Dispatcher) fetchAll(ctx context.Context, codes []currency.Code) (map[currency.Code]*currency.RateRecord, []currency.Code) {
	slots := make([]*currency.RateRecord, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	for i, code := range codes {
		i, code := i, code
		g.Go(func() error {
			rec, err := d.rates.FetchRate(gctx, code)
			if err != nil {
				return nil
			}
			slots[i] = &rec
			return nil
		})
	}
	_ = g.Wait()

	recs := make(map[currency.Code]*currency.RateRecord, len(codes))
	var missing []currency.Code
	for i, code := range codes {
		recs[code] = slots[i]
		if slots[i] == nil {
			missing = append(missing, code)
		}
	}
	return recs, missing
}

func storeFailure(ctx context.Context, op string, err error) Reply {
	logger.Error(ctx, "convbot", "state.fail",
		slog.String("status", statusFail),
		slog.String("action", op),
		slog.String("err", err.Error()),
	)
	return Reply{Text: textFailure, Menu: true}
}

func actionName(a Action) string {
	switch a.Kind {
	case ActionConvert:
		return "convert." + a.Pair.String()
	case ActionRates:
		return "rates"
	case ActionAbout:
		return "about"
	}
	return "unknown"
}
