// Package nbrb fetches official exchange rates from the National Bank of the
// Republic of Belarus.
package nbrb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/m3rciful/nbrbbot/core/logger"
	"github.com/m3rciful/nbrbbot/internal/currency"
)

var (
	// ErrRateUnavailable covers every failure to obtain a usable rate.
	ErrRateUnavailable = errors.New("nbrb: rate unavailable")
	// ErrUnsupportedCurrency is returned for codes the client never fetches.
	ErrUnsupportedCurrency = errors.New("nbrb: unsupported currency")
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://www.nbrb.by/api"
	// DefaultTimeout bounds one rate request.
	DefaultTimeout = 10 * time.Second

	ratePath = "/exrates/rates/{code}"
	// dateLayout is how the API renders Date, without a zone.
	dateLayout = "2006-01-02T15:04:05"
)

var fetchable = map[currency.Code]struct{}{
	currency.USD: {},
	currency.RUB: {},
}

// rateResponse mirrors the JSON returned by /exrates/rates/{code}?parammode=2.
type rateResponse struct {
	CurID           int              `json:"Cur_ID"`
	Date            string           `json:"Date"`
	CurAbbreviation string           `json:"Cur_Abbreviation"`
	CurScale        int              `json:"Cur_Scale"`
	CurName         string           `json:"Cur_Name"`
	CurOfficialRate *decimal.Decimal `json:"Cur_OfficialRate"`
}

// Client talks to the NBRB rates API. It never retries.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for baseURL. Zero values fall back to the defaults.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return &Client{http: rc}
}

// FetchRate returns today's official rate for code.
func (c *Client) FetchRate(ctx context.Context, code currency.Code) (currency.RateRecord, error) {
	code = currency.Code(strings.ToUpper(strings.TrimSpace(string(code))))
	if _, ok := fetchable[code]; !ok {
		return currency.RateRecord{}, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}

	start := time.Now()
	rec, httpCode, err := c.fetch(ctx, code)
	took := logger.Took(start)
	if err != nil {
		logger.LogEvent(ctx, logger.Rates, slog.LevelWarn, "rate.fetch",
			slog.String("status", "fail"),
			slog.String("currency", string(code)),
			slog.Int("http_code", httpCode),
			slog.Duration("duration", took),
			slog.String("err", err.Error()),
		)
		return currency.RateRecord{}, fmt.Errorf("%w: %s: %w", ErrRateUnavailable, code, err)
	}

	logger.LogEvent(ctx, logger.Rates, slog.LevelDebug, "rate.fetch",
		slog.String("status", "ok"),
		slog.String("currency", string(code)),
		slog.String("rate", rec.OfficialRate.String()),
		slog.Int("scale", rec.Scale),
		slog.Duration("duration", took),
	)
	return rec, nil
}

func (c *Client) fetch(ctx context.Context, code currency.Code) (currency.RateRecord, int, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("code", string(code)).
		SetQueryParam("parammode", "2").
		Get(ratePath)
	if err != nil {
		return currency.RateRecord{}, 0, err
	}
	if resp.StatusCode() != http.StatusOK {
		return currency.RateRecord{}, resp.StatusCode(), fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	var body rateResponse
	if err := sonic.Unmarshal(resp.Body(), &body); err != nil {
		return currency.RateRecord{}, resp.StatusCode(), fmt.Errorf("decode body: %w", err)
	}
	rec, err := body.record(code)
	return rec, resp.StatusCode(), err
}

func (r rateResponse) record(requested currency.Code) (currency.RateRecord, error) {
	if r.CurOfficialRate == nil || !r.CurOfficialRate.IsPositive() {
		return currency.RateRecord{}, errors.New("missing or non-positive Cur_OfficialRate")
	}
	if r.CurScale < 1 {
		return currency.RateRecord{}, fmt.Errorf("invalid Cur_Scale %d", r.CurScale)
	}
	if r.CurAbbreviation != "" && !strings.EqualFold(r.CurAbbreviation, string(requested)) {
		return currency.RateRecord{}, fmt.Errorf("response for %s, want %s", r.CurAbbreviation, requested)
	}
	rec := currency.RateRecord{
		Code:         requested,
		OfficialRate: *r.CurOfficialRate,
		Scale:        r.CurScale,
	}
	if d, err := time.Parse(dateLayout, r.Date); err == nil {
		rec.Date = d
	}
	return rec, nil
}
