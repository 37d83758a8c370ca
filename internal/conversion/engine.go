// Package conversion converts amounts between BYN, USD and RUB using official
// rates quoted against BYN. It performs no I/O.
package conversion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/nbrbbot/internal/currency"
)

var (
	// ErrMissingRate is returned when a rate required by the pair is absent.
	ErrMissingRate = errors.New("conversion: missing rate")
	// ErrInvalidAmount is returned for amounts that are not strictly positive.
	ErrInvalidAmount = errors.New("conversion: amount must be positive")
	// ErrUnsupportedPair is returned for pairs outside the supported set.
	ErrUnsupportedPair = errors.New("conversion: unsupported pair")
)

const (
	amountPlaces = 2
	ratePlaces   = 4
)

// Rates maps a currency code to its fetched rate record.
type Rates map[currency.Code]currency.RateRecord

// Request asks to convert Amount along Pair.
type Request struct {
	Amount decimal.Decimal
	Pair   currency.Pair
}

// Result is a computed conversion. Converted keeps full precision.
type Result struct {
	Pair      currency.Pair
	Amount    decimal.Decimal
	Converted decimal.Decimal
	Lines     []string
}

// Required lists the currencies whose rates must be fetched for p.
func Required(p currency.Pair) []currency.Code {
	var out []currency.Code
	for _, c := range []currency.Code{p.From, p.To} {
		if c != currency.BYN {
			out = append(out, c)
		}
	}
	if len(out) == 2 && out[0] == currency.RUB {
		out[0], out[1] = out[1], out[0]
	}
	return out
}

// Convert computes req against rates.
func Convert(req Request, rates Rates) (Result, error) {
	if !req.Pair.Supported() {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedPair, req.Pair)
	}
	if !req.Amount.IsPositive() {
		return Result{}, ErrInvalidAmount
	}

	units := make(map[currency.Code]decimal.Decimal, 3)
	units[currency.BYN] = decimal.NewFromInt(1)
	for _, code := range Required(req.Pair) {
		rec, ok := rates[code]
		if !ok || !rec.Valid() {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingRate, code)
		}
		units[code] = rec.UnitRate()
	}

	from, to := units[req.Pair.From], units[req.Pair.To]
	converted := req.Amount.Mul(from).Div(to)

	return Result{
		Pair:      req.Pair,
		Amount:    req.Amount,
		Converted: converted,
		Lines:     explain(req.Pair, units),
	}, nil
}

func explain(p currency.Pair, units map[currency.Code]decimal.Decimal) []string {
	usd, rub := units[currency.USD], units[currency.RUB]
	switch p {
	case currency.BYNToUSD, currency.USDToBYN:
		return []string{fmt.Sprintf("Курс: 1 USD = %s BYN", FormatRate(usd))}
	case currency.RUBToBYN:
		return []string{fmt.Sprintf("Курс: 1 RUB = %s BYN", FormatRate(rub))}
	case currency.BYNToRUB:
		inverse := decimal.NewFromInt(1).Div(rub)
		return []string{fmt.Sprintf("Курс: 1 RUB = %s BYN → 1 BYN = %s RUB", FormatRate(rub), FormatRate(inverse))}
	default:
		return []string{
			fmt.Sprintf("• 1 USD = %s BYN", FormatRate(usd)),
			fmt.Sprintf("• 1 RUB = %s BYN", FormatRate(rub)),
		}
	}
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(amountPlaces)
}

// FormatRate renders a rate with four decimals.
func FormatRate(d decimal.Decimal) string {
	return d.StringFixed(ratePlaces)
}

// Text renders the result as a Markdown message.
func (r Result) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "💱 *%s %s* = *%s %s*",
		FormatAmount(r.Amount), r.Pair.From, FormatAmount(r.Converted), r.Pair.To)
	for _, line := range r.Lines {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String()
}
