// Package currency holds the currency codes, directional pairs and rate records
// shared by the rate client, the conversion engine and the bot.
package currency

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Code is an ISO 4217 alphabetic currency code.
type Code string

// Supported currencies. BYN is the anchor every official rate is quoted against.
const (
	BYN Code = "BYN"
	USD Code = "USD"
	RUB Code = "RUB"
)

// Pair is a directional conversion from one currency to another.
type Pair struct {
	From Code
	To   Code
}

// String renders the pair as FROM_TO.
func (p Pair) String() string {
	return string(p.From) + "_" + string(p.To)
}

// Supported pairs in menu order.
var (
	BYNToUSD = Pair{From: BYN, To: USD}
	USDToBYN = Pair{From: USD, To: BYN}
	RUBToUSD = Pair{From: RUB, To: USD}
	USDToRUB = Pair{From: USD, To: RUB}
	RUBToBYN = Pair{From: RUB, To: BYN}
	BYNToRUB = Pair{From: BYN, To: RUB}
)

var supportedPairs = []Pair{BYNToUSD, USDToBYN, RUBToUSD, USDToRUB, RUBToBYN, BYNToRUB}

// SupportedPairs returns a copy of the supported pairs.
func SupportedPairs() []Pair {
	return append([]Pair(nil), supportedPairs...)
}

// Supported reports whether p is one of the supported pairs.
func (p Pair) Supported() bool {
	for _, sp := range supportedPairs {
		if sp == p {
			return true
		}
	}
	return false
}

// ParsePair parses FROM_TO into a supported Pair.
func ParsePair(s string) (Pair, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), "_")
	if !ok {
		return Pair{}, fmt.Errorf("invalid pair %q", s)
	}
	p := Pair{From: Code(strings.ToUpper(from)), To: Code(strings.ToUpper(to))}
	if !p.Supported() {
		return Pair{}, fmt.Errorf("unsupported pair %q", s)
	}
	return p, nil
}

// RateRecord is an official rate: OfficialRate BYN for Scale units of Code.
type RateRecord struct {
	Code         Code
	OfficialRate decimal.Decimal
	Scale        int
	Date         time.Time
}

// UnitRate returns BYN per single unit of the currency.
func (r RateRecord) UnitRate() decimal.Decimal {
	if r.Scale <= 1 {
		return r.OfficialRate
	}
	return r.OfficialRate.Div(decimal.NewFromInt(int64(r.Scale)))
}

// Valid reports whether the record can be used for conversion.
func (r RateRecord) Valid() bool {
	return r.OfficialRate.IsPositive() && r.Scale >= 1
}
