package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePair(t *testing.T) {
	for _, p := range SupportedPairs() {
		got, err := ParsePair(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParsePair(" rub_usd ")
	require.NoError(t, err)
	assert.Equal(t, RUBToUSD, got)

	for _, bad := range []string{"", "BYN", "USD_USD", "EUR_BYN", "BYN-USD"} {
		_, err := ParsePair(bad)
		assert.Error(t, err, bad)
	}
}

func TestRateRecordUnitRate(t *testing.T) {
	rub := RateRecord{Code: RUB, OfficialRate: decimal.RequireFromString("3.1000"), Scale: 100}
	assert.True(t, rub.UnitRate().Equal(decimal.RequireFromString("0.031")))
	assert.True(t, rub.Valid())

	usd := RateRecord{Code: USD, OfficialRate: decimal.RequireFromString("3.2"), Scale: 1}
	assert.True(t, usd.UnitRate().Equal(decimal.RequireFromString("3.2")))

	assert.False(t, RateRecord{Code: USD, OfficialRate: decimal.Zero, Scale: 1}.Valid())
	assert.False(t, RateRecord{Code: USD, OfficialRate: decimal.NewFromInt(1), Scale: 0}.Valid())
}
