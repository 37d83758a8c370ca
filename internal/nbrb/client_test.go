package nbrb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/nbrbbot/internal/currency"
)

func newServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "2", r.URL.Query().Get("parammode"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchRateRUB(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"Cur_ID":456,"Date":"2025-03-14T00:00:00","Cur_Abbreviation":"RUB","Cur_Scale":100,"Cur_Name":"Российских рублей","Cur_OfficialRate":3.5712}`))
	}))
	defer srv.Close()

	rec, err := NewClient(srv.URL+"/", time.Second).FetchRate(context.Background(), "rub")
	require.NoError(t, err)

	assert.Equal(t, "/exrates/rates/RUB", path)
	assert.Equal(t, currency.RUB, rec.Code)
	assert.Equal(t, 100, rec.Scale)
	assert.True(t, rec.OfficialRate.Equal(decimal.RequireFromString("3.5712")))
	assert.True(t, rec.UnitRate().Equal(decimal.RequireFromString("0.035712")))
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), rec.Date)
}

func TestFetchRateFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "not found", status: http.StatusNotFound, body: `{}`},
		{name: "not json", status: http.StatusOK, body: `<html>`},
		{name: "missing rate", status: http.StatusOK, body: `{"Cur_Abbreviation":"USD","Cur_Scale":1}`},
		{name: "zero rate", status: http.StatusOK, body: `{"Cur_Abbreviation":"USD","Cur_Scale":1,"Cur_OfficialRate":0}`},
		{name: "negative rate", status: http.StatusOK, body: `{"Cur_Abbreviation":"USD","Cur_Scale":1,"Cur_OfficialRate":-3.2}`},
		{name: "zero scale", status: http.StatusOK, body: `{"Cur_Abbreviation":"USD","Cur_Scale":0,"Cur_OfficialRate":3.2}`},
		{name: "other currency", status: http.StatusOK, body: `{"Cur_Abbreviation":"EUR","Cur_Scale":1,"Cur_OfficialRate":3.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := newServer(t, tt.status, tt.body)

			_, err := NewClient(srv.URL, time.Second).FetchRate(context.Background(), currency.USD)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRateUnavailable)
			assert.Equal(t, int32(1), hits.Load(), "no retries expected")
		})
	}
}

func TestFetchRateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 50*time.Millisecond).FetchRate(context.Background(), currency.USD)
	assert.ErrorIs(t, err, ErrRateUnavailable)
}

func TestFetchRateUnsupportedSkipsNetwork(t *testing.T) {
	srv, hits := newServer(t, http.StatusOK, `{}`)
	c := NewClient(srv.URL, time.Second)

	for _, code := range []currency.Code{currency.BYN, "EUR", ""} {
		_, err := c.FetchRate(context.Background(), code)
		assert.ErrorIs(t, err, ErrUnsupportedCurrency)
		assert.NotErrorIs(t, err, ErrRateUnavailable)
	}
	assert.Equal(t, int32(0), hits.Load())
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", 0)
	assert.Equal(t, DefaultBaseURL, c.http.BaseURL)
	assert.Equal(t, DefaultTimeout, c.http.GetClient().Timeout)
}
