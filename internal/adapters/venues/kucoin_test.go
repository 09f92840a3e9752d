package venues

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

func TestKuCoinFetchInstruments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/symbols", r.URL.Path)
		w.Write([]byte(`{"code": "200000", "data": [
			{"symbol": "BTC-USDT", "enableTrading": true},
			{"symbol": "DEAD-USDT", "enableTrading": false},
			{"symbol": "XYZ-USDT", "enableTrading": true}
		]}`))
	}))
	defer srv.Close()

	k := NewKuCoin(srv.URL, time.Second)

	instruments, err := k.FetchInstruments(context.Background())
	require.NoError(t, err)
	require.Len(t, instruments, 2)

	assert.Equal(t, "BTC", instruments[0].Symbol)
	assert.Equal(t, "BTC-USDT", instruments[0].Pair)
	assert.Equal(t, "XYZ", instruments[1].Symbol)
}

func TestKuCoinFetchTickerScalesChangeRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "XYZ-USDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"code": "200000", "data": {
			"last": "1.25", "volValue": "98000", "changeRate": "0.0815",
			"high": "1.4", "low": "1.1"
		}}`))
	}))
	defer srv.Close()

	k := NewKuCoin(srv.URL, time.Second)

	ticker, err := k.FetchTicker(context.Background(), "XYZ-USDT")
	require.NoError(t, err)

	assert.Equal(t, 1.25, ticker.Price)
	assert.Equal(t, 98000.0, ticker.Volume24h)
	assert.InDelta(t, 8.15, ticker.ChangePct24h, 1e-9, "changeRate is a fraction, scaled to percent")
}

func TestKuCoinFetchTickerEmptyDataIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code": "200000", "data": {}}`))
	}))
	defer srv.Close()

	k := NewKuCoin(srv.URL, time.Second)

	_, err := k.FetchTicker(context.Background(), "NOPE-USDT")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
