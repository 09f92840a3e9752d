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

func TestGateIOFetchInstruments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/spot/currency_pairs", r.URL.Path)
		w.Write([]byte(`[
			{"id": "BTC_USDT", "base": "BTC", "quote": "USDT", "trade_status": "tradable"},
			{"id": "OLD_USDT", "base": "OLD", "quote": "USDT", "trade_status": "untradable"},
			{"id": "TURTLE_USDT", "base": "TURTLE", "quote": "USDT", "trade_status": "tradable"}
		]`))
	}))
	defer srv.Close()

	g := NewGateIO(srv.URL, time.Second)

	instruments, err := g.FetchInstruments(context.Background())
	require.NoError(t, err)
	require.Len(t, instruments, 2, "untradable pairs are excluded")

	assert.Equal(t, VenueGateIO, instruments[0].Venue)
	assert.Equal(t, "BTC_USDT", instruments[0].Pair)
	assert.Equal(t, "BTC", instruments[0].Symbol)
	assert.Equal(t, "TURTLE", instruments[1].Symbol)
}

func TestGateIOFetchTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "TURTLE_USDT", r.URL.Query().Get("currency_pair"))
		w.Write([]byte(`[{
			"currency_pair": "TURTLE_USDT",
			"last": "0.025",
			"quote_volume": "150000.5",
			"change_percentage": "12.3",
			"high_24h": "0.03",
			"low_24h": "0.02"
		}]`))
	}))
	defer srv.Close()

	g := NewGateIO(srv.URL, time.Second)

	ticker, err := g.FetchTicker(context.Background(), "TURTLE_USDT")
	require.NoError(t, err)

	assert.Equal(t, 0.025, ticker.Price)
	assert.Equal(t, 150000.5, ticker.Volume24h)
	assert.Equal(t, 12.3, ticker.ChangePct24h)
	assert.Equal(t, 0.03, ticker.High24h)
	assert.Equal(t, 0.02, ticker.Low24h)
}

func TestGateIOFetchTickerEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewGateIO(srv.URL, time.Second)

	_, err := g.FetchTicker(context.Background(), "GONE_USDT")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGateIOFetchQuoteFallsBackToUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// El par _USDT no existe, el par _USD sí
		if r.URL.Query().Get("currency_pair") == "XYZ_USD" {
			w.Write([]byte(`[{"currency_pair": "XYZ_USD", "last": "42", "quote_volume": "1000"}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewGateIO(srv.URL, time.Second)

	quote, err := g.FetchQuote(context.Background(), "XYZ")
	require.NoError(t, err)

	assert.Equal(t, VenueGateIO, quote.Venue)
	assert.Equal(t, "XYZ", quote.Symbol)
	assert.Equal(t, 42.0, quote.Price)
}

func TestGateIONotFoundStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	g := NewGateIO(srv.URL, time.Second)

	_, err := g.FetchInstruments(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
