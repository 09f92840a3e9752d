package venues

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMEXCFetchInstruments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/exchangeInfo", r.URL.Path)
		w.Write([]byte(`{"symbols": [
			{"symbol": "TURTLEUSDT", "status": "ENABLED"},
			{"symbol": "GONEUSDT", "status": "DISABLED"}
		]}`))
	}))
	defer srv.Close()

	m := NewMEXC(srv.URL, time.Second)

	instruments, err := m.FetchInstruments(context.Background())
	require.NoError(t, err)
	require.Len(t, instruments, 1)

	assert.Equal(t, "TURTLE", instruments[0].Symbol, "base trimmed from the quote suffix")
	assert.Equal(t, "TURTLEUSDT", instruments[0].Pair)
}

func TestMEXCFetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "XYZUSDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"lastPrice": "3.5", "quoteVolume": "42000"}`))
	}))
	defer srv.Close()

	m := NewMEXC(srv.URL, time.Second)

	quote, err := m.FetchQuote(context.Background(), "XYZ")
	require.NoError(t, err)

	assert.Equal(t, VenueMEXC, quote.Venue)
	assert.Equal(t, 3.5, quote.Price)
	assert.Equal(t, 42000.0, quote.Volume24h)
}
