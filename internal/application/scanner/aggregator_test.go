package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tokenscope/internal/domain"
	"github.com/alejandrodnm/tokenscope/internal/ports"
)

type fakeQuoter struct {
	name  string
	quote domain.PriceQuote
	err   error
}

func (f *fakeQuoter) Name() string { return f.name }

func (f *fakeQuoter) FetchQuote(_ context.Context, _ string) (domain.PriceQuote, error) {
	if f.err != nil {
		return domain.PriceQuote{}, f.err
	}
	return f.quote, nil
}

func TestAggregatorSnapshot(t *testing.T) {
	a := NewAggregator([]ports.Quoter{
		&fakeQuoter{name: "Gate.io", quote: domain.PriceQuote{Venue: "Gate.io", Price: 100, Volume24h: 5000}},
		&fakeQuoter{name: "MEXC", quote: domain.PriceQuote{Venue: "MEXC", Price: 103, Volume24h: 3000}},
	}, time.Second, 1.0)

	snap, err := a.Snapshot(context.Background(), "XYZ")
	require.NoError(t, err)

	assert.Equal(t, 2, snap.VenueCount())
	assert.Equal(t, "Gate.io", snap.BestBuy.Venue)
	assert.Equal(t, "MEXC", snap.BestSell.Venue)
	assert.Equal(t, 3.0, snap.Arbitrage.ProfitPct)
	assert.True(t, snap.Arbitrage.Profitable)
}

func TestAggregatorExcludesNotFound(t *testing.T) {
	a := NewAggregator([]ports.Quoter{
		&fakeQuoter{name: "Gate.io", quote: domain.PriceQuote{Venue: "Gate.io", Price: 50}},
		&fakeQuoter{name: "Binance", err: domain.ErrNotFound},
	}, time.Second, 1.0)

	snap, err := a.Snapshot(context.Background(), "XYZ")
	require.NoError(t, err)

	assert.Equal(t, 1, snap.VenueCount())
	assert.False(t, snap.HasVenue("Binance"))
}

func TestAggregatorExcludesZeroPrice(t *testing.T) {
	a := NewAggregator([]ports.Quoter{
		&fakeQuoter{name: "Gate.io", quote: domain.PriceQuote{Venue: "Gate.io", Price: 0}},
		&fakeQuoter{name: "MEXC", quote: domain.PriceQuote{Venue: "MEXC", Price: 2}},
	}, time.Second, 1.0)

	snap, err := a.Snapshot(context.Background(), "XYZ")
	require.NoError(t, err)

	assert.Equal(t, 1, snap.VenueCount())
	assert.Equal(t, "MEXC", snap.BestBuy.Venue)
}

func TestAggregatorAllVenuesFail(t *testing.T) {
	a := NewAggregator([]ports.Quoter{
		&fakeQuoter{name: "Gate.io", err: domain.ErrNotFound},
		&fakeQuoter{name: "MEXC", err: domain.ErrVenueUnavailable},
	}, time.Second, 1.0)

	_, err := a.Snapshot(context.Background(), "XYZ")
	assert.ErrorIs(t, err, domain.ErrNoQuotes)
}
