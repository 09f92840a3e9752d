package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

func sampleOpportunity() domain.Opportunity {
	return domain.Opportunity{
		ID:          "opp-1",
		Symbol:      "XYZ",
		SourceVenue: "Gate.io",
		Type:        domain.TypePreMajorListing,
		Urgency:     domain.UrgencyCritical,
		Prices: domain.PriceSnapshot{
			Quotes: []domain.PriceQuote{{Venue: "Gate.io", Price: 48}, {Venue: "KuCoin", Price: 50}},
			Arbitrage: domain.ArbitrageOpportunity{
				BuyVenue: "Gate.io", SellVenue: "KuCoin", ProfitPct: 4.17, Profitable: true,
			},
		},
		HasPrices: true,
		Strategy: &domain.Strategy{
			EntryVenue: "Gate.io", EntryPrice: 48,
			Target1: 72, Target2: 96, StopLoss: 40.8,
			PositionSize: "2-3%", TimeWindow: "12-24h",
		},
		Advice: &domain.Advice{Recommendation: domain.RecommendBuy},
	}
}

func TestConsoleCompact(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false)

	require.NoError(t, c.Notify(context.Background(), []domain.Opportunity{sampleOpportunity()}))

	out := buf.String()
	assert.Contains(t, out, "1 listings")
	assert.Contains(t, out, "CRIT:1")
	assert.Contains(t, out, "XYZ@Gate.io")
	assert.Contains(t, out, "arb4.17%")
}

func TestConsoleTable(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, true)

	require.NoError(t, c.Notify(context.Background(), []domain.Opportunity{sampleOpportunity()}))

	out := buf.String()
	assert.Contains(t, out, "XYZ")
	assert.Contains(t, out, "PRE_MAJOR_LISTING")
	assert.Contains(t, out, "72")
	assert.Contains(t, out, "BUY")
}

func TestConsoleEmpty(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false)

	require.NoError(t, c.Notify(context.Background(), nil))
	assert.Contains(t, buf.String(), "no new listings")
}
