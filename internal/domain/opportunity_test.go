package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var classifyCfg = ClassifyConfig{
	EarlyVenues:    []string{"Gate.io", "MEXC"},
	MajorVenue:     "Binance",
	CriticalArbPct: 2.0,
}

func listingOn(venue string) NewListing {
	return NewListing{Instrument: Instrument{Venue: venue, Symbol: "XYZ", Pair: "XYZ_USDT"}}
}

func snapWith(profitPct float64, venues ...string) PriceSnapshot {
	snap := PriceSnapshot{Arbitrage: ArbitrageOpportunity{ProfitPct: profitPct}}
	for _, v := range venues {
		snap.Quotes = append(snap.Quotes, PriceQuote{Venue: v, Price: 1})
	}
	return snap
}

func TestClassifyPreMajorListing(t *testing.T) {
	// Early venue lista, el major no cotiza: PRE_MAJOR aunque haya varios venues
	oppType, urgency := Classify(listingOn("Gate.io"), snapWith(0.5, "Gate.io", "MEXC"), classifyCfg)

	assert.Equal(t, TypePreMajorListing, oppType)
	assert.Equal(t, UrgencyHigh, urgency)
}

func TestClassifyPreMajorWithEmptySnapshot(t *testing.T) {
	// Sin quotes de nadie sigue siendo PRE_MAJOR: el major no está
	oppType, urgency := Classify(listingOn("MEXC"), PriceSnapshot{}, classifyCfg)

	assert.Equal(t, TypePreMajorListing, oppType)
	assert.Equal(t, UrgencyHigh, urgency)
}

func TestClassifyArbitrageWhenMajorQuotes(t *testing.T) {
	// El major ya cotiza, así que no es pre-major; varios venues → arbitraje
	oppType, urgency := Classify(listingOn("Gate.io"), snapWith(1.5, "Gate.io", "Binance"), classifyCfg)

	assert.Equal(t, TypeArbitrage, oppType)
	assert.Equal(t, UrgencyNormal, urgency)
}

func TestClassifyMajorListing(t *testing.T) {
	oppType, urgency := Classify(listingOn("Binance"), snapWith(0, "Binance"), classifyCfg)

	assert.Equal(t, TypeMajorListing, oppType)
	assert.Equal(t, UrgencyNormal, urgency)
}

func TestClassifyNewListingFallback(t *testing.T) {
	// KuCoin no es early ni major, un solo venue cotizando
	oppType, urgency := Classify(listingOn("KuCoin"), snapWith(0, "KuCoin"), classifyCfg)

	assert.Equal(t, TypeNewListing, oppType)
	assert.Equal(t, UrgencyNormal, urgency)
}

func TestClassifyCriticalOverridesHigh(t *testing.T) {
	// PRE_MAJOR daría HIGH, pero el spread supera el umbral crítico
	oppType, urgency := Classify(listingOn("Gate.io"), snapWith(2.5, "Gate.io", "MEXC"), classifyCfg)

	assert.Equal(t, TypePreMajorListing, oppType)
	assert.Equal(t, UrgencyCritical, urgency)
}

func TestClassifyCriticalAtThresholdBoundary(t *testing.T) {
	// Exactamente en el umbral no escala: la comparación es estricta
	_, urgency := Classify(listingOn("KuCoin"), snapWith(2.0, "KuCoin", "Gate.io"), classifyCfg)
	assert.Equal(t, UrgencyNormal, urgency)

	_, urgency = Classify(listingOn("KuCoin"), snapWith(2.01, "KuCoin", "Gate.io"), classifyCfg)
	assert.Equal(t, UrgencyCritical, urgency)
}

func TestClassifyCriticalOnArbitrage(t *testing.T) {
	oppType, urgency := Classify(listingOn("KuCoin"), snapWith(3.0, "KuCoin", "Binance"), classifyCfg)

	assert.Equal(t, TypeArbitrage, oppType)
	assert.Equal(t, UrgencyCritical, urgency)
}

func TestUrgencyOrdering(t *testing.T) {
	assert.True(t, UrgencyNormal < UrgencyHigh)
	assert.True(t, UrgencyHigh < UrgencyCritical)
}

func TestOpportunityTypeStrings(t *testing.T) {
	assert.Equal(t, "NEW_LISTING", TypeNewListing.String())
	assert.Equal(t, "ARBITRAGE", TypeArbitrage.String())
	assert.Equal(t, "MAJOR_LISTING", TypeMajorListing.String())
	assert.Equal(t, "PRE_MAJOR_LISTING", TypePreMajorListing.String())
}
