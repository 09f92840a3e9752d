package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tokenscope/internal/domain"
	"github.com/alejandrodnm/tokenscope/internal/ports"
)

type memStorage struct {
	listings []domain.NewListing
	opps     []domain.Opportunity
	cycles   []domain.CycleSummary
}

func (m *memStorage) SaveListings(_ context.Context, listings []domain.NewListing) (int, error) {
	m.listings = append(m.listings, listings...)
	return len(listings), nil
}

func (m *memStorage) SaveOpportunities(_ context.Context, opps []domain.Opportunity) error {
	m.opps = append(m.opps, opps...)
	return nil
}

func (m *memStorage) SaveCycle(_ context.Context, summary domain.CycleSummary) error {
	m.cycles = append(m.cycles, summary)
	return nil
}

func (m *memStorage) GetHistory(_ context.Context, _, _ time.Time) ([]domain.Opportunity, error) {
	return m.opps, nil
}

func (m *memStorage) Close() error { return nil }

type collectNotifier struct {
	batches [][]domain.Opportunity
}

func (c *collectNotifier) Notify(_ context.Context, opps []domain.Opportunity) error {
	c.batches = append(c.batches, opps)
	return nil
}

type fakeAnalyst struct {
	advice domain.Advice
	err    error
	calls  int
}

func (f *fakeAnalyst) Analyze(_ context.Context, _ domain.Opportunity) (domain.Advice, error) {
	f.calls++
	if f.err != nil {
		return domain.Advice{}, f.err
	}
	return f.advice, nil
}

func defaultClassify() domain.ClassifyConfig {
	return domain.ClassifyConfig{
		EarlyVenues:    []string{"Gate.io", "MEXC"},
		MajorVenue:     "Binance",
		CriticalArbPct: 2.0,
	}
}

// TestScannerPreMajorCriticalFlow recorre el camino completo: un venue early
// lista un par nuevo, otro venue ya lo cotiza más caro, el major no lo tiene.
func TestScannerPreMajorCriticalFlow(t *testing.T) {
	gateio := &fakeVenueClient{
		name:        "Gate.io",
		instruments: []domain.Instrument{inst("Gate.io", "BTC_USDT", "BTC")},
		tickers:     map[string]domain.Ticker{"XYZ_USDT": {Price: 48, Volume24h: 9000}},
		quotes:      map[string]domain.PriceQuote{"XYZ": {Venue: "Gate.io", Symbol: "XYZ", Price: 48, Volume24h: 9000}},
	}
	kucoin := &fakeQuoter{name: "KuCoin", quote: domain.PriceQuote{Venue: "KuCoin", Symbol: "XYZ", Price: 50, Volume24h: 4000}}
	binance := &fakeQuoter{name: "Binance", err: domain.ErrNotFound}

	orchestrator := NewOrchestrator([]Detector{NewListingDetector(gateio)}, time.Second)
	aggregator := NewAggregator([]ports.Quoter{gateio, kucoin, binance}, time.Second, 1.0)

	s := New(Config{ScanInterval: time.Minute, Classify: defaultClassify()}, orchestrator, aggregator, nil, &collectNotifier{}, nil)

	// Primer ciclo: solo baseline
	opps, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, opps)

	gateio.instruments = append(gateio.instruments, inst("Gate.io", "XYZ_USDT", "XYZ"))

	opps, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, "XYZ", opp.Symbol)
	assert.Equal(t, "Gate.io", opp.SourceVenue)
	assert.Equal(t, domain.TypePreMajorListing, opp.Type)
	assert.Equal(t, domain.UrgencyCritical, opp.Urgency, "4.17 spread beats the 2.0 critical threshold")
	assert.NotEmpty(t, opp.ID)

	require.True(t, opp.HasPrices)
	assert.Equal(t, 2, opp.Prices.VenueCount())
	assert.Equal(t, "Gate.io", opp.Prices.BestBuy.Venue)
	assert.Equal(t, "KuCoin", opp.Prices.BestSell.Venue)
	assert.Equal(t, 4.17, opp.Prices.Arbitrage.ProfitPct)

	require.NotNil(t, opp.Strategy)
	assert.Equal(t, 48.0, opp.Strategy.EntryPrice)
	assert.Equal(t, 72.0, opp.Strategy.Target1)
	assert.Equal(t, 96.0, opp.Strategy.Target2)
	assert.Equal(t, 40.8, opp.Strategy.StopLoss)
	assert.Equal(t, "2-3%", opp.Strategy.PositionSize)

	// Sin analista configurado la urgencia alta degrada a revisión manual
	require.NotNil(t, opp.Advice)
	assert.Equal(t, domain.RecommendManualReview, opp.Advice.Recommendation)
}

func TestScannerNoQuotesStillClassifies(t *testing.T) {
	mexc := &fakeVenueClient{
		name:        "MEXC",
		instruments: []domain.Instrument{inst("MEXC", "BTCUSDT", "BTC")},
		tickers:     map[string]domain.Ticker{"NEWUSDT": {Price: 0.1}},
	}

	orchestrator := NewOrchestrator([]Detector{NewListingDetector(mexc)}, time.Second)
	// Ningún quoter responde: el snapshot de precios queda vacío
	aggregator := NewAggregator([]ports.Quoter{&fakeQuoter{name: "Binance", err: domain.ErrNotFound}}, time.Second, 1.0)

	s := New(Config{Classify: defaultClassify()}, orchestrator, aggregator, nil, &collectNotifier{}, nil)

	_, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	mexc.instruments = append(mexc.instruments, inst("MEXC", "NEWUSDT", "NEW"))

	opps, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, domain.TypePreMajorListing, opp.Type)
	assert.Equal(t, domain.UrgencyHigh, opp.Urgency)
	assert.False(t, opp.HasPrices)
	assert.Nil(t, opp.Strategy, "no entry price, no strategy")
}

func TestScannerAnalystFailureDegrades(t *testing.T) {
	gateio := &fakeVenueClient{
		name:        "Gate.io",
		instruments: []domain.Instrument{inst("Gate.io", "BTC_USDT", "BTC")},
		tickers:     map[string]domain.Ticker{"XYZ_USDT": {Price: 5}},
		quotes:      map[string]domain.PriceQuote{"XYZ": {Venue: "Gate.io", Symbol: "XYZ", Price: 5}},
	}
	analyst := &fakeAnalyst{err: errors.New("llm timeout")}

	orchestrator := NewOrchestrator([]Detector{NewListingDetector(gateio)}, time.Second)
	aggregator := NewAggregator([]ports.Quoter{gateio}, time.Second, 1.0)

	s := New(Config{Classify: defaultClassify()}, orchestrator, aggregator, nil, &collectNotifier{}, analyst)

	_, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	gateio.instruments = append(gateio.instruments, inst("Gate.io", "XYZ_USDT", "XYZ"))

	opps, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 1)

	assert.Equal(t, 1, analyst.calls)
	require.NotNil(t, opps[0].Advice)
	assert.Equal(t, domain.RecommendManualReview, opps[0].Advice.Recommendation)
}

func TestScannerRunOncePersistsAndNotifies(t *testing.T) {
	gateio := &fakeVenueClient{
		name:        "Gate.io",
		instruments: []domain.Instrument{inst("Gate.io", "BTC_USDT", "BTC")},
		tickers:     map[string]domain.Ticker{"XYZ_USDT": {Price: 5}},
		quotes:      map[string]domain.PriceQuote{"XYZ": {Venue: "Gate.io", Symbol: "XYZ", Price: 5}},
	}
	store := &memStorage{}
	notifier := &collectNotifier{}

	orchestrator := NewOrchestrator([]Detector{NewListingDetector(gateio)}, time.Second)
	aggregator := NewAggregator([]ports.Quoter{gateio}, time.Second, 1.0)

	s := New(Config{ScanInterval: time.Minute, Once: true, Classify: defaultClassify()}, orchestrator, aggregator, store, notifier, nil)

	// Primer Run establece la baseline; el segundo detecta y persiste
	require.NoError(t, s.Run(context.Background()))

	gateio.instruments = append(gateio.instruments, inst("Gate.io", "XYZ_USDT", "XYZ"))
	require.NoError(t, s.Run(context.Background()))

	require.Len(t, store.listings, 1)
	require.Len(t, store.opps, 1)
	require.Len(t, store.cycles, 2)
	assert.Equal(t, 1, store.cycles[1].TotalListings)
	assert.Equal(t, 1, store.cycles[1].High)

	require.Len(t, notifier.batches, 2)
	assert.Len(t, notifier.batches[1], 1)
}

func TestRankByUrgency(t *testing.T) {
	opps := []domain.Opportunity{
		{Symbol: "A", Urgency: domain.UrgencyNormal},
		{Symbol: "B", Urgency: domain.UrgencyCritical, Prices: domain.PriceSnapshot{Arbitrage: domain.ArbitrageOpportunity{ProfitPct: 2.5}}},
		{Symbol: "C", Urgency: domain.UrgencyHigh},
		{Symbol: "D", Urgency: domain.UrgencyCritical, Prices: domain.PriceSnapshot{Arbitrage: domain.ArbitrageOpportunity{ProfitPct: 5.0}}},
	}

	rankByUrgency(opps)

	assert.Equal(t, "D", opps[0].Symbol, "highest spread first within CRITICAL")
	assert.Equal(t, "B", opps[1].Symbol)
	assert.Equal(t, "C", opps[2].Symbol)
	assert.Equal(t, "A", opps[3].Symbol)
}
