package venues

// mexc.go — adapter de MEXC (spot v3).
//
// MEXC lista 6-24h antes que el venue major con frecuencia, segundo venue
// del set "early". Sus pares no llevan separador (BTCUSDT), así que el
// símbolo base sale de recortar el sufijo quote conocido.
//
// API: https://mexcdevelop.github.io/apidocs/spot_v3_en/

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

const defaultMEXCBase = "https://api.mexc.com"

// MEXC implementa ports.VenueClient contra el API spot de MEXC.
type MEXC struct {
	c    *httpClient
	base string
}

// NewMEXC crea el adapter. Si base está vacío usa el URL de producción.
func NewMEXC(base string, timeout time.Duration) *MEXC {
	if base == "" {
		base = defaultMEXCBase
	}
	return &MEXC{c: newHTTPClient(timeout), base: base}
}

func (m *MEXC) Name() string { return VenueMEXC }

type mexcExchangeInfo struct {
	Symbols []mexcSymbol `json:"symbols"`
}

type mexcSymbol struct {
	Symbol string `json:"symbol"`
	Status string `json:"status"`
}

type mexcTicker struct {
	LastPrice          string `json:"lastPrice"`
	QuoteVolume        string `json:"quoteVolume"`
	PriceChangePercent string `json:"priceChangePercent"`
	HighPrice          string `json:"highPrice"`
	LowPrice           string `json:"lowPrice"`
}

// FetchInstruments devuelve todos los pares spot habilitados.
// GET /api/v3/exchangeInfo
func (m *MEXC) FetchInstruments(ctx context.Context) ([]domain.Instrument, error) {
	var info mexcExchangeInfo
	if err := m.c.getJSON(ctx, m.base+"/api/v3/exchangeInfo", nil, &info); err != nil {
		return nil, fmt.Errorf("mexc.FetchInstruments: %w", err)
	}

	instruments := make([]domain.Instrument, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status != "ENABLED" {
			continue
		}
		instruments = append(instruments, domain.Instrument{
			Venue:  VenueMEXC,
			Pair:   s.Symbol,
			Symbol: baseFromSuffix(s.Symbol),
		})
	}
	return instruments, nil
}

// FetchTicker devuelve el ticker 24h de un par nativo ("BTCUSDT").
// GET /api/v3/ticker/24hr?symbol={pair}
func (m *MEXC) FetchTicker(ctx context.Context, pair string) (domain.Ticker, error) {
	var t mexcTicker
	url := m.base + "/api/v3/ticker/24hr?symbol=" + pair
	if err := m.c.getJSON(ctx, url, nil, &t); err != nil {
		return domain.Ticker{}, fmt.Errorf("mexc.FetchTicker %s: %w", pair, err)
	}

	return domain.Ticker{
		Price:        toF(t.LastPrice),
		Volume24h:    toF(t.QuoteVolume),
		High24h:      toF(t.HighPrice),
		Low24h:       toF(t.LowPrice),
		ChangePct24h: toF(t.PriceChangePercent),
	}, nil
}

// FetchQuote devuelve la quote del símbolo base contra USDT.
func (m *MEXC) FetchQuote(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	ticker, err := m.FetchTicker(ctx, symbol+"USDT")
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("mexc.FetchQuote %s: %w", symbol, err)
	}
	return domain.PriceQuote{
		Venue:     VenueMEXC,
		Symbol:    symbol,
		Price:     ticker.Price,
		Volume24h: ticker.Volume24h,
		FetchedAt: time.Now().UTC(),
	}, nil
}
