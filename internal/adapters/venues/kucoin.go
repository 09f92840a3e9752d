package venues

// kucoin.go — adapter de KuCoin (API v1).
//
// API: https://docs.kucoin.com/

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

const defaultKuCoinBase = "https://api.kucoin.com"

// KuCoin implementa ports.VenueClient contra el API spot de KuCoin.
type KuCoin struct {
	c    *httpClient
	base string
}

// NewKuCoin crea el adapter. Si base está vacío usa el URL de producción.
func NewKuCoin(base string, timeout time.Duration) *KuCoin {
	if base == "" {
		base = defaultKuCoinBase
	}
	return &KuCoin{c: newHTTPClient(timeout), base: base}
}

func (k *KuCoin) Name() string { return VenueKuCoin }

type kucoinSymbolsResponse struct {
	Code string         `json:"code"`
	Data []kucoinSymbol `json:"data"`
}

type kucoinSymbol struct {
	Symbol        string `json:"symbol"`
	EnableTrading bool   `json:"enableTrading"`
}

type kucoinStatsResponse struct {
	Code string      `json:"code"`
	Data kucoinStats `json:"data"`
}

type kucoinStats struct {
	Last       string `json:"last"`
	VolValue   string `json:"volValue"` // volumen 24h en moneda quote
	ChangeRate string `json:"changeRate"`
	High       string `json:"high"`
	Low        string `json:"low"`
}

// FetchInstruments devuelve todos los pares con trading habilitado.
// GET /api/v1/symbols
func (k *KuCoin) FetchInstruments(ctx context.Context) ([]domain.Instrument, error) {
	var resp kucoinSymbolsResponse
	if err := k.c.getJSON(ctx, k.base+"/api/v1/symbols", nil, &resp); err != nil {
		return nil, fmt.Errorf("kucoin.FetchInstruments: %w", err)
	}

	instruments := make([]domain.Instrument, 0, len(resp.Data))
	for _, s := range resp.Data {
		if !s.EnableTrading {
			continue
		}
		instruments = append(instruments, domain.Instrument{
			Venue:  VenueKuCoin,
			Pair:   s.Symbol,
			Symbol: baseFromSeparator(s.Symbol, "-"),
		})
	}
	return instruments, nil
}

// FetchTicker devuelve las estadísticas 24h de un par nativo ("BTC-USDT").
// GET /api/v1/market/stats?symbol={pair}
//
// KuCoin responde 200 con data vacía para símbolos desconocidos; eso es
// ErrNotFound, no un fallo del venue.
func (k *KuCoin) FetchTicker(ctx context.Context, pair string) (domain.Ticker, error) {
	var resp kucoinStatsResponse
	url := k.base + "/api/v1/market/stats?symbol=" + pair
	if err := k.c.getJSON(ctx, url, nil, &resp); err != nil {
		return domain.Ticker{}, fmt.Errorf("kucoin.FetchTicker %s: %w", pair, err)
	}
	if resp.Data.Last == "" {
		return domain.Ticker{}, fmt.Errorf("kucoin.FetchTicker %s: %w", pair, domain.ErrNotFound)
	}

	return domain.Ticker{
		Price:        toF(resp.Data.Last),
		Volume24h:    toF(resp.Data.VolValue),
		High24h:      toF(resp.Data.High),
		Low24h:       toF(resp.Data.Low),
		ChangePct24h: toF(resp.Data.ChangeRate) * 100, // changeRate viene como fracción
	}, nil
}

// FetchQuote devuelve la quote del símbolo base contra USDT.
func (k *KuCoin) FetchQuote(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	ticker, err := k.FetchTicker(ctx, symbol+"-USDT")
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("kucoin.FetchQuote %s: %w", symbol, err)
	}
	return domain.PriceQuote{
		Venue:     VenueKuCoin,
		Symbol:    symbol,
		Price:     ticker.Price,
		Volume24h: ticker.Volume24h,
		FetchedAt: time.Now().UTC(),
	}, nil
}
