package venues

// gateio.go — adapter de Gate.io (spot v4).
//
// Gate.io suele listar tokens 12-24h antes que el venue major, por eso es el
// primer venue del set "early" por defecto.
//
// API: https://www.gate.io/docs/developers/apiv4/en/

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

const defaultGateIOBase = "https://api.gateio.ws/api/v4"

// GateIO implementa ports.VenueClient contra el API spot de Gate.io.
type GateIO struct {
	c    *httpClient
	base string
}

// NewGateIO crea el adapter. Si base está vacío usa el URL de producción.
func NewGateIO(base string, timeout time.Duration) *GateIO {
	if base == "" {
		base = defaultGateIOBase
	}
	return &GateIO{c: newHTTPClient(timeout), base: base}
}

func (g *GateIO) Name() string { return VenueGateIO }

type gateioPair struct {
	ID          string `json:"id"`
	Base        string `json:"base"`
	Quote       string `json:"quote"`
	TradeStatus string `json:"trade_status"`
}

type gateioTicker struct {
	CurrencyPair     string `json:"currency_pair"`
	Last             string `json:"last"`
	QuoteVolume      string `json:"quote_volume"`
	ChangePercentage string `json:"change_percentage"`
	High24h          string `json:"high_24h"`
	Low24h           string `json:"low_24h"`
}

// FetchInstruments devuelve todos los pares spot tradeables.
// GET /spot/currency_pairs
func (g *GateIO) FetchInstruments(ctx context.Context) ([]domain.Instrument, error) {
	var pairs []gateioPair
	if err := g.c.getJSON(ctx, g.base+"/spot/currency_pairs", nil, &pairs); err != nil {
		return nil, fmt.Errorf("gateio.FetchInstruments: %w", err)
	}

	instruments := make([]domain.Instrument, 0, len(pairs))
	for _, p := range pairs {
		if p.TradeStatus != "tradable" {
			continue
		}
		instruments = append(instruments, domain.Instrument{
			Venue:  VenueGateIO,
			Pair:   p.ID,
			Symbol: baseFromSeparator(p.ID, "_"),
		})
	}
	return instruments, nil
}

// FetchTicker devuelve el ticker de un par nativo ("BTC_USDT").
// GET /spot/tickers?currency_pair={pair}
func (g *GateIO) FetchTicker(ctx context.Context, pair string) (domain.Ticker, error) {
	var tickers []gateioTicker
	url := g.base + "/spot/tickers?currency_pair=" + pair
	if err := g.c.getJSON(ctx, url, nil, &tickers); err != nil {
		return domain.Ticker{}, fmt.Errorf("gateio.FetchTicker %s: %w", pair, err)
	}
	if len(tickers) == 0 {
		return domain.Ticker{}, fmt.Errorf("gateio.FetchTicker %s: %w", pair, domain.ErrNotFound)
	}

	t := tickers[0]
	return domain.Ticker{
		Price:        toF(t.Last),
		Volume24h:    toF(t.QuoteVolume),
		High24h:      toF(t.High24h),
		Low24h:       toF(t.Low24h),
		ChangePct24h: toF(t.ChangePercentage),
	}, nil
}

// FetchQuote devuelve la quote del símbolo base contra USDT (o USD).
func (g *GateIO) FetchQuote(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	var lastErr error
	for _, pair := range []string{symbol + "_USDT", symbol + "_USD"} {
		ticker, err := g.FetchTicker(ctx, pair)
		if err != nil {
			lastErr = err
			continue
		}
		return domain.PriceQuote{
			Venue:     VenueGateIO,
			Symbol:    symbol,
			Price:     ticker.Price,
			Volume24h: ticker.Volume24h,
			FetchedAt: time.Now().UTC(),
		}, nil
	}
	return domain.PriceQuote{}, fmt.Errorf("gateio.FetchQuote %s: %w", symbol, lastErr)
}
