package scanner

// aggregator.go — agregación concurrente de precios cross-venue.
//
// Mismo patrón de fan-out que el orquestador: un goroutine por venue con
// timeout propio y slice indexado para preservar el orden configurado.

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/tokenscope/internal/domain"
	"github.com/alejandrodnm/tokenscope/internal/ports"
)

// Aggregator consulta todos los venues por el precio de un símbolo y deriva
// best-buy/best-sell/arbitraje. Sin estado mutable: cada llamada es
// independiente y libre de efectos más allá del I/O de red.
type Aggregator struct {
	quoters      []ports.Quoter
	timeout      time.Duration
	arbProfitPct float64 // umbral de rentabilidad (default 1.0)
}

// NewAggregator crea el agregador sobre los quoters dados, en orden configurado.
func NewAggregator(quoters []ports.Quoter, venueTimeout time.Duration, arbProfitPct float64) *Aggregator {
	if venueTimeout <= 0 {
		venueTimeout = 5 * time.Second
	}
	if arbProfitPct <= 0 {
		arbProfitPct = 1.0
	}
	return &Aggregator{quoters: quoters, timeout: venueTimeout, arbProfitPct: arbProfitPct}
}

// Snapshot consulta cada venue en paralelo y agrega las quotes obtenidas.
//
// Un venue que falla o responde NotFound simplemente no aporta quote; solo si
// ningún venue responde el resultado es domain.ErrNoQuotes, que el
// clasificador trata como resultado válido, no como excepción.
func (a *Aggregator) Snapshot(ctx context.Context, symbol string) (domain.PriceSnapshot, error) {
	quotes := make([]*domain.PriceQuote, len(a.quoters))

	var wg sync.WaitGroup
	for i, q := range a.quoters {
		wg.Add(1)
		go func(i int, q ports.Quoter) {
			defer wg.Done()

			venueCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			quote, err := q.FetchQuote(venueCtx, symbol)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					slog.Debug("symbol not listed", "venue", q.Name(), "symbol", symbol)
				} else {
					slog.Debug("quote fetch failed", "venue", q.Name(), "symbol", symbol, "err", err)
				}
				return
			}
			if quote.Price <= 0 {
				// Precio cero = sin liquidez; no aporta nada a la agregación
				return
			}
			quotes[i] = &quote
		}(i, q)
	}
	wg.Wait()

	responding := make([]domain.PriceQuote, 0, len(quotes))
	for _, q := range quotes {
		if q != nil {
			responding = append(responding, *q)
		}
	}

	return domain.ComputeSnapshot(symbol, responding, a.arbProfitPct)
}
