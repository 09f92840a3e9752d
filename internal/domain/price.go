package domain

import (
	"math"
	"time"
)

// PriceQuote es el precio de un símbolo en un venue, válido solo en FetchedAt.
// Nunca se cachea más allá de una agregación.
type PriceQuote struct {
	Venue     string
	Symbol    string
	Price     float64
	Volume24h float64
	FetchedAt time.Time
}

// ArbitrageOpportunity es el gap de precio entre el venue más barato y el más caro.
type ArbitrageOpportunity struct {
	BuyVenue   string
	SellVenue  string
	ProfitPct  float64 // redondeado a 2 decimales
	Profitable bool    // ProfitPct > umbral configurado
}

// PriceSnapshot agrega todas las quotes de un símbolo en un instante.
// Transitorio: se recalcula en cada petición, el core nunca lo persiste.
type PriceSnapshot struct {
	Symbol    string
	Quotes    []PriceQuote // en el orden configurado de venues
	BestBuy   PriceQuote
	BestSell  PriceQuote
	Arbitrage ArbitrageOpportunity
	FetchedAt time.Time
}

// VenueCount devuelve cuántos venues respondieron con quote.
func (s PriceSnapshot) VenueCount() int {
	return len(s.Quotes)
}

// HasVenue devuelve true si el venue dado aportó una quote a este snapshot.
func (s PriceSnapshot) HasVenue(venue string) bool {
	for _, q := range s.Quotes {
		if q.Venue == venue {
			return true
		}
	}
	return false
}

// ComputeSnapshot deriva best-buy, best-sell y arbitraje de las quotes dadas.
//
// Desempates deterministas: a igual precio gana el venue con estrictamente más
// volumen 24h; si sigue empatado, el nombre de venue lexicográficamente menor.
//
// Devuelve ErrNoQuotes si no hay quotes o si el mejor precio de compra es
// cero o negativo (el cálculo de profit sería indefinido — nunca dividimos
// por cero).
func ComputeSnapshot(symbol string, quotes []PriceQuote, profitThresholdPct float64) (PriceSnapshot, error) {
	if len(quotes) == 0 {
		return PriceSnapshot{}, ErrNoQuotes
	}

	bestBuy := quotes[0]
	bestSell := quotes[0]
	for _, q := range quotes[1:] {
		if betterBuy(q, bestBuy) {
			bestBuy = q
		}
		if betterSell(q, bestSell) {
			bestSell = q
		}
	}

	if bestBuy.Price <= 0 {
		return PriceSnapshot{}, ErrNoQuotes
	}

	profitPct := round2((bestSell.Price - bestBuy.Price) / bestBuy.Price * 100)

	return PriceSnapshot{
		Symbol:   symbol,
		Quotes:   quotes,
		BestBuy:  bestBuy,
		BestSell: bestSell,
		Arbitrage: ArbitrageOpportunity{
			BuyVenue:   bestBuy.Venue,
			SellVenue:  bestSell.Venue,
			ProfitPct:  profitPct,
			Profitable: profitPct > profitThresholdPct,
		},
		FetchedAt: time.Now().UTC(),
	}, nil
}

// betterBuy decide si a es mejor sitio para comprar que b (precio menor).
func betterBuy(a, b PriceQuote) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if a.Volume24h != b.Volume24h {
		return a.Volume24h > b.Volume24h
	}
	return a.Venue < b.Venue
}

// betterSell decide si a es mejor sitio para vender que b (precio mayor).
func betterSell(a, b PriceQuote) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	if a.Volume24h != b.Volume24h {
		return a.Volume24h > b.Volume24h
	}
	return a.Venue < b.Venue
}

// round2 redondea a 2 decimales.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
