package ports

import (
	"context"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

// Quoter obtiene una quote puntual de un símbolo base canónico.
// Devuelve domain.ErrNotFound si el venue no lista el símbolo (resultado
// válido, no un fallo de transporte).
type Quoter interface {
	// Name devuelve el nombre canónico del venue ("Gate.io", "MEXC", ...).
	Name() string

	// FetchQuote devuelve precio y volumen 24h del símbolo contra USDT.
	FetchQuote(ctx context.Context, symbol string) (domain.PriceQuote, error)
}

// VenueClient expone el catálogo de pares tradeables de un exchange.
type VenueClient interface {
	Quoter

	// FetchInstruments devuelve todos los instrumentos actualmente tradeables,
	// con el símbolo base ya normalizado. Excluye pares deshabilitados.
	// Falla con domain.ErrVenueUnavailable en errores HTTP o payload inválido.
	FetchInstruments(ctx context.Context) ([]domain.Instrument, error)

	// FetchTicker devuelve el ticker puntual de un par nativo del venue.
	// domain.ErrNotFound es un resultado válido (par deslistado, sin liquidez).
	FetchTicker(ctx context.Context, pair string) (domain.Ticker, error)
}

// AnnouncementClient es la variante para venues que solo exponen anuncios
// editoriales de listados en vez de un catálogo de pares (Binance).
// El parsing de títulos es detalle del venue, no parte del contrato común.
type AnnouncementClient interface {
	Quoter

	// FetchAnnouncements devuelve los anuncios de listados más recientes.
	FetchAnnouncements(ctx context.Context) ([]domain.Announcement, error)
}
