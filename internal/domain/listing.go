package domain

import "time"

// Instrument es un par tradeable en un venue concreto.
// Symbol es la forma canónica del activo base (ya normalizada por el adapter),
// por lo que la comparación cross-venue por texto de símbolo es significativa.
// Es una heurística best-effort: no hay garantía de identidad entre venues.
type Instrument struct {
	Venue  string // nombre del venue ("Gate.io", "MEXC", ...)
	Pair   string // identificador nativo del venue ("BTC_USDT", "BTCUSDT", "BTC-USDT")
	Symbol string // activo base canónico ("BTC")
}

// Ticker es el estado puntual de un instrumento en su venue.
type Ticker struct {
	Price        float64
	Volume24h    float64 // volumen 24h en moneda quote
	High24h      float64
	Low24h       float64
	ChangePct24h float64
}

// NewListing es un instrumento visto por primera vez en el ciclo actual,
// enriquecido con su ticker en el momento de la detección.
// El core lo produce y lo entrega; su ciclo de vida posterior es del storage.
type NewListing struct {
	Instrument Instrument
	Ticker     Ticker
	HasTicker  bool // false si el enriquecimiento falló para este instrumento

	// Campos de listados basados en anuncios (Binance). Vacíos para el resto.
	Name            string
	ListingType     string
	AnnouncementURL string

	DetectedAt time.Time
}

// Announcement es un artículo del feed editorial de un venue, ya parseado.
// Solo lo usan los venues que anuncian listados en vez de exponerlos como
// pares; las heurísticas de parsing de títulos viven en el adapter del venue.
type Announcement struct {
	ID          int64
	Title       string
	URL         string
	Symbols     []string // símbolos extraídos del título; vacío si no se reconoció ninguno
	Name        string   // nombre del token según el título
	ListingType string   // "Spot Listing", "Launchpad", ...
	ReleasedAt  time.Time
}
