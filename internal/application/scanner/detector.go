package scanner

// detector.go — detección de listados nuevos por set-diff.
//
// Cada detector es dueño exclusivo de su snapshot anterior: ningún otro
// componente lo lee ni lo escribe, y los ciclos de un mismo venue nunca se
// solapan (el orquestador los lanza secuencialmente ciclo a ciclo). Eso hace
// a cada detector testeable y reiniciable por separado, sin estado global.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/tokenscope/internal/domain"
	"github.com/alejandrodnm/tokenscope/internal/ports"
)

// Detector produce los listados nuevos de un venue en cada ciclo.
type Detector interface {
	// Venue devuelve el nombre canónico del venue que vigila.
	Venue() string

	// Detect devuelve los instrumentos vistos por primera vez en este ciclo.
	// Un fallo del fetch de catálogo se propaga: el orquestador decide qué
	// hacer con él, nunca se devuelve vacío en silencio.
	Detect(ctx context.Context) ([]domain.NewListing, error)
}

// ListingDetector detecta listados comparando el catálogo de pares del venue
// con el snapshot del ciclo anterior.
type ListingDetector struct {
	client   ports.VenueClient
	previous map[string]domain.Instrument // key = par nativo del venue
	primed   bool
}

// NewListingDetector crea un detector con snapshot vacío.
func NewListingDetector(client ports.VenueClient) *ListingDetector {
	return &ListingDetector{client: client}
}

func (d *ListingDetector) Venue() string { return d.client.Name() }

// Detect ejecuta un ciclo de detección:
//
//  1. Fetch del catálogo actual (fallo → se propaga).
//  2. new = actual − snapshot anterior.
//  3. Enriquecimiento con ticker por instrumento; si falla uno, se salta
//     solo ese instrumento.
//  4. El snapshot se reemplaza incondicionalmente por el actual, incluso si
//     enriquecer falló: un instrumento nunca se re-reporta como nuevo solo
//     porque su ticker falló una vez.
//
// El primer ciclo establece la línea base y reporta cero listados por diseño.
func (d *ListingDetector) Detect(ctx context.Context) ([]domain.NewListing, error) {
	instruments, err := d.client.FetchInstruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("detector %s: fetch instruments: %w", d.Venue(), err)
	}

	current := make(map[string]domain.Instrument, len(instruments))
	var fresh []domain.Instrument
	for _, inst := range instruments {
		current[inst.Pair] = inst
		if _, seen := d.previous[inst.Pair]; !seen {
			fresh = append(fresh, inst)
		}
	}

	if !d.primed {
		d.previous = current
		d.primed = true
		slog.Info("baseline established", "venue", d.Venue(), "pairs", len(current))
		return nil, nil
	}

	d.previous = current

	if len(fresh) == 0 {
		return nil, nil
	}
	slog.Info("new pairs detected", "venue", d.Venue(), "count", len(fresh))

	listings := make([]domain.NewListing, 0, len(fresh))
	for _, inst := range fresh {
		ticker, err := d.client.FetchTicker(ctx, inst.Pair)
		if err != nil {
			// Aislamiento de fallo parcial: solo se pierde este instrumento
			slog.Warn("ticker enrichment failed, skipping instrument",
				"venue", d.Venue(), "pair", inst.Pair, "err", err)
			continue
		}
		listings = append(listings, domain.NewListing{
			Instrument:  inst,
			Ticker:      ticker,
			HasTicker:   true,
			ListingType: "spot",
			DetectedAt:  time.Now().UTC(),
		})
	}
	return listings, nil
}

// AnnouncementDetector detecta listados a partir del feed editorial de un
// venue, deduplicando por ID de anuncio.
type AnnouncementDetector struct {
	client ports.AnnouncementClient
	seen   map[int64]bool
	primed bool
}

// NewAnnouncementDetector crea un detector con memoria de anuncios vacía.
func NewAnnouncementDetector(client ports.AnnouncementClient) *AnnouncementDetector {
	return &AnnouncementDetector{client: client, seen: make(map[int64]bool)}
}

func (d *AnnouncementDetector) Venue() string { return d.client.Name() }

// Detect devuelve un NewListing por cada símbolo de cada anuncio no visto.
// Igual que el detector de catálogo, el primer ciclo solo establece la línea
// base. Cada símbolo se enriquece con una quote si el venue ya la tiene; su
// ausencia no es un error (los anuncios suelen preceder al trading).
func (d *AnnouncementDetector) Detect(ctx context.Context) ([]domain.NewListing, error) {
	anns, err := d.client.FetchAnnouncements(ctx)
	if err != nil {
		return nil, fmt.Errorf("detector %s: fetch announcements: %w", d.Venue(), err)
	}

	if !d.primed {
		for _, a := range anns {
			d.seen[a.ID] = true
		}
		d.primed = true
		slog.Info("baseline established", "venue", d.Venue(), "announcements", len(anns))
		return nil, nil
	}

	var listings []domain.NewListing
	for _, a := range anns {
		if d.seen[a.ID] {
			continue
		}
		d.seen[a.ID] = true

		for _, symbol := range a.Symbols {
			listing := domain.NewListing{
				Instrument: domain.Instrument{
					Venue:  d.Venue(),
					Symbol: symbol,
				},
				Name:            a.Name,
				ListingType:     a.ListingType,
				AnnouncementURL: a.URL,
				DetectedAt:      time.Now().UTC(),
			}

			quote, err := d.client.FetchQuote(ctx, symbol)
			if err == nil {
				listing.Ticker = domain.Ticker{Price: quote.Price, Volume24h: quote.Volume24h}
				listing.HasTicker = true
			}

			listings = append(listings, listing)
		}
	}

	if len(listings) > 0 {
		slog.Info("new announcements detected", "venue", d.Venue(), "listings", len(listings))
	}
	return listings, nil
}
