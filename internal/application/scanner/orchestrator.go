package scanner

// orchestrator.go — fan-out concurrente de detectores por ciclo.
//
// Un goroutine por venue con timeout propio; los resultados se reensamblan en
// el orden configurado de venues (slice indexado, sin dependencia del orden
// de llegada), así que los consumidores ven una secuencia determinista
// independientemente del timing de red.

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

// Orchestrator ejecuta todos los detectores configurados en paralelo.
type Orchestrator struct {
	detectors []Detector
	timeout   time.Duration // por llamada a cada venue
}

// NewOrchestrator crea el orquestador. El orden de detectors define el orden
// estable de los resultados de cada ciclo.
func NewOrchestrator(detectors []Detector, venueTimeout time.Duration) *Orchestrator {
	if venueTimeout <= 0 {
		venueTimeout = 10 * time.Second
	}
	return &Orchestrator{detectors: detectors, timeout: venueTimeout}
}

// ScanAll ejecuta un ciclo de detección sobre todos los venues.
//
// Cada fallo queda aislado en su VenueStatus: el error de un venue no cancela
// ni retrasa a los demás, y un venue caído se reporta como "0 listados, error
// registrado", nunca como un cero exitoso. Los listados combinados van en el
// orden configurado de venues.
func (o *Orchestrator) ScanAll(ctx context.Context) ([]domain.NewListing, []domain.VenueStatus) {
	type result struct {
		listings []domain.NewListing
		err      error
		duration time.Duration
	}

	results := make([]result, len(o.detectors))

	var wg sync.WaitGroup
	for i, det := range o.detectors {
		wg.Add(1)
		go func(i int, det Detector) {
			defer wg.Done()
			start := time.Now()

			venueCtx, cancel := context.WithTimeout(ctx, o.timeout)
			defer cancel()

			listings, err := det.Detect(venueCtx)
			results[i] = result{
				listings: listings,
				err:      err,
				duration: time.Since(start),
			}
		}(i, det)
	}
	wg.Wait()

	var all []domain.NewListing
	statuses := make([]domain.VenueStatus, len(o.detectors))

	for i, det := range o.detectors {
		r := results[i]
		status := domain.VenueStatus{
			Venue:    det.Venue(),
			Listings: len(r.listings),
			Duration: r.duration,
		}
		if r.err != nil {
			// Un timeout se trata igual que cualquier fallo de transporte
			status.Failed = true
			status.Error = r.err.Error()
			slog.Warn("venue scan failed", "venue", det.Venue(), "err", r.err)
		} else {
			all = append(all, r.listings...)
		}
		statuses[i] = status
	}

	return all, statuses
}
