package domain

import "time"

// VenueStatus es el resultado de un venue dentro de un ciclo de escaneo.
// Un venue fallido se reporta como "0 listings, error registrado", nunca se
// confunde con un "0 listados" exitoso.
type VenueStatus struct {
	Venue    string
	Listings int
	Failed   bool
	Error    string // vacío si Failed == false
	Duration time.Duration
}

// CycleSummary es el resumen ligero de un ciclo completo.
type CycleSummary struct {
	StartedAt     time.Time
	Duration      time.Duration
	Venues        []VenueStatus // en el orden configurado de venues
	TotalListings int
	Opportunities int
	Critical      int
	High          int
}

// FailedVenues devuelve cuántos venues fallaron en el ciclo.
func (c CycleSummary) FailedVenues() int {
	n := 0
	for _, v := range c.Venues {
		if v.Failed {
			n++
		}
	}
	return n
}
