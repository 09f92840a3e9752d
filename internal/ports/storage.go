package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

// Storage persiste los resultados de cada ciclo de escaneo.
// La deduplicación contra el histórico por (symbol, venue) es responsabilidad
// del storage; el core solo deduplica contra su snapshot en memoria.
type Storage interface {
	// SaveListings persiste los listados nuevos, ignorando los ya conocidos.
	// Devuelve cuántos se insertaron realmente.
	SaveListings(ctx context.Context, listings []domain.NewListing) (int, error)

	// SaveOpportunities persiste las oportunidades de un ciclo.
	SaveOpportunities(ctx context.Context, opps []domain.Opportunity) error

	// SaveCycle registra el resumen ligero de un ciclo de escaneo.
	SaveCycle(ctx context.Context, summary domain.CycleSummary) error

	// GetHistory devuelve las oportunidades registradas en el rango dado,
	// las más urgentes primero.
	GetHistory(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
