package ports

import (
	"context"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

// Notifier entrega las oportunidades de un ciclo al usuario.
// El core calcula qué enviar; el notifier no reintenta entregas fallidas.
type Notifier interface {
	// Notify entrega las oportunidades, las más urgentes primero.
	Notify(ctx context.Context, opps []domain.Opportunity) error
}
