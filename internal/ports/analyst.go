package ports

import (
	"context"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

// Analyst produce una recomendación de texto libre para una oportunidad.
// Colaborador opcional: su ausencia o fallo se trata como MANUAL_REVIEW,
// nunca como error fatal del ciclo.
type Analyst interface {
	// Analyze devuelve el análisis y la recomendación gruesa (BUY/WAIT/AVOID).
	Analyze(ctx context.Context, opp domain.Opportunity) (domain.Advice, error)
}
