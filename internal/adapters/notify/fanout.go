package notify

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/tokenscope/internal/domain"
	"github.com/alejandrodnm/tokenscope/internal/ports"
)

// Fanout entrega a varios notifiers. El fallo de uno no bloquea a los demás.
type Fanout struct {
	targets []ports.Notifier
}

// NewFanout crea un notificador compuesto.
func NewFanout(targets ...ports.Notifier) *Fanout {
	return &Fanout{targets: targets}
}

// Notify entrega a todos los targets y devuelve el último error visto.
func (f *Fanout) Notify(ctx context.Context, opps []domain.Opportunity) error {
	var lastErr error
	for _, t := range f.targets {
		if err := t.Notify(ctx, opps); err != nil {
			slog.Warn("notifier failed", "err", err)
			lastErr = err
		}
	}
	return lastErr
}
