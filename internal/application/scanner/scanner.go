package scanner

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/tokenscope/internal/domain"
	"github.com/alejandrodnm/tokenscope/internal/ports"
)

// Config contiene la configuración del scanner.
type Config struct {
	ScanInterval time.Duration
	Classify     domain.ClassifyConfig
	Once         bool // ejecutar un solo ciclo y salir
}

// Scanner es el orquestador principal del loop de escaneo:
// detectar → agregar precios → clasificar → estrategia → persistir/notificar.
type Scanner struct {
	cfg          Config
	orchestrator *Orchestrator
	aggregator   *Aggregator
	storage      ports.Storage
	notifier     ports.Notifier
	analyst      ports.Analyst
}

// New crea un Scanner con todas las dependencias inyectadas.
// storage y analyst pueden ser nil (modo dry-run / sin AI).
func New(
	cfg Config,
	orchestrator *Orchestrator,
	aggregator *Aggregator,
	storage ports.Storage,
	notifier ports.Notifier,
	analyst ports.Analyst,
) *Scanner {
	return &Scanner{
		cfg:          cfg,
		orchestrator: orchestrator,
		aggregator:   aggregator,
		storage:      storage,
		notifier:     notifier,
		analyst:      analyst,
	}
}

// Run ejecuta el loop de escaneo hasta que el contexto se cancele.
// Si cfg.Once está activo, solo ejecuta un ciclo.
//
// Los ciclos son estrictamente secuenciales: un ciclo nuevo no arranca hasta
// que el anterior terminó, así que los detectores nunca ven llamadas
// concurrentes sobre su snapshot.
func (s *Scanner) Run(ctx context.Context) error {
	slog.Info("scanner starting",
		"interval", s.cfg.ScanInterval,
		"once", s.cfg.Once,
		"major_venue", s.cfg.Classify.MajorVenue,
	)

	if err := s.runCycle(ctx); err != nil {
		slog.Error("scan cycle failed", "err", err)
		if s.cfg.Once {
			return err
		}
	}

	if s.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return nil
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				slog.Error("scan cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente un ciclo y devuelve las oportunidades.
func (s *Scanner) RunOnce(ctx context.Context) ([]domain.Opportunity, error) {
	opps, _, err := s.cycle(ctx)
	return opps, err
}

// runCycle ejecuta un ciclo completo y notifica/persiste los resultados.
func (s *Scanner) runCycle(ctx context.Context) error {
	start := time.Now()

	opps, summary, err := s.cycle(ctx)
	if err != nil {
		return err
	}

	s.emitAlerts(opps)

	if err := s.notifier.Notify(ctx, opps); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if s.storage != nil {
		if err := s.storage.SaveOpportunities(ctx, opps); err != nil {
			slog.Warn("storage error", "err", err)
		}
		if err := s.storage.SaveCycle(ctx, summary); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	slog.Info("scan cycle complete",
		"listings", summary.TotalListings,
		"opportunities", len(opps),
		"critical", summary.Critical,
		"high", summary.High,
		"failed_venues", summary.FailedVenues(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// cycle hace detect → persist listings → analyze → rank y arma el resumen.
func (s *Scanner) cycle(ctx context.Context) ([]domain.Opportunity, domain.CycleSummary, error) {
	start := time.Now().UTC()

	listings, statuses := s.orchestrator.ScanAll(ctx)

	if s.storage != nil && len(listings) > 0 {
		saved, err := s.storage.SaveListings(ctx, listings)
		if err != nil {
			slog.Warn("save listings failed", "err", err)
		} else if saved < len(listings) {
			slog.Debug("listings already known", "skipped", len(listings)-saved)
		}
	}

	opps := s.analyzeListings(ctx, listings)
	rankByUrgency(opps)

	summary := domain.CycleSummary{
		StartedAt:     start,
		Duration:      time.Since(start),
		Venues:        statuses,
		TotalListings: len(listings),
		Opportunities: len(opps),
	}
	for _, o := range opps {
		switch o.Urgency {
		case domain.UrgencyCritical:
			summary.Critical++
		case domain.UrgencyHigh:
			summary.High++
		}
	}

	return opps, summary, nil
}

// analyzeListings convierte cada listado nuevo en una oportunidad completa.
func (s *Scanner) analyzeListings(ctx context.Context, listings []domain.NewListing) []domain.Opportunity {
	opps := make([]domain.Opportunity, 0, len(listings))
	for _, listing := range listings {
		opps = append(opps, s.analyzeListing(ctx, listing))
	}
	return opps
}

// analyzeListing agrega precios, clasifica y deriva la estrategia de un listado.
func (s *Scanner) analyzeListing(ctx context.Context, listing domain.NewListing) domain.Opportunity {
	symbol := listing.Instrument.Symbol

	// NoQuotes es un resultado válido: se clasifica con snapshot vacío
	snap, err := s.aggregator.Snapshot(ctx, symbol)
	hasPrices := err == nil
	if err != nil && !errors.Is(err, domain.ErrNoQuotes) {
		slog.Warn("price aggregation failed", "symbol", symbol, "err", err)
	}

	oppType, urgency := domain.Classify(listing, snap, s.cfg.Classify)

	opp := domain.Opportunity{
		ID:           uuid.NewString(),
		Symbol:       symbol,
		SourceVenue:  listing.Instrument.Venue,
		Type:         oppType,
		Urgency:      urgency,
		Reason:       domain.UrgencyReason(oppType, urgency, listing.Instrument.Venue, snap.Arbitrage),
		Listing:      listing,
		Prices:       snap,
		HasPrices:    hasPrices,
		DetectedAt:   listing.DetectedAt,
		ClassifiedAt: time.Now().UTC(),
	}

	if hasPrices {
		strategy, err := domain.CalculateStrategy(snap.BestBuy.Venue, snap.BestBuy.Price, urgency)
		if err != nil {
			// Sin entrada válida no hay recomendación — nunca targets en cero
			slog.Debug("no strategy for listing", "symbol", symbol, "err", err)
		} else {
			opp.Strategy = &strategy
		}
	}

	if urgency >= domain.UrgencyHigh {
		opp.Advice = s.requestAdvice(ctx, opp)
	}

	return opp
}

// requestAdvice consulta al analista externo. Su ausencia o fallo nunca es
// fatal: degrada a MANUAL_REVIEW.
func (s *Scanner) requestAdvice(ctx context.Context, opp domain.Opportunity) *domain.Advice {
	if s.analyst == nil {
		return &domain.Advice{Recommendation: domain.RecommendManualReview}
	}

	advice, err := s.analyst.Analyze(ctx, opp)
	if err != nil {
		slog.Warn("ai analysis failed", "symbol", opp.Symbol, "err", err)
		return &domain.Advice{Recommendation: domain.RecommendManualReview}
	}
	return &advice
}

// emitAlerts loguea las oportunidades urgentes con máxima visibilidad.
func (s *Scanner) emitAlerts(opps []domain.Opportunity) {
	for _, opp := range opps {
		if opp.Urgency < domain.UrgencyHigh {
			continue
		}

		attrs := []any{
			"symbol", opp.Symbol,
			"source", opp.SourceVenue,
			"type", opp.Type.String(),
			"venues", opp.Prices.VenueCount(),
		}
		if opp.HasPrices {
			attrs = append(attrs,
				"buy", opp.Prices.BestBuy.Venue,
				"sell", opp.Prices.BestSell.Venue,
				"profit_pct", opp.Prices.Arbitrage.ProfitPct,
			)
		}

		if opp.Urgency == domain.UrgencyCritical {
			slog.Error("*** CRITICAL OPPORTUNITY ***", attrs...)
		} else {
			slog.Warn("HIGH urgency listing", attrs...)
		}
	}
}

// rankByUrgency ordena in place: más urgente primero, a igual urgencia el
// mayor spread de arbitraje primero.
func rankByUrgency(opps []domain.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		if opps[i].Urgency != opps[j].Urgency {
			return opps[i].Urgency > opps[j].Urgency
		}
		return opps[i].Prices.Arbitrage.ProfitPct > opps[j].Prices.Arbitrage.ProfitPct
	})
}
