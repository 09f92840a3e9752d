package domain

import "math"

// Strategy es el plan de entrada/salida derivado del precio y la urgencia.
// Determinista: nunca lo edita el usuario.
type Strategy struct {
	EntryVenue   string
	EntryPrice   float64
	Target1      float64
	Target2      float64
	StopLoss     float64
	PositionSize string // banda de tamaño de posición ("2-3%" del portfolio)
	TimeWindow   string // ventana de validez del plan ("12-24h")
}

// tierParams es la tabla fija de multiplicadores por tier de urgencia.
type tierParams struct {
	target1, target2, stopLoss float64
	positionSize, timeWindow   string
}

var strategyTable = map[UrgencyTier]tierParams{
	UrgencyCritical: {1.50, 2.00, 0.85, "2-3%", "12-24h"},
	UrgencyHigh:     {1.30, 1.60, 0.90, "2-3%", "12-24h"},
	UrgencyNormal:   {1.20, 1.40, 0.92, "1-2%", "24-48h"},
}

// CalculateStrategy deriva la estrategia para un precio de entrada y un tier.
//
// Un entryPrice cero o negativo es ErrNoValidEntry para cualquier tier: el
// caller debe tratarlo como "sin recomendación", nunca emitir targets en cero.
func CalculateStrategy(entryVenue string, entryPrice float64, tier UrgencyTier) (Strategy, error) {
	if entryPrice <= 0 {
		return Strategy{}, ErrNoValidEntry
	}

	p, ok := strategyTable[tier]
	if !ok {
		p = strategyTable[UrgencyNormal]
	}

	return Strategy{
		EntryVenue:   entryVenue,
		EntryPrice:   entryPrice,
		Target1:      round6(entryPrice * p.target1),
		Target2:      round6(entryPrice * p.target2),
		StopLoss:     round6(entryPrice * p.stopLoss),
		PositionSize: p.positionSize,
		TimeWindow:   p.timeWindow,
	}, nil
}

// round6 redondea a 6 decimales, suficiente para tokens de precio muy bajo.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
