package domain

import "time"

// OpportunityType clasifica el listado según la topología de venues y precios.
type OpportunityType int

const (
	TypeNewListing      OpportunityType = iota // listado sin más señal
	TypeArbitrage                              // cotiza en más de un venue
	TypeMajorListing                           // listado directamente en el venue major
	TypePreMajorListing                        // en un venue early y aún no en el major
)

func (t OpportunityType) String() string {
	switch t {
	case TypeArbitrage:
		return "ARBITRAGE"
	case TypeMajorListing:
		return "MAJOR_LISTING"
	case TypePreMajorListing:
		return "PRE_MAJOR_LISTING"
	default:
		return "NEW_LISTING"
	}
}

// UrgencyTier clasifica cuán sensible al tiempo es la oportunidad.
// El orden numérico (NORMAL < HIGH < CRITICAL) se usa para ordenar alertas.
type UrgencyTier int

const (
	UrgencyNormal UrgencyTier = iota
	UrgencyHigh
	UrgencyCritical
)

func (u UrgencyTier) String() string {
	switch u {
	case UrgencyCritical:
		return "CRITICAL"
	case UrgencyHigh:
		return "HIGH"
	default:
		return "NORMAL"
	}
}

func (u UrgencyTier) Icon() string {
	switch u {
	case UrgencyCritical:
		return "[!!]"
	case UrgencyHigh:
		return "[! ]"
	default:
		return "[  ]"
	}
}

// Recommendation es la recomendación gruesa del colaborador de análisis.
type Recommendation string

const (
	RecommendBuy          Recommendation = "BUY"
	RecommendWait         Recommendation = "WAIT"
	RecommendAvoid        Recommendation = "AVOID"
	RecommendManualReview Recommendation = "MANUAL_REVIEW"
)

// Advice es el resultado del análisis externo de una oportunidad.
type Advice struct {
	Recommendation Recommendation
	Analysis       string
	Model          string
}

// Opportunity es el resultado final del análisis de un nuevo listado.
// Valor inmutable: urgencia y tipo se derivan de la membresía de venues y del
// spread, nunca se asignan de forma independiente.
type Opportunity struct {
	ID          string
	Symbol      string
	SourceVenue string
	Type        OpportunityType
	Urgency     UrgencyTier
	Reason      string // explicación corta de la urgencia, para alertas

	Listing   NewListing
	Prices    PriceSnapshot
	HasPrices bool // false cuando la agregación terminó en NoQuotes

	Strategy     *Strategy // nil cuando no hay precio de entrada válido
	Advice       *Advice   // nil cuando no se invocó al analista
	DetectedAt   time.Time
	ClassifiedAt time.Time
}

// ClassifyConfig parametriza la clasificación de oportunidades.
type ClassifyConfig struct {
	EarlyVenues    []string // venues que listan antes que el major
	MajorVenue     string
	CriticalArbPct float64 // spread que fuerza CRITICAL (default 2.0)
}

// Classify asigna tipo y urgencia a un listado a partir del snapshot de precios.
//
// El orden es parte del contrato: primero el tipo por topología de venues,
// después la urgencia por magnitud del spread, con CRITICAL pisando a HIGH
// cuando ambos aplican. Un snapshot vacío (NoQuotes) es válido: el listado de
// un venue early sin quote del major sigue siendo PRE_MAJOR_LISTING.
func Classify(l NewListing, snap PriceSnapshot, cfg ClassifyConfig) (OpportunityType, UrgencyTier) {
	source := l.Instrument.Venue

	oppType := TypeNewListing
	switch {
	case isEarly(source, cfg.EarlyVenues) && !snap.HasVenue(cfg.MajorVenue):
		oppType = TypePreMajorListing
	case snap.VenueCount() > 1:
		oppType = TypeArbitrage
	case source == cfg.MajorVenue:
		oppType = TypeMajorListing
	}

	urgency := UrgencyNormal
	if oppType == TypePreMajorListing {
		urgency = UrgencyHigh
	}
	if snap.Arbitrage.ProfitPct > cfg.CriticalArbPct {
		urgency = UrgencyCritical
	}

	return oppType, urgency
}

// UrgencyReason devuelve la explicación humana de la urgencia asignada.
func UrgencyReason(oppType OpportunityType, urgency UrgencyTier, source string, arb ArbitrageOpportunity) string {
	switch urgency {
	case UrgencyCritical:
		return "arbitrage spread above critical threshold"
	case UrgencyHigh:
		if oppType == TypePreMajorListing {
			return "listed on " + source + " but not on the major venue yet"
		}
	}
	return ""
}

func isEarly(venue string, early []string) bool {
	for _, e := range early {
		if e == venue {
			return true
		}
	}
	return false
}
