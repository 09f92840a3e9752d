package storage

// sqlite.go — persistencia de listados y oportunidades.
//
// Estrategia:
//   - `listings`: una fila por (symbol, venue), INSERT OR IGNORE. Es la
//     memoria de deduplicación contra el histórico — el core solo deduplica
//     contra su snapshot en memoria, así que esta tabla no se poda.
//   - `cycles`: resumen ligero por ciclo. Siempre 1 fila, ~60 bytes.
//   - `opportunities`: una fila por oportunidad emitida.
//   - Prune automático al arrancar: cycles y opportunities > 30d.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/tokenscope/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Memoria de deduplicación: un listado por (symbol, venue)
CREATE TABLE IF NOT EXISTS listings (
    symbol           TEXT NOT NULL,
    venue            TEXT NOT NULL,
    pair             TEXT,
    name             TEXT,
    listing_type     TEXT,
    announcement_url TEXT,
    price            REAL NOT NULL DEFAULT 0,
    volume_24h       REAL NOT NULL DEFAULT 0,
    high_24h         REAL NOT NULL DEFAULT 0,
    low_24h          REAL NOT NULL DEFAULT 0,
    change_pct_24h   REAL NOT NULL DEFAULT 0,
    detected_at      DATETIME NOT NULL,
    PRIMARY KEY (symbol, venue)
);

-- Resumen ligero por ciclo de scan
CREATE TABLE IF NOT EXISTS cycles (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at    DATETIME NOT NULL,
    duration_ms   INTEGER  NOT NULL DEFAULT 0,
    listings      INTEGER  NOT NULL DEFAULT 0,
    opportunities INTEGER  NOT NULL DEFAULT 0,
    critical      INTEGER  NOT NULL DEFAULT 0,
    high          INTEGER  NOT NULL DEFAULT 0,
    failed_venues INTEGER  NOT NULL DEFAULT 0
);

-- Una fila por oportunidad emitida
CREATE TABLE IF NOT EXISTS opportunities (
    id             TEXT PRIMARY KEY,
    symbol         TEXT NOT NULL,
    source_venue   TEXT NOT NULL,
    opp_type       TEXT NOT NULL,
    urgency        TEXT NOT NULL,
    reason         TEXT,
    venues         INTEGER NOT NULL DEFAULT 0,
    buy_venue      TEXT,
    sell_venue     TEXT,
    profit_pct     REAL    NOT NULL DEFAULT 0,
    profitable     INTEGER NOT NULL DEFAULT 0,
    entry_price    REAL    NOT NULL DEFAULT 0,
    target_1       REAL    NOT NULL DEFAULT 0,
    target_2       REAL    NOT NULL DEFAULT 0,
    stop_loss      REAL    NOT NULL DEFAULT 0,
    position_size  TEXT,
    time_window    TEXT,
    recommendation TEXT,
    detected_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cycles_at       ON cycles(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_opp_detected    ON opportunities(detected_at DESC);
CREATE INDEX IF NOT EXISTS idx_opp_urgency     ON opportunities(urgency);
CREATE INDEX IF NOT EXISTS idx_listings_seen   ON listings(detected_at DESC);
`

const retention = 30 * 24 * time.Hour

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveListings inserta los listados nuevos; los ya conocidos por
// (symbol, venue) se ignoran. Devuelve cuántos se insertaron realmente.
func (s *SQLiteStorage) SaveListings(ctx context.Context, listings []domain.NewListing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage.SaveListings: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO listings
			(symbol, venue, pair, name, listing_type, announcement_url,
			 price, volume_24h, high_24h, low_24h, change_pct_24h, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("storage.SaveListings: prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, l := range listings {
		res, err := stmt.ExecContext(ctx,
			l.Instrument.Symbol,
			l.Instrument.Venue,
			l.Instrument.Pair,
			l.Name,
			l.ListingType,
			l.AnnouncementURL,
			l.Ticker.Price,
			l.Ticker.Volume24h,
			l.Ticker.High24h,
			l.Ticker.Low24h,
			l.Ticker.ChangePct24h,
			l.DetectedAt.UTC(),
		)
		if err != nil {
			return inserted, fmt.Errorf("storage.SaveListings: insert %s/%s: %w",
				l.Instrument.Symbol, l.Instrument.Venue, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("storage.SaveListings: commit: %w", err)
	}
	return inserted, nil
}

// SaveOpportunities persiste las oportunidades de un ciclo.
func (s *SQLiteStorage) SaveOpportunities(ctx context.Context, opps []domain.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveOpportunities: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO opportunities
			(id, symbol, source_venue, opp_type, urgency, reason, venues,
			 buy_venue, sell_venue, profit_pct, profitable,
			 entry_price, target_1, target_2, stop_loss, position_size, time_window,
			 recommendation, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveOpportunities: prepare: %w", err)
	}
	defer stmt.Close()

	for _, opp := range opps {
		profitable := 0
		if opp.Prices.Arbitrage.Profitable {
			profitable = 1
		}

		var entry, t1, t2, stop float64
		var posSize, window string
		if opp.Strategy != nil {
			entry = opp.Strategy.EntryPrice
			t1 = opp.Strategy.Target1
			t2 = opp.Strategy.Target2
			stop = opp.Strategy.StopLoss
			posSize = opp.Strategy.PositionSize
			window = opp.Strategy.TimeWindow
		}

		var recommendation string
		if opp.Advice != nil {
			recommendation = string(opp.Advice.Recommendation)
		}

		if _, err := stmt.ExecContext(ctx,
			opp.ID,
			opp.Symbol,
			opp.SourceVenue,
			opp.Type.String(),
			opp.Urgency.String(),
			opp.Reason,
			opp.Prices.VenueCount(),
			opp.Prices.Arbitrage.BuyVenue,
			opp.Prices.Arbitrage.SellVenue,
			opp.Prices.Arbitrage.ProfitPct,
			profitable,
			entry, t1, t2, stop, posSize, window,
			recommendation,
			opp.DetectedAt.UTC(),
		); err != nil {
			return fmt.Errorf("storage.SaveOpportunities: upsert %s: %w", opp.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveOpportunities: commit: %w", err)
	}
	return nil
}

// SaveCycle registra el resumen ligero de un ciclo.
func (s *SQLiteStorage) SaveCycle(ctx context.Context, summary domain.CycleSummary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cycles (started_at, duration_ms, listings, opportunities, critical, high, failed_venues)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.StartedAt.UTC(),
		summary.Duration.Milliseconds(),
		summary.TotalListings,
		summary.Opportunities,
		summary.Critical,
		summary.High,
		summary.FailedVenues(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveCycle: insert: %w", err)
	}
	return nil
}

// GetHistory devuelve las oportunidades detectadas en el rango dado,
// las más urgentes primero y a igual urgencia el mayor spread primero.
func (s *SQLiteStorage) GetHistory(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, source_venue, opp_type, urgency, reason, venues,
		       buy_venue, sell_venue, profit_pct, profitable,
		       entry_price, target_1, target_2, stop_loss, position_size, time_window,
		       recommendation, detected_at
		FROM opportunities
		WHERE detected_at BETWEEN ? AND ?
		ORDER BY CASE urgency
		         WHEN 'CRITICAL' THEN 0
		         WHEN 'HIGH' THEN 1
		         ELSE 2 END,
		         profit_pct DESC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.GetHistory: query: %w", err)
	}
	defer rows.Close()

	var opps []domain.Opportunity
	for rows.Next() {
		var opp domain.Opportunity
		var oppType, urgency, recommendation, detectedAt string
		var profitable, venueCount int
		var entry, t1, t2, stop float64
		var posSize, window string

		if err := rows.Scan(
			&opp.ID,
			&opp.Symbol,
			&opp.SourceVenue,
			&oppType,
			&urgency,
			&opp.Reason,
			&venueCount,
			&opp.Prices.Arbitrage.BuyVenue,
			&opp.Prices.Arbitrage.SellVenue,
			&opp.Prices.Arbitrage.ProfitPct,
			&profitable,
			&entry, &t1, &t2, &stop, &posSize, &window,
			&recommendation,
			&detectedAt,
		); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: scan row: %w", err)
		}

		opp.Type = parseType(oppType)
		opp.Urgency = parseUrgency(urgency)
		opp.Prices.Arbitrage.Profitable = profitable == 1
		opp.HasPrices = venueCount > 0
		opp.DetectedAt, _ = time.Parse(time.RFC3339, detectedAt)

		if entry > 0 {
			opp.Strategy = &domain.Strategy{
				EntryVenue:   opp.Prices.Arbitrage.BuyVenue,
				EntryPrice:   entry,
				Target1:      t1,
				Target2:      t2,
				StopLoss:     stop,
				PositionSize: posSize,
				TimeWindow:   window,
			}
		}
		if recommendation != "" {
			opp.Advice = &domain.Advice{Recommendation: domain.Recommendation(recommendation)}
		}

		opps = append(opps, opp)
	}

	return opps, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
// listings no se poda: es la memoria de deduplicación histórica.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retention)
	s.db.ExecContext(ctx, `DELETE FROM cycles WHERE started_at < ?`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM opportunities WHERE detected_at < ?`, cutoff)
}

func parseType(s string) domain.OpportunityType {
	switch s {
	case "ARBITRAGE":
		return domain.TypeArbitrage
	case "MAJOR_LISTING":
		return domain.TypeMajorListing
	case "PRE_MAJOR_LISTING":
		return domain.TypePreMajorListing
	default:
		return domain.TypeNewListing
	}
}

func parseUrgency(s string) domain.UrgencyTier {
	switch s {
	case "CRITICAL":
		return domain.UrgencyCritical
	case "HIGH":
		return domain.UrgencyHigh
	default:
		return domain.UrgencyNormal
	}
}
