package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

// Console implementa ports.Notifier escribiendo a stdout.
type Console struct {
	out   io.Writer
	table bool // tabla completa en vez de línea compacta
}

// NewConsole crea un notificador de consola.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime las oportunidades en el modo configurado.
func (c *Console) Notify(_ context.Context, opps []domain.Opportunity) error {
	if len(opps) == 0 {
		fmt.Fprintf(c.out, "[%s] no new listings\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printTable(opps)
	} else {
		c.printCompact(opps)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(opps []domain.Opportunity) {
	now := time.Now().Format("15:04:05")
	critical, high := countUrgent(opps)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d listings → CRIT:%d HIGH:%d", now, len(opps), critical, high)

	shown := 0
	for _, opp := range opps {
		if shown >= 4 {
			break
		}
		fmt.Fprintf(&sb, " | %s%s@%s %s",
			opp.Urgency.Icon(), opp.Symbol, opp.SourceVenue, opp.Type)
		if opp.HasPrices && opp.Prices.Arbitrage.Profitable {
			fmt.Fprintf(&sb, " arb%.2f%%", opp.Prices.Arbitrage.ProfitPct)
		}
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printTable imprime la tabla completa con estrategia.
func (c *Console) printTable(opps []domain.Opportunity) {
	now := time.Now().Format("15:04:05")
	critical, high := countUrgent(opps)

	fmt.Fprintf(c.out, "\n[%s] %d new listings — CRIT:%d HIGH:%d\n",
		now, len(opps), critical, high)

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Urg", "Symbol", "Source", "Type", "Venues", "Spread%", "Entry", "T1", "T2", "Stop", "Advice")

	for i, opp := range opps {
		spread := "-"
		if opp.HasPrices {
			spread = fmt.Sprintf("%.2f", opp.Prices.Arbitrage.ProfitPct)
		}

		entry, t1, t2, stop := "-", "-", "-", "-"
		if opp.Strategy != nil {
			entry = fmt.Sprintf("%.6g", opp.Strategy.EntryPrice)
			t1 = fmt.Sprintf("%.6g", opp.Strategy.Target1)
			t2 = fmt.Sprintf("%.6g", opp.Strategy.Target2)
			stop = fmt.Sprintf("%.6g", opp.Strategy.StopLoss)
		}

		advice := "-"
		if opp.Advice != nil {
			advice = string(opp.Advice.Recommendation)
		}

		table.Append(
			fmt.Sprintf("%d", i+1),
			opp.Urgency.String(),
			opp.Symbol,
			opp.SourceVenue,
			opp.Type.String(),
			fmt.Sprintf("%d", opp.Prices.VenueCount()),
			spread,
			entry, t1, t2, stop,
			advice,
		)
	}

	table.Render()

	fmt.Fprintln(c.out, "  Spread% = gap best-buy → best-sell | Entry/T1/T2/Stop en quote currency")
}

// countUrgent cuenta oportunidades CRITICAL y HIGH.
func countUrgent(opps []domain.Opportunity) (critical, high int) {
	for _, o := range opps {
		switch o.Urgency {
		case domain.UrgencyCritical:
			critical++
		case domain.UrgencyHigh:
			high++
		}
	}
	return
}
