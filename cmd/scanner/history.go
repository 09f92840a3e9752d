package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alejandrodnm/tokenscope/internal/adapters/notify"
	"github.com/alejandrodnm/tokenscope/internal/ports"
)

const historyWindow = 7 * 24 * time.Hour

// runHistory imprime las oportunidades persistidas de los últimos 7 días,
// ordenadas como las devuelve el storage (urgencia, luego spread).
func runHistory(ctx context.Context, store ports.Storage) {
	now := time.Now().UTC()
	opps, err := store.GetHistory(ctx, now.Add(-historyWindow), now)
	if err != nil {
		slog.Error("failed to load history", "err", err)
		os.Exit(1)
	}

	if len(opps) == 0 {
		fmt.Println("no opportunities recorded in the last 7 days")
		return
	}

	fmt.Printf("%d opportunities in the last 7 days\n", len(opps))
	console := notify.NewConsole(true)
	if err := console.Notify(ctx, opps); err != nil {
		slog.Error("failed to print history", "err", err)
		os.Exit(1)
	}
}
