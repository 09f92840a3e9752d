package notify

// telegram.go — alertas por Telegram Bot API.
//
// El core calcula qué enviar; aquí solo se formatea y entrega. Una entrega
// fallida se loguea y no se reintenta. El limiter de 1 msg / 2s evita el
// rate limit de Telegram cuando un ciclo emite varias alertas.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram implementa ports.Notifier contra el Bot API.
type Telegram struct {
	http    *http.Client
	limiter *rate.Limiter
	base    string
	token   string
	chatID  string

	// MinUrgency filtra qué se alerta; por defecto solo HIGH y CRITICAL.
	MinUrgency domain.UrgencyTier
}

// NewTelegram crea el notificador. base vacío usa el API de producción.
func NewTelegram(base, token, chatID string) *Telegram {
	if base == "" {
		base = telegramAPIBase
	}
	return &Telegram{
		http:       &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 1),
		base:       base,
		token:      token,
		chatID:     chatID,
		MinUrgency: domain.UrgencyHigh,
	}
}

// Notify envía un mensaje por oportunidad que supere MinUrgency.
// Las oportunidades llegan ya ordenadas por urgencia, así que las CRITICAL
// salen primero. Devuelve el último error de entrega, si hubo alguno.
func (t *Telegram) Notify(ctx context.Context, opps []domain.Opportunity) error {
	var lastErr error
	for _, opp := range opps {
		if opp.Urgency < t.MinUrgency {
			continue
		}

		if err := t.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("notify.Telegram: rate limiter: %w", err)
		}

		if err := t.sendMessage(ctx, formatOpportunity(opp)); err != nil {
			slog.Warn("telegram delivery failed", "symbol", opp.Symbol, "err", err)
			lastErr = err
		}
	}
	return lastErr
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// sendMessage hace el POST sendMessage. Sin retries: el core no reintenta entregas.
func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.base, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API: %s", result.Description)
	}
	return nil
}

// formatOpportunity arma el mensaje HTML de una alerta.
func formatOpportunity(opp domain.Opportunity) string {
	var sb strings.Builder

	switch opp.Urgency {
	case domain.UrgencyCritical:
		sb.WriteString("🚨 <b>CRITICAL</b> ")
	case domain.UrgencyHigh:
		sb.WriteString("🔥 <b>HIGH</b> ")
	default:
		sb.WriteString("🆕 ")
	}
	fmt.Fprintf(&sb, "<b>%s</b> — %s\n", opp.Symbol, opp.Type)
	fmt.Fprintf(&sb, "Detected on <b>%s</b>\n", opp.SourceVenue)

	if opp.Reason != "" {
		fmt.Fprintf(&sb, "<i>%s</i>\n", opp.Reason)
	}

	if opp.HasPrices {
		sb.WriteString("\n<b>Prices</b>\n")
		for _, q := range opp.Prices.Quotes {
			fmt.Fprintf(&sb, "  %s: $%.6g (vol $%.0f)\n", q.Venue, q.Price, q.Volume24h)
		}
		arb := opp.Prices.Arbitrage
		if arb.Profitable {
			fmt.Fprintf(&sb, "\n💰 Buy on %s, sell on %s: <b>%.2f%%</b>\n",
				arb.BuyVenue, arb.SellVenue, arb.ProfitPct)
		}
	}

	if opp.Strategy != nil {
		s := opp.Strategy
		sb.WriteString("\n<b>Strategy</b>\n")
		fmt.Fprintf(&sb, "  Entry: $%.6g on %s\n", s.EntryPrice, s.EntryVenue)
		fmt.Fprintf(&sb, "  T1: $%.6g | T2: $%.6g | Stop: $%.6g\n", s.Target1, s.Target2, s.StopLoss)
		fmt.Fprintf(&sb, "  Size: %s | Window: %s\n", s.PositionSize, s.TimeWindow)
	}

	if opp.Advice != nil {
		fmt.Fprintf(&sb, "\nAI: <b>%s</b>\n", opp.Advice.Recommendation)
	}

	if opp.Listing.AnnouncementURL != "" {
		fmt.Fprintf(&sb, "\n%s", opp.Listing.AnnouncementURL)
	}

	return sb.String()
}
