package ai

// groq.go — análisis opcional con LLM vía el API de Groq (OpenAI-compatible).
//
// Colaborador estrictamente opcional: cualquier fallo degrada a MANUAL_REVIEW
// aguas arriba, nunca tumba un ciclo de escaneo.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

const (
	defaultGroqBase = "https://api.groq.com/openai/v1"
	defaultModel    = "llama-3.3-70b-versatile"

	systemPrompt = "You are an expert crypto analyst with 10 years experience. " +
		"Be concise, direct, honest about risks. Format with clear headers."
)

// Groq implementa ports.Analyst contra el endpoint de chat completions.
type Groq struct {
	http   *http.Client
	base   string
	apiKey string
	model  string
}

// NewGroq crea el adapter. base/model vacíos usan los defaults.
func NewGroq(base, apiKey, model string) *Groq {
	if base == "" {
		base = defaultGroqBase
	}
	if model == "" {
		model = defaultModel
	}
	return &Groq{
		http:   &http.Client{Timeout: 30 * time.Second},
		base:   base,
		apiKey: apiKey,
		model:  model,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Analyze pide un análisis de la oportunidad y extrae la recomendación gruesa.
func (g *Groq) Analyze(ctx context.Context, opp domain.Opportunity) (domain.Advice, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(opp)},
		},
		Temperature: 0.3,
		MaxTokens:   2048,
	})
	if err != nil {
		return domain.Advice{}, fmt.Errorf("ai.Analyze: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return domain.Advice{}, fmt.Errorf("ai.Analyze: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.http.Do(req)
	if err != nil {
		return domain.Advice{}, fmt.Errorf("ai.Analyze: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Advice{}, fmt.Errorf("ai.Analyze: status %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.Advice{}, fmt.Errorf("ai.Analyze: decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return domain.Advice{}, fmt.Errorf("ai.Analyze: empty response")
	}

	analysis := result.Choices[0].Message.Content
	return domain.Advice{
		Recommendation: parseRecommendation(analysis),
		Analysis:       analysis,
		Model:          g.model,
	}, nil
}

// buildPrompt arma el prompt con los datos de mercado de la oportunidad.
func buildPrompt(opp domain.Opportunity) string {
	var sb strings.Builder

	sb.WriteString("You are a professional cryptocurrency trader analyzing a new token listing.\n\n")
	sb.WriteString("TOKEN DATA:\n")
	fmt.Fprintf(&sb, "Name: %s\nSymbol: %s\nExchange: %s\nListing type: %s\n",
		opp.Listing.Name, opp.Symbol, opp.SourceVenue, opp.Listing.ListingType)

	sb.WriteString("\nMARKET DATA:\n")
	if opp.HasPrices {
		fmt.Fprintf(&sb, "Current Price: $%.6g\n", opp.Prices.BestBuy.Price)
		var totalVol float64
		for _, q := range opp.Prices.Quotes {
			totalVol += q.Volume24h
		}
		fmt.Fprintf(&sb, "24h Volume (all venues): $%.0f\n", totalVol)
		fmt.Fprintf(&sb, "Venues quoting: %d\n", opp.Prices.VenueCount())
		fmt.Fprintf(&sb, "Cross-venue spread: %.2f%%\n", opp.Prices.Arbitrage.ProfitPct)
	} else {
		sb.WriteString("No price data yet (announced, not trading)\n")
	}

	fmt.Fprintf(&sb, "\nOpportunity type: %s\nUrgency: %s\n", opp.Type, opp.Urgency)

	sb.WriteString(`
Provide a concise analysis (150-200 words):
1. Risk Level (LOW/MEDIUM/HIGH)
2. Recommendation (BUY/WAIT/AVOID)
3. Key reasons (2-3 bullets)
4. Red flags (if any)
5. Position size (% of portfolio)

Be direct and actionable.`)

	return sb.String()
}

// parseRecommendation extrae la recomendación gruesa del texto libre.
// AVOID gana sobre BUY si aparecen ambas; sin señal clara → WAIT.
func parseRecommendation(analysis string) domain.Recommendation {
	upper := strings.ToUpper(analysis)
	switch {
	case strings.Contains(upper, "AVOID"):
		return domain.RecommendAvoid
	case strings.Contains(upper, "BUY"):
		return domain.RecommendBuy
	default:
		return domain.RecommendWait
	}
}
