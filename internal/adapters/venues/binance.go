package venues

// binance.go — adapter de Binance.
//
// Binance no expone un catálogo útil para detectar listados con antelación:
// lo que publica primero son anuncios editoriales ("Binance Will List Turtle
// (TURTLE)"). Por eso implementa ports.AnnouncementClient y el parsing de
// títulos vive aquí, no en el contrato común.
//
// Para la agregación de precios sí usa el API spot normal.

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

const (
	defaultBinanceBase    = "https://api.binance.com"
	defaultBinanceCMSBase = "https://www.binance.com"

	announcementsPath = "/bapi/composite/v1/public/cms/article/list/query"
	// catalogId 48 = "New Cryptocurrency Listing"
	announcementsQuery = "?type=1&catalogId=48&pageNo=1&pageSize=20"
)

// El CMS rechaza requests sin User-Agent de navegador.
var cmsHeader = http.Header{
	"User-Agent": []string{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"},
}

// Binance implementa ports.AnnouncementClient.
type Binance struct {
	c       *httpClient
	base    string // API spot
	cmsBase string // feed de anuncios
}

// NewBinance crea el adapter. URLs vacíos usan producción.
func NewBinance(base, cmsBase string, timeout time.Duration) *Binance {
	if base == "" {
		base = defaultBinanceBase
	}
	if cmsBase == "" {
		cmsBase = defaultBinanceCMSBase
	}
	return &Binance{c: newHTTPClient(timeout), base: base, cmsBase: cmsBase}
}

func (b *Binance) Name() string { return VenueBinance }

type binanceCMSResponse struct {
	Code string `json:"code"`
	Data struct {
		Catalogs []struct {
			Articles []binanceArticle `json:"articles"`
		} `json:"catalogs"`
	} `json:"data"`
}

type binanceArticle struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Code        string `json:"code"`
	ReleaseDate int64  `json:"releaseDate"` // epoch millis
}

type binanceTicker struct {
	LastPrice   string `json:"lastPrice"`
	QuoteVolume string `json:"quoteVolume"`
}

// FetchAnnouncements devuelve los anuncios de listados más recientes.
func (b *Binance) FetchAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	var resp binanceCMSResponse
	url := b.cmsBase + announcementsPath + announcementsQuery
	if err := b.c.getJSON(ctx, url, cmsHeader, &resp); err != nil {
		return nil, fmt.Errorf("binance.FetchAnnouncements: %w", err)
	}
	if resp.Code != "000000" {
		return nil, fmt.Errorf("binance.FetchAnnouncements: %w: cms code %s", domain.ErrVenueUnavailable, resp.Code)
	}
	if len(resp.Data.Catalogs) == 0 {
		return nil, nil
	}

	articles := resp.Data.Catalogs[0].Articles
	anns := make([]domain.Announcement, 0, len(articles))
	for _, a := range articles {
		anns = append(anns, domain.Announcement{
			ID:          a.ID,
			Title:       a.Title,
			URL:         announcementURL(a.Code),
			Symbols:     extractSymbols(a.Title),
			Name:        extractName(a.Title),
			ListingType: listingType(a.Title),
			ReleasedAt:  time.UnixMilli(a.ReleaseDate).UTC(),
		})
	}
	return anns, nil
}

// FetchQuote devuelve la quote del símbolo base contra USDT.
// GET /api/v3/ticker/24hr?symbol={SYMBOL}USDT
func (b *Binance) FetchQuote(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	var t binanceTicker
	url := b.base + "/api/v3/ticker/24hr?symbol=" + symbol + "USDT"
	if err := b.c.getJSON(ctx, url, nil, &t); err != nil {
		return domain.PriceQuote{}, fmt.Errorf("binance.FetchQuote %s: %w", symbol, err)
	}
	return domain.PriceQuote{
		Venue:     VenueBinance,
		Symbol:    symbol,
		Price:     toF(t.LastPrice),
		Volume24h: toF(t.QuoteVolume),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// announcementURL construye la URL pública de un anuncio.
func announcementURL(code string) string {
	return "https://www.binance.com/en/support/announcement/detail/" + code
}

// --- parsing de títulos ---

// Patrón "(SYMBOL)" o "(SYM1, SYM2)" en el título del anuncio.
var symbolsRe = regexp.MustCompile(`\(([A-Z0-9, ]+)\)`)

var namePrefixes = []string{
	"Binance Will List ",
	"Introducing ",
	"Binance Will Add ",
}

// extractSymbols saca los símbolos de tokens del título de un anuncio.
// "Binance Will List Turtle (TURTLE)" → ["TURTLE"].
func extractSymbols(title string) []string {
	var symbols []string
	for _, match := range symbolsRe.FindAllStringSubmatch(title, -1) {
		for _, s := range strings.Split(match[1], ",") {
			s = strings.TrimSpace(s)
			if len(s) >= 2 && len(s) <= 10 {
				symbols = append(symbols, s)
			}
		}
	}
	return symbols
}

// extractName saca el nombre del token: el texto antes del primer paréntesis,
// sin los prefijos editoriales habituales.
func extractName(title string) string {
	name := title
	if i := strings.Index(title, "("); i >= 0 {
		name = title[:i]
	}
	for _, prefix := range namePrefixes {
		name = strings.ReplaceAll(name, prefix, "")
	}
	return strings.TrimSpace(name)
}

// listingType clasifica el anuncio por palabras clave del título.
func listingType(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "alpha"):
		return "Binance Alpha"
	case strings.Contains(t, "futures"):
		return "Binance Futures"
	case strings.Contains(t, "hodler") || strings.Contains(t, "airdrop"):
		return "HODLer Airdrop"
	case strings.Contains(t, "launchpad") || strings.Contains(t, "launchpool"):
		return "Launchpad"
	default:
		return "Spot Listing"
	}
}
