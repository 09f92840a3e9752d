package venues

// client.go — HTTP client compartido por todos los adapters de venue.
//
// Solo GETs de lectura. Mapea el resultado HTTP a la taxonomía del domain:
// 400/404 → domain.ErrNotFound (símbolo desconocido para el venue),
// todo lo demás que no sea 2xx → domain.ErrVenueUnavailable.
// Los 429 y 5xx se reintentan con backoff exponencial y jitter.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/tokenscope/internal/domain"
)

// Nombres canónicos de venue. Son los que viajan en domain.Instrument.Venue
// y los que usa la configuración early/major.
const (
	VenueGateIO  = "Gate.io"
	VenueMEXC    = "MEXC"
	VenueKuCoin  = "KuCoin"
	VenueBinance = "Binance"
)

const (
	// Límite conservador común: los endpoints públicos de spot aguantan
	// bastante más, pero un scan entero cabe de sobra en 10 req/s.
	requestsPerSec = 10
	burstSize      = 5

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// httpClient envuelve net/http con rate limiting y retries.
type httpClient struct {
	http    *http.Client
	limiter *rate.Limiter
}

func newHTTPClient(timeout time.Duration) *httpClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(requestsPerSec, burstSize),
	}
}

// getJSON hace un GET con rate limiting y retries y decodifica el body en out.
func (c *httpClient) getJSON(ctx context.Context, url string, header http.Header, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("%w: build request: %v", domain.ErrVenueUnavailable, err)
		}
		req.Header.Set("Accept", "application/json")
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("%w: after %d retries: %v", domain.ErrVenueUnavailable, maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("%w: status %d after %d retries", domain.ErrVenueUnavailable, resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue

		case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
			// Los venues responden 400/404 a símbolos que no listan
			resp.Body.Close()
			return fmt.Errorf("%w: status %d", domain.ErrNotFound, resp.StatusCode)

		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return fmt.Errorf("%w: status %d: %s", domain.ErrVenueUnavailable, resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("%w: decode response: %v", domain.ErrVenueUnavailable, err)
		}
		return nil
	}
	return fmt.Errorf("%w: exhausted %d retries", domain.ErrVenueUnavailable, maxRetries)
}

// sleep espera con backoff exponencial y jitter, respetando el contexto.
func (c *httpClient) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	wait += time.Duration(rand.Int63n(int64(baseRetryWait)))
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

// toF convierte los números-como-string de los APIs de spot a float64.
// Campo ausente o inválido vale 0, igual que hacen los venues al deslistar.
func toF(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
