package analytics

// client.go — cliente HTTP del endpoint traders-tag-performance.
//
// Un único POST JSON. Sin retries: un fallo termina exactamente la unidad
// de trabajo que lo provocó (una categoría, o el loop de crawl) — el caller
// decide cómo seguir. El token bucket solo marca el ritmo de las requests.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/traderscan/internal/domain"
)

const (
	defaultBaseURL = "https://polymarketanalytics.com/api/traders-tag-performance"
	defaultTimeout = 30 * time.Second
	defaultRPS     = 4
)

// Client es el HTTP client de la API de analytics con rate limiting.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient crea un Client contra el base URL dado.
// Si baseURL está vacío usa el endpoint de producción; si timeout o rps
// son <= 0 usa los defaults.
func NewClient(baseURL string, timeout time.Duration, rps float64) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if rps <= 0 {
		rps = defaultRPS
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(rps), 2),
	}
}

// FetchTagPerformance obtiene una página de traders del endpoint.
// Implementa ports.TraderProvider. Un `data` vacío devuelve una lista
// vacía y error nil — "sin resultados" no es un fallo.
func (c *Client) FetchTagPerformance(ctx context.Context, q domain.TagQuery) ([]domain.TraderRecord, error) {
	var resp tagPerformanceResponse
	if err := c.post(ctx, newTagPerformanceRequest(q), &resp); err != nil {
		return nil, fmt.Errorf("analytics.FetchTagPerformance: tag %q page %d: %w", q.Tag, q.Page, err)
	}
	return mapTraders(resp.Data), nil
}

// post hace un POST JSON con rate limiting y decodifica la respuesta en out.
func (c *Client) post(ctx context.Context, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{URL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
