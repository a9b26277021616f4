// Package marketplace adaptador HTTP hacia el marketplace de precios de medicamentos.
package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/Suministros-api/internal/application/ports"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/resilience"
)

var _ ports.PricingLookup = (*Client)(nil)

// Client consulta GET {baseURL}/v1/prices/{ndc} a través de un circuit breaker.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient construye el adaptador. timeout acota la llamada de red; el caso de uso
// impone además su propio context.WithTimeout.
func NewClient(baseURL, apiKey string, timeout time.Duration, breaker resilience.BreakerConfig) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    resilience.NewBreaker(breaker),
	}
}

// ── Protocolo ─────────────────────────────────────────────────────────────────

type priceResponse struct {
	NDC          string          `json:"ndc"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Supplier     string          `json:"supplier"`
	InStock      bool            `json:"in_stock"`
	LeadTimeDays int             `json:"lead_time_days"`
}

// Quote precio vigente del NDC. Con el breaker abierto devuelve domain.ErrLookupUnavailable sin llamar al servicio.
func (c *Client) Quote(ctx context.Context, ndc string) (*ports.PriceQuote, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("marketplace: URL no configurada: %w", domain.ErrLookupUnavailable)
	}
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, ndc)
	})
	if err != nil {
		if resilience.IsOpen(err) {
			return nil, fmt.Errorf("marketplace: circuito abierto: %w", domain.ErrLookupUnavailable)
		}
		return nil, err
	}
	return res.(*ports.PriceQuote), nil
}

func (c *Client) fetch(ctx context.Context, ndc string) (*ports.PriceQuote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/prices/"+url.PathEscape(ndc), nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: crear request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("marketplace: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("marketplace: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("marketplace: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("marketplace: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var pr priceResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("marketplace: decodificar respuesta: %w", err)
	}
	if !pr.UnitPrice.IsPositive() {
		return nil, fmt.Errorf("marketplace: precio no positivo para %s", ndc)
	}
	if pr.NDC == "" {
		pr.NDC = ndc
	}
	return &ports.PriceQuote{
		NDC:          pr.NDC,
		UnitPrice:    pr.UnitPrice,
		Supplier:     pr.Supplier,
		InStock:      pr.InStock,
		LeadTimeDays: pr.LeadTimeDays,
	}, nil
}
