// Package routing adaptador HTTP hacia el servicio de distancias por carretera.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jhoicas/Suministros-api/internal/application/ports"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/resilience"
)

var _ ports.RouteLookup = (*Client)(nil)

// Client consulta GET {baseURL}/v1/route?from=lat,lng&to=lat,lng.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient construye el adaptador.
func NewClient(baseURL string, timeout time.Duration, breaker resilience.BreakerConfig) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    resilience.NewBreaker(breaker),
	}
}

type routeResponse struct {
	DistanceKm float64 `json:"distance_km"`
}

func point(c entity.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lng, 'f', 6, 64)
}

// RoadDistanceKm distancia por carretera entre dos puntos.
func (c *Client) RoadDistanceKm(ctx context.Context, from, to entity.Coordinates) (float64, error) {
	if c.baseURL == "" {
		return 0, fmt.Errorf("routing: URL no configurada: %w", domain.ErrLookupUnavailable)
	}
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, from, to)
	})
	if err != nil {
		if resilience.IsOpen(err) {
			return 0, fmt.Errorf("routing: circuito abierto: %w", domain.ErrLookupUnavailable)
		}
		return 0, err
	}
	return res.(float64), nil
}

func (c *Client) fetch(ctx context.Context, from, to entity.Coordinates) (float64, error) {
	q := url.Values{}
	q.Set("from", point(from))
	q.Set("to", point(to))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/route?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("routing: crear request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("routing: timeout o cancelación: %w", ctx.Err())
		}
		return 0, fmt.Errorf("routing: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	if err != nil {
		return 0, fmt.Errorf("routing: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("routing: status %d", resp.StatusCode)
	}
	var rr routeResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return 0, fmt.Errorf("routing: decodificar respuesta: %w", err)
	}
	if rr.DistanceKm < 0 {
		return 0, fmt.Errorf("routing: distancia negativa")
	}
	return rr.DistanceKm, nil
}
