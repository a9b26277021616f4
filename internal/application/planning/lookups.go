package planning

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Suministros-api/internal/domain/allocation"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/logistics"
)

const (
	lookupPricing = "pricing"
	lookupRouting = "routing"
)

// lookups resultados externos de una pasada, listos para el snapshot.
type lookups struct {
	prices      map[string]allocation.MarketQuote
	routes      logistics.RouteTable
	diagnostics []entity.Diagnostic
}

type routePair struct {
	source, target *entity.Site
}

// prefetch consulta una vez cada NDC y cada par (origen, destino) candidato antes
// de puntuar. Cada llamada tiene su propio timeout; una falla deja el valor
// estático y un diagnóstico lookup_fallback. Los diagnósticos salen en orden estable.
func (uc *PassUseCase) prefetch(ctx context.Context, snap *allocation.Snapshot, signals []entity.DemandSignal) lookups {
	ndcs, pairs := candidates(snap, signals)
	out := lookups{
		prices: make(map[string]allocation.MarketQuote, len(ndcs)),
		routes: make(logistics.RouteTable, len(pairs)),
	}

	quotes := make([]*allocation.MarketQuote, len(ndcs))
	priceErrs := make([]error, len(ndcs))
	distances := make([]float64, len(pairs))
	routeErrs := make([]error, len(pairs))

	var g errgroup.Group
	g.SetLimit(uc.opts.Concurrency)

	if uc.pricing != nil {
		for i, ndc := range ndcs {
			g.Go(func() error {
				cctx, cancel := context.WithTimeout(ctx, uc.opts.LookupTimeout)
				defer cancel()
				q, err := uc.pricing.Quote(cctx, ndc)
				if err != nil {
					priceErrs[i] = err
					return nil
				}
				quotes[i] = &allocation.MarketQuote{
					UnitPrice:    q.UnitPrice,
					Supplier:     q.Supplier,
					InStock:      q.InStock,
					LeadTimeDays: q.LeadTimeDays,
				}
				return nil
			})
		}
	}
	if uc.routing != nil {
		for i, p := range pairs {
			g.Go(func() error {
				cctx, cancel := context.WithTimeout(ctx, uc.opts.LookupTimeout)
				defer cancel()
				km, err := uc.routing.RoadDistanceKm(cctx, p.source.Coordinates, p.target.Coordinates)
				if err != nil {
					routeErrs[i] = err
					return nil
				}
				if km <= 0 {
					routeErrs[i] = fmt.Errorf("distancia inválida %.2f", km)
					return nil
				}
				distances[i] = km
				return nil
			})
		}
	}
	_ = g.Wait() // las goroutines nunca devuelven error

	for i, ndc := range ndcs {
		switch {
		case quotes[i] != nil:
			out.prices[ndc] = *quotes[i]
		case priceErrs[i] != nil:
			uc.observer.ObserveLookupFallback(lookupPricing)
			out.diagnostics = append(out.diagnostics, entity.Diagnostic{
				Kind:    entity.DiagnosticLookupFallback,
				NDC:     ndc,
				Message: fmt.Sprintf("marketplace: se usa precio de catálogo: %v", priceErrs[i]),
			})
		}
	}
	for i, p := range pairs {
		switch {
		case distances[i] > 0:
			out.routes[logistics.RouteKey(p.source.ID, p.target.ID)] = distances[i]
		case routeErrs[i] != nil:
			uc.observer.ObserveLookupFallback(lookupRouting)
			out.diagnostics = append(out.diagnostics, entity.Diagnostic{
				Kind:    entity.DiagnosticLookupFallback,
				SiteID:  p.target.ID,
				Message: fmt.Sprintf("rutas %s→%s: se usa haversine × tortuosidad: %v", p.source.ID, p.target.ID, routeErrs[i]),
			})
		}
	}
	return out
}

// candidates NDCs con demanda y pares (origen con excedente, destino) posibles, ordenados.
func candidates(snap *allocation.Snapshot, signals []entity.DemandSignal) ([]string, []routePair) {
	ndcSeen := map[string]bool{}
	pairSeen := map[string]bool{}
	var ndcs []string
	var pairs []routePair

	for _, sig := range signals {
		if sig.Quantity <= 0 {
			continue
		}
		if !ndcSeen[sig.NDC] {
			ndcSeen[sig.NDC] = true
			ndcs = append(ndcs, sig.NDC)
		}
		target, ok := snap.Site(sig.SiteID)
		if !ok {
			continue
		}
		for _, rec := range snap.RecordsFor(sig.NDC) {
			if rec.SiteID == sig.SiteID || rec.Surplus() <= 0 {
				continue
			}
			source, ok := snap.Site(rec.SiteID)
			if !ok {
				continue
			}
			k := logistics.RouteKey(source.ID, target.ID)
			if pairSeen[k] {
				continue
			}
			pairSeen[k] = true
			pairs = append(pairs, routePair{source: source, target: target})
		}
	}

	sort.Strings(ndcs)
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].source.ID != pairs[j].source.ID {
			return pairs[i].source.ID < pairs[j].source.ID
		}
		return pairs[i].target.ID < pairs[j].target.ID
	})
	return ndcs, pairs
}
