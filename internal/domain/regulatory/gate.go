// Package regulatory implementa la compuerta regulatoria: predicados puros que
// deciden si un canal de compra o una ruta de transferencia es legalmente
// permisible. Cada regla es independiente y su resultado queda en la traza.
package regulatory

import "github.com/jhoicas/Suministros-api/internal/domain/entity"

// Decision veredicto de una regla o de una compuerta completa.
type Decision struct {
	Allowed bool
	Reason  string
}

// ChannelQuery entrada de las reglas de canal.
type ChannelQuery struct {
	Site    *entity.Site
	Channel entity.Channel
	Orphan  bool
	Setting entity.PatientSetting
}

// RouteQuery entrada de las reglas de transferencia y de titularidad.
type RouteQuery struct {
	Source  *entity.Site
	Target  *entity.Site
	Urgency entity.Urgency
}

// Rule regla regulatoria identificada por nombre y familia.
type Rule interface {
	Name() string
	Kind() entity.RuleKind
}

// ChannelRule regla que evalúa un canal de compra para un sitio.
type ChannelRule interface {
	Rule
	CheckChannel(q ChannelQuery) Decision
}

// RouteRule regla que evalúa un par origen/destino (familias transfer y ownership).
type RouteRule interface {
	Rule
	CheckRoute(q RouteQuery) Decision
}

// Gate lista ordenada de reglas. Agregar una jurisdicción es agregar una regla.
type Gate struct {
	rules []Rule
}

// NewGate construye la compuerta con las reglas en el orden dado.
func NewGate(rules ...Rule) *Gate {
	return &Gate{rules: rules}
}

// NewDefaultGate compuerta con el conjunto de reglas vigente.
func NewDefaultGate() *Gate {
	return NewGate(DefaultRules()...)
}

// Rules copia de las reglas registradas.
func (g *Gate) Rules() []Rule {
	out := make([]Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// ChannelEligible evalúa todas las reglas de canal y devuelve el veredicto y la traza completa.
func (g *Gate) ChannelEligible(q ChannelQuery) (Decision, []entity.TraceEntry) {
	var trace []entity.TraceEntry
	for _, r := range g.rules {
		cr, ok := r.(ChannelRule)
		if !ok || r.Kind() != entity.RuleKindChannel {
			continue
		}
		trace = append(trace, traceOf(r, cr.CheckChannel(q)))
	}
	return verdict(trace, "canal elegible"), trace
}

// TransferCompliant evalúa las reglas de transferencia (DSCSA, paridad 340B, volumen).
func (g *Gate) TransferCompliant(q RouteQuery) (Decision, []entity.TraceEntry) {
	return g.route(entity.RuleKindTransfer, q, "transferencia conforme")
}

// OwnUseTransferValid evalúa las reglas de titularidad (frontera anti-desvío).
func (g *Gate) OwnUseTransferValid(q RouteQuery) (Decision, []entity.TraceEntry) {
	return g.route(entity.RuleKindOwnership, q, "uso propio válido")
}

// Transfer evalúa transferencia y titularidad; devuelve el veredicto combinado y
// la traza de todas las reglas evaluadas (incluidas las que pasaron).
func (g *Gate) Transfer(q RouteQuery) (Decision, []entity.TraceEntry) {
	d1, t1 := g.TransferCompliant(q)
	d2, t2 := g.OwnUseTransferValid(q)
	trace := append(t1, t2...)
	if !d1.Allowed {
		return d1, trace
	}
	if !d2.Allowed {
		return d2, trace
	}
	return Decision{Allowed: true, Reason: "transferencia permitida"}, trace
}

func (g *Gate) route(kind entity.RuleKind, q RouteQuery, okReason string) (Decision, []entity.TraceEntry) {
	var trace []entity.TraceEntry
	for _, r := range g.rules {
		rr, ok := r.(RouteRule)
		if !ok || r.Kind() != kind {
			continue
		}
		trace = append(trace, traceOf(r, rr.CheckRoute(q)))
	}
	return verdict(trace, okReason), trace
}

func traceOf(r Rule, d Decision) entity.TraceEntry {
	return entity.TraceEntry{Rule: r.Name(), Kind: r.Kind(), Allowed: d.Allowed, Reason: d.Reason}
}

// verdict primera denegación gana; sin denegaciones se permite.
func verdict(trace []entity.TraceEntry, okReason string) Decision {
	for _, t := range trace {
		if !t.Allowed {
			return Decision{Allowed: false, Reason: t.Reason}
		}
	}
	return Decision{Allowed: true, Reason: okReason}
}

var defaultGate = NewDefaultGate()

// ChannelEligible atajo sobre la compuerta por defecto.
func ChannelEligible(site *entity.Site, channel entity.Channel, orphan bool, setting entity.PatientSetting) Decision {
	d, _ := defaultGate.ChannelEligible(ChannelQuery{Site: site, Channel: channel, Orphan: orphan, Setting: setting})
	return d
}

// TransferCompliant atajo sobre la compuerta por defecto.
func TransferCompliant(source, target *entity.Site) Decision {
	d, _ := defaultGate.TransferCompliant(RouteQuery{Source: source, Target: target})
	return d
}

// OwnUseTransferValid atajo sobre la compuerta por defecto.
func OwnUseTransferValid(source, target *entity.Site) Decision {
	d, _ := defaultGate.OwnUseTransferValid(RouteQuery{Source: source, Target: target})
	return d
}
