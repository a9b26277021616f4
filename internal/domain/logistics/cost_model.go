// Package logistics calcula distancia, medio de transporte, costo y tiempo de
// entrega para transferencias entre sitios y para compras a proveedor.
package logistics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

const (
	// DefaultVendorDistanceKm distancia supuesta al centro de distribución del proveedor.
	DefaultVendorDistanceKm = 500.0
	// DefaultLeadTimeDays plazo de entrega de un proveedor sin dato de marketplace.
	DefaultLeadTimeDays = 2
	minutesPerDay       = 24 * 60
)

var (
	vendorProcessingFee = decimal.NewFromInt(50)
	vendorRatePerKm     = decimal.RequireFromString("1.5")
)

// Quote cotización logística de un movimiento.
// BaseMinutes es determinista; EtaMinutes agrega la variación de Jitter y solo se muestra.
type Quote struct {
	DistanceKm    float64
	Method        entity.TransportMethod
	TransportCost decimal.Decimal
	BaseMinutes   float64
	EtaMinutes    float64
}

// TransferRequest entrada de una cotización de transferencia.
type TransferRequest struct {
	Source    *entity.Site
	Target    *entity.Site
	ColdChain bool
	Quantity  int64
	Urgency   entity.Urgency
}

// CostModel modelo de costos logísticos.
type CostModel struct {
	Tortuosity       float64
	VendorDistanceKm float64
	Rates            map[entity.TransportMethod]Rate
	Routes           RouteTable
	Jitter           Jitter
}

// NewCostModel modelo con tarifas por defecto y variación aleatoria del ETA.
func NewCostModel(tortuosity, vendorDistanceKm float64) *CostModel {
	if tortuosity <= 0 {
		tortuosity = DefaultTortuosity
	}
	if vendorDistanceKm <= 0 {
		vendorDistanceKm = DefaultVendorDistanceKm
	}
	return &CostModel{
		Tortuosity:       tortuosity,
		VendorDistanceKm: vendorDistanceKm,
		Rates:            DefaultRates(),
		Jitter:           RandomJitter{},
	}
}

// WithRoutes copia del modelo que usa las distancias externas indicadas.
func (m *CostModel) WithRoutes(routes RouteTable) *CostModel {
	cp := *m
	cp.Routes = routes
	return &cp
}

// Distance distancia por carretera entre dos sitios: tabla externa si existe,
// en otro caso haversine por tortuosidad.
func (m *CostModel) Distance(source, target *entity.Site) float64 {
	if km, ok := m.Routes.Lookup(source.ID, target.ID); ok {
		return km
	}
	return RoadDistance(source.Coordinates, target.Coordinates, m.Tortuosity)
}

// QuoteTransfer cotiza el movimiento de inventario entre dos sitios.
func (m *CostModel) QuoteTransfer(req TransferRequest) (Quote, error) {
	if req.Source == nil || req.Target == nil {
		return Quote{}, fmt.Errorf("quote transfer: origen y destino son obligatorios")
	}
	km := m.Distance(req.Source, req.Target)
	method := SelectMethod(km, req.Quantity, req.Urgency, req.ColdChain)
	rate, ok := m.Rates[method]
	if !ok {
		return Quote{}, fmt.Errorf("quote transfer: sin tarifa para %s", method)
	}

	cost := rate.Base.Add(rate.PerKm.Mul(decimal.NewFromFloat(km))).
		Mul(UrgencyMultiplier(req.Urgency)).
		Round(2)

	base := km/rate.SpeedKmh*60 + rate.HandlingMin
	eta := base
	if m.Jitter != nil {
		eta = km/rate.SpeedKmh*60*m.Jitter.TrafficFactor(method) + rate.HandlingMin + m.Jitter.WeatherDelayMinutes()
	}
	return Quote{
		DistanceKm:    km,
		Method:        method,
		TransportCost: cost,
		BaseMinutes:   base,
		EtaMinutes:    eta,
	}, nil
}

// QuoteProcurement cotiza el tramo desde el proveedor: cargo de procesamiento más
// distancia al proveedor, con recargo por urgencia. leadTimeDays <= 0 usa el plazo por defecto.
func (m *CostModel) QuoteProcurement(urgency entity.Urgency, leadTimeDays int) Quote {
	if leadTimeDays <= 0 {
		leadTimeDays = DefaultLeadTimeDays
	}
	cost := vendorProcessingFee.Add(vendorRatePerKm.Mul(decimal.NewFromFloat(m.VendorDistanceKm))).
		Mul(UrgencyMultiplier(urgency)).
		Round(2)
	minutes := float64(leadTimeDays * minutesPerDay)
	return Quote{
		DistanceKm:    m.VendorDistanceKm,
		Method:        entity.TransportVendor,
		TransportCost: cost,
		BaseMinutes:   minutes,
		EtaMinutes:    minutes,
	}
}
