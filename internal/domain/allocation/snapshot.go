package allocation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/logistics"
)

// MarketQuote precio de marketplace para un NDC.
type MarketQuote struct {
	UnitPrice    decimal.Decimal
	Supplier     string
	InStock      bool
	LeadTimeDays int
}

// Snapshot estado inmutable de la red leído al inicio de una pasada.
// Varias pasadas pueden leer el mismo Snapshot en paralelo.
type Snapshot struct {
	NetworkID string
	Now       time.Time
	Sites     []entity.Site
	Inventory []entity.InventoryRecord
	Transfers []entity.TransferRequest
	Patients  []entity.Patient
	Catalog   []entity.CatalogDrug
	Prices    map[string]MarketQuote // por NDC; ausente = precio de catálogo
	Routes    logistics.RouteTable

	sites   map[string]*entity.Site
	catalog map[string]*entity.CatalogDrug
	byNDC   map[string][]*entity.InventoryRecord
	records map[string]*entity.InventoryRecord
}

// NewSnapshot arma el snapshot e indexa sitios, catálogo e inventario.
// El inventario queda ordenado por (NDC, sitio) para que el recorrido sea determinista.
func NewSnapshot(
	networkID string,
	now time.Time,
	sites []entity.Site,
	inventory []entity.InventoryRecord,
	transfers []entity.TransferRequest,
	patients []entity.Patient,
	catalog []entity.CatalogDrug,
) *Snapshot {
	s := &Snapshot{
		NetworkID: networkID,
		Now:       now,
		Sites:     append([]entity.Site(nil), sites...),
		Inventory: append([]entity.InventoryRecord(nil), inventory...),
		Transfers: append([]entity.TransferRequest(nil), transfers...),
		Patients:  append([]entity.Patient(nil), patients...),
		Catalog:   append([]entity.CatalogDrug(nil), catalog...),
		Prices:    map[string]MarketQuote{},
		Routes:    logistics.RouteTable{},
	}
	sort.SliceStable(s.Inventory, func(i, j int) bool {
		if s.Inventory[i].NDC != s.Inventory[j].NDC {
			return s.Inventory[i].NDC < s.Inventory[j].NDC
		}
		return s.Inventory[i].SiteID < s.Inventory[j].SiteID
	})

	s.sites = make(map[string]*entity.Site, len(s.Sites))
	for i := range s.Sites {
		s.sites[s.Sites[i].ID] = &s.Sites[i]
	}
	s.catalog = make(map[string]*entity.CatalogDrug, len(s.Catalog))
	for i := range s.Catalog {
		s.catalog[s.Catalog[i].NDC] = &s.Catalog[i]
	}
	s.byNDC = make(map[string][]*entity.InventoryRecord)
	s.records = make(map[string]*entity.InventoryRecord, len(s.Inventory))
	for i := range s.Inventory {
		r := &s.Inventory[i]
		s.byNDC[r.NDC] = append(s.byNDC[r.NDC], r)
		s.records[key(r.SiteID, r.NDC)] = r
	}
	return s
}

// WithLookups copia superficial con precios y rutas externas.
// Los índices se comparten; son de solo lectura.
func (s *Snapshot) WithLookups(prices map[string]MarketQuote, routes logistics.RouteTable) *Snapshot {
	cp := *s
	if prices != nil {
		cp.Prices = prices
	}
	if routes != nil {
		cp.Routes = routes
	}
	return &cp
}

// Site sitio por ID.
func (s *Snapshot) Site(id string) (*entity.Site, bool) {
	st, ok := s.sites[id]
	return st, ok
}

// Drug entrada de catálogo por NDC.
func (s *Snapshot) Drug(ndc string) (*entity.CatalogDrug, bool) {
	d, ok := s.catalog[ndc]
	return d, ok
}

// Record registro de inventario de un par (sitio, NDC).
func (s *Snapshot) Record(siteID, ndc string) (*entity.InventoryRecord, bool) {
	r, ok := s.records[key(siteID, ndc)]
	return r, ok
}

// RecordsFor registros del NDC ordenados por sitio.
func (s *Snapshot) RecordsFor(ndc string) []*entity.InventoryRecord {
	return s.byNDC[ndc]
}

// NDCs medicamentos presentes en inventario o catálogo, ordenados.
func (s *Snapshot) NDCs() []string {
	seen := map[string]bool{}
	for ndc := range s.byNDC {
		seen[ndc] = true
	}
	for ndc := range s.catalog {
		seen[ndc] = true
	}
	out := make([]string, 0, len(seen))
	for ndc := range seen {
		out = append(out, ndc)
	}
	sort.Strings(out)
	return out
}

func key(siteID, ndc string) string {
	return siteID + "|" + ndc
}
