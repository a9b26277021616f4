// Package memory repositorios en memoria: respaldan el CLI de planeación y las pruebas.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var (
	_ repository.SiteRepository            = (*SiteRepository)(nil)
	_ repository.InventoryRecordRepository = (*InventoryRecordRepository)(nil)
	_ repository.TransferRequestRepository = (*TransferRequestRepository)(nil)
	_ repository.PatientRepository         = (*PatientRepository)(nil)
	_ repository.CatalogRepository         = (*CatalogRepository)(nil)
)

// Network datos de una red cargados en memoria. Las lecturas devuelven copias.
type Network struct {
	mu        sync.RWMutex
	importMu  sync.Mutex
	sites     []entity.Site
	inventory []entity.InventoryRecord
	transfers []entity.TransferRequest
	patients  []entity.Patient
	catalog   []entity.CatalogDrug
}

// NewNetwork crea una red vacía.
func NewNetwork() *Network { return &Network{} }

// LoadSites reemplaza los sitios.
func (n *Network) LoadSites(sites ...entity.Site) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sites = append([]entity.Site(nil), sites...)
}

// LoadInventory reemplaza el inventario.
func (n *Network) LoadInventory(records ...entity.InventoryRecord) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inventory = append([]entity.InventoryRecord(nil), records...)
}

// LoadTransfers reemplaza las solicitudes de transferencia.
func (n *Network) LoadTransfers(transfers ...entity.TransferRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transfers = append([]entity.TransferRequest(nil), transfers...)
}

// LoadPatients reemplaza los pacientes.
func (n *Network) LoadPatients(patients ...entity.Patient) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.patients = append([]entity.Patient(nil), patients...)
}

// LoadCatalog reemplaza el catálogo.
func (n *Network) LoadCatalog(drugs ...entity.CatalogDrug) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.catalog = append([]entity.CatalogDrug(nil), drugs...)
}

// Sites puerto SiteRepository sobre esta red.
func (n *Network) Sites() *SiteRepository { return &SiteRepository{n: n} }

// Inventory puerto InventoryRecordRepository sobre esta red.
func (n *Network) Inventory() *InventoryRecordRepository { return &InventoryRecordRepository{n: n} }

// Transfers puerto TransferRequestRepository sobre esta red.
func (n *Network) Transfers() *TransferRequestRepository { return &TransferRequestRepository{n: n} }

// Patients puerto PatientRepository sobre esta red.
func (n *Network) Patients() *PatientRepository { return &PatientRepository{n: n} }

// Catalog puerto CatalogRepository sobre esta red.
func (n *Network) Catalog() *CatalogRepository { return &CatalogRepository{n: n} }

// inNetwork decide si un registro pertenece a la red. Los sitios desconocidos
// se entregan igual para que el agregador los reporte como error de entrada.
// Se llama con el lock de lectura tomado.
// inNetwork decide por la red del sitio; si el sitio no existe, por la red que
// cargó la fila, para no filtrar diagnósticos entre redes.
func (n *Network) inNetwork(networkID, siteID, owner string) bool {
	if networkID == "" {
		return true
	}
	for i := range n.sites {
		if n.sites[i].ID == siteID {
			return n.sites[i].NetworkID == networkID
		}
	}
	return owner == networkID
}

// ── Sitios ───────────────────────────────────────────────────────────────────

// SiteRepository implementa repository.SiteRepository.
type SiteRepository struct{ n *Network }

func (r *SiteRepository) ListByNetwork(_ context.Context, networkID string) ([]entity.Site, error) {
	r.n.mu.RLock()
	defer r.n.mu.RUnlock()
	out := make([]entity.Site, 0, len(r.n.sites))
	for _, s := range r.n.sites {
		if networkID == "" || s.NetworkID == networkID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SiteRepository) GetByID(_ context.Context, id string) (*entity.Site, error) {
	r.n.mu.RLock()
	defer r.n.mu.RUnlock()
	for _, s := range r.n.sites {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ── Inventario ───────────────────────────────────────────────────────────────

// InventoryRecordRepository implementa repository.InventoryRecordRepository.
type InventoryRecordRepository struct{ n *Network }

func (r *InventoryRecordRepository) ListByNetwork(_ context.Context, networkID string) ([]entity.InventoryRecord, error) {
	r.n.mu.RLock()
	defer r.n.mu.RUnlock()
	out := make([]entity.InventoryRecord, 0, len(r.n.inventory))
	for _, rec := range r.n.inventory {
		if r.n.inNetwork(networkID, rec.SiteID, rec.NetworkID) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *InventoryRecordRepository) ListBySite(_ context.Context, siteID string) ([]entity.InventoryRecord, error) {
	r.n.mu.RLock()
	defer r.n.mu.RUnlock()
	var out []entity.InventoryRecord
	for _, rec := range r.n.inventory {
		if rec.SiteID == siteID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ── Transferencias ───────────────────────────────────────────────────────────

// TransferRequestRepository implementa repository.TransferRequestRepository.
type TransferRequestRepository struct{ n *Network }

func (r *TransferRequestRepository) ListActive(_ context.Context, networkID string) ([]entity.TransferRequest, error) {
	r.n.mu.RLock()
	defer r.n.mu.RUnlock()
	var out []entity.TransferRequest
	for _, t := range r.n.transfers {
		if t.InPipeline() && r.n.inNetwork(networkID, t.TargetSiteID, "") {
			out = append(out, t)
		}
	}
	return out, nil
}

// ── Pacientes y catálogo ─────────────────────────────────────────────────────

// PatientRepository implementa repository.PatientRepository.
type PatientRepository struct{ n *Network }

func (r *PatientRepository) ListByNetwork(_ context.Context, networkID string) ([]entity.Patient, error) {
	r.n.mu.RLock()
	defer r.n.mu.RUnlock()
	var out []entity.Patient
	for _, p := range r.n.patients {
		if r.n.inNetwork(networkID, p.AssignedSiteID, p.NetworkID) {
			cp := p
			cp.Schedule = append([]entity.Treatment(nil), p.Schedule...)
			out = append(out, cp)
		}
	}
	return out, nil
}

// CatalogRepository implementa repository.CatalogRepository.
type CatalogRepository struct{ n *Network }

func (r *CatalogRepository) List(_ context.Context) ([]entity.CatalogDrug, error) {
	r.n.mu.RLock()
	defer r.n.mu.RUnlock()
	return append([]entity.CatalogDrug(nil), r.n.catalog...), nil
}
