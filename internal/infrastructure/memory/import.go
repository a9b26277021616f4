package memory

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/application/importer"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var (
	_ importer.TxRunner                = (*Network)(nil)
	_ repository.SiteWriter            = (*SiteRepository)(nil)
	_ repository.InventoryRecordWriter = (*InventoryRecordRepository)(nil)
	_ repository.TransferRequestWriter = (*TransferRequestRepository)(nil)
	_ repository.PatientWriter         = (*PatientRepository)(nil)
	_ repository.CatalogWriter         = (*CatalogRepository)(nil)
)

// Load reemplaza todo el contenido de la red con el volcado.
func (n *Network) Load(data entity.NetworkData) {
	for i := range data.Sites {
		if data.Sites[i].NetworkID == "" {
			data.Sites[i].NetworkID = data.NetworkID
		}
	}
	for i := range data.Inventory {
		if data.Inventory[i].NetworkID == "" {
			data.Inventory[i].NetworkID = data.NetworkID
		}
	}
	for i := range data.Patients {
		if data.Patients[i].NetworkID == "" {
			data.Patients[i].NetworkID = data.NetworkID
		}
	}
	n.LoadSites(data.Sites...)
	n.LoadInventory(data.Inventory...)
	n.LoadTransfers(data.Transfers...)
	n.LoadPatients(data.Patients...)
	n.LoadCatalog(data.Catalog...)
}

// RunImport escribe sobre una copia y la publica solo si fn termina sin error.
// Las importaciones se serializan entre sí; las lecturas ven la red anterior
// hasta la publicación.
func (n *Network) RunImport(_ context.Context, fn func(w importer.Writers) error) error {
	n.importMu.Lock()
	defer n.importMu.Unlock()

	n.mu.RLock()
	staged := &Network{
		sites:     append([]entity.Site(nil), n.sites...),
		inventory: append([]entity.InventoryRecord(nil), n.inventory...),
		transfers: append([]entity.TransferRequest(nil), n.transfers...),
		patients:  append([]entity.Patient(nil), n.patients...),
		catalog:   append([]entity.CatalogDrug(nil), n.catalog...),
	}
	n.mu.RUnlock()

	err := fn(importer.Writers{
		Sites:     staged.Sites(),
		Inventory: staged.Inventory(),
		Transfers: staged.Transfers(),
		Patients:  staged.Patients(),
		Catalog:   staged.Catalog(),
	})
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.sites, n.inventory, n.transfers = staged.sites, staged.inventory, staged.transfers
	n.patients, n.catalog = staged.patients, staged.catalog
	n.mu.Unlock()
	return nil
}

func (r *SiteRepository) Upsert(_ context.Context, s *entity.Site) error {
	r.n.mu.Lock()
	defer r.n.mu.Unlock()
	for i := range r.n.sites {
		if r.n.sites[i].ID == s.ID {
			r.n.sites[i] = *s
			return nil
		}
	}
	r.n.sites = append(r.n.sites, *s)
	return nil
}

func (r *InventoryRecordRepository) Upsert(_ context.Context, rec *entity.InventoryRecord) error {
	r.n.mu.Lock()
	defer r.n.mu.Unlock()
	for i := range r.n.inventory {
		if r.n.inventory[i].SiteID == rec.SiteID && r.n.inventory[i].NDC == rec.NDC {
			r.n.inventory[i] = *rec
			return nil
		}
	}
	r.n.inventory = append(r.n.inventory, *rec)
	return nil
}

func (r *TransferRequestRepository) Upsert(_ context.Context, t *entity.TransferRequest) error {
	r.n.mu.Lock()
	defer r.n.mu.Unlock()
	for i := range r.n.transfers {
		if r.n.transfers[i].ID == t.ID {
			r.n.transfers[i] = *t
			return nil
		}
	}
	r.n.transfers = append(r.n.transfers, *t)
	return nil
}

func (r *PatientRepository) Upsert(_ context.Context, p *entity.Patient) error {
	cp := *p
	cp.Schedule = append([]entity.Treatment(nil), p.Schedule...)
	r.n.mu.Lock()
	defer r.n.mu.Unlock()
	for i := range r.n.patients {
		if r.n.patients[i].ID == p.ID {
			r.n.patients[i] = cp
			return nil
		}
	}
	r.n.patients = append(r.n.patients, cp)
	return nil
}

func (r *CatalogRepository) Upsert(_ context.Context, d *entity.CatalogDrug) error {
	r.n.mu.Lock()
	defer r.n.mu.Unlock()
	for i := range r.n.catalog {
		if r.n.catalog[i].NDC == d.NDC {
			r.n.catalog[i] = *d
			return nil
		}
	}
	r.n.catalog = append(r.n.catalog, *d)
	return nil
}
