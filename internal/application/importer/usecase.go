// Package importer carga volcados de red (sitios, existencias, transferencias,
// pacientes y catálogo) en el Inventory Store en una sola transacción.
package importer

import (
	"context"
	"fmt"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

// Summary filas escritas por tipo.
type Summary struct {
	NetworkID  string
	Sites      int
	Inventory  int
	Transfers  int
	Patients   int
	Treatments int
	Catalog    int
}

// ImportUseCase valida y persiste un volcado de red.
type ImportUseCase struct {
	tx  TxRunner
	log *logger.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(tx TxRunner, log *logger.Logger) *ImportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ImportUseCase{tx: tx, log: log}
}

// Import valida el volcado completo antes de escribir. Un volcado inválido
// devuelve domain.ErrInvalidInput envuelto con el primer problema encontrado.
// Sitios, inventario y pacientes del volcado quedan asignados a data.NetworkID.
func (uc *ImportUseCase) Import(ctx context.Context, data entity.NetworkData) (*Summary, error) {
	if err := validate(&data); err != nil {
		return nil, err
	}
	sum := &Summary{NetworkID: data.NetworkID}
	err := uc.tx.RunImport(ctx, func(w Writers) error {
		for i := range data.Catalog {
			if err := w.Catalog.Upsert(ctx, &data.Catalog[i]); err != nil {
				return err
			}
		}
		for i := range data.Sites {
			data.Sites[i].NetworkID = data.NetworkID
			if err := w.Sites.Upsert(ctx, &data.Sites[i]); err != nil {
				return err
			}
		}
		for i := range data.Inventory {
			data.Inventory[i].NetworkID = data.NetworkID
			if err := w.Inventory.Upsert(ctx, &data.Inventory[i]); err != nil {
				return err
			}
		}
		for i := range data.Transfers {
			if err := w.Transfers.Upsert(ctx, &data.Transfers[i]); err != nil {
				return err
			}
		}
		for i := range data.Patients {
			data.Patients[i].NetworkID = data.NetworkID
			if err := w.Patients.Upsert(ctx, &data.Patients[i]); err != nil {
				return err
			}
			sum.Treatments += len(data.Patients[i].Schedule)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import network: %w", err)
	}
	sum.Sites = len(data.Sites)
	sum.Inventory = len(data.Inventory)
	sum.Transfers = len(data.Transfers)
	sum.Patients = len(data.Patients)
	sum.Catalog = len(data.Catalog)

	uc.log.Info().
		Str("network_id", sum.NetworkID).
		Int("sites", sum.Sites).
		Int("inventory", sum.Inventory).
		Int("transfers", sum.Transfers).
		Int("patients", sum.Patients).
		Int("catalog", sum.Catalog).
		Msg("red importada")
	return sum, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
}

// validate replica las restricciones del esquema para rechazar el volcado
// completo antes de abrir la transacción.
func validate(data *entity.NetworkData) error {
	if data.NetworkID == "" {
		return invalid("network_id requerido")
	}
	for _, s := range data.Sites {
		if s.ID == "" {
			return invalid("sitio sin id")
		}
		if s.Coordinates.Lat < -90 || s.Coordinates.Lat > 90 || s.Coordinates.Lng < -180 || s.Coordinates.Lng > 180 {
			return invalid("sitio %s: coordenadas fuera de rango", s.ID)
		}
	}
	for _, r := range data.Inventory {
		if r.SiteID == "" || r.NDC == "" {
			return invalid("registro de inventario sin sitio o NDC")
		}
		if r.Quantity < 0 || r.MinLevel < 0 || r.MaxLevel < r.MinLevel {
			return invalid("inventario %s/%s: cantidades o umbrales inválidos", r.SiteID, r.NDC)
		}
	}
	for _, t := range data.Transfers {
		if t.ID == "" || t.SourceSiteID == "" || t.TargetSiteID == "" || t.NDC == "" {
			return invalid("transferencia incompleta")
		}
		if t.Quantity <= 0 {
			return invalid("transferencia %s: cantidad debe ser positiva", t.ID)
		}
		switch t.Status {
		case entity.TransferPending, entity.TransferApproved, entity.TransferDenied,
			entity.TransferInTransit, entity.TransferCompleted, entity.TransferCancelled:
		default:
			return invalid("transferencia %s: estado %q", t.ID, t.Status)
		}
	}
	for _, p := range data.Patients {
		if p.ID == "" || p.AssignedSiteID == "" {
			return invalid("paciente sin id o sitio asignado")
		}
		for _, tr := range p.Schedule {
			if tr.ID == "" || tr.Date.IsZero() {
				return invalid("paciente %s: tratamiento sin id o fecha", p.ID)
			}
			switch tr.Status {
			case entity.TreatmentScheduled, entity.TreatmentCompleted, entity.TreatmentCancelled:
			default:
				return invalid("tratamiento %s: estado %q", tr.ID, tr.Status)
			}
		}
	}
	for _, d := range data.Catalog {
		if d.NDC == "" {
			return invalid("medicamento sin NDC")
		}
		if d.UnitPrice.IsNegative() {
			return invalid("medicamento %s: precio negativo", d.NDC)
		}
	}
	return nil
}
