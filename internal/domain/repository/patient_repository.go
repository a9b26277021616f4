package repository

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// PatientRepository fuente de pacientes y calendarios de tratamiento.
type PatientRepository interface {
	// ListByNetwork devuelve los pacientes asignados a sitios de la red con su calendario completo.
	ListByNetwork(ctx context.Context, networkID string) ([]entity.Patient, error)
}
