package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var (
	_ repository.PatientRepository = (*PatientRepo)(nil)
	_ repository.PatientWriter     = (*PatientRepo)(nil)
)

// PatientRepo pacientes y calendarios de tratamiento.
type PatientRepo struct {
	q Querier
}

// NewPatientRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPatientRepository(q Querier) *PatientRepo {
	return &PatientRepo{q: q}
}

// ListByNetwork carga pacientes y tratamientos en dos consultas. Los pacientes
// de la red asignados a sitios no registrados se incluyen para que se reporten.
func (r *PatientRepo) ListByNetwork(ctx context.Context, networkID string) ([]entity.Patient, error) {
	query := `
		SELECT p.network_id, p.id, p.mrn, p.assigned_site_id, p.acuity
		FROM patients p
		LEFT JOIN sites s ON s.id = p.assigned_site_id
		WHERE COALESCE(s.network_id, p.network_id) = $1
		ORDER BY p.id`
	rows, err := r.q.Query(ctx, query, networkID)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	var patients []entity.Patient
	index := map[string]int{}
	ids := []string{}
	for rows.Next() {
		var p entity.Patient
		if err := rows.Scan(&p.NetworkID, &p.ID, &p.MRN, &p.AssignedSiteID, &p.Acuity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		index[p.ID] = len(patients)
		ids = append(ids, p.ID)
		patients = append(patients, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	if len(ids) == 0 {
		return patients, nil
	}

	tq := `
		SELECT patient_id, id, date, drug_name, ndc, status, dose
		FROM treatments
		WHERE patient_id = ANY($1)
		ORDER BY patient_id, date, id`
	trows, err := r.q.Query(ctx, tq, ids)
	if err != nil {
		return nil, fmt.Errorf("list treatments: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var patientID, status string
		var t entity.Treatment
		if err := trows.Scan(&patientID, &t.ID, &t.Date, &t.DrugName, &t.NDC, &status, &t.Dose); err != nil {
			return nil, fmt.Errorf("scan treatment: %w", err)
		}
		t.Status = entity.TreatmentStatus(status)
		if i, ok := index[patientID]; ok {
			patients[i].Schedule = append(patients[i].Schedule, t)
		}
	}
	return patients, trows.Err()
}

// Upsert registra el paciente y reemplaza su calendario completo. Debe llamarse
// dentro de una transacción (TxRunner) para no dejar calendarios a medias.
func (r *PatientRepo) Upsert(ctx context.Context, p *entity.Patient) error {
	query := `
		INSERT INTO patients (id, network_id, mrn, assigned_site_id, acuity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			network_id = EXCLUDED.network_id, mrn = EXCLUDED.mrn, assigned_site_id = EXCLUDED.assigned_site_id, acuity = EXCLUDED.acuity`
	if _, err := r.q.Exec(ctx, query, p.ID, p.NetworkID, p.MRN, p.AssignedSiteID, p.Acuity); err != nil {
		return fmt.Errorf("upsert patient: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM treatments WHERE patient_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear treatments: %w", err)
	}
	for _, t := range p.Schedule {
		_, err := r.q.Exec(ctx, `
			INSERT INTO treatments (id, patient_id, date, drug_name, ndc, status, dose)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, p.ID, t.Date, t.DrugName, t.NDC, string(t.Status), t.Dose,
		)
		if err != nil {
			return fmt.Errorf("insert treatment: %w", err)
		}
	}
	return nil
}
