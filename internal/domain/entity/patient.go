package entity

import (
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain"
)

// TreatmentStatus estado de un tratamiento agendado.
type TreatmentStatus string

const (
	TreatmentScheduled TreatmentStatus = "scheduled"
	TreatmentCompleted TreatmentStatus = "completed"
	TreatmentCancelled TreatmentStatus = "cancelled"
)

// Treatment entrada del calendario de tratamiento de un paciente.
type Treatment struct {
	ID       string
	Date     time.Time
	DrugName string
	NDC      string
	Status   TreatmentStatus
	Dose     string // texto libre: "100 units", "100mg", "2.5 vials"
}

// Patient paciente asignado a un sitio con su calendario de tratamientos.
type Patient struct {
	NetworkID      string // red que cargó al paciente
	ID             string
	MRN            string
	AssignedSiteID string
	Acuity         string
	Schedule       []Treatment
}

// Pending true si el tratamiento sigue agendado y cae en (now, now+horizon].
func (t *Treatment) Pending(now time.Time, horizon time.Duration) bool {
	if t.Status != TreatmentScheduled {
		return false
	}
	if !t.Date.After(now) {
		return false
	}
	return !t.Date.After(now.Add(horizon))
}

// MaxDose tope de unidades por tratamiento; una dosis mayor es un error de captura.
const MaxDose = math.MaxInt32

// El segundo grupo atrapa exponentes ("1e3") y separadores de miles ("1,000"),
// que de otro modo se leerían como la cifra inicial.
var doseRe = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)([eE][+-]?\d|,\d)?`)

// ParseDose extrae la cantidad numérica inicial de la dosis ("100 units" -> 100).
// Las dosis fraccionarias se redondean hacia arriba: no se dispensa media unidad.
func ParseDose(dose string) (int64, error) {
	m := doseRe.FindStringSubmatch(dose)
	if m == nil || m[2] != "" {
		return 0, domain.ErrMalformedDose
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil || f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) || f > MaxDose {
		return 0, domain.ErrMalformedDose
	}
	return int64(math.Ceil(f)), nil
}
