// Package forecast convierte los tratamientos agendados en una estimación
// estadística de demanda (media, varianza, intervalo) y calcula el stock de seguridad.
package forecast

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

const (
	// DefaultHorizon ventana de tratamientos considerada por el pronóstico.
	DefaultHorizon = 30 * 24 * time.Hour

	highAcuityThreshold = 1.2
	highAcuityCV        = 0.5
	baseCV              = 0.2
	z95                 = 1.96
	daysPerPeriod       = 30.0
)

// Distribution familia supuesta para la forma de la varianza (no se muestrea).
const Distribution = "poisson"

// Request parámetros de un pronóstico para un medicamento en un sitio.
type Request struct {
	NDC         string
	DrugName    string
	SiteID      string
	Period      string
	Now         time.Time
	Horizon     time.Duration // 0 = DefaultHorizon
	Patients    []entity.Patient
	Seasonality float64 // 0 = 1.0
	Acuity      float64 // 0 = 1.0
}

// Forecast estimación de demanda del periodo.
type Forecast struct {
	NDC          string
	SiteID       string
	Period       string
	BaseMean     float64
	Mean         float64
	Variance     float64
	Lower        float64
	Upper        float64
	Distribution string
	Treatments   int
	Diagnostics  []entity.Diagnostic
}

// MatchesDrug true si el tratamiento corresponde al medicamento: por NDC cuando
// ambos lo tienen, si no por nombre sin distinguir mayúsculas.
func MatchesDrug(t *entity.Treatment, ndc, name string) bool {
	if t.NDC != "" && ndc != "" {
		return t.NDC == ndc
	}
	if t.DrugName == "" || name == "" {
		return false
	}
	fold := cases.Fold()
	return fold.String(t.DrugName) == fold.String(name)
}

// Generate calcula el pronóstico. Es determinista para entradas idénticas.
// Las dosis ilegibles se omiten y quedan como diagnóstico.
func Generate(req Request) Forecast {
	horizon := req.Horizon
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	seasonality := req.Seasonality
	if seasonality <= 0 {
		seasonality = 1
	}
	acuity := req.Acuity
	if acuity <= 0 {
		acuity = 1
	}

	f := Forecast{NDC: req.NDC, SiteID: req.SiteID, Period: req.Period, Distribution: Distribution}
	for i := range req.Patients {
		p := &req.Patients[i]
		if p.AssignedSiteID != req.SiteID {
			continue
		}
		for j := range p.Schedule {
			t := &p.Schedule[j]
			if !t.Pending(req.Now, horizon) || !MatchesDrug(t, req.NDC, req.DrugName) {
				continue
			}
			qty, err := entity.ParseDose(t.Dose)
			if err != nil {
				f.Diagnostics = append(f.Diagnostics, entity.Diagnostic{
					Kind:    entity.DiagnosticInputError,
					SiteID:  req.SiteID,
					NDC:     req.NDC,
					Message: fmt.Sprintf("paciente %s, tratamiento %s: dosis %q: %v", p.ID, t.ID, t.Dose, err),
				})
				continue
			}
			f.BaseMean += float64(qty)
			f.Treatments++
		}
	}

	f.Mean = f.BaseMean * seasonality * acuity
	cv := baseCV
	if acuity > highAcuityThreshold {
		cv = highAcuityCV
	}
	sd := f.Mean * cv
	f.Variance = sd * sd
	f.Lower = math.Max(0, f.Mean-z95*sd)
	f.Upper = f.Mean + z95*sd
	return f
}
