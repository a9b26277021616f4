package ports

import (
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// PassObserver recibe el resumen de cada pasada (métricas).
type PassObserver interface {
	ObservePass(run *entity.PlanningRun, duration time.Duration)
	ObserveLookupFallback(lookup string)
}

// NopObserver descarta las observaciones.
type NopObserver struct{}

func (NopObserver) ObservePass(*entity.PlanningRun, time.Duration) {}
func (NopObserver) ObserveLookupFallback(string)                   {}
