package ports

import "github.com/jhoicas/Suministros-api/internal/domain/entity"

// PlanningReportGenerator renderiza una pasada de planeación (PDF).
type PlanningReportGenerator interface {
	GeneratePlanningReport(run *entity.PlanningRun, sites map[string]entity.Site) ([]byte, error)
}
