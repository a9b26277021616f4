package planning

import (
	"context"
	"fmt"

	"github.com/jhoicas/Suministros-api/internal/application/ports"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// ReportUseCase genera el PDF de una pasada guardada.
type ReportUseCase struct {
	runs      repository.PlanningRunRepository
	sites     repository.SiteRepository
	generator ports.PlanningReportGenerator
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(
	runs repository.PlanningRunRepository,
	sites repository.SiteRepository,
	generator ports.PlanningReportGenerator,
) *ReportUseCase {
	return &ReportUseCase{runs: runs, sites: sites, generator: generator}
}

// Render devuelve el PDF de la pasada; domain.ErrNotFound si no existe o es de otra red.
func (uc *ReportUseCase) Render(ctx context.Context, networkID, passID string) ([]byte, error) {
	run, err := uc.runs.GetByID(ctx, passID)
	if err != nil {
		return nil, err
	}
	if networkID != "" && run.NetworkID != networkID {
		return nil, domain.ErrNotFound
	}
	sites, err := uc.sites.ListByNetwork(ctx, run.NetworkID)
	if err != nil {
		return nil, fmt.Errorf("load sites: %w", err)
	}
	byID := make(map[string]entity.Site, len(sites))
	for _, s := range sites {
		byID[s.ID] = s
	}
	pdf, err := uc.generator.GeneratePlanningReport(run, byID)
	if err != nil {
		return nil, fmt.Errorf("render planning report: %w", err)
	}
	return pdf, nil
}
