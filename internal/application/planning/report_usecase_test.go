package planning_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/application/planning"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
)

type fakeReport struct {
	sites map[string]entity.Site
	err   error
}

func (f *fakeReport) GeneratePlanningReport(run *entity.PlanningRun, sites map[string]entity.Site) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sites = sites
	return []byte("%PDF-" + run.ID), nil
}

func TestRender_PassesSitesToGenerator(t *testing.T) {
	n := network()
	runs := memory.NewPlanningRunRepository()
	require.NoError(t, runs.Save(context.Background(), &entity.PlanningRun{ID: "r1", NetworkID: "net-1"}))
	gen := &fakeReport{}

	pdf, err := planning.NewReportUseCase(runs, n.Sites(), gen).Render(context.Background(), "net-1", "r1")
	require.NoError(t, err)

	assert.Equal(t, "%PDF-r1", string(pdf))
	assert.Len(t, gen.sites, 2)
	assert.Contains(t, gen.sites, "b")
}

func TestRender_Errors(t *testing.T) {
	n := network()
	runs := memory.NewPlanningRunRepository()
	require.NoError(t, runs.Save(context.Background(), &entity.PlanningRun{ID: "r1", NetworkID: "net-1"}))

	_, err := planning.NewReportUseCase(runs, n.Sites(), &fakeReport{}).Render(context.Background(), "net-2", "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = planning.NewReportUseCase(runs, n.Sites(), &fakeReport{}).Render(context.Background(), "net-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	boom := errors.New("boom")
	_, err = planning.NewReportUseCase(runs, n.Sites(), &fakeReport{err: boom}).Render(context.Background(), "net-1", "r1")
	assert.ErrorIs(t, err, boom)
}
