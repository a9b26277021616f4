package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/metrics"
)

func TestMetrics_ObservePass(t *testing.T) {
	m := metrics.New()
	run := &entity.PlanningRun{
		Proposals: []entity.Proposal{
			{Kind: entity.ProposalTransfer, Quantity: 10},
			{Kind: entity.ProposalProcurement, Quantity: 90},
			{Kind: entity.ProposalProcurement, Quantity: 5},
		},
		Unfulfilled: []entity.UnfulfilledDemand{{Quantity: 3}},
		Rejections:  []entity.Rejection{{Kind: entity.ProposalTransfer}},
	}

	m.ObservePass(run, 20*time.Millisecond)
	m.ObserveLookupFallback("marketplace")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PassesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProposalsTotal.WithLabelValues("procurement")))
	assert.Equal(t, 95.0, testutil.ToFloat64(m.ProposedUnitsTotal.WithLabelValues("procurement")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnfulfilledTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectionsTotal.WithLabelValues("transfer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupFallbacks.WithLabelValues("marketplace")))
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.ObservePass(&entity.PlanningRun{}, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "planning_passes_total 1")
}
