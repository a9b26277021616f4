package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/importer"
	"github.com/jhoicas/Suministros-api/internal/application/planning"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/Suministros-api/internal/interfaces/http"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type stubReport struct{}

func (stubReport) GeneratePlanningReport(run *entity.PlanningRun, _ map[string]entity.Site) ([]byte, error) {
	return []byte("%PDF-1.3 " + run.ID), nil
}

func testSite(id string, latOffset float64) entity.Site {
	return entity.Site{
		ID:           id,
		NetworkID:    testNetworkID,
		Name:         "Sitio " + id,
		Coordinates:  entity.Coordinates{Lat: 4.60 + latOffset, Lng: -74.08},
		ClassOfTrade: entity.ClassOfTradeAcute,
		Avatar:       entity.AvatarClinic,
		Regulatory:   entity.RegulatoryProfile{DSCSACompliant: true, LicenseType: entity.LicensePharmacy},
	}
}

// buildPlanningApp red de dos sitios: "a" sin existencias y "b" con excedente.
func buildPlanningApp(t *testing.T) *fiber.App {
	t.Helper()
	n := memory.NewNetwork()
	n.LoadSites(testSite("a", 0), testSite("b", 0.01))
	n.LoadInventory(
		entity.InventoryRecord{SiteID: "a", NDC: "0002-8215", DrugName: "Metformin 500mg", Quantity: 0, MinLevel: 10, MaxLevel: 40},
		entity.InventoryRecord{SiteID: "b", NDC: "0002-8215", DrugName: "Metformin 500mg", Quantity: 60, MinLevel: 10, MaxLevel: 100},
	)
	n.LoadCatalog(entity.CatalogDrug{NDC: "0002-8215", Name: "Metformin 500mg", UnitPrice: decimal.NewFromInt(40)})
	n.LoadPatients(entity.Patient{ID: "p1", AssignedSiteID: "a", Schedule: []entity.Treatment{
		{ID: "t1", Date: time.Now().Add(24 * time.Hour), NDC: "0002-8215", Status: entity.TreatmentScheduled, Dose: "10 units"},
	}})
	runs := memory.NewPlanningRunRepository()

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg)

	passUC := planning.NewPassUseCase(planning.Stores{
		Sites: n.Sites(), Inventory: n.Inventory(), Transfers: n.Transfers(),
		Patients: n.Patients(), Catalog: n.Catalog(), Runs: runs,
	}, nil, nil, nil, m, logger.Nop(), planning.Options{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		PassUC:         passUC,
		ForecastUC:     planning.NewForecastUseCase(n.Sites(), n.Patients(), n.Catalog(), 0),
		ReportUC:       planning.NewReportUseCase(runs, n.Sites(), stubReport{}),
		AuthUC:         auth.NewAuthUseCase(memory.NewUserRepository(), testTokens).WithHashCost(bcrypt.MinCost),
		ImportUC:       importer.NewImportUseCase(n, logger.Nop()),
		MetricsHandler: m.Handler(),
		ServiceName:    "suministros-test",
		Tokens:         testTokens,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role, body string) *http.Response {
	t.Helper()
	return callAs(t, app, method, path, testNetworkID, role, body)
}

// callAs llama como un operador de network.
func callAs(t *testing.T, app *fiber.App, method, path, network, role, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenFor(t, network, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Pasadas
// ──────────────────────────────────────────────────────────────────────────────

func TestRunPass_CreatesAndFetches(t *testing.T) {
	app := buildPlanningApp(t)

	resp := call(t, app, http.MethodPost, "/api/planning/passes", "planner", `{"patient_setting":"outpatient"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var run dto.PlanningRunDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	require.NotEmpty(t, run.ID)
	assert.Equal(t, testNetworkID, run.NetworkID)
	assert.Equal(t, testUserID, run.RequestedBy)
	require.NotEmpty(t, run.Proposals)
	assert.Equal(t, "transfer", run.Proposals[0].Kind)
	assert.Equal(t, "b", run.Proposals[0].SourceSiteID)
	assert.NotEmpty(t, run.Proposals[0].Trace)

	get := call(t, app, http.MethodGet, "/api/planning/passes/"+run.ID, "viewer", "")
	defer get.Body.Close()
	assert.Equal(t, http.StatusOK, get.StatusCode)

	list := call(t, app, http.MethodGet, "/api/planning/passes?limit=5", "viewer", "")
	defer list.Body.Close()
	var rows []dto.PlanningRunSummaryDTO
	require.NoError(t, json.NewDecoder(list.Body).Decode(&rows))
	assert.Len(t, rows, 1)

	report := call(t, app, http.MethodGet, "/api/planning/passes/"+run.ID+"/report", "viewer", "")
	defer report.Body.Close()
	assert.Equal(t, http.StatusOK, report.StatusCode)
	assert.Equal(t, "application/pdf", report.Header.Get("Content-Type"))
}

func TestRunPass_ViewerCannotRun(t *testing.T) {
	resp := call(t, buildPlanningApp(t), http.MethodPost, "/api/planning/passes", "viewer", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRunPass_InvalidSetting(t *testing.T) {
	resp := call(t, buildPlanningApp(t), http.MethodPost, "/api/planning/passes", "admin", `{"patient_setting":"ambulatory"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPass_NotFound(t *testing.T) {
	resp := call(t, buildPlanningApp(t), http.MethodGet, "/api/planning/passes/missing", "viewer", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NOT_FOUND")
}

// ──────────────────────────────────────────────────────────────────────────────
// Pronósticos, salud y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestForecast_Endpoint(t *testing.T) {
	app := buildPlanningApp(t)

	resp := call(t, app, http.MethodGet, "/api/forecasts?ndc=0002-8215&site_id=a&service_level=0.95&lead_time_days=5", "viewer", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var f dto.ForecastDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
	assert.InDelta(t, 10.0, f.Mean, 1e-9)
	assert.Equal(t, 1, f.Treatments)
	assert.Positive(t, f.SafetyStock)

	for _, q := range []string{"acuity=x", "seasonality=NaN", "lead_time_days=Inf", "lead_time_var=infinity", "acuity=-1"} {
		bad := call(t, app, http.MethodGet, "/api/forecasts?ndc=0002-8215&site_id=a&"+q, "viewer", "")
		body, _ := io.ReadAll(bad.Body)
		bad.Body.Close()
		assert.Equal(t, http.StatusBadRequest, bad.StatusCode, q)
		assert.Contains(t, string(body), "VALIDATION", q)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := buildPlanningApp(t)

	health := call(t, app, http.MethodGet, "/health", "", "")
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	run := call(t, app, http.MethodPost, "/api/planning/passes", "admin", "")
	run.Body.Close()

	m := call(t, app, http.MethodGet, "/metrics", "", "")
	defer m.Body.Close()
	body, _ := io.ReadAll(m.Body)
	assert.Contains(t, string(body), "planning_passes_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	resp := call(t, buildPlanningApp(t), http.MethodGet, "/api/planning/passes", "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
