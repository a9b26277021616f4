package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	apphttp "github.com/jhoicas/Suministros-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Suministros-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testIssuer     = "suministros-test"
	testUserID     = "00000000-0000-0000-0000-000000000001"
	testNetworkID  = "red-andina"
	otherNetworkID = "red-caribe"
)

var testTokens = func() *pkgjwt.Signer {
	s, err := pkgjwt.NewSigner(testJWTSecret, testIssuer, time.Hour)
	if err != nil {
		panic(err)
	}
	return s
}()

// tokenFor genera un Bearer para un operador de network con el rol indicado.
func tokenFor(t *testing.T, network, role string) string {
	t.Helper()
	tok, err := testTokens.Sign(pkgjwt.Identity{UserID: testUserID, NetworkID: network, Role: role})
	require.NoError(t, err)
	return "Bearer " + tok
}

func tokenForRole(t *testing.T, role string) string {
	return tokenFor(t, testNetworkID, role)
}

// whoamiApp expone la identidad cargada por el middleware, detrás de RequireRole.
func whoamiApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", apphttp.AuthMiddleware(testTokens), apphttp.RequireRole(roles...), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"network_id": apphttp.GetNetworkID(c),
			"role":       apphttp.GetRole(c),
		})
	})
	return app
}

func whoami(t *testing.T, app *fiber.App, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

// ──────────────────────────────────────────────────────────────────────────────
// Identidad y red del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_LoadsNetworkScopedIdentity(t *testing.T) {
	status, body := whoami(t, whoamiApp("viewer"), tokenFor(t, otherNetworkID, "viewer"))
	require.Equal(t, http.StatusOK, status)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, map[string]string{"user_id": testUserID, "network_id": otherNetworkID, "role": "viewer"}, got)
}

func TestAuthMiddleware_RejectsTokens(t *testing.T) {
	foreign, err := pkgjwt.NewSigner(testJWTSecret, "otro-emisor", time.Hour)
	require.NoError(t, err)
	foreignTok, err := foreign.Sign(pkgjwt.Identity{UserID: testUserID, NetworkID: testNetworkID, Role: "admin"})
	require.NoError(t, err)

	noNetwork, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"iss": testIssuer, "sub": testUserID, "role": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"otro emisor", "Bearer " + foreignTok, "INVALID_TOKEN"},
		{"sin red", "Bearer " + noNetwork, "MISSING_NETWORK"},
	}
	app := whoamiApp("admin")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := whoami(t, app, tc.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			var e dto.ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(body), &e))
			assert.Equal(t, tc.code, e.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		allowed []string
		role    string
		status  int
	}{
		{[]string{"admin"}, "admin", http.StatusOK},
		{[]string{"admin", "planner"}, "planner", http.StatusOK},
		{[]string{"admin", "planner"}, "viewer", http.StatusForbidden},
		{[]string{"admin"}, "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		status, _ := whoami(t, whoamiApp(tc.allowed...), tokenForRole(t, tc.role))
		assert.Equal(t, tc.status, status, "rol %q en %v", tc.role, tc.allowed)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento entre redes
// ──────────────────────────────────────────────────────────────────────────────

func TestNetworkScope_RunsInvisibleToOtherNetworks(t *testing.T) {
	app := buildPlanningApp(t)

	created := call(t, app, http.MethodPost, "/api/planning/passes", "planner", `{}`)
	defer created.Body.Close()
	require.Equal(t, http.StatusCreated, created.StatusCode)
	var run dto.PlanningRunDTO
	require.NoError(t, json.NewDecoder(created.Body).Decode(&run))

	for _, path := range []string{
		"/api/planning/passes/" + run.ID,
		"/api/planning/passes/" + run.ID + "/report",
		"/api/forecasts?site_id=a&ndc=0002-8215",
	} {
		resp := callAs(t, app, http.MethodGet, path, otherNetworkID, "admin", "")
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	list := callAs(t, app, http.MethodGet, "/api/planning/passes", otherNetworkID, "viewer", "")
	defer list.Body.Close()
	var runs []dto.PlanningRunSummaryDTO
	require.NoError(t, json.NewDecoder(list.Body).Decode(&runs))
	assert.Empty(t, runs)

	own := call(t, app, http.MethodGet, "/api/planning/passes/"+run.ID, "viewer", "")
	defer own.Body.Close()
	assert.Equal(t, http.StatusOK, own.StatusCode)
}

func TestNetworkScope_PassNeverReadsOtherNetworkSites(t *testing.T) {
	app := buildPlanningApp(t)

	resp := callAs(t, app, http.MethodPost, "/api/planning/passes", otherNetworkID, "planner", `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "EMPTY_NETWORK", e.Code, "los sitios de otra red no se cuentan")
}
