package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
)

const importBody = `{
  "sites": [{"id": "c", "name": "Clínica Norte", "lat": 4.7, "lng": -74.05}],
  "inventory": [{"site_id": "c", "ndc": "0002-8215", "drug_name": "Metformin 500mg", "quantity": 80, "min_level": 10, "max_level": 30}]
}`

func TestImportNetwork_AdminWritesOwnNetwork(t *testing.T) {
	app := buildPlanningApp(t)

	resp := call(t, app, http.MethodPost, "/api/network/import", "admin", importBody)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sum dto.ImportSummaryDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sum))
	assert.Equal(t, testNetworkID, sum.NetworkID)
	assert.Equal(t, 1, sum.Sites)
	assert.Equal(t, 1, sum.Inventory)

	fc := call(t, app, http.MethodGet, "/api/forecasts?site_id=c&ndc=0002-8215", "viewer", "")
	defer fc.Body.Close()
	assert.Equal(t, http.StatusOK, fc.StatusCode)
}

func TestImportNetwork_Latin1Body(t *testing.T) {
	app := buildPlanningApp(t)
	body := strings.Replace(importBody, "Clínica", "Cl\xednica", 1)

	req := httptest.NewRequest(http.MethodPost, "/api/network/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=iso-8859-1")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestImportNetwork_Rejections(t *testing.T) {
	app := buildPlanningApp(t)

	resp := call(t, app, http.MethodPost, "/api/network/import", "planner", importBody)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/network/import", "admin", `{"network_id": "otra-red", "sites": []}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/network/import", "admin",
		`{"inventory": [{"site_id": "c", "ndc": "1", "quantity": 1, "min_level": 10, "max_level": 5}]}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/network/import", "admin", `{"sites": [{"id": "c", "colour": "red"}]}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuth_RegisterThenLogin(t *testing.T) {
	app := buildPlanningApp(t)

	resp := call(t, app, http.MethodPost, "/api/auth/register", "admin",
		`{"email": "planner@example.org", "password": "s3cret-pass", "role": "planner"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var user dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, testNetworkID, user.NetworkID)

	dup := call(t, app, http.MethodPost, "/api/auth/register", "admin",
		`{"email": "planner@example.org", "password": "s3cret-pass"}`)
	dup.Body.Close()
	assert.Equal(t, http.StatusConflict, dup.StatusCode)

	login := call(t, app, http.MethodPost, "/api/auth/login", "", `{"email": "planner@example.org", "password": "s3cret-pass"}`)
	defer login.Body.Close()
	require.Equal(t, http.StatusOK, login.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(login.Body).Decode(&out))

	req := httptest.NewRequest(http.MethodPost, "/api/planning/passes", nil)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	run, err := app.Test(req, -1)
	require.NoError(t, err)
	defer run.Body.Close()
	assert.Equal(t, http.StatusCreated, run.StatusCode)

	bad := call(t, app, http.MethodPost, "/api/auth/login", "", `{"email": "planner@example.org", "password": "nope-nope"}`)
	bad.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, bad.StatusCode)

	viewer := call(t, app, http.MethodPost, "/api/auth/register", "viewer", `{"email": "x@example.org", "password": "12345678"}`)
	viewer.Body.Close()
	assert.Equal(t, http.StatusForbidden, viewer.StatusCode)
}
