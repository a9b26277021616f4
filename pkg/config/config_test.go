package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 1.35, cfg.Planner.Tortuosity)
	assert.Equal(t, 0.25, cfg.Planner.GPODiscount)
	assert.Equal(t, 0.50, cfg.Planner.Discount340B)
	assert.Equal(t, "outpatient", cfg.Planner.PatientSetting)
	assert.Equal(t, 30, cfg.Planner.ForecastHorizonDays)
	assert.False(t, cfg.Marketplace.Enabled())
	assert.False(t, cfg.Routing.Enabled())
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, 15000, cfg.DB.StatementTimeoutMS)
	assert.False(t, cfg.DB.ForceIPv4)
}

func TestLoad_DBPoolOverrides(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DB_STATEMENT_TIMEOUT_MS", "2500")
	t.Setenv("DB_FORCE_IPV4", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.DB.MaxConns)
	assert.Equal(t, 2500, cfg.DB.StatementTimeoutMS)
	assert.True(t, cfg.DB.ForceIPv4)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PLANNER_TORTUOSITY", "1.5")
	t.Setenv("MARKETPLACE_URL", "http://market.local")
	t.Setenv("MARKETPLACE_CONCURRENCY", "3")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 1.5, cfg.Planner.Tortuosity)
	assert.True(t, cfg.Marketplace.Enabled())
	assert.Equal(t, 3, cfg.Marketplace.Concurrency)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_RejectsUnknownPatientSetting(t *testing.T) {
	t.Setenv("PLANNER_PATIENT_SETTING", "ambulance")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/word", DBName: "suministros", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/suministros?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())
}

func TestLoad_Bootstrap(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.Bootstrap.Enabled())

	t.Setenv("BOOTSTRAP_NETWORK_ID", "net-1")
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "admin@example.org")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "change-me-now")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Bootstrap.Enabled())
}
