package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/pkg/config"
)

func dbConfig() config.DBConfig {
	return config.DBConfig{
		Host: "db", Port: 5432, User: "planner", Password: "secret", DBName: "suministros", SSLMode: "disable",
		MaxConns: 6, MinConns: 2, StatementTimeoutMS: 2500,
	}
}

func TestPoolConfig_PlannerSettings(t *testing.T) {
	pc, err := poolConfig(dbConfig())
	require.NoError(t, err)

	assert.Equal(t, "2500", pc.ConnConfig.RuntimeParams["statement_timeout"])
	assert.Equal(t, applicationName, pc.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, int32(6), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfig_OptionalSettings(t *testing.T) {
	cfg := dbConfig()
	cfg.StatementTimeoutMS = 0
	cfg.MinConns = 50
	pc, err := poolConfig(cfg)
	require.NoError(t, err)

	_, ok := pc.ConnConfig.RuntimeParams["statement_timeout"]
	assert.False(t, ok)
	assert.LessOrEqual(t, pc.MinConns, pc.MaxConns, "MinConns nunca supera MaxConns")

	cfg.DatabaseURL = "postgres://%zz"
	_, err = poolConfig(cfg)
	assert.Error(t, err)
}

func TestApplySchema_CreatesNetworkScopedTables(t *testing.T) {
	q := &captureQuerier{}
	require.NoError(t, ApplySchema(context.Background(), q))
	assert.Contains(t, q.sql, "CREATE TABLE IF NOT EXISTS planning_runs")
	assert.Contains(t, q.sql, "ALTER TABLE inventory_records ADD COLUMN IF NOT EXISTS network_id")
	assert.Contains(t, q.sql, "ALTER TABLE patients ADD COLUMN IF NOT EXISTS network_id")
}

func TestWrapWrite_CheckViolationIsInvalidInput(t *testing.T) {
	q := &recordingQuerier{err: &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "inventory_records_check"}}
	err := NewInventoryRecordRepository(q).Upsert(context.Background(), &entity.InventoryRecord{SiteID: "a", NDC: "1", MinLevel: 10, MaxLevel: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "inventory_records_check")

	q.err = errors.New("connection reset")
	err = NewTransferRequestRepository(q).Upsert(context.Background(), &entity.TransferRequest{ID: "t"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, isUniqueViolation(err))
}
