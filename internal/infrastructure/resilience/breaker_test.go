package resilience_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/infrastructure/resilience"
)

var errUpstream = errors.New("upstream 503")

func call(cb *gobreaker.CircuitBreaker, fail bool) error {
	_, err := cb.Execute(func() (interface{}, error) {
		if fail {
			return nil, errUpstream
		}
		return "ok", nil
	})
	return err
}

func testConfig() resilience.BreakerConfig {
	cfg := resilience.DefaultBreakerConfig("pricing")
	cfg.Timeout = time.Hour
	return cfg
}

func TestBreaker_TripsOnConsecutiveFailuresBelowMinRequests(t *testing.T) {
	cfg := testConfig()
	cfg.FailureThreshold = 3
	cb := resilience.NewBreaker(cfg)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, call(cb, true), errUpstream)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	err := call(cb, false)
	assert.True(t, resilience.IsOpen(err))
	assert.False(t, resilience.IsOpen(errUpstream))
}

func TestBreaker_TripsOnFailureRatioOnceMinRequestsReached(t *testing.T) {
	cfg := testConfig()
	cfg.MinRequests = 4
	cfg.FailureThreshold = 100
	cfg.FailureRatio = 0.5
	cb := resilience.NewBreaker(cfg)

	require.NoError(t, call(cb, false))
	require.Error(t, call(cb, true))
	require.NoError(t, call(cb, false))
	assert.Equal(t, gobreaker.StateClosed, cb.State(), "por debajo de MinRequests solo cuentan los fallos seguidos")

	require.Error(t, call(cb, true))
	assert.Equal(t, gobreaker.StateOpen, cb.State(), "2 de 4 alcanza la tasa")
	assert.True(t, resilience.IsOpen(call(cb, false)))
}

func TestBreaker_StaysClosedBelowFailureRatio(t *testing.T) {
	cfg := testConfig()
	cfg.MinRequests = 4
	cfg.FailureThreshold = 100
	cfg.FailureRatio = 0.5
	cb := resilience.NewBreaker(cfg)

	for i := 0; i < 3; i++ {
		require.NoError(t, call(cb, false))
	}
	require.Error(t, call(cb, true))
	require.Error(t, call(cb, true))

	assert.Equal(t, gobreaker.StateClosed, cb.State(), "2 de 5 no alcanza la tasa")
}
