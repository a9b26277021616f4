package entity_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

func TestParseDose(t *testing.T) {
	valid := []struct {
		dose string
		want int64
	}{
		{"100 units", 100},
		{"100mg", 100},
		{"2.1 vials", 3},
		{"  5", 5},
		{"2147483647 units", entity.MaxDose},
	}
	for _, tc := range valid {
		q, err := entity.ParseDose(tc.dose)
		require.NoError(t, err, tc.dose)
		assert.Equal(t, tc.want, q, tc.dose)
	}

	malformed := []string{
		"-",
		"a few",
		"0 mg",
		"1e3 units",
		"2E+2",
		"1,000 units",
		"2147483648 units",
		"99999999999999999999 units",
		strings.Repeat("9", 400) + " units",
	}
	for _, dose := range malformed {
		q, err := entity.ParseDose(dose)
		assert.ErrorIs(t, err, domain.ErrMalformedDose, dose)
		assert.Zero(t, q, dose)
	}
}

func TestDemandSignal_AccumulatesWithoutOverflow(t *testing.T) {
	sig := entity.DemandSignal{SiteID: "h1", NDC: "0002-8215"}
	sig.AddDeficit(30, "stock critical")
	sig.AddForecast(-5, "ignorado")
	assert.Equal(t, int64(30), sig.Quantity, "una cantidad negativa no resta demanda")

	sig.AddForecast(math.MaxInt64, "carga masiva")
	assert.Equal(t, int64(math.MaxInt64), sig.Quantity)
	assert.Equal(t, int64(30), sig.DeficitQty)
	assert.Equal(t, int64(math.MaxInt64), sig.ForecastQty)
}

func TestTreatment_Pending(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	tr := entity.Treatment{Date: now.Add(48 * time.Hour), Status: entity.TreatmentScheduled}

	assert.True(t, tr.Pending(now, 72*time.Hour))
	assert.False(t, tr.Pending(now, 24*time.Hour))

	tr.Status = entity.TreatmentCancelled
	assert.False(t, tr.Pending(now, 72*time.Hour))
}
