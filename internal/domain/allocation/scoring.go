package allocation

import (
	"math"
	"strings"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// ScoringPolicy heurística de puntaje ajustable. Las cifras reproducen el
// comportamiento histórico del tablero; no son una regla del dominio.
type ScoringPolicy struct {
	TransferBase          float64
	DistancePenaltyPerKm  float64
	CostPenaltyPerUnit    float64 // por unidad monetaria de costo de transporte
	TimePenaltyPerMinute  float64 // sobre el tiempo base, sin variación
	EmergencyFastBonus    float64
	EmergencyFastMinutes  float64
	UrgentBonus           float64
	OverstockBonus        float64
	SurplusBonus          float64
	SurplusBonusThreshold int64
	PediatricBonus        float64
	ChannelScores         map[entity.Channel]float64
}

// DefaultScoringPolicy política vigente.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		TransferBase:          100,
		DistancePenaltyPerKm:  1.5,
		CostPenaltyPerUnit:    0.2,
		TimePenaltyPerMinute:  0.1,
		EmergencyFastBonus:    50,
		EmergencyFastMinutes:  60,
		UrgentBonus:           20,
		OverstockBonus:        30,
		SurplusBonus:          10,
		SurplusBonusThreshold: 20,
		PediatricBonus:        20,
		ChannelScores: map[entity.Channel]float64{
			entity.Channel340B: 90,
			entity.ChannelGPO:  80,
			entity.ChannelWAC:  70,
		},
	}
}

// clamp limita el puntaje a [0,100].
func clamp(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}

// balancingBonus premia mover inventario de sitios sobre-abastecidos.
func (p ScoringPolicy) balancingBonus(source *entity.InventoryRecord) float64 {
	if source.Status() == entity.StockOverstocked {
		return p.OverstockBonus
	}
	if source.Quantity-source.MinLevel > p.SurplusBonusThreshold {
		return p.SurplusBonus
	}
	return 0
}

// pediatricBonus formulaciones líquidas hacia clínicas pediátricas.
func (p ScoringPolicy) pediatricBonus(target *entity.Site, drugName string) float64 {
	if target.Kind != "clinic" || !strings.Contains(strings.ToLower(target.Name), "pediatric") {
		return 0
	}
	name := strings.ToLower(drugName)
	if strings.Contains(name, "suspension") || strings.Contains(name, "liquid") {
		return p.PediatricBonus
	}
	return 0
}
