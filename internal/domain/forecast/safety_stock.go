package forecast

import "math"

var zScores = []struct {
	level float64
	z     float64
}{
	{0.90, 1.28},
	{0.95, 1.645},
	{0.98, 2.05},
	{0.99, 2.33},
}

// ZScore valor z para el nivel de servicio; niveles no tabulados usan 1.645.
func ZScore(serviceLevel float64) float64 {
	for _, s := range zScores {
		if math.Abs(s.level-serviceLevel) < 1e-9 {
			return s.z
		}
	}
	return 1.645
}

// SafetyStock SS = ceil(z × sqrt(μd²·σLT² + LT·σd²)), con media y varianza
// mensuales llevadas a tasas diarias (÷30).
func SafetyStock(f Forecast, leadTimeDays, leadTimeVariance, serviceLevel float64) int64 {
	meanDaily := f.Mean / daysPerPeriod
	varianceDaily := f.Variance / daysPerPeriod
	combined := meanDaily*meanDaily*leadTimeVariance + leadTimeDays*varianceDaily
	if combined <= 0 || math.IsNaN(combined) {
		return 0
	}
	ss := math.Ceil(ZScore(serviceLevel) * math.Sqrt(combined))
	if ss >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(ss)
}
