package anomaly

import "math"

const (
	// hardOverrideDeviation forces a critical classification regardless of
	// the threshold ladder
	hardOverrideDeviation = 5.0

	// Secondary confidence factors. These were tuned against the original
	// deployment's hand-picked reading sets; keep them as-is for
	// compatibility with historical classifications.
	wideRangePenalty   = 0.9
	highSpreadPenalty  = 0.95
	sparseInputPenalty = 0.8
	multiSensorBonus   = 1.1

	minConfidence = 10.0
	maxConfidence = 100.0
)

// classify maps a feature vector to a status and a confidence percentage.
// The threshold ladder runs on MaxDeviation alone; the secondary statistics
// only modulate confidence, never the status. The hard override is evaluated
// unconditionally on every call and replaces (does not scale) the adjusted
// confidence.
func classify(f FeatureVector, cfg Config) (Status, float64) {
	status, confidence := baseClassification(f.MaxDeviation, cfg)

	if f.TemperatureRange > 2.0 {
		confidence *= wideRangePenalty
	}
	if f.StdDeviation > 1.0 {
		confidence *= highSpreadPenalty
	}
	if f.ActiveSensors < 2 {
		confidence *= sparseInputPenalty
	} else if f.ActiveSensors >= 3 {
		confidence *= multiSensorBonus
	}

	if f.MaxDeviation > hardOverrideDeviation {
		status = StatusCritical
		confidence = math.Min(95, 80+f.MaxDeviation*2)
	}

	return status, clamp(confidence, minConfidence, maxConfidence)
}

func baseClassification(maxDeviation float64, cfg Config) (Status, float64) {
	switch {
	case maxDeviation <= cfg.WarningThreshold:
		return StatusNormal, math.Max(60, 100-ratio(maxDeviation, cfg.WarningThreshold)*40)
	case maxDeviation <= cfg.CriticalThreshold:
		band := cfg.CriticalThreshold - cfg.WarningThreshold
		return StatusWarning, math.Max(50, 80-ratio(maxDeviation-cfg.WarningThreshold, band)*30)
	default:
		return StatusCritical, math.Min(95, 70+(maxDeviation-cfg.CriticalThreshold)*10)
	}
}

// ratio guards the zero-width band: no deviation over a zero span counts as
// zero, any deviation saturates at one
func ratio(value, span float64) float64 {
	if span == 0 {
		if value == 0 {
			return 0
		}
		return 1
	}

	return value / span
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
