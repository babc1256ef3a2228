package anomaly

import "math"

// extractFeatures reduces a raw reading set to the statistics the classifier
// consumes. NaNs, infinities and readings outside the open
// (MinValidTemp, MaxValidTemp) interval are dropped before anything is
// computed. Degenerate input never fails here: with zero surviving readings
// the vector falls back to the reference temperature with zero spread and
// signals the condition through ActiveSensors.
func extractFeatures(readings []float64, cfg Config) FeatureVector {
	valid := make([]float64, 0, len(readings))
	for _, r := range readings {
		if isValidReading(r, cfg) {
			valid = append(valid, r)
		}
	}

	if len(valid) == 0 {
		return FeatureVector{MeanTemperature: cfg.ReferenceTemp}
	}

	var sum float64
	minTemp, maxTemp := valid[0], valid[0]
	var maxDeviation float64
	for _, v := range valid {
		sum += v
		if v < minTemp {
			minTemp = v
		}
		if v > maxTemp {
			maxTemp = v
		}
		// deviation is measured against the reference, not the mean
		if d := math.Abs(v - cfg.ReferenceTemp); d > maxDeviation {
			maxDeviation = d
		}
	}
	mean := sum / float64(len(valid))

	var sqSum float64
	for _, v := range valid {
		d := v - mean
		sqSum += d * d
	}
	// population standard deviation: a reading set is the whole population,
	// not a sample of one
	stdDev := math.Sqrt(sqSum / float64(len(valid)))

	return FeatureVector{
		MeanTemperature:  mean,
		StdDeviation:     stdDev,
		TemperatureRange: maxTemp - minTemp,
		MaxDeviation:     maxDeviation,
		ActiveSensors:    len(valid),
	}
}

func isValidReading(r float64, cfg Config) bool {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return false
	}

	return r > cfg.MinValidTemp && r < cfg.MaxValidTemp
}
