package anomaly

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFeatures(t *testing.T) {
	cfg := DefaultConfig()

	f := extractFeatures([]float64{2, 4, 4, 4, 5, 5, 7, 9}, cfg)

	assert.Equal(t, 8, f.ActiveSensors)
	assert.InDelta(t, 5.0, f.MeanTemperature, 1e-9)
	// population std dev divides by N, not N-1
	assert.InDelta(t, 2.0, f.StdDeviation, 1e-9)
	assert.InDelta(t, 7.0, f.TemperatureRange, 1e-9)
	assert.InDelta(t, 23.0, f.MaxDeviation, 1e-9, "largest deviation from reference 25.0 is |2-25|")
}

func TestExtractFeaturesDeviationUsesReference(t *testing.T) {
	cfg := DefaultConfig()

	// All readings identical: zero spread, but still 15 degrees off reference
	f := extractFeatures([]float64{10, 10, 10}, cfg)

	assert.InDelta(t, 0.0, f.StdDeviation, 1e-9)
	assert.InDelta(t, 0.0, f.TemperatureRange, 1e-9)
	assert.InDelta(t, 15.0, f.MaxDeviation, 1e-9)
}

func TestExtractFeaturesFiltersInvalidReadings(t *testing.T) {
	cfg := DefaultConfig()

	readings := []float64{
		math.NaN(),
		math.Inf(1),
		math.Inf(-1),
		-5.0,  // below lower bound
		0.0,   // bounds are exclusive
		60.0,  // bounds are exclusive
		200.0, // above upper bound
		23.5,
	}

	f := extractFeatures(readings, cfg)

	assert.Equal(t, 1, f.ActiveSensors)
	assert.InDelta(t, 23.5, f.MeanTemperature, 1e-9)
	assert.InDelta(t, 0.0, f.StdDeviation, 1e-9)
	assert.InDelta(t, 0.0, f.TemperatureRange, 1e-9)
	assert.InDelta(t, 1.5, f.MaxDeviation, 1e-9)
}

func TestExtractFeaturesEmptyInput(t *testing.T) {
	cfg := DefaultConfig()

	for name, readings := range map[string][]float64{
		"empty":       {},
		"all invalid": {math.NaN(), -40, 999},
	} {
		f := extractFeatures(readings, cfg)

		assert.Equal(t, 0, f.ActiveSensors, name)
		assert.InDelta(t, cfg.ReferenceTemp, f.MeanTemperature, 1e-9, name)
		assert.InDelta(t, 0.0, f.StdDeviation, 1e-9, name)
		assert.InDelta(t, 0.0, f.TemperatureRange, 1e-9, name)
		assert.InDelta(t, 0.0, f.MaxDeviation, 1e-9, name)
	}
}

func TestExtractFeaturesSingleReading(t *testing.T) {
	cfg := DefaultConfig()

	f := extractFeatures([]float64{26.2}, cfg)

	assert.Equal(t, 1, f.ActiveSensors)
	assert.InDelta(t, 26.2, f.MeanTemperature, 1e-9)
	assert.InDelta(t, 0.0, f.StdDeviation, 1e-9, "no variance with a single point")
	assert.InDelta(t, 0.0, f.TemperatureRange, 1e-9)
	assert.InDelta(t, 1.2, f.MaxDeviation, 1e-9)
}

func TestIsValidReadingCustomBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinValidTemp = 10
	cfg.MaxValidTemp = 40

	assert.False(t, isValidReading(10, cfg))
	assert.True(t, isValidReading(10.01, cfg))
	assert.True(t, isValidReading(39.99, cfg))
	assert.False(t, isValidReading(40, cfg))
}
