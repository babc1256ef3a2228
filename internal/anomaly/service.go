package anomaly

import (
	"math"

	"codeberg.org/mutker/thermowatch/internal/errors"
)

type service struct {
	cfg   Config
	ready bool
}

// NewService validates the configuration and returns a ready predictor
func NewService(cfg Config) (Predictor, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	return &service{
		cfg:   cfg,
		ready: true,
	}, nil
}

func (s *service) Predict(readings []float64) (*Result, error) {
	errFactory := errors.New()

	// A nil slice means the caller handed us no sequence at all. This is
	// the only rejected input; everything else, including an empty set,
	// degrades into a low-confidence result.
	if readings == nil {
		return nil, errFactory.New(ErrInvalidInput)
	}

	features := extractFeatures(readings, s.cfg)
	status, confidence := classify(features, s.cfg)

	return &Result{
		Status:          status,
		Confidence:      round2(confidence),
		MeanTemperature: round2(features.MeanTemperature),
		Features:        features.rounded(),
		InputSensors:    len(readings),
	}, nil
}

func (s *service) IsReady() bool {
	return s.ready
}

func (s *service) Configuration() Config {
	return s.cfg
}

// rounded returns a display copy of the vector. Classification always runs
// on the full-precision values.
func (f FeatureVector) rounded() FeatureVector {
	return FeatureVector{
		MeanTemperature:  round2(f.MeanTemperature),
		StdDeviation:     round2(f.StdDeviation),
		TemperatureRange: round2(f.TemperatureRange),
		MaxDeviation:     round2(f.MaxDeviation),
		ActiveSensors:    f.ActiveSensors,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
