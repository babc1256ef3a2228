package anomaly

import "codeberg.org/mutker/thermowatch/internal/errors"

const (
	defaultReferenceTemp     = 25.0
	defaultWarningThreshold  = 1.5
	defaultCriticalThreshold = 2.5
	defaultMinValidTemp      = 0.0
	defaultMaxValidTemp      = 60.0
	defaultMaxSensors        = 16
)

// Config holds the classification parameters. Values are immutable after
// the service is constructed.
type Config struct {
	// ReferenceTemp is the baseline in degrees Celsius that deviation is
	// measured against
	ReferenceTemp float64
	// WarningThreshold is the max deviation (absolute, in degrees) above
	// which a reading set is classified as warning
	WarningThreshold float64
	// CriticalThreshold is the max deviation above which a reading set is
	// classified as critical. Must be strictly greater than WarningThreshold.
	CriticalThreshold float64
	// MinValidTemp and MaxValidTemp bound the open interval of physically
	// plausible readings; values outside it are filtered before any
	// statistics are computed
	MinValidTemp float64
	MaxValidTemp float64
	// MaxSensors is the supported sensor count reported through the status
	// endpoint. Larger inputs are still accepted.
	MaxSensors int
}

func DefaultConfig() Config {
	return Config{
		ReferenceTemp:     defaultReferenceTemp,
		WarningThreshold:  defaultWarningThreshold,
		CriticalThreshold: defaultCriticalThreshold,
		MinValidTemp:      defaultMinValidTemp,
		MaxValidTemp:      defaultMaxValidTemp,
		MaxSensors:        defaultMaxSensors,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.WarningThreshold < 0 {
		return errFactory.WithData(ErrInvalidThresholds, struct {
			Field string
			Value float64
		}{
			Field: "warning_threshold",
			Value: c.WarningThreshold,
		})
	}

	if c.CriticalThreshold <= c.WarningThreshold {
		return errFactory.WithData(ErrInvalidThresholds, struct {
			Warning  float64
			Critical float64
		}{
			Warning:  c.WarningThreshold,
			Critical: c.CriticalThreshold,
		})
	}

	if c.MaxValidTemp <= c.MinValidTemp {
		return errFactory.WithData(ErrInvalidTempBounds, struct {
			Min float64
			Max float64
		}{
			Min: c.MinValidTemp,
			Max: c.MaxValidTemp,
		})
	}

	if c.ReferenceTemp <= c.MinValidTemp || c.ReferenceTemp >= c.MaxValidTemp {
		return errFactory.WithData(ErrInvalidReference, struct {
			Reference float64
			Min       float64
			Max       float64
		}{
			Reference: c.ReferenceTemp,
			Min:       c.MinValidTemp,
			Max:       c.MaxValidTemp,
		})
	}

	return nil
}
