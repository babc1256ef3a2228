package anomaly

import "codeberg.org/mutker/thermowatch/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig     = errors.ErrInvalidConfig
	ErrInvalidThresholds = errors.ErrorCode("anomaly_invalid_thresholds")
	ErrInvalidTempBounds = errors.ErrorCode("anomaly_invalid_temp_bounds")
	ErrInvalidReference  = errors.ErrorCode("anomaly_invalid_reference_temp")

	// Input Errors
	ErrInvalidInput = errors.ErrorCode("anomaly_invalid_input")
)
