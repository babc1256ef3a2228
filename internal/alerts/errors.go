package alerts

import "codeberg.org/mutker/thermowatch/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig  = errors.ErrInvalidConfig
	ErrMissingBrokers = errors.ErrorCode("alerts_missing_brokers")
	ErrMissingTopic   = errors.ErrorCode("alerts_missing_topic")

	// Publishing Errors
	ErrPublishFailed = errors.ErrorCode("alerts_publish_failed")
	ErrCloseFailed   = errors.ErrShutdownFailed
)
