package cache

import "codeberg.org/mutker/thermowatch/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidAddr   = errors.ErrorCode("cache_invalid_addr")

	// Connection Errors
	ErrConnectFailed = errors.ErrorCode("cache_connect_failed")

	// Operation Errors
	ErrStoreFailed = errors.ErrorCode("cache_store_failed")
	ErrFetchFailed = errors.ErrorCode("cache_fetch_failed")
	ErrCloseFailed = errors.ErrShutdownFailed
)
