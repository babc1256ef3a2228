// Package cache keeps a short window of recent classification results in
// Redis so callers can poll the latest activity without replaying
// predictions. The service degrades gracefully when Redis is unreachable;
// a nil *Store is a valid "no cache" state for callers to handle.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"codeberg.org/mutker/thermowatch/internal/errors"
	"github.com/go-redis/redis/v8"
)

const (
	// LatestResultsKey holds the most recent classification results
	LatestResultsKey = "predictions:latest"
	// PredictionsCounterKey counts all predictions served
	PredictionsCounterKey = "predictions:total"
	// AnomaliesCounterKey counts warning and critical classifications
	AnomaliesCounterKey = "anomalies:total"

	// latestResultsWindow bounds the retained result list
	latestResultsWindow = 1000

	dialTimeout  = 5 * time.Second
	readTimeout  = 3 * time.Second
	writeTimeout = 3 * time.Second
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Enabled && c.Addr == "" {
		return errFactory.New(ErrInvalidAddr)
	}
	return nil
}

// Store is a thin Redis-backed result window
type Store struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection
func New(ctx context.Context, cfg Config) (*Store, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errFactory.Wrap(ErrConnectFailed, err)
	}

	return &Store{client: client}, nil
}

// StoreResult pushes a serialized result onto the latest-results window
func (s *Store) StoreResult(ctx context.Context, result any) error {
	errFactory := errors.New()

	data, err := json.Marshal(result)
	if err != nil {
		return errFactory.Wrap(ErrStoreFailed, err)
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, LatestResultsKey, data)
	pipe.LTrim(ctx, LatestResultsKey, 0, latestResultsWindow-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return errFactory.Wrap(ErrStoreFailed, err)
	}

	return nil
}

// LatestResults returns up to count most recent results, newest first
func (s *Store) LatestResults(ctx context.Context, count int64) ([]json.RawMessage, error) {
	errFactory := errors.New()

	data, err := s.client.LRange(ctx, LatestResultsKey, 0, count-1).Result()
	if err != nil {
		return nil, errFactory.Wrap(ErrFetchFailed, err)
	}

	results := make([]json.RawMessage, 0, len(data))
	for _, d := range data {
		results = append(results, json.RawMessage(d))
	}

	return results, nil
}

// IncrementCounter increments a named counter
func (s *Store) IncrementCounter(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

// GetCounter returns the value of a named counter, zero when unset
func (s *Store) GetCounter(ctx context.Context, key string) (int64, error) {
	val, err := s.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

// Ping verifies the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the connection
func (s *Store) Close() error {
	return s.client.Close()
}
