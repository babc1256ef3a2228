package history_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/thermowatch/internal/history"
	"codeberg.org/mutker/thermowatch/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) history.Config {
	t.Helper()

	cfg := history.DefaultConfig()
	cfg.Enabled = true
	cfg.DBPath = filepath.Join(t.TempDir(), "history.db")
	cfg.BatchSize = 4
	cfg.BatchTimeout = 60 // keep the ticker out of the way

	return cfg
}

func testEntry(status string, confidence float64) *history.Entry {
	return &history.Entry{
		Timestamp:     time.Now(),
		Status:        status,
		Confidence:    confidence,
		MeanTemp:      25.1,
		StdDeviation:  0.2,
		TempRange:     0.5,
		MaxDeviation:  0.3,
		InputSensors:  3,
		ActiveSensors: 3,
	}
}

func countRows(t *testing.T, dbPath string) int {
	t.Helper()

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM predictions").Scan(&count))

	return count
}

func TestRepositoryFlushOnClose(t *testing.T) {
	logger.Init(false, false, true)
	cfg := testConfig(t)

	repo, err := history.NewRepository(cfg, logger.Default())
	require.NoError(t, err)

	// Fewer entries than the batch size: nothing hits disk until Close
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(testEntry("normal", 92)))
	}
	require.NoError(t, repo.Close())

	assert.Equal(t, 3, countRows(t, cfg.DBPath))
}

func TestRepositoryFlushOnFullBatch(t *testing.T) {
	logger.Init(false, false, true)
	cfg := testConfig(t)

	repo, err := history.NewRepository(cfg, logger.Default())
	require.NoError(t, err)
	defer repo.Close()

	for i := 0; i < cfg.BatchSize; i++ {
		require.NoError(t, repo.Record(testEntry("warning", 65)))
	}

	assert.Equal(t, cfg.BatchSize, countRows(t, cfg.DBPath))
}

func TestRepositorySchemaVersion(t *testing.T) {
	logger.Init(false, false, true)
	cfg := testConfig(t)

	repo, err := history.NewRepository(cfg, logger.Default())
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()

	version, err := history.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, history.SchemaVersion, version)
}

func TestRecorderDisabledIsNoop(t *testing.T) {
	logger.Init(false, false, true)

	cfg := history.DefaultConfig()
	cfg.Enabled = false
	cfg.DBPath = ""

	recorder, err := history.NewRecorder(cfg, logger.Default())
	require.NoError(t, err)

	assert.NoError(t, recorder.Record(context.Background(), testEntry("critical", 95)))
	assert.NoError(t, recorder.Close())
}

func TestRecorderRejectsNilEntry(t *testing.T) {
	logger.Init(false, false, true)
	cfg := testConfig(t)

	recorder, err := history.NewRecorder(cfg, logger.Default())
	require.NoError(t, err)
	defer recorder.Close()

	assert.Error(t, recorder.Record(context.Background(), nil))
}
