package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/mutker/thermowatch/internal/alerts"
	"codeberg.org/mutker/thermowatch/internal/anomaly"
	"codeberg.org/mutker/thermowatch/internal/history"
	"codeberg.org/mutker/thermowatch/internal/httpapi"
	"codeberg.org/mutker/thermowatch/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type predictResponse struct {
	Prediction    string  `json:"prediction"`
	Confidence    float64 `json:"confidence"`
	RawPrediction float64 `json:"raw_prediction"`
	InputSensors  int     `json:"input_sensors"`
	Features      struct {
		MeanTemp      float64 `json:"meanTemp"`
		TempStd       float64 `json:"tempStd"`
		TempRange     float64 `json:"tempRange"`
		MaxDeviation  float64 `json:"maxDeviation"`
		ActiveSensors int     `json:"activeSensors"`
	} `json:"features"`
	Timestamp string `json:"timestamp"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger.Init(false, false, true)

	predictor, err := anomaly.NewService(anomaly.DefaultConfig())
	require.NoError(t, err)

	recorder, err := history.NewRecorder(history.Config{Enabled: false}, logger.Default())
	require.NoError(t, err)

	publisher, err := alerts.New(alerts.DefaultConfig())
	require.NoError(t, err)

	handler := httpapi.NewHandler(predictor, recorder, nil, publisher)

	return httpapi.NewRouter(handler)
}

func doPredict(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestPredictEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doPredict(t, router, `{"sensorData": [24.8, 25.1, 25.3]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp predictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "normal", resp.Prediction)
	assert.InDelta(t, 100, resp.Confidence, 0.01)
	assert.InDelta(t, 25.07, resp.RawPrediction, 0.001)
	assert.Equal(t, 3, resp.InputSensors)
	assert.Equal(t, 3, resp.Features.ActiveSensors)
	assert.InDelta(t, 0.3, resp.Features.MaxDeviation, 0.001)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestPredictEndpointCritical(t *testing.T) {
	router := newTestRouter(t)

	w := doPredict(t, router, `{"sensorData": [18.0, 32.0, 15.5]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp predictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "critical", resp.Prediction)
	assert.InDelta(t, 95, resp.Confidence, 0.01)
}

func TestPredictEndpointDegenerateInput(t *testing.T) {
	router := newTestRouter(t)

	// An empty array is not an error: the classifier falls back to the
	// reference temperature and flags the case through activeSensors
	w := doPredict(t, router, `{"sensorData": []}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp predictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "normal", resp.Prediction)
	assert.InDelta(t, 25.0, resp.RawPrediction, 0.001)
	assert.Equal(t, 0, resp.InputSensors)
	assert.Equal(t, 0, resp.Features.ActiveSensors)
	assert.InDelta(t, 80, resp.Confidence, 0.01)
}

func TestPredictEndpointRejectsBadInput(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"sensorData": [25.0`},
		{"scalar instead of array", `{"sensorData": 25.0}`},
		{"string entries", `{"sensorData": ["warm", "cold"]}`},
		{"missing field", `{}`},
		{"null field", `{"sensorData": null}`},
		{"bare number body", `25.0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doPredict(t, router, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestLatestPredictionsWithoutCache(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/predictions/latest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStatusEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Ready bool   `json:"ready"`
		Cache string `json:"cache"`
		Model struct {
			ReferenceTemp     float64 `json:"reference_temp"`
			WarningThreshold  float64 `json:"warning_threshold"`
			CriticalThreshold float64 `json:"critical_threshold"`
			MaxSensors        int     `json:"max_sensors"`
		} `json:"model"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Ready)
	assert.Equal(t, "disabled", resp.Cache)
	assert.InDelta(t, 25.0, resp.Model.ReferenceTemp, 0.001)
	assert.InDelta(t, 1.5, resp.Model.WarningThreshold, 0.001)
	assert.InDelta(t, 2.5, resp.Model.CriticalThreshold, 0.001)
	assert.Equal(t, 16, resp.Model.MaxSensors)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPredictEndpointMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/predict", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
