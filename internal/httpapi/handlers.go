package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"codeberg.org/mutker/thermowatch/internal/alerts"
	"codeberg.org/mutker/thermowatch/internal/anomaly"
	"codeberg.org/mutker/thermowatch/internal/cache"
	"codeberg.org/mutker/thermowatch/internal/history"
	"codeberg.org/mutker/thermowatch/internal/logger"
)

const defaultLatestCount = 50

// Handler bundles the dependencies of the HTTP endpoints. The cache store
// may be nil; endpoints that need it report service unavailable instead.
type Handler struct {
	predictor anomaly.Predictor
	recorder  history.Recorder
	store     *cache.Store
	publisher alerts.Publisher
	startTime time.Time
}

func NewHandler(predictor anomaly.Predictor, recorder history.Recorder, store *cache.Store, publisher alerts.Publisher) *Handler {
	return &Handler{
		predictor: predictor,
		recorder:  recorder,
		store:     store,
		publisher: publisher,
		startTime: time.Now(),
	}
}

type predictRequest struct {
	SensorData []float64 `json:"sensorData"`
}

type featuresPayload struct {
	MeanTemp      float64 `json:"meanTemp"`
	TempStd       float64 `json:"tempStd"`
	TempRange     float64 `json:"tempRange"`
	MaxDeviation  float64 `json:"maxDeviation"`
	ActiveSensors int     `json:"activeSensors"`
}

type predictResponse struct {
	Prediction    string          `json:"prediction"`
	Confidence    float64         `json:"confidence"`
	RawPrediction float64         `json:"raw_prediction"`
	InputSensors  int             `json:"input_sensors"`
	Features      featuresPayload `json:"features"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Predict handles POST /api/v1/predict
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	// A missing or null sensorData field is the caller passing no sequence
	// at all; an empty array is a valid degenerate input
	if req.SensorData == nil {
		respondError(w, "sensorData must be an array of numbers", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := h.predictor.Predict(req.SensorData)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	predictionLatency.Observe(time.Since(start).Seconds())

	now := time.Now().UTC()
	h.observe(r, result, now)

	respondJSON(w, toResponse(result, now), http.StatusOK)
}

// observe fans the result out to metrics, history, cache and alerting.
// All of it is best effort; a prediction response never fails because a
// side channel is down.
func (h *Handler) observe(r *http.Request, result *anomaly.Result, now time.Time) {
	predictionsTotal.WithLabelValues(result.Status.String()).Inc()
	lastConfidence.Set(result.Confidence)
	if result.Status != anomaly.StatusNormal {
		anomaliesDetected.Inc()
	}

	entry := &history.Entry{
		Timestamp:     now,
		Status:        result.Status.String(),
		Confidence:    result.Confidence,
		MeanTemp:      result.MeanTemperature,
		StdDeviation:  result.Features.StdDeviation,
		TempRange:     result.Features.TemperatureRange,
		MaxDeviation:  result.Features.MaxDeviation,
		InputSensors:  result.InputSensors,
		ActiveSensors: result.Features.ActiveSensors,
	}
	if err := h.recorder.Record(r.Context(), entry); err != nil {
		logger.Warn().Err(err).Msg("Failed to record prediction")
	}

	if h.store != nil {
		ctx := r.Context()
		if err := h.store.StoreResult(ctx, toResponse(result, now)); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache result")
		}
		if _, err := h.store.IncrementCounter(ctx, cache.PredictionsCounterKey); err == nil && result.Status != anomaly.StatusNormal {
			_, _ = h.store.IncrementCounter(ctx, cache.AnomaliesCounterKey)
		}
	}

	if result.Status == anomaly.StatusCritical {
		event := &alerts.Event{
			Timestamp:     now,
			Status:        result.Status.String(),
			Confidence:    result.Confidence,
			MeanTemp:      result.MeanTemperature,
			MaxDeviation:  result.Features.MaxDeviation,
			InputSensors:  result.InputSensors,
			ActiveSensors: result.Features.ActiveSensors,
		}
		if err := h.publisher.Publish(r.Context(), event); err != nil {
			logger.Warn().Err(err).Msg("Failed to publish alert")
		}
	}
}

func toResponse(result *anomaly.Result, now time.Time) predictResponse {
	return predictResponse{
		Prediction:    result.Status.String(),
		Confidence:    result.Confidence,
		RawPrediction: result.MeanTemperature,
		InputSensors:  result.InputSensors,
		Features: featuresPayload{
			MeanTemp:      result.Features.MeanTemperature,
			TempStd:       result.Features.StdDeviation,
			TempRange:     result.Features.TemperatureRange,
			MaxDeviation:  result.Features.MaxDeviation,
			ActiveSensors: result.Features.ActiveSensors,
		},
		Timestamp: now,
	}
}

// LatestPredictions handles GET /api/v1/predictions/latest
func (h *Handler) LatestPredictions(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, "cache not available", http.StatusServiceUnavailable)
		return
	}

	count := int64(defaultLatestCount)
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		c, err := strconv.ParseInt(countStr, 10, 64)
		if err != nil || c <= 0 || c > 1000 {
			respondError(w, "count must be between 1 and 1000", http.StatusBadRequest)
			return
		}
		count = c
	}

	results, err := h.store.LatestResults(r.Context(), count)
	if err != nil {
		respondError(w, "failed to fetch results: "+err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]any{
		"count":   len(results),
		"results": results,
	}, http.StatusOK)
}

// Status handles GET /api/v1/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	cfg := h.predictor.Configuration()

	cacheStatus := "disabled"
	if h.store != nil {
		cacheStatus = "connected"
		if err := h.store.Ping(r.Context()); err != nil {
			cacheStatus = "disconnected"
		}
	}

	respondJSON(w, map[string]any{
		"ready":  h.predictor.IsReady(),
		"uptime": time.Since(h.startTime).String(),
		"cache":  cacheStatus,
		"model": map[string]any{
			"reference_temp":     cfg.ReferenceTemp,
			"warning_threshold":  cfg.WarningThreshold,
			"critical_threshold": cfg.CriticalThreshold,
			"min_valid_temp":     cfg.MinValidTemp,
			"max_valid_temp":     cfg.MaxValidTemp,
			"max_sensors":        cfg.MaxSensors,
		},
	}, http.StatusOK)
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}, http.StatusOK)
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}
