package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/internal/engine"
	"github.com/wonny/tradewise/backend/pkg/logger"
)

// TrainingSource supplies the table for a training request.
type TrainingSource interface {
	LoadTable(ctx context.Context) (*contracts.Table, error)
}

// PredictionHandler handles prediction and training API endpoints
// ⭐ SSOT: 예측 API 핸들러는 이 구조체에서만
type PredictionHandler struct {
	service *engine.Service
	source  TrainingSource
	logger  *logger.Logger
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(service *engine.Service, source TrainingSource, log *logger.Logger) *PredictionHandler {
	return &PredictionHandler{
		service: service,
		source:  source,
		logger:  log,
	}
}

// PredictTrade forecasts profit margin and delivery days for one scenario
// POST /api/predictions/predict-trade
func (h *PredictionHandler) PredictTrade(w http.ResponseWriter, r *http.Request) {
	var scenario contracts.RawScenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	prediction, err := h.service.Predict(&scenario)
	if err != nil {
		h.respondPredictError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, prediction)
}

func (h *PredictionHandler) respondPredictError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contracts.ErrNotTrained):
		respondError(w, http.StatusConflict, "Model not trained yet")
	case errors.Is(err, contracts.ErrUnknownCategory),
		errors.Is(err, contracts.ErrInvalidFeature):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.WithError(err).Error("Prediction failed")
		respondError(w, http.StatusInternalServerError, "Prediction failed")
	}
}

// Train refits both models on the configured data source
// POST /api/predictions/train
func (h *PredictionHandler) Train(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	table, err := h.source.LoadTable(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load training data")
		respondError(w, http.StatusInternalServerError, "Failed to load training data")
		return
	}

	fit, err := h.service.Train(ctx, table)
	if err != nil {
		switch {
		case errors.Is(err, contracts.ErrEmptyTrainingSet),
			errors.Is(err, contracts.ErrMissingTarget):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.WithError(err).Error("Training failed")
			respondError(w, http.StatusInternalServerError, "Training failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, fit)
}

// ModelPerformance returns metadata about the serving bundle
// GET /api/predictions/model-performance
func (h *PredictionHandler) ModelPerformance(w http.ResponseWriter, r *http.Request) {
	bundle := h.service.Bundle()
	if bundle == nil {
		respondError(w, http.StatusNotFound, "Model not trained yet")
		return
	}

	resp := map[string]interface{}{
		"schema_version": bundle.SchemaVersion,
		"trained_at":     bundle.TrainedAt,
		"feature_count":  len(bundle.FeatureNames),
		"importance":     bundle.Importance,
	}
	if fit := h.service.FitMetrics(); fit != nil {
		resp["fit_metrics"] = fit
	}
	respondJSON(w, http.StatusOK, resp)
}
