package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/tradewise/backend/internal/api/handlers"
	"github.com/wonny/tradewise/backend/internal/ranking"
	"github.com/wonny/tradewise/backend/pkg/logger"
)

func newTestRouter(metricsEnabled bool) http.Handler {
	log := logger.Discard()
	prediction := handlers.NewPredictionHandler(nil, nil, log)
	rank := handlers.NewRankingHandler(ranking.New(log), nil, ranking.DefaultWeights(), 10, nil, 0, log)
	return NewRouter(prediction, rank, metricsEnabled, log)
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter(true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouterMetricsGate(t *testing.T) {
	enabled := newTestRouter(true)
	rec := httptest.NewRecorder()
	enabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	disabled := newTestRouter(false)
	rec = httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
