package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/wonny/tradewise/backend/internal/api/handlers"
	"github.com/wonny/tradewise/backend/pkg/logger"
	"github.com/wonny/tradewise/backend/pkg/metrics"
)

// NewRouter creates and configures the HTTP router. metricsEnabled controls
// whether the Prometheus endpoint is exposed.
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(prediction *handlers.PredictionHandler, ranking *handlers.RankingHandler, metricsEnabled bool, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check and Prometheus metrics
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Prediction endpoints
	api.HandleFunc("/predictions/predict-trade", prediction.PredictTrade).Methods("POST")
	api.HandleFunc("/predictions/train", prediction.Train).Methods("POST")
	api.HandleFunc("/predictions/model-performance", prediction.ModelPerformance).Methods("GET")

	// Ranking endpoints
	api.HandleFunc("/predictions/rank-dealers", ranking.RankDealers).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(rateLimitMiddleware())

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "tradewise-api",
	})
}

// loggingMiddleware logs HTTP requests and records latency
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			elapsed := time.Since(start)
			metrics.RequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(elapsed.Seconds())
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": elapsed,
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware caps request throughput across all clients.
// 단일 인스턴스 전역 제한 (per-client 세분화는 하지 않음)
func rateLimitMiddleware() mux.MiddlewareFunc {
	limiter := rate.NewLimiter(rate.Limit(100), 200)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
