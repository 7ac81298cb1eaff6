package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/internal/ranking"
	"github.com/wonny/tradewise/backend/pkg/logger"
	"github.com/wonny/tradewise/backend/pkg/metrics"
	"github.com/wonny/tradewise/backend/pkg/redis"
)

// DealerSource supplies the dealer pool when the request carries none.
type DealerSource interface {
	List(ctx context.Context) ([]contracts.DealerSummary, error)
}

// RankingHandler handles dealer ranking API endpoints
// ⭐ SSOT: 랭킹 API 핸들러는 이 구조체에서만
type RankingHandler struct {
	ranker         *ranking.Ranker
	dealers        DealerSource
	defaultWeights ranking.Weights
	defaultMax     int
	cache          *redis.Cache
	cacheTTL       time.Duration
	logger         *logger.Logger
}

// NewRankingHandler creates a new ranking handler. defaultWeights and
// defaultMax come from the strategy file and apply when a request omits
// them. cache may be nil.
func NewRankingHandler(ranker *ranking.Ranker, dealers DealerSource, defaultWeights ranking.Weights, defaultMax int, cache *redis.Cache, cacheTTL time.Duration, log *logger.Logger) *RankingHandler {
	if defaultMax <= 0 {
		defaultMax = 10
	}
	return &RankingHandler{
		ranker:         ranker,
		dealers:        dealers,
		defaultWeights: defaultWeights,
		defaultMax:     defaultMax,
		cache:          cache,
		cacheTTL:       cacheTTL,
		logger:         log,
	}
}

// RankDealersRequest is the rank-dealers request body. All fields optional:
// missing weights use the defaults, missing dealers use the stored pool.
type RankDealersRequest struct {
	Weights    *ranking.Weights          `json:"weights,omitempty"`
	MaxResults int                       `json:"max_results,omitempty"`
	Dealers    []contracts.DealerSummary `json:"dealers,omitempty"`
}

// RankDealers scores and orders dealers by weighted criteria
// POST /api/predictions/rank-dealers
func (h *RankingHandler) RankDealers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RankDealersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	weights := h.defaultWeights
	if req.Weights != nil {
		weights = *req.Weights
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = h.defaultMax
	}

	dealers := req.Dealers
	cacheable := len(dealers) == 0 && h.cache != nil
	cacheKey := fmt.Sprintf("rank:%.3f:%.3f:%.3f:%.3f:%.3f:%d",
		weights.Cost, weights.Quality, weights.Delivery,
		weights.Reliability, weights.Capacity, maxResults)

	if cacheable {
		var cached []contracts.DealerSummary
		if hit, err := h.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	if len(dealers) == 0 {
		var err error
		dealers, err = h.dealers.List(ctx)
		if err != nil {
			h.logger.WithError(err).Error("Failed to load dealers")
			respondError(w, http.StatusInternalServerError, "Failed to load dealers")
			return
		}
	}

	ranked, err := h.ranker.Rank(dealers, weights)
	if err != nil {
		if errors.Is(err, contracts.ErrInvalidWeights) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.WithError(err).Error("Ranking failed")
		respondError(w, http.StatusInternalServerError, "Ranking failed")
		return
	}
	metrics.RankingsTotal.Inc()

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	if cacheable {
		if err := h.cache.Set(ctx, cacheKey, ranked, h.cacheTTL); err != nil {
			h.logger.WithError(err).Warn("Failed to cache ranking")
		}
	}

	respondJSON(w, http.StatusOK, ranked)
}
