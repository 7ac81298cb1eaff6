package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tradewise/backend/internal/api"
	"github.com/wonny/tradewise/backend/internal/api/handlers"
	"github.com/wonny/tradewise/backend/internal/ranking"
	"github.com/wonny/tradewise/backend/internal/scheduler"
	"github.com/wonny/tradewise/backend/internal/scheduler/jobs"
	"github.com/wonny/tradewise/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                              - Health check
  GET  /metrics                             - Prometheus metrics
  POST /api/predictions/predict-trade       - 거래 시나리오 예측
  POST /api/predictions/train               - 모델 학습
  GET  /api/predictions/model-performance   - 모델 성능 조회
  POST /api/predictions/rank-dealers        - 딜러 랭킹

Example:
  go run ./cmd/tradewise api
  go run ./cmd/tradewise api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TradeWise API Server ===")

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log

	// Restore the last trained bundle so predictions work immediately.
	if err := a.restore(context.Background()); err != nil {
		return fmt.Errorf("restore model bundle: %w", err)
	}

	source, err := a.tableSource()
	if err != nil {
		return err
	}

	// Redis ranking cache (optional)
	redisClient, err := redis.New(a.cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, ranking cache disabled")
		redisClient = redis.Disabled()
	}
	defer redisClient.Close()

	var cache *redis.Cache
	if redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "tradewise")
	}

	ranker := ranking.New(log)
	predictionHandler := handlers.NewPredictionHandler(a.service, source, log)
	rankingHandler := handlers.NewRankingHandler(ranker, a.dealerSource(),
		a.strategy.Ranking.Weights, a.strategy.Ranking.MaxResults,
		cache, a.cfg.Model.RankingCacheTTL, log)

	router := api.NewRouter(predictionHandler, rankingHandler, a.cfg.MetricsEnabled, log)
	server := api.New(a.cfg, log, router)

	// Scheduled retrain (optional)
	var sched *scheduler.Scheduler
	if a.cfg.Model.RetrainSchedule != "" {
		sched = scheduler.New(log)
		job := jobs.NewRetrainJob(source, a.service, a.cfg.Model.RetrainSchedule, log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("schedule retrain: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
