// Package engine ties the trainer, predictor and model store together behind
// a single concurrency-safe facade.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/internal/engine/predictor"
	"github.com/wonny/tradewise/backend/internal/engine/trainer"
	"github.com/wonny/tradewise/backend/internal/modelstore"
	"github.com/wonny/tradewise/backend/pkg/logger"
	"github.com/wonny/tradewise/backend/pkg/metrics"
)

// Auditor records which configuration produced a persisted bundle. A failed
// audit write does not roll back the training run.
type Auditor interface {
	RecordTraining(ctx context.Context, bundleKey string, trainedAt time.Time) error
}

// Service serves predictions from the current bundle and swaps in a new one
// after each successful training run.
// 쓰기(학습)는 단일, 읽기(예측)는 동시 허용 (RWMutex)
type Service struct {
	mu sync.RWMutex

	trainer   *trainer.Trainer
	store     modelstore.Store
	bundleKey string
	auditor   Auditor // optional
	log       *logger.Logger

	current *predictor.Predictor
	bundle  *contracts.ModelBundle
	fit     *contracts.FitMetrics
}

// NewService creates the facade. No bundle is loaded yet; call Restore or
// Train before Predict. auditor may be nil.
func NewService(tr *trainer.Trainer, store modelstore.Store, bundleKey string, auditor Auditor, log *logger.Logger) *Service {
	return &Service{
		trainer:   tr,
		store:     store,
		bundleKey: bundleKey,
		auditor:   auditor,
		log:       log.WithComponent("engine.service"),
	}
}

// Restore loads the persisted bundle, if any. ErrBundleNotFound is returned
// untouched so callers can treat a cold start as non-fatal.
func (s *Service) Restore(ctx context.Context) error {
	bundle, err := s.store.Load(ctx, s.bundleKey)
	if err != nil {
		return err
	}
	pred, err := predictor.NewFromBundle(bundle)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = pred
	s.bundle = bundle
	s.fit = nil // metrics are not persisted with the bundle
	s.mu.Unlock()

	s.log.WithField("trained_at", bundle.TrainedAt).Info("Model bundle restored")
	return nil
}

// Train fits both models on the table, persists the bundle and atomically
// swaps the serving predictor.
func (s *Service) Train(ctx context.Context, table *contracts.Table) (*contracts.FitMetrics, error) {
	start := time.Now()

	bundle, fit, err := s.trainer.Fit(table, contracts.ColProfitMargin, contracts.ColActualDeliveryDays)
	if err != nil {
		metrics.TrainingRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	pred, err := predictor.NewFromBundle(bundle)
	if err != nil {
		metrics.TrainingRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if err := s.store.Save(ctx, s.bundleKey, bundle); err != nil {
		metrics.TrainingRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if s.auditor != nil {
		if err := s.auditor.RecordTraining(ctx, s.bundleKey, bundle.TrainedAt); err != nil {
			s.log.WithError(err).Warn("Training snapshot not recorded")
		}
	}

	s.mu.Lock()
	s.current = pred
	s.bundle = bundle
	s.fit = fit
	s.mu.Unlock()

	metrics.TrainingRunsTotal.WithLabelValues("ok").Inc()
	metrics.TrainingDuration.Observe(time.Since(start).Seconds())
	return fit, nil
}

// Predict forecasts one scenario with the current bundle.
func (s *Service) Predict(scenario *contracts.RawScenario) (*contracts.TradePrediction, error) {
	s.mu.RLock()
	pred := s.current
	s.mu.RUnlock()

	if pred == nil {
		return nil, contracts.ErrNotTrained
	}
	out, err := pred.Predict(scenario)
	if err != nil {
		return nil, err
	}
	metrics.PredictionsTotal.WithLabelValues("trade").Inc()
	return out, nil
}

// Trained reports whether a bundle is currently loaded.
func (s *Service) Trained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Bundle returns the serving bundle, or nil before first train/restore.
// 반환된 번들은 불변: 수정 금지
func (s *Service) Bundle() *contracts.ModelBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle
}

// FitMetrics returns metrics from the last in-process training run. They are
// nil after Restore since only the bundle is persisted.
func (s *Service) FitMetrics() *contracts.FitMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fit
}
