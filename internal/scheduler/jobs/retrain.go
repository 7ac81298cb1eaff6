// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/internal/engine"
	"github.com/wonny/tradewise/backend/pkg/logger"
)

// TableLoader supplies the training table for a retrain run.
type TableLoader interface {
	LoadTable(ctx context.Context) (*contracts.Table, error)
}

// RetrainJob refits both models on the latest transactions and swaps the
// serving bundle.
// ⭐ SSOT: 재학습 스케줄은 이 Job에서만
type RetrainJob struct {
	loader   TableLoader
	service  *engine.Service
	schedule string
	logger   *logger.Logger
}

// NewRetrainJob creates a retrain job with a cron schedule (seconds field
// included, e.g. "0 0 2 * * *" for 2 AM daily).
func NewRetrainJob(loader TableLoader, service *engine.Service, schedule string, log *logger.Logger) *RetrainJob {
	return &RetrainJob{
		loader:   loader,
		service:  service,
		schedule: schedule,
		logger:   log.WithComponent("jobs.retrain"),
	}
}

// Name returns the job name.
func (j *RetrainJob) Name() string {
	return "model_retrain"
}

// Schedule returns the cron schedule expression.
func (j *RetrainJob) Schedule() string {
	return j.schedule
}

// Run loads the training table and refits the models.
func (j *RetrainJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled model retrain")

	table, err := j.loader.LoadTable(ctx)
	if err != nil {
		return fmt.Errorf("load training table: %w", err)
	}

	fit, err := j.service.Train(ctx, table)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	fields := map[string]interface{}{
		"training_rows":  fit.TrainingRows,
		"holdout_rows":   fit.HoldoutRows,
		"low_confidence": fit.LowConfidence,
	}
	if fit.Profit != nil {
		fields["profit_r2"] = fit.Profit.R2
	}
	if fit.Delivery != nil {
		fields["delivery_r2"] = fit.Delivery.R2
	}
	j.logger.WithFields(fields).Info("Scheduled retrain finished")
	return nil
}
