package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/internal/engine/trainer"
	"github.com/wonny/tradewise/backend/internal/modelstore"
	"github.com/wonny/tradewise/backend/internal/tradedata"
	"github.com/wonny/tradewise/backend/pkg/logger"
)

func newTestService(t *testing.T, dir string) *Service {
	t.Helper()

	store, err := modelstore.NewFileStore(dir, logger.Discard())
	require.NoError(t, err)

	cfg := trainer.DefaultConfig()
	cfg.ProfitParams.NumTrees = 25
	cfg.DeliveryParams.NumTrees = 25

	return NewService(trainer.New(cfg, logger.Discard()), store, "trade_v1", nil, logger.Discard())
}

// recordingAuditor captures RecordTraining calls.
type recordingAuditor struct {
	keys    []string
	trained []time.Time
}

func (a *recordingAuditor) RecordTraining(_ context.Context, bundleKey string, trainedAt time.Time) error {
	a.keys = append(a.keys, bundleKey)
	a.trained = append(a.trained, trainedAt)
	return nil
}

func testScenario() *contracts.RawScenario {
	table := tradedata.Generate(1, 17)
	s := table.Scenarios()[0]
	return &s
}

func TestServicePredictBeforeTrain(t *testing.T) {
	svc := newTestService(t, t.TempDir())

	assert.False(t, svc.Trained())
	_, err := svc.Predict(testScenario())
	assert.ErrorIs(t, err, contracts.ErrNotTrained)
}

func TestServiceTrainThenPredict(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, t.TempDir())

	fit, err := svc.Train(ctx, tradedata.Generate(200, 42))
	require.NoError(t, err)
	require.NotNil(t, fit)
	assert.Equal(t, 160, fit.TrainingRows)
	assert.Equal(t, 40, fit.HoldoutRows)
	assert.False(t, fit.LowConfidence)

	assert.True(t, svc.Trained())
	require.NotNil(t, svc.Bundle())
	assert.Same(t, fit, svc.FitMetrics())

	pred, err := svc.Predict(testScenario())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pred.DeliveryDays, 1)
	assert.NotEmpty(t, pred.Recommendation)
}

func TestServiceRestoreFromStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := newTestService(t, dir)
	_, err := first.Train(ctx, tradedata.Generate(200, 42))
	require.NoError(t, err)

	scenario := testScenario()
	want, err := first.Predict(scenario)
	require.NoError(t, err)

	// A fresh service sharing the store restores the persisted bundle and
	// reproduces the same predictions.
	second := newTestService(t, dir)
	require.NoError(t, second.Restore(ctx))
	assert.True(t, second.Trained())
	assert.Nil(t, second.FitMetrics(), "fit metrics are not persisted with the bundle")

	got, err := second.Predict(scenario)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestServiceTrainRecordsAudit(t *testing.T) {
	ctx := context.Background()
	store, err := modelstore.NewFileStore(t.TempDir(), logger.Discard())
	require.NoError(t, err)

	cfg := trainer.DefaultConfig()
	cfg.ProfitParams.NumTrees = 25
	cfg.DeliveryParams.NumTrees = 25

	audit := &recordingAuditor{}
	svc := NewService(trainer.New(cfg, logger.Discard()), store, "trade_v1", audit, logger.Discard())

	// A failed run must not reach the auditor.
	_, err = svc.Train(ctx, contracts.NewTable())
	require.Error(t, err)
	assert.Empty(t, audit.keys)

	_, err = svc.Train(ctx, tradedata.Generate(200, 42))
	require.NoError(t, err)
	require.Equal(t, []string{"trade_v1"}, audit.keys)
	assert.Equal(t, svc.Bundle().TrainedAt, audit.trained[0])
}

func TestServiceRestoreColdStart(t *testing.T) {
	svc := newTestService(t, t.TempDir())
	err := svc.Restore(context.Background())
	assert.ErrorIs(t, err, contracts.ErrBundleNotFound)
	assert.False(t, svc.Trained())
}
