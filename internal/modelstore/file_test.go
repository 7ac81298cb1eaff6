package modelstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/internal/engine/gbt"
	"github.com/wonny/tradewise/backend/internal/engine/predictor"
	"github.com/wonny/tradewise/backend/pkg/logger"
)

func testBundle(t *testing.T) *contracts.ModelBundle {
	t.Helper()

	x := [][]float64{{1}, {2}, {3}, {4}}
	profitModel, err := gbt.Fit(x, []float64{10, 12, 18, 22}, gbt.DefaultParams())
	require.NoError(t, err)
	deliveryModel, err := gbt.Fit(x, []float64{5, 7, 9, 12}, gbt.DefaultParams())
	require.NoError(t, err)

	encoders := make(map[string]map[string]int)
	for _, col := range contracts.CategoricalColumns {
		encoders[col] = map[string]int{"": 0}
	}
	return &contracts.ModelBundle{
		SchemaVersion: contracts.BundleSchemaVersion,
		TrainedAt:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		FeatureNames:  []string{contracts.ColQuantity},
		Encoders:      encoders,
		ColumnMeans:   map[string]float64{contracts.ColQuantity: 2.5},
		Scaler:        contracts.ScalerParams{Mean: []float64{2.5}, Std: []float64{1.1}},
		ProfitModel:   profitModel,
		DeliveryModel: deliveryModel,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), logger.Discard())
	require.NoError(t, err)

	bundle := testBundle(t)
	require.NoError(t, store.Save(ctx, "trade_v1", bundle))

	loaded, err := store.Load(ctx, "trade_v1")
	require.NoError(t, err)
	assert.Equal(t, bundle.SchemaVersion, loaded.SchemaVersion)
	assert.Equal(t, bundle.FeatureNames, loaded.FeatureNames)
	assert.Equal(t, bundle.ColumnMeans, loaded.ColumnMeans)

	// The restored bundle must predict exactly like the original.
	orig, err := predictor.NewFromBundle(bundle)
	require.NoError(t, err)
	restored, err := predictor.NewFromBundle(loaded)
	require.NoError(t, err)

	scenario := contracts.RawScenario{Quantity: contracts.Float64(3)}
	want, err := orig.Predict(&scenario)
	require.NoError(t, err)
	got, err := restored.Predict(&scenario)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStoreLoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), logger.Discard())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, contracts.ErrBundleNotFound)
}

func TestFileStoreSchemaMismatch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir, logger.Discard())
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "old", testBundle(t)))

	// Tamper with the stored payload to simulate a stale format on disk.
	raw, err := os.ReadFile(filepath.Join(dir, "old.json"))
	require.NoError(t, err)
	tampered := []byte(`{"schema_version":99}`)
	require.NotEqual(t, raw, tampered)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), tampered, 0o644))

	_, err = store.Load(ctx, "old")
	assert.ErrorIs(t, err, contracts.ErrIncompatibleBundle)
}

func TestFileStoreKeysAndDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), logger.Discard())
	require.NoError(t, err)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	bundle := testBundle(t)
	require.NoError(t, store.Save(ctx, "alpha", bundle))
	require.NoError(t, store.Save(ctx, "beta", bundle))

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, keys)

	require.NoError(t, store.Delete(ctx, "alpha"))
	// Deleting a missing key is not an error.
	require.NoError(t, store.Delete(ctx, "alpha"))

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta"}, keys)
}

func TestFileStoreRejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), logger.Discard())
	require.NoError(t, err)

	bundle := testBundle(t)
	assert.Error(t, store.Save(ctx, "", bundle))
	assert.Error(t, store.Save(ctx, "../escape", bundle))
	assert.Error(t, store.Save(ctx, "a/b", bundle))
}
