package strategyconfig

import (
	"context"
	"testing"
	"time"
)

func TestSnapshotWriterRecordTraining(t *testing.T) {
	path := writeTestConfig(t, testYAML)
	cfg, yamlData, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	dir := t.TempDir()
	trainedAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	w := NewSnapshotWriter(cfg, yamlData, dir)
	if err := w.RecordTraining(context.Background(), "trade_v1", trainedAt); err != nil {
		t.Fatalf("RecordTraining failed: %v", err)
	}

	snap, err := ReadSnapshot(dir, "trade_v1")
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}

	wantHash, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if snap.ConfigHash != wantHash {
		t.Errorf("expected config hash %s, got %s", wantHash, snap.ConfigHash)
	}
	if snap.StrategyID != "trade_baseline_v1" {
		t.Errorf("expected strategy_id=trade_baseline_v1, got %s", snap.StrategyID)
	}
	if snap.BundleKey != "trade_v1" {
		t.Errorf("expected bundle_key=trade_v1, got %s", snap.BundleKey)
	}
	if !snap.CreatedAt.Equal(trainedAt) {
		t.Errorf("expected created_at=%v, got %v", trainedAt, snap.CreatedAt)
	}
	if snap.ConfigYAML != string(yamlData) {
		t.Errorf("snapshot does not carry the original yaml")
	}

	// Re-recording replaces the previous snapshot for the key.
	if err := w.RecordTraining(context.Background(), "trade_v1", trainedAt.Add(time.Hour)); err != nil {
		t.Fatalf("RecordTraining failed: %v", err)
	}
	snap, err = ReadSnapshot(dir, "trade_v1")
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	if !snap.CreatedAt.Equal(trainedAt.Add(time.Hour)) {
		t.Errorf("expected snapshot to be replaced, got created_at=%v", snap.CreatedAt)
	}
}
