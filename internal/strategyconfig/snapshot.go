package strategyconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SnapshotWriter persists a TrainingSnapshot next to the model bundles so
// every trained bundle can be traced back to the exact strategy that
// produced it.
// ⭐ 감사(audit): 번들 키당 마지막 학습 스냅샷 1개 유지
type SnapshotWriter struct {
	cfg  *Config
	yaml []byte
	dir  string
}

// NewSnapshotWriter creates a writer for the loaded strategy. yamlData is
// the raw file content returned by Load.
func NewSnapshotWriter(cfg *Config, yamlData []byte, dir string) *SnapshotWriter {
	return &SnapshotWriter{cfg: cfg, yaml: yamlData, dir: dir}
}

// RecordTraining writes the snapshot for one completed training run.
func (w *SnapshotWriter) RecordTraining(_ context.Context, bundleKey string, trainedAt time.Time) error {
	snap, err := NewTrainingSnapshot(w.cfg, w.yaml, bundleKey)
	if err != nil {
		return fmt.Errorf("build training snapshot: %w", err)
	}
	snap.CreatedAt = trainedAt

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode training snapshot: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	path := filepath.Join(w.dir, bundleKey+".snapshot.json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write training snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit training snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads the snapshot recorded for a bundle key, if any.
func ReadSnapshot(dir, bundleKey string) (*TrainingSnapshot, error) {
	data, err := os.ReadFile(filepath.Join(dir, bundleKey+".snapshot.json"))
	if err != nil {
		return nil, err
	}
	var snap TrainingSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode training snapshot: %w", err)
	}
	return &snap, nil
}
