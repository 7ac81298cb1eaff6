package strategyconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wonny/tradewise/backend/internal/ranking"
)

// Load reads the YAML strategy file and returns Config with raw bytes
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, err
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, data, err
	}

	return &cfg, data, nil
}

// applyDefaults fills fields the YAML may omit.
func applyDefaults(cfg *Config) {
	if cfg.Training.MinTrainingRows == 0 {
		cfg.Training.MinTrainingRows = 50
	}
	if cfg.Training.HoldoutFraction == 0 {
		cfg.Training.HoldoutFraction = 0.2
	}
	if cfg.Training.Seed == 0 {
		cfg.Training.Seed = 42
	}
	if cfg.Ranking.MaxResults == 0 {
		cfg.Ranking.MaxResults = 10
	}
	zero := ranking.Weights{}
	if cfg.Ranking.Weights == zero {
		cfg.Ranking.Weights = ranking.DefaultWeights()
	}
}

// Hash generates SHA256 hash from Config (canonical JSON)
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NewTrainingSnapshot creates an audit snapshot for one training run.
func NewTrainingSnapshot(cfg *Config, yamlData []byte, bundleKey string) (*TrainingSnapshot, error) {
	hash, err := Hash(cfg)
	if err != nil {
		return nil, err
	}

	return &TrainingSnapshot{
		ConfigHash: hash,
		ConfigYAML: string(yamlData),
		StrategyID: cfg.Meta.StrategyID,
		BundleKey:  bundleKey,
		CreatedAt:  time.Now(),
	}, nil
}
