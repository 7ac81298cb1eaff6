package modelstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wonny/tradewise/backend/internal/contracts"
	"github.com/wonny/tradewise/backend/pkg/logger"
)

const bundleExt = ".json"

// FileStore keeps one JSON file per bundle under a base directory.
// 단일 노드 배포용 기본 백엔드
type FileStore struct {
	dir string
	log *logger.Logger
}

// NewFileStore creates the base directory if needed.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create model dir: %w", err)
	}
	return &FileStore{
		dir: dir,
		log: log.WithComponent("modelstore.file"),
	}, nil
}

// Save writes the bundle atomically: temp file then rename.
func (s *FileStore) Save(_ context.Context, key string, bundle *contracts.ModelBundle) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := encodeBundle(bundle)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit bundle: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"key":   key,
		"bytes": len(data),
	}).Info("Model bundle saved")
	return nil
}

func (s *FileStore) Load(_ context.Context, key string) (*contracts.ModelBundle, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", contracts.ErrBundleNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	return decodeBundle(data)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete bundle: %w", err)
	}
	return nil
}

func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, bundleExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, bundleExt))
	}
	return keys, nil
}

// path validates the key and maps it to a file under the base directory.
// Separators and traversal are rejected so keys cannot escape the dir.
func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid bundle key %q", key)
	}
	return filepath.Join(s.dir, key+bundleExt), nil
}
