package modelstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/tradewise/backend/internal/contracts"
)

// PostgresStore 모델 번들 저장소 (ml.model_bundles 테이블)
// Bundles are stored as JSONB so fleets sharing one database see the same
// artifact after a retrain.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore 새 저장소 생성
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save 번들 저장 (upsert)
func (s *PostgresStore) Save(ctx context.Context, key string, bundle *contracts.ModelBundle) error {
	data, err := encodeBundle(bundle)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ml.model_bundles (bundle_key, schema_version, trained_at, payload, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (bundle_key)
		DO UPDATE SET
			schema_version = EXCLUDED.schema_version,
			trained_at = EXCLUDED.trained_at,
			payload = EXCLUDED.payload,
			updated_at = NOW()`

	_, err = s.pool.Exec(ctx, query, key, bundle.SchemaVersion, bundle.TrainedAt, data)
	if err != nil {
		return fmt.Errorf("save bundle %q: %w", key, err)
	}
	return nil
}

// Load 번들 조회
func (s *PostgresStore) Load(ctx context.Context, key string) (*contracts.ModelBundle, error) {
	query := `SELECT payload FROM ml.model_bundles WHERE bundle_key = $1`

	var data []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", contracts.ErrBundleNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("load bundle %q: %w", key, err)
	}
	return decodeBundle(data)
}

// Delete 번들 삭제
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM ml.model_bundles WHERE bundle_key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete bundle %q: %w", key, err)
	}
	return nil
}

// Keys 저장된 번들 키 목록
func (s *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT bundle_key FROM ml.model_bundles ORDER BY bundle_key`)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
