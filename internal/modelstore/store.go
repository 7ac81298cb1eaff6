// Package modelstore persists trained model bundles.
// ⭐ SSOT: 번들 직렬화 포맷은 이 패키지에서만 정의
package modelstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wonny/tradewise/backend/internal/contracts"
)

// Store persists and retrieves model bundles by key.
type Store interface {
	// Save writes the bundle under key, replacing any previous bundle.
	Save(ctx context.Context, key string, bundle *contracts.ModelBundle) error

	// Load retrieves the bundle stored under key.
	// Returns ErrBundleNotFound if no bundle exists for the key.
	Load(ctx context.Context, key string) (*contracts.ModelBundle, error)

	// Delete removes the bundle under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored bundle keys.
	Keys(ctx context.Context) ([]string, error)
}

// encodeBundle serializes a bundle to its JSON wire form.
func encodeBundle(bundle *contracts.ModelBundle) ([]byte, error) {
	if bundle == nil {
		return nil, fmt.Errorf("nil bundle")
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	return data, nil
}

// decodeBundle parses the JSON wire form and enforces the schema version.
func decodeBundle(data []byte) (*contracts.ModelBundle, error) {
	var bundle contracts.ModelBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if bundle.SchemaVersion != contracts.BundleSchemaVersion {
		return nil, fmt.Errorf("%w: stored schema %d, engine expects %d",
			contracts.ErrIncompatibleBundle, bundle.SchemaVersion, contracts.BundleSchemaVersion)
	}
	return &bundle, nil
}
