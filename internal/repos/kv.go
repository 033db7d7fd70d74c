package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("kv: not found")

// Namespace groups keys that share a schema. Bumping Version orphans the old rows
// without touching other namespaces.
type Namespace struct {
	Name    string
	Version int
}

func (n Namespace) String() string { return fmt.Sprintf("%s/v%d", n.Name, n.Version) }

// KV is the durable storage behind the product cache and all per-session state.
type KV interface {
	Get(ctx context.Context, ns Namespace, key string) ([]byte, error)
	Put(ctx context.Context, ns Namespace, key string, value []byte) error
	Delete(ctx context.Context, ns Namespace, key string) error
}

// GetJSON decodes the stored value into dst. It reports false when the key is absent.
func GetJSON(ctx context.Context, kv KV, ns Namespace, key string, dst any) (bool, error) {
	b, err := kv.Get(ctx, ns, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode %s %q: %w", ns, key, err)
	}
	return true, nil
}

func PutJSON(ctx context.Context, kv KV, ns Namespace, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %q: %w", ns, key, err)
	}
	return kv.Put(ctx, ns, key, b)
}
