package repos_test

import (
	"context"
	"os"
	"testing"
	"time"

	"thriftshop/internal/repos"
)

func memKV(t *testing.T) *repos.KVRepo {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return repos.NewKVRepo(db)
}

func TestKVRepo_PutGetDelete(t *testing.T) {
	kv := memKV(t)
	ctx := context.Background()
	ns := repos.Namespace{Name: "cart", Version: 1}

	if _, err := kv.Get(ctx, ns, "sid-1"); err != repos.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := kv.Put(ctx, ns, "sid-1", []byte(`["a"]`)); err != nil {
		t.Fatal(err)
	}
	if err := kv.Put(ctx, ns, "sid-1", []byte(`["a","b"]`)); err != nil {
		t.Fatal(err)
	}
	var ids []string
	ok, err := repos.GetJSON(ctx, kv, ns, "sid-1", &ids)
	if err != nil || !ok {
		t.Fatalf("GetJSON ok=%v err=%v", ok, err)
	}
	if len(ids) != 2 {
		t.Fatalf("upsert should replace the value, got %v", ids)
	}
	if err := kv.Delete(ctx, ns, "sid-1"); err != nil {
		t.Fatal(err)
	}
	ok, err = repos.GetJSON(ctx, kv, ns, "sid-1", &ids)
	if err != nil || ok {
		t.Fatalf("deleted key should be absent, ok=%v err=%v", ok, err)
	}
}

func TestKVRepo_NamespacesAreIndependent(t *testing.T) {
	kv := memKV(t)
	ctx := context.Background()
	v1 := repos.Namespace{Name: "saved", Version: 1}
	v2 := repos.Namespace{Name: "saved", Version: 2}
	theme := repos.Namespace{Name: "theme", Version: 1}

	_ = kv.Put(ctx, v1, "sid", []byte(`"old"`))
	_ = kv.Put(ctx, theme, "sid", []byte(`"dark"`))

	if _, err := kv.Get(ctx, v2, "sid"); err != repos.ErrNotFound {
		t.Fatalf("a version bump must not see old rows, got %v", err)
	}

	n, err := kv.PruneSuperseded(ctx, []repos.Namespace{v2, theme})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 pruned row, got %d", n)
	}
	if _, err := kv.Get(ctx, theme, "sid"); err != nil {
		t.Fatalf("other namespaces must survive pruning: %v", err)
	}
}

func TestRedisKV(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_URL")
	if addr == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx := context.Background()
	kv, err := repos.NewRedisKV(ctx, addr, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	ns := repos.Namespace{Name: "test", Version: 1}
	if err := repos.PutJSON(ctx, kv, ns, "k", map[string]int{"n": 1}); err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if ok, err := repos.GetJSON(ctx, kv, ns, "k", &got); err != nil || !ok || got["n"] != 1 {
		t.Fatalf("roundtrip failed ok=%v err=%v got=%v", ok, err, got)
	}
	_ = kv.Delete(ctx, ns, "k")
	if _, err := kv.Get(ctx, ns, "k"); err != repos.ErrNotFound {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}
