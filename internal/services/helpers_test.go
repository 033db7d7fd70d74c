package services_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"thriftshop/internal/repos"
)

func memkv(t *testing.T) repos.KV {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return repos.NewKVRepo(db)
}

const sheetHeader = "id,name,description,price,imageUrls,videoUrl,category,brand,size,bust,length,condition,sold,isUpcoming,createdAt,dropDate"

func sheetCSV(rows ...string) string {
	return strings.Join(append([]string{sheetHeader}, rows...), "\n")
}

// fakeSheet serves canned CSV and counts calls. When gate is set every fetch waits on it.
type fakeSheet struct {
	mu    sync.Mutex
	text  string
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (f *fakeSheet) Fetch(ctx context.Context, url string) (string, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text, f.err
}

func (f *fakeSheet) set(text string, err error) {
	f.mu.Lock()
	f.text, f.err = text, err
	f.mu.Unlock()
}
