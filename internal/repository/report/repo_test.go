package report

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/tabprep/internal/db"
	"github.com/kailas-cloud/tabprep/internal/domain"
	"github.com/kailas-cloud/tabprep/internal/domain/profile"
)

// mockStore is an in-memory db.Store with call recording.
type mockStore struct {
	data       map[string][]byte
	ttls       map[string]time.Duration
	getErr     error
	setErr     error
	delErr     error
	keysErr    error
	deleted    []string
	keysCalled string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Ping(context.Context) error { return nil }
func (m *mockStore) Close()                     {}
func (m *mockStore) WaitForReady(context.Context, time.Duration) error {
	return nil
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	m.deleted = append(m.deleted, key)
	delete(m.data, key)
	return nil
}

func (m *mockStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockStore) Keys(_ context.Context, pattern string) ([]string, error) {
	m.keysCalled = pattern
	if m.keysErr != nil {
		return nil, m.keysErr
	}
	var keys []string
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func sampleReport(dataset string) profile.Report {
	rep, _ := profile.New(dataset, 100, 5)
	rep.HighlyNull = []string{"mostly_empty"}
	return rep
}

func TestPutGet_RoundTrip(t *testing.T) {
	store := newMockStore()
	repo := New(store, "tabprep:", 0)
	ctx := context.Background()

	want := sampleReport("churn")
	if err := repo.Put(ctx, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := store.data["tabprep:report:churn"]; !ok {
		t.Fatalf("report stored under wrong key: %v", keysOf(store.data))
	}

	got, err := repo.Get(ctx, "churn")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestPut_TTL(t *testing.T) {
	store := newMockStore()
	repo := New(store, "tabprep:", time.Hour)

	if err := repo.Put(context.Background(), sampleReport("churn")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if store.ttls["tabprep:report:churn"] != time.Hour {
		t.Errorf("ttl = %v, want 1h", store.ttls["tabprep:report:churn"])
	}
}

func TestPut_ZeroTTLNeverExpires(t *testing.T) {
	store := newMockStore()
	repo := New(store, "tabprep:", 0)

	if err := repo.Put(context.Background(), sampleReport("churn")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := store.ttls["tabprep:report:churn"]; ok {
		t.Error("SetWithTTL used for zero ttl, want plain Set")
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(newMockStore(), "tabprep:", 0)
	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want domain.ErrNotFound", err)
	}
}

func TestGet_StoreError(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("connection reset")
	repo := New(store, "tabprep:", 0)

	_, err := repo.Get(context.Background(), "churn")
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want wrapped store error", err)
	}
}

func TestDelete(t *testing.T) {
	store := newMockStore()
	repo := New(store, "tabprep:", 0)
	ctx := context.Background()

	if err := repo.Put(ctx, sampleReport("churn")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := repo.Delete(ctx, "churn"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "tabprep:report:churn" {
		t.Errorf("deleted = %v", store.deleted)
	}
}

func TestList_StripsKeyPrefix(t *testing.T) {
	store := newMockStore()
	repo := New(store, "tabprep:", 0)
	ctx := context.Background()

	for _, name := range []string{"churn", "fraud"} {
		if err := repo.Put(ctx, sampleReport(name)); err != nil {
			t.Fatalf("Put(%s): %v", name, err)
		}
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if store.keysCalled != "tabprep:report:*" {
		t.Errorf("Keys pattern = %q, want tabprep:report:*", store.keysCalled)
	}
	if len(got) != 2 {
		t.Fatalf("List = %v, want 2 datasets", got)
	}
	seen := map[string]bool{}
	for _, name := range got {
		seen[name] = true
	}
	if !seen["churn"] || !seen["fraud"] {
		t.Errorf("List = %v, want churn and fraud", got)
	}
}

func keysOf(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
