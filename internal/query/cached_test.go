package query

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrun/internal/cache"
)

// --- Mocks ---

type mockStore struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	getHits int
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte)}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	m.getHits++
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrKeyNotFound
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

type countingEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *countingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	return m.vec, m.err
}

// --- Tests ---

func TestCachedEmbedder_MissThenHit(t *testing.T) {
	store := newMockStore()
	inner := &countingEmbedder{vec: []float32{0.25, -1.5}}
	c := NewCachedEmbedder(inner, store, zap.NewNop())

	ctx := context.Background()
	first, err := c.Embed(ctx, "hello")
	if err != nil {
		t.Fatalf("first Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}

	second, err := c.Embed(ctx, "hello")
	if err != nil {
		t.Fatalf("second Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("cache hit still called inner embedder (%d calls)", inner.calls)
	}

	if len(first) != len(second) {
		t.Fatalf("round-trip length mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("round-trip value mismatch at %d: %f vs %f", i, first[i], second[i])
		}
	}
}

func TestCachedEmbedder_DistinctTextsDistinctKeys(t *testing.T) {
	store := newMockStore()
	inner := &countingEmbedder{vec: []float32{1}}
	c := NewCachedEmbedder(inner, store, zap.NewNop())

	ctx := context.Background()
	if _, err := c.Embed(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Embed(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 inner calls for distinct texts, got %d", inner.calls)
	}
	if len(store.data) != 2 {
		t.Errorf("expected 2 cache entries, got %d", len(store.data))
	}
}

func TestCachedEmbedder_StoreFailureDegrades(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("redis down")
	store.setErr = errors.New("redis down")
	inner := &countingEmbedder{vec: []float32{2}}
	c := NewCachedEmbedder(inner, store, zap.NewNop())

	vec, err := c.Embed(context.Background(), "x")
	if err != nil {
		t.Fatalf("cache failure must not fail the query: %v", err)
	}
	if len(vec) != 1 || vec[0] != 2 {
		t.Errorf("unexpected vector %v", vec)
	}
	if inner.calls != 1 {
		t.Errorf("expected inner call, got %d", inner.calls)
	}
}

func TestCachedEmbedder_InnerErrorPropagates(t *testing.T) {
	wantErr := errors.New("provider down")
	c := NewCachedEmbedder(&countingEmbedder{err: wantErr}, newMockStore(), zap.NewNop())

	if _, err := c.Embed(context.Background(), "x"); !errors.Is(err, wantErr) {
		t.Errorf("expected provider error, got %v", err)
	}
}

func TestVectorByteCodec(t *testing.T) {
	in := []float32{0, -0.5, 123.456, 1e-9}
	out, err := bytesToVector(vectorToBytes(in))
	if err != nil {
		t.Fatalf("bytesToVector: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("value %d = %g, want %g", i, out[i], in[i])
		}
	}
}

func TestVectorByteCodec_BadLength(t *testing.T) {
	if _, err := bytesToVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated data")
	}
}
