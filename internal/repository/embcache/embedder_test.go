package embcache

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/decoplan/furnidex/internal/db"
	"github.com/decoplan/furnidex/internal/domain"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	f.calls++
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{Embedding: f.vector, PromptTokens: 3, TotalTokens: 3}, nil
}

type memStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return data, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &fakeEmbedder{vector: []float32{0.25, -1.5, 3}}
	cache := New(inner, newMemStore(), nil, zap.NewNop())

	ctx := context.Background()

	first, err := cache.Embed(ctx, "grey sofa")
	if err != nil {
		t.Fatalf("first Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}

	second, err := cache.Embed(ctx, "grey sofa")
	if err != nil {
		t.Fatalf("second Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1 (hit must skip the provider)", inner.calls)
	}
	if !reflect.DeepEqual(first.Embedding, second.Embedding) {
		t.Errorf("cached vector mismatch: %v vs %v", first.Embedding, second.Embedding)
	}
	if second.TotalTokens != 0 {
		t.Errorf("cache hit must report zero token usage, got %d", second.TotalTokens)
	}
}

func TestEmbed_DistinctTextsDistinctKeys(t *testing.T) {
	inner := &fakeEmbedder{vector: []float32{1}}
	cache := New(inner, newMemStore(), nil, zap.NewNop())

	ctx := context.Background()
	if _, err := cache.Embed(ctx, "sofa"); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Embed(ctx, "bed"); err != nil {
		t.Fatal(err)
	}

	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
}

func TestEmbed_InnerErrorPropagates(t *testing.T) {
	innerErr := errors.New("quota exceeded")
	cache := New(&fakeEmbedder{err: innerErr}, newMemStore(), nil, zap.NewNop())

	_, err := cache.Embed(context.Background(), "sofa")
	if !errors.Is(err, innerErr) {
		t.Fatalf("expected inner error, got %v", err)
	}
}

func TestEmbed_StoreFailuresAreNonFatal(t *testing.T) {
	inner := &fakeEmbedder{vector: []float32{1, 2}}
	store := newMemStore()
	store.getErr = errors.New("read failed")
	store.setErr = errors.New("write failed")
	cache := New(inner, store, nil, zap.NewNop())

	res, err := cache.Embed(context.Background(), "sofa")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(res.Embedding) != 2 {
		t.Errorf("expected provider vector despite store failures, got %v", res.Embedding)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0, 1, -2.5, 3.25}

	decoded, err := decodeVector(encodeVector(vec))
	if err != nil {
		t.Fatalf("decodeVector: %v", err)
	}
	if !reflect.DeepEqual(decoded, vec) {
		t.Errorf("round trip = %v, want %v", decoded, vec)
	}
}

func TestDecodeVector_RejectsTruncated(t *testing.T) {
	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated payload")
	}
}
