package stats

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/decoplan/furnidex/internal/db"
)

type fakeStore struct {
	data map[string][]byte
	err  error
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return data, nil
}

func TestLoad_DecodesStats(t *testing.T) {
	doc := `{
		"total_items": 120,
		"furniture_types": {"Sofa": 10, "Bed": 20},
		"materials": {"Wood": 50},
		"feels": {"scandinavian": 30}
	}`
	store := &fakeStore{data: map[string][]byte{"furnidex:catalog:stats": []byte(doc)}}
	repo := New(store, "furnidex:catalog:stats", zap.NewNop())

	stats := repo.Load(context.Background())

	if stats.TotalItems != 120 {
		t.Errorf("TotalItems = %d, want 120", stats.TotalItems)
	}
	if stats.FurnitureTypes["Sofa"] != 10 {
		t.Errorf("FurnitureTypes = %v", stats.FurnitureTypes)
	}
	if stats.Feels["scandinavian"] != 30 {
		t.Errorf("Feels = %v", stats.Feels)
	}
}

func TestLoad_MissingKeyYieldsZeroStats(t *testing.T) {
	repo := New(&fakeStore{}, "absent", zap.NewNop())

	stats := repo.Load(context.Background())
	if stats.TotalItems != 0 || stats.FurnitureTypes != nil {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestLoad_StoreFailureYieldsZeroStats(t *testing.T) {
	repo := New(&fakeStore{err: errors.New("timeout")}, "k", zap.NewNop())

	stats := repo.Load(context.Background())
	if stats.TotalItems != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestLoad_MalformedJSONYieldsZeroStats(t *testing.T) {
	store := &fakeStore{data: map[string][]byte{"k": []byte("{not json")}}
	repo := New(store, "k", zap.NewNop())

	stats := repo.Load(context.Background())
	if stats.TotalItems != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
