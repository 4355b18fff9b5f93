package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pizzaria-pos/api/internal/database"
)

type mockCategoryStore struct {
	fallback  database.Category
	existing  map[uuid.UUID]int64 // category id -> combo count
	reassigns []database.ReassignCombosCategoryParams
	deleted   []uuid.UUID
}

func (m *mockCategoryStore) EnsureCategory(ctx context.Context, name string) (database.Category, error) {
	if m.fallback.ID == uuid.Nil {
		m.fallback = database.Category{ID: uuid.New(), Name: name}
	}
	return m.fallback, nil
}

func (m *mockCategoryStore) ReassignCombosCategory(ctx context.Context, arg database.ReassignCombosCategoryParams) (int64, error) {
	m.reassigns = append(m.reassigns, arg)
	return m.existing[arg.FromCategoryID], nil
}

func (m *mockCategoryStore) DeleteCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if _, ok := m.existing[id]; !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	m.deleted = append(m.deleted, id)
	return id, nil
}

func newTestCategoryService(store *mockCategoryStore) (*CategoryService, *mockTx) {
	tx := &mockTx{}
	return NewCategoryService(&mockTxBeginner{tx: tx}, func(db database.DBTX) CategoryStore { return store }), tx
}

func TestDeleteCategory_MovesCombosToFallback(t *testing.T) {
	pizzas := uuid.New()
	store := &mockCategoryStore{existing: map[uuid.UUID]int64{pizzas: 4}}
	svc, tx := newTestCategoryService(store)

	moved, err := svc.DeleteCategory(context.Background(), pizzas)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved != 4 {
		t.Errorf("moved: got %d, want 4", moved)
	}
	if store.fallback.Name != FallbackCategoryName {
		t.Errorf("fallback name: got %q", store.fallback.Name)
	}
	if len(store.reassigns) != 1 || store.reassigns[0].ToCategoryID != store.fallback.ID {
		t.Errorf("reassigns: %+v", store.reassigns)
	}
	if len(store.deleted) != 1 || store.deleted[0] != pizzas {
		t.Errorf("deleted: %v", store.deleted)
	}
	if tx.commits != 1 {
		t.Errorf("commits: got %d, want 1", tx.commits)
	}
}

func TestDeleteCategory_NotFound(t *testing.T) {
	store := &mockCategoryStore{existing: map[uuid.UUID]int64{}}
	svc, tx := newTestCategoryService(store)

	_, err := svc.DeleteCategory(context.Background(), uuid.New())
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got: %v", err)
	}
	if tx.commits != 0 {
		t.Error("missing category must roll back")
	}
}

func TestDeleteCategory_FallbackIsLocked(t *testing.T) {
	fallback := database.Category{ID: uuid.New(), Name: FallbackCategoryName}
	store := &mockCategoryStore{fallback: fallback, existing: map[uuid.UUID]int64{fallback.ID: 2}}
	svc, _ := newTestCategoryService(store)

	_, err := svc.DeleteCategory(context.Background(), fallback.ID)
	if !errors.Is(err, ErrFallbackCategoryLocked) {
		t.Fatalf("expected ErrFallbackCategoryLocked, got: %v", err)
	}
	if len(store.reassigns) != 0 || len(store.deleted) != 0 {
		t.Error("fallback deletion must not write")
	}
}
