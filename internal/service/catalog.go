package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pizzaria-pos/api/internal/database"
)

// FallbackCategoryName receives the combos of deleted categories.
const FallbackCategoryName = "Sem categoria"

var (
	ErrCategoryNotFound       = errors.New("category not found")
	ErrFallbackCategoryLocked = errors.New("the fallback category cannot be deleted")
)

// CategoryStore defines the DB methods needed to delete categories.
// Satisfied by *database.Queries.
type CategoryStore interface {
	EnsureCategory(ctx context.Context, name string) (database.Category, error)
	ReassignCombosCategory(ctx context.Context, arg database.ReassignCombosCategoryParams) (int64, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// NewCategoryStore creates a CategoryStore from a DBTX (pool or tx).
type NewCategoryStore func(db database.DBTX) CategoryStore

// CategoryService handles category deletion, which moves the category's
// combos to the fallback category first.
type CategoryService struct {
	pool     TxBeginner
	newStore NewCategoryStore
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(pool TxBeginner, newStore NewCategoryStore) *CategoryService {
	return &CategoryService{pool: pool, newStore: newStore}
}

// DeleteCategory reassigns the category's combos to the fallback category and
// deletes it. It returns the number of combos moved.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	fallback, err := store.EnsureCategory(ctx, FallbackCategoryName)
	if err != nil {
		return 0, fmt.Errorf("ensure fallback category: %w", err)
	}
	if fallback.ID == id {
		return 0, ErrFallbackCategoryLocked
	}

	moved, err := store.ReassignCombosCategory(ctx, database.ReassignCombosCategoryParams{
		FromCategoryID: id,
		ToCategoryID:   fallback.ID,
	})
	if err != nil {
		return 0, fmt.Errorf("reassign combos: %w", err)
	}

	if _, err := store.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrCategoryNotFound
		}
		return 0, fmt.Errorf("delete category: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return moved, nil
}
