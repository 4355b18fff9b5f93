package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Categories ---

const listCategories = `-- name: ListCategories :many
SELECT id, name, sort_order, created_at, updated_at FROM categories
ORDER BY sort_order, name`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Category{}
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.Name, &i.SortOrder, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (name, sort_order) VALUES ($1, $2)
RETURNING id, name, sort_order, created_at, updated_at`

type CreateCategoryParams struct {
	Name      string `json:"name"`
	SortOrder int32  `json:"sort_order"`
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, createCategory, arg.Name, arg.SortOrder)
	var i Category
	err := row.Scan(&i.ID, &i.Name, &i.SortOrder, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const updateCategory = `-- name: UpdateCategory :one
UPDATE categories SET name = $2, sort_order = $3, updated_at = now()
WHERE id = $1
RETURNING id, name, sort_order, created_at, updated_at`

type UpdateCategoryParams struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int32     `json:"sort_order"`
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, updateCategory, arg.ID, arg.Name, arg.SortOrder)
	var i Category
	err := row.Scan(&i.ID, &i.Name, &i.SortOrder, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const ensureCategory = `-- name: EnsureCategory :one
INSERT INTO categories (name, sort_order) VALUES ($1, 9999)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id, name, sort_order, created_at, updated_at`

// EnsureCategory returns the category named name, creating it when missing.
func (q *Queries) EnsureCategory(ctx context.Context, name string) (Category, error) {
	row := q.db.QueryRow(ctx, ensureCategory, name)
	var i Category
	err := row.Scan(&i.ID, &i.Name, &i.SortOrder, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const reassignCombosCategory = `-- name: ReassignCombosCategory :execrows
UPDATE combos SET category_id = $2, updated_at = now()
WHERE category_id = $1`

type ReassignCombosCategoryParams struct {
	FromCategoryID uuid.UUID `json:"from_category_id"`
	ToCategoryID   uuid.UUID `json:"to_category_id"`
}

func (q *Queries) ReassignCombosCategory(ctx context.Context, arg ReassignCombosCategoryParams) (int64, error) {
	result, err := q.db.Exec(ctx, reassignCombosCategory, arg.FromCategoryID, arg.ToCategoryID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteCategory = `-- name: DeleteCategory :one
DELETE FROM categories WHERE id = $1
RETURNING id`

func (q *Queries) DeleteCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteCategory, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}

// --- Combos ---

const comboColumns = `id, category_id, name, description, price, image_url, is_pizza, pizza_quantity, allow_customization, is_active, created_at, updated_at`

func scanCombo(row interface{ Scan(...any) error }) (Combo, error) {
	var i Combo
	err := row.Scan(
		&i.ID,
		&i.CategoryID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.ImageUrl,
		&i.IsPizza,
		&i.PizzaQuantity,
		&i.AllowCustomization,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveCombos = `-- name: ListActiveCombos :many
SELECT ` + comboColumns + ` FROM combos
WHERE is_active = true
ORDER BY name`

func (q *Queries) ListActiveCombos(ctx context.Context) ([]Combo, error) {
	rows, err := q.db.Query(ctx, listActiveCombos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Combo{}
	for rows.Next() {
		i, err := scanCombo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCombo = `-- name: GetCombo :one
SELECT ` + comboColumns + ` FROM combos
WHERE id = $1`

func (q *Queries) GetCombo(ctx context.Context, id uuid.UUID) (Combo, error) {
	return scanCombo(q.db.QueryRow(ctx, getCombo, id))
}

const createCombo = `-- name: CreateCombo :one
INSERT INTO combos (category_id, name, description, price, image_url, is_pizza, pizza_quantity, allow_customization)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + comboColumns

type CreateComboParams struct {
	CategoryID         uuid.UUID      `json:"category_id"`
	Name               string         `json:"name"`
	Description        pgtype.Text    `json:"description"`
	Price              pgtype.Numeric `json:"price"`
	ImageUrl           pgtype.Text    `json:"image_url"`
	IsPizza            bool           `json:"is_pizza"`
	PizzaQuantity      int32          `json:"pizza_quantity"`
	AllowCustomization bool           `json:"allow_customization"`
}

func (q *Queries) CreateCombo(ctx context.Context, arg CreateComboParams) (Combo, error) {
	row := q.db.QueryRow(ctx, createCombo,
		arg.CategoryID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.ImageUrl,
		arg.IsPizza,
		arg.PizzaQuantity,
		arg.AllowCustomization,
	)
	return scanCombo(row)
}

const updateCombo = `-- name: UpdateCombo :one
UPDATE combos
SET category_id = $2, name = $3, description = $4, price = $5, image_url = $6,
    is_pizza = $7, pizza_quantity = $8, allow_customization = $9, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING ` + comboColumns

type UpdateComboParams struct {
	ID                 uuid.UUID      `json:"id"`
	CategoryID         uuid.UUID      `json:"category_id"`
	Name               string         `json:"name"`
	Description        pgtype.Text    `json:"description"`
	Price              pgtype.Numeric `json:"price"`
	ImageUrl           pgtype.Text    `json:"image_url"`
	IsPizza            bool           `json:"is_pizza"`
	PizzaQuantity      int32          `json:"pizza_quantity"`
	AllowCustomization bool           `json:"allow_customization"`
}

func (q *Queries) UpdateCombo(ctx context.Context, arg UpdateComboParams) (Combo, error) {
	row := q.db.QueryRow(ctx, updateCombo,
		arg.ID,
		arg.CategoryID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.ImageUrl,
		arg.IsPizza,
		arg.PizzaQuantity,
		arg.AllowCustomization,
	)
	return scanCombo(row)
}

const deactivateCombo = `-- name: DeactivateCombo :one
UPDATE combos SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id`

func (q *Queries) DeactivateCombo(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deactivateCombo, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}

// --- Pizza sizes ---

const sizeColumns = `id, combo_id, name, slices, max_flavors, base_price, sort_order, created_at`

func scanPizzaSize(row interface{ Scan(...any) error }) (PizzaSize, error) {
	var i PizzaSize
	err := row.Scan(
		&i.ID,
		&i.ComboID,
		&i.Name,
		&i.Slices,
		&i.MaxFlavors,
		&i.BasePrice,
		&i.SortOrder,
		&i.CreatedAt,
	)
	return i, err
}

const listSizesByCombo = `-- name: ListSizesByCombo :many
SELECT ` + sizeColumns + ` FROM pizza_sizes
WHERE combo_id = $1
ORDER BY sort_order, base_price`

func (q *Queries) ListSizesByCombo(ctx context.Context, comboID uuid.UUID) ([]PizzaSize, error) {
	rows, err := q.db.Query(ctx, listSizesByCombo, comboID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []PizzaSize{}
	for rows.Next() {
		i, err := scanPizzaSize(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPizzaSize = `-- name: GetPizzaSize :one
SELECT ` + sizeColumns + ` FROM pizza_sizes
WHERE id = $1`

func (q *Queries) GetPizzaSize(ctx context.Context, id uuid.UUID) (PizzaSize, error) {
	return scanPizzaSize(q.db.QueryRow(ctx, getPizzaSize, id))
}

const createPizzaSize = `-- name: CreatePizzaSize :one
INSERT INTO pizza_sizes (combo_id, name, slices, max_flavors, base_price, sort_order)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + sizeColumns

type CreatePizzaSizeParams struct {
	ComboID    uuid.UUID      `json:"combo_id"`
	Name       string         `json:"name"`
	Slices     int32          `json:"slices"`
	MaxFlavors int32          `json:"max_flavors"`
	BasePrice  pgtype.Numeric `json:"base_price"`
	SortOrder  int32          `json:"sort_order"`
}

func (q *Queries) CreatePizzaSize(ctx context.Context, arg CreatePizzaSizeParams) (PizzaSize, error) {
	row := q.db.QueryRow(ctx, createPizzaSize,
		arg.ComboID,
		arg.Name,
		arg.Slices,
		arg.MaxFlavors,
		arg.BasePrice,
		arg.SortOrder,
	)
	return scanPizzaSize(row)
}

const deletePizzaSize = `-- name: DeletePizzaSize :one
DELETE FROM pizza_sizes WHERE id = $1 AND combo_id = $2
RETURNING id`

type DeletePizzaSizeParams struct {
	ID      uuid.UUID `json:"id"`
	ComboID uuid.UUID `json:"combo_id"`
}

func (q *Queries) DeletePizzaSize(ctx context.Context, arg DeletePizzaSizeParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deletePizzaSize, arg.ID, arg.ComboID)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}

// --- Pizza flavors ---

const flavorColumns = `id, name, description, type, is_active, created_at, updated_at`

func scanFlavor(row interface{ Scan(...any) error }) (PizzaFlavor, error) {
	var i PizzaFlavor
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Type,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveFlavors = `-- name: ListActiveFlavors :many
SELECT ` + flavorColumns + ` FROM pizza_flavors
WHERE is_active = true
ORDER BY type, name`

func (q *Queries) ListActiveFlavors(ctx context.Context) ([]PizzaFlavor, error) {
	rows, err := q.db.Query(ctx, listActiveFlavors)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []PizzaFlavor{}
	for rows.Next() {
		i, err := scanFlavor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getFlavor = `-- name: GetFlavor :one
SELECT ` + flavorColumns + ` FROM pizza_flavors
WHERE id = $1`

func (q *Queries) GetFlavor(ctx context.Context, id uuid.UUID) (PizzaFlavor, error) {
	return scanFlavor(q.db.QueryRow(ctx, getFlavor, id))
}

const createFlavor = `-- name: CreateFlavor :one
INSERT INTO pizza_flavors (name, description, type) VALUES ($1, $2, $3)
RETURNING ` + flavorColumns

type CreateFlavorParams struct {
	Name        string      `json:"name"`
	Description pgtype.Text `json:"description"`
	Type        string      `json:"type"`
}

func (q *Queries) CreateFlavor(ctx context.Context, arg CreateFlavorParams) (PizzaFlavor, error) {
	return scanFlavor(q.db.QueryRow(ctx, createFlavor, arg.Name, arg.Description, arg.Type))
}

const updateFlavor = `-- name: UpdateFlavor :one
UPDATE pizza_flavors SET name = $2, description = $3, type = $4, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING ` + flavorColumns

type UpdateFlavorParams struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description pgtype.Text `json:"description"`
	Type        string      `json:"type"`
}

func (q *Queries) UpdateFlavor(ctx context.Context, arg UpdateFlavorParams) (PizzaFlavor, error) {
	return scanFlavor(q.db.QueryRow(ctx, updateFlavor, arg.ID, arg.Name, arg.Description, arg.Type))
}

const deactivateFlavor = `-- name: DeactivateFlavor :one
UPDATE pizza_flavors SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id`

func (q *Queries) DeactivateFlavor(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deactivateFlavor, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}

// --- Extra items ---

const extraColumns = `id, name, category, price, size_name, is_active, created_at, updated_at`

func scanExtra(row interface{ Scan(...any) error }) (ExtraItem, error) {
	var i ExtraItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Category,
		&i.Price,
		&i.SizeName,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveExtras = `-- name: ListActiveExtras :many
SELECT ` + extraColumns + ` FROM extra_items
WHERE is_active = true
ORDER BY category, name`

func (q *Queries) ListActiveExtras(ctx context.Context) ([]ExtraItem, error) {
	rows, err := q.db.Query(ctx, listActiveExtras)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ExtraItem{}
	for rows.Next() {
		i, err := scanExtra(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getExtra = `-- name: GetExtra :one
SELECT ` + extraColumns + ` FROM extra_items
WHERE id = $1`

func (q *Queries) GetExtra(ctx context.Context, id uuid.UUID) (ExtraItem, error) {
	return scanExtra(q.db.QueryRow(ctx, getExtra, id))
}

const createExtra = `-- name: CreateExtra :one
INSERT INTO extra_items (name, category, price, size_name) VALUES ($1, $2, $3, $4)
RETURNING ` + extraColumns

type CreateExtraParams struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Price    pgtype.Numeric `json:"price"`
	SizeName pgtype.Text    `json:"size_name"`
}

func (q *Queries) CreateExtra(ctx context.Context, arg CreateExtraParams) (ExtraItem, error) {
	return scanExtra(q.db.QueryRow(ctx, createExtra, arg.Name, arg.Category, arg.Price, arg.SizeName))
}

const updateExtra = `-- name: UpdateExtra :one
UPDATE extra_items SET name = $2, category = $3, price = $4, size_name = $5, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING ` + extraColumns

type UpdateExtraParams struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Price    pgtype.Numeric `json:"price"`
	SizeName pgtype.Text    `json:"size_name"`
}

func (q *Queries) UpdateExtra(ctx context.Context, arg UpdateExtraParams) (ExtraItem, error) {
	return scanExtra(q.db.QueryRow(ctx, updateExtra, arg.ID, arg.Name, arg.Category, arg.Price, arg.SizeName))
}

const deactivateExtra = `-- name: DeactivateExtra :one
UPDATE extra_items SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id`

func (q *Queries) DeactivateExtra(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deactivateExtra, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
