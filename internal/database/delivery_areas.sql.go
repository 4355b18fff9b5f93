package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const deliveryAreaColumns = `id, neighborhood, fee, is_active, created_at, updated_at`

func scanDeliveryArea(row interface{ Scan(...any) error }) (DeliveryArea, error) {
	var i DeliveryArea
	err := row.Scan(
		&i.ID,
		&i.Neighborhood,
		&i.Fee,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveDeliveryAreas = `-- name: ListActiveDeliveryAreas :many
SELECT ` + deliveryAreaColumns + ` FROM delivery_areas
WHERE is_active = true
ORDER BY neighborhood`

func (q *Queries) ListActiveDeliveryAreas(ctx context.Context) ([]DeliveryArea, error) {
	rows, err := q.db.Query(ctx, listActiveDeliveryAreas)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []DeliveryArea{}
	for rows.Next() {
		i, err := scanDeliveryArea(rows)
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

const getDeliveryArea = `-- name: GetDeliveryArea :one
SELECT ` + deliveryAreaColumns + ` FROM delivery_areas
WHERE id = $1`

func (q *Queries) GetDeliveryArea(ctx context.Context, id uuid.UUID) (DeliveryArea, error) {
	return scanDeliveryArea(q.db.QueryRow(ctx, getDeliveryArea, id))
}

const createDeliveryArea = `-- name: CreateDeliveryArea :one
INSERT INTO delivery_areas (neighborhood, fee) VALUES ($1, $2)
RETURNING ` + deliveryAreaColumns

type CreateDeliveryAreaParams struct {
	Neighborhood string         `json:"neighborhood"`
	Fee          pgtype.Numeric `json:"fee"`
}

func (q *Queries) CreateDeliveryArea(ctx context.Context, arg CreateDeliveryAreaParams) (DeliveryArea, error) {
	return scanDeliveryArea(q.db.QueryRow(ctx, createDeliveryArea, arg.Neighborhood, arg.Fee))
}

const updateDeliveryArea = `-- name: UpdateDeliveryArea :one
UPDATE delivery_areas SET neighborhood = $2, fee = $3, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING ` + deliveryAreaColumns

type UpdateDeliveryAreaParams struct {
	ID           uuid.UUID      `json:"id"`
	Neighborhood string         `json:"neighborhood"`
	Fee          pgtype.Numeric `json:"fee"`
}

func (q *Queries) UpdateDeliveryArea(ctx context.Context, arg UpdateDeliveryAreaParams) (DeliveryArea, error) {
	return scanDeliveryArea(q.db.QueryRow(ctx, updateDeliveryArea, arg.ID, arg.Neighborhood, arg.Fee))
}

const deactivateDeliveryArea = `-- name: DeactivateDeliveryArea :one
UPDATE delivery_areas SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id`

func (q *Queries) DeactivateDeliveryArea(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deactivateDeliveryArea, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
