package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ourdays/internal/domain"
)

type placeCategoryRepository struct {
	DB DBTX
}

func NewPlaceCategoryRepository(db DBTX) domain.PlaceCategoryRepository {
	return &placeCategoryRepository{DB: db}
}

const placeCategoryColumns = `id, couple_id, name, color, icon, is_system, system_key, created_at, updated_at`

func scanPlaceCategory(row interface{ Scan(...any) error }) (*domain.PlaceCategory, error) {
	pc := &domain.PlaceCategory{}
	var icon, systemKey sql.NullString
	if err := row.Scan(&pc.ID, &pc.CoupleID, &pc.Name, &pc.Color, &icon, &pc.IsSystem, &systemKey, &pc.CreatedAt, &pc.UpdatedAt); err != nil {
		return nil, err
	}
	pc.Icon = stringPtr(icon)
	pc.SystemKey = systemKey.String
	return pc, nil
}

func (r *placeCategoryRepository) Create(ctx context.Context, pc *domain.PlaceCategory) error {
	query := `
		INSERT INTO place_categories (couple_id, name, color, icon, is_system, system_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	systemKey := sql.NullString{String: pc.SystemKey, Valid: pc.SystemKey != ""}
	return r.DB.QueryRowContext(ctx, query,
		pc.CoupleID, pc.Name, pc.Color, pc.Icon, pc.IsSystem, systemKey, pc.CreatedAt, pc.UpdatedAt,
	).Scan(&pc.ID)
}

func (r *placeCategoryRepository) GetByID(ctx context.Context, coupleID, id string) (*domain.PlaceCategory, error) {
	query := `SELECT ` + placeCategoryColumns + ` FROM place_categories WHERE id = $1 AND couple_id = $2 AND deleted_at IS NULL`
	pc, err := scanPlaceCategory(r.DB.QueryRowContext(ctx, query, id, coupleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPlaceCategoryNotFound
		}
		return nil, err
	}
	return pc, nil
}

func (r *placeCategoryRepository) ListByCoupleID(ctx context.Context, coupleID string) ([]*domain.PlaceCategory, error) {
	query := `
		SELECT ` + placeCategoryColumns + `
		FROM place_categories
		WHERE couple_id = $1 AND deleted_at IS NULL
		ORDER BY is_system DESC, name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, coupleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*domain.PlaceCategory{}
	for rows.Next() {
		pc, err := scanPlaceCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, pc)
	}
	return categories, rows.Err()
}

func (r *placeCategoryRepository) Update(ctx context.Context, pc *domain.PlaceCategory) error {
	query := `UPDATE place_categories SET name = $1, color = $2, icon = $3, updated_at = $4 WHERE id = $5 AND deleted_at IS NULL`
	result, err := r.DB.ExecContext(ctx, query, pc.Name, pc.Color, pc.Icon, pc.UpdatedAt, pc.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrPlaceCategoryNotFound)
}

// SoftDelete never touches system rows.
func (r *placeCategoryRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE place_categories SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND is_system = FALSE AND deleted_at IS NULL`
	result, err := r.DB.ExecContext(ctx, query, at, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrPlaceCategoryNotFound)
}

func (r *placeCategoryRepository) SoftDeleteByCoupleID(ctx context.Context, coupleID string, at time.Time) error {
	query := `UPDATE place_categories SET deleted_at = $1 WHERE couple_id = $2 AND deleted_at IS NULL`
	_, err := r.DB.ExecContext(ctx, query, at, coupleID)
	return err
}
