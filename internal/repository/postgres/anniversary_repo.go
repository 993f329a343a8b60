package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ourdays/internal/domain"
)

type anniversaryRepository struct {
	DB DBTX
}

func NewAnniversaryRepository(db DBTX) domain.AnniversaryRepository {
	return &anniversaryRepository{DB: db}
}

const anniversaryColumns = `id, couple_id, title, date, is_recurring, type, created_at, updated_at`

func scanAnniversary(row interface{ Scan(...any) error }) (*domain.Anniversary, error) {
	a := &domain.Anniversary{}
	if err := row.Scan(&a.ID, &a.CoupleID, &a.Title, &a.Date, &a.IsRecurring, &a.Type, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *anniversaryRepository) Create(ctx context.Context, a *domain.Anniversary) error {
	query := `
		INSERT INTO anniversaries (couple_id, title, date, is_recurring, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		a.CoupleID, a.Title, a.Date, a.IsRecurring, a.Type, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
}

func (r *anniversaryRepository) GetByID(ctx context.Context, coupleID, id string) (*domain.Anniversary, error) {
	query := `SELECT ` + anniversaryColumns + ` FROM anniversaries WHERE id = $1 AND couple_id = $2 AND deleted_at IS NULL`
	a, err := scanAnniversary(r.DB.QueryRowContext(ctx, query, id, coupleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAnniversaryNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *anniversaryRepository) Update(ctx context.Context, a *domain.Anniversary) error {
	query := `
		UPDATE anniversaries
		SET title = $1, date = $2, is_recurring = $3, type = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`
	result, err := r.DB.ExecContext(ctx, query, a.Title, a.Date, a.IsRecurring, a.Type, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrAnniversaryNotFound)
}

func (r *anniversaryRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE anniversaries SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	result, err := r.DB.ExecContext(ctx, query, at, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrAnniversaryNotFound)
}

func (r *anniversaryRepository) ListByCoupleID(ctx context.Context, coupleID string) ([]*domain.Anniversary, error) {
	query := `
		SELECT ` + anniversaryColumns + `
		FROM anniversaries
		WHERE couple_id = $1 AND deleted_at IS NULL
		ORDER BY date ASC, created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, coupleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Anniversary
	for rows.Next() {
		a, err := scanAnniversary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// EarliestRelationshipDate returns nil when the couple has no relationship anniversary.
func (r *anniversaryRepository) EarliestRelationshipDate(ctx context.Context, coupleID string) (*time.Time, error) {
	query := `
		SELECT MIN(date)
		FROM anniversaries
		WHERE couple_id = $1 AND type = 'RELATIONSHIP' AND deleted_at IS NULL
	`
	var earliest sql.NullTime
	if err := r.DB.QueryRowContext(ctx, query, coupleID).Scan(&earliest); err != nil {
		return nil, err
	}
	return timePtr(earliest), nil
}
