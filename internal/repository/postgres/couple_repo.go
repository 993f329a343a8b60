package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ourdays/internal/domain"
)

type coupleRepository struct {
	DB DBTX
}

func NewCoupleRepository(db DBTX) domain.CoupleRepository {
	return &coupleRepository{DB: db}
}

const coupleColumns = `id, start_date, status, activated_at, created_at, updated_at, deleted_at`

func (r *coupleRepository) Create(ctx context.Context, c *domain.Couple) error {
	query := `
		INSERT INTO couples (start_date, status, activated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, c.StartDate, c.Status, c.ActivatedAt, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
}

func (r *coupleRepository) GetByID(ctx context.Context, id string) (*domain.Couple, error) {
	return r.get(ctx, `SELECT `+coupleColumns+` FROM couples WHERE id = $1`, id)
}

func (r *coupleRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Couple, error) {
	return r.get(ctx, `SELECT `+coupleColumns+` FROM couples WHERE id = $1 FOR UPDATE`, id)
}

func (r *coupleRepository) get(ctx context.Context, query, id string) (*domain.Couple, error) {
	c := &domain.Couple{}
	var startDate, activatedAt, deletedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &startDate, &c.Status, &activatedAt, &c.CreatedAt, &c.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCoupleNotFound
		}
		return nil, err
	}
	c.StartDate = timePtr(startDate)
	c.ActivatedAt = timePtr(activatedAt)
	c.DeletedAt = timePtr(deletedAt)
	return c, nil
}

func (r *coupleRepository) UpdateState(ctx context.Context, c *domain.Couple) error {
	query := `UPDATE couples SET status = $1, activated_at = $2, updated_at = $3 WHERE id = $4`
	result, err := r.DB.ExecContext(ctx, query, c.Status, c.ActivatedAt, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrCoupleNotFound)
}

func (r *coupleRepository) UpdateStartDate(ctx context.Context, id string, startDate *time.Time, updatedAt time.Time) error {
	query := `UPDATE couples SET start_date = $1, updated_at = $2 WHERE id = $3`
	result, err := r.DB.ExecContext(ctx, query, startDate, updatedAt, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrCoupleNotFound)
}

func (r *coupleRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE couples SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := r.DB.ExecContext(ctx, query, at, id)
	return err
}
