package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ourdays/internal/domain"
)

type coupleMemberRepository struct {
	DB DBTX
}

func NewCoupleMemberRepository(db DBTX) domain.CoupleMemberRepository {
	return &coupleMemberRepository{DB: db}
}

const memberColumns = `id, couple_id, user_id, role, created_at, updated_at, deleted_at`

func scanMember(row interface{ Scan(...any) error }) (*domain.CoupleMember, error) {
	m := &domain.CoupleMember{}
	var deletedAt sql.NullTime
	if err := row.Scan(&m.ID, &m.CoupleID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	m.DeletedAt = timePtr(deletedAt)
	return m, nil
}

func (r *coupleMemberRepository) getOne(ctx context.Context, query string, args ...any) (*domain.CoupleMember, error) {
	m, err := scanMember(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotInCouple
		}
		return nil, err
	}
	return m, nil
}

func (r *coupleMemberRepository) Create(ctx context.Context, m *domain.CoupleMember) error {
	query := `
		INSERT INTO couple_members (couple_id, user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, m.CoupleID, m.UserID, m.Role, m.CreatedAt, m.UpdatedAt).Scan(&m.ID)
	if mapped := mapWriteErr(err); errors.Is(mapped, domain.ErrConflict) {
		return domain.ErrAlreadyPaired
	}
	return err
}

func (r *coupleMemberRepository) GetActiveByUserID(ctx context.Context, userID string) (*domain.CoupleMember, error) {
	query := `SELECT ` + memberColumns + ` FROM couple_members WHERE user_id = $1 AND deleted_at IS NULL`
	return r.getOne(ctx, query, userID)
}

func (r *coupleMemberRepository) GetLatestByUserID(ctx context.Context, userID string) (*domain.CoupleMember, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM couple_members
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`
	return r.getOne(ctx, query, userID)
}

func (r *coupleMemberRepository) GetByCoupleAndUser(ctx context.Context, coupleID, userID string) (*domain.CoupleMember, error) {
	query := `SELECT ` + memberColumns + ` FROM couple_members WHERE couple_id = $1 AND user_id = $2`
	return r.getOne(ctx, query, coupleID, userID)
}

func (r *coupleMemberRepository) ListActiveByCoupleID(ctx context.Context, coupleID string) ([]*domain.CoupleMember, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM couple_members
		WHERE couple_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, coupleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]*domain.CoupleMember, 0, domain.DefaultMaxMembers)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *coupleMemberRepository) CountActive(ctx context.Context, coupleID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM couple_members WHERE couple_id = $1 AND deleted_at IS NULL`
	if err := r.DB.QueryRowContext(ctx, query, coupleID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *coupleMemberRepository) Reactivate(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE couple_members SET deleted_at = NULL, updated_at = $1 WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, at, id)
	if err != nil {
		if errors.Is(mapWriteErr(err), domain.ErrConflict) {
			return domain.ErrAlreadyPaired
		}
		return err
	}
	return affectedOrNotFound(result, domain.ErrNotInCouple)
}

func (r *coupleMemberRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE couple_members SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	result, err := r.DB.ExecContext(ctx, query, at, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrNotInCouple)
}

func (r *coupleMemberRepository) SoftDeleteByCoupleID(ctx context.Context, coupleID string, at time.Time) error {
	query := `UPDATE couple_members SET deleted_at = $1, updated_at = $1 WHERE couple_id = $2 AND deleted_at IS NULL`
	_, err := r.DB.ExecContext(ctx, query, at, coupleID)
	return err
}
