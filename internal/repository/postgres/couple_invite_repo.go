package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ourdays/internal/domain"
)

type coupleInviteRepository struct {
	DB DBTX
}

func NewCoupleInviteRepository(db DBTX) domain.CoupleInviteRepository {
	return &coupleInviteRepository{DB: db}
}

const inviteColumns = `id, code, couple_id, created_by_id, status, uses, max_uses, expires_at, consumed_at, revoked_at, created_at`

func (r *coupleInviteRepository) Create(ctx context.Context, inv *domain.CoupleInvite) error {
	query := `
		INSERT INTO couple_invites (code, couple_id, created_by_id, status, uses, max_uses, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		inv.Code, inv.CoupleID, inv.CreatedByID, inv.Status, inv.Uses, inv.MaxUses, inv.ExpiresAt, inv.CreatedAt,
	).Scan(&inv.ID)
	return mapWriteErr(err)
}

func (r *coupleInviteRepository) get(ctx context.Context, query, arg string) (*domain.CoupleInvite, error) {
	inv := &domain.CoupleInvite{}
	var expiresAt, consumedAt, revokedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&inv.ID, &inv.Code, &inv.CoupleID, &inv.CreatedByID, &inv.Status, &inv.Uses, &inv.MaxUses,
		&expiresAt, &consumedAt, &revokedAt, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}
	inv.ExpiresAt = timePtr(expiresAt)
	inv.ConsumedAt = timePtr(consumedAt)
	inv.RevokedAt = timePtr(revokedAt)
	return inv, nil
}

func (r *coupleInviteRepository) GetByCodeForUpdate(ctx context.Context, code string) (*domain.CoupleInvite, error) {
	return r.get(ctx, `SELECT `+inviteColumns+` FROM couple_invites WHERE code = $1 FOR UPDATE`, code)
}

func (r *coupleInviteRepository) GetActiveByCoupleID(ctx context.Context, coupleID string) (*domain.CoupleInvite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM couple_invites
		WHERE couple_id = $1 AND status = 'ACTIVE'
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.get(ctx, query, coupleID)
}

func (r *coupleInviteRepository) UpdateUsage(ctx context.Context, inv *domain.CoupleInvite) error {
	query := `UPDATE couple_invites SET uses = $1, status = $2, consumed_at = $3 WHERE id = $4`
	result, err := r.DB.ExecContext(ctx, query, inv.Uses, inv.Status, inv.ConsumedAt, inv.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrInviteNotFound)
}

func (r *coupleInviteRepository) RevokeActiveByCoupleID(ctx context.Context, coupleID string, at time.Time) error {
	query := `UPDATE couple_invites SET status = 'REVOKED', revoked_at = $1 WHERE couple_id = $2 AND status = 'ACTIVE'`
	_, err := r.DB.ExecContext(ctx, query, at, coupleID)
	return err
}
