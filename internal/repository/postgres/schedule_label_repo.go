package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ourdays/internal/domain"
)

type scheduleLabelRepository struct {
	DB DBTX
}

func NewScheduleLabelRepository(db DBTX) domain.ScheduleLabelRepository {
	return &scheduleLabelRepository{DB: db}
}

const labelColumns = `id, couple_id, name, color, created_at, updated_at`

func scanLabel(row interface{ Scan(...any) error }) (*domain.ScheduleLabel, error) {
	l := &domain.ScheduleLabel{}
	if err := row.Scan(&l.ID, &l.CoupleID, &l.Name, &l.Color, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *scheduleLabelRepository) Create(ctx context.Context, l *domain.ScheduleLabel) error {
	query := `
		INSERT INTO schedule_labels (couple_id, name, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, l.CoupleID, l.Name, l.Color, l.CreatedAt, l.UpdatedAt).Scan(&l.ID)
}

func (r *scheduleLabelRepository) GetByID(ctx context.Context, coupleID, id string) (*domain.ScheduleLabel, error) {
	query := `SELECT ` + labelColumns + ` FROM schedule_labels WHERE id = $1 AND couple_id = $2 AND deleted_at IS NULL`
	l, err := scanLabel(r.DB.QueryRowContext(ctx, query, id, coupleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLabelNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *scheduleLabelRepository) Update(ctx context.Context, l *domain.ScheduleLabel) error {
	query := `UPDATE schedule_labels SET name = $1, color = $2, updated_at = $3 WHERE id = $4 AND deleted_at IS NULL`
	result, err := r.DB.ExecContext(ctx, query, l.Name, l.Color, l.UpdatedAt, l.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrLabelNotFound)
}

// SoftDelete also detaches the label from the events that used it.
func (r *scheduleLabelRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE schedule_labels SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`, at, id)
	if err != nil {
		return err
	}
	if err := affectedOrNotFound(result, domain.ErrLabelNotFound); err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `UPDATE schedule_events SET label_id = NULL, updated_at = $1 WHERE label_id = $2`, at, id)
	return err
}

func (r *scheduleLabelRepository) ListByCoupleID(ctx context.Context, coupleID string) ([]*domain.ScheduleLabel, error) {
	query := `
		SELECT ` + labelColumns + `
		FROM schedule_labels
		WHERE couple_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, coupleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := []*domain.ScheduleLabel{}
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}
