package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ourdays/internal/domain"
)

type scheduleEventRepository struct {
	DB DBTX
}

func NewScheduleEventRepository(db DBTX) domain.ScheduleEventRepository {
	return &scheduleEventRepository{DB: db}
}

const eventSelect = `
	SELECT e.id, e.couple_id, e.created_by_id, e.type, e.title, e.note, e.date, e.all_day, e.status,
		e.label_id, e.created_at, e.updated_at,
		l.id, l.name, l.color
	FROM schedule_events e
	LEFT JOIN schedule_labels l ON l.id = e.label_id AND l.deleted_at IS NULL
`

func scanEvent(row interface{ Scan(...any) error }) (*domain.ScheduleEvent, error) {
	e := &domain.ScheduleEvent{}
	var note, labelID, joinedID, joinedName, joinedColor sql.NullString
	err := row.Scan(
		&e.ID, &e.CoupleID, &e.CreatedByID, &e.Type, &e.Title, &note, &e.Date, &e.AllDay, &e.Status,
		&labelID, &e.CreatedAt, &e.UpdatedAt,
		&joinedID, &joinedName, &joinedColor,
	)
	if err != nil {
		return nil, err
	}
	e.Note = stringPtr(note)
	e.LabelID = stringPtr(labelID)
	if joinedID.Valid {
		e.Label = &domain.ScheduleLabel{
			ID:       joinedID.String,
			CoupleID: e.CoupleID,
			Name:     joinedName.String,
			Color:    joinedColor.String,
		}
	}
	return e, nil
}

func (r *scheduleEventRepository) Create(ctx context.Context, e *domain.ScheduleEvent) error {
	query := `
		INSERT INTO schedule_events (couple_id, created_by_id, type, title, note, date, all_day, status, label_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.CoupleID, e.CreatedByID, e.Type, e.Title, e.Note, e.Date, e.AllDay, e.Status, e.LabelID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *scheduleEventRepository) GetByID(ctx context.Context, coupleID, id string) (*domain.ScheduleEvent, error) {
	query := eventSelect + `WHERE e.id = $1 AND e.couple_id = $2 AND e.deleted_at IS NULL`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, coupleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *scheduleEventRepository) Update(ctx context.Context, e *domain.ScheduleEvent) error {
	query := `
		UPDATE schedule_events
		SET type = $1, title = $2, note = $3, date = $4, all_day = $5, status = $6, label_id = $7, updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Type, e.Title, e.Note, e.Date, e.AllDay, e.Status, e.LabelID, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrEventNotFound)
}

func (r *scheduleEventRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE schedule_events SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	result, err := r.DB.ExecContext(ctx, query, at, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrEventNotFound)
}

func (r *scheduleEventRepository) ListInRange(ctx context.Context, coupleID string, from, to time.Time) ([]*domain.ScheduleEvent, error) {
	query := eventSelect + `
	WHERE e.couple_id = $1 AND e.deleted_at IS NULL AND e.date >= $2 AND e.date <= $3
	ORDER BY e.date ASC, e.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, coupleID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*domain.ScheduleEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
