package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"ourdays/internal/domain"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run inside or
// outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewRepositories returns every repository bound to db.
func NewRepositories(db DBTX) domain.Repositories {
	return domain.Repositories{
		Users:           NewUserRepository(db),
		Couples:         NewCoupleRepository(db),
		Members:         NewCoupleMemberRepository(db),
		Invites:         NewCoupleInviteRepository(db),
		PlaceCategories: NewPlaceCategoryRepository(db),
		Anniversaries:   NewAnniversaryRepository(db),
		Labels:          NewScheduleLabelRepository(db),
		Events:          NewScheduleEventRepository(db),
		Messages:        NewMessageRepository(db),
		Todos:           NewTodoRepository(db),
		Diaries:         NewDiaryRepository(db),
	}
}

const uniqueViolation = "23505"

// mapWriteErr translates unique violations to domain.ErrConflict.
func mapWriteErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrConflict
	}
	return err
}

// affectedOrNotFound returns notFound when the statement touched no row.
func affectedOrNotFound(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
