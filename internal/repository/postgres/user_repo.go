package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"ourdays/internal/domain"
)

type userRepository struct {
	DB DBTX
}

func NewUserRepository(db DBTX) domain.UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, email, nickname, theme_color, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var nickname sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &nickname, &u.ThemeColor, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Nickname = nickname.String
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1) ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateNickname(ctx context.Context, id, nickname string, updatedAt time.Time) error {
	query := `UPDATE users SET nickname = $1, updated_at = $2 WHERE id = $3`
	result, err := r.DB.ExecContext(ctx, query, nickname, updatedAt, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrUserNotFound)
}

func (r *userRepository) UpdateThemeColor(ctx context.Context, id, themeColor string, updatedAt time.Time) error {
	query := `UPDATE users SET theme_color = $1, updated_at = $2 WHERE id = $3`
	result, err := r.DB.ExecContext(ctx, query, themeColor, updatedAt, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrUserNotFound)
}
