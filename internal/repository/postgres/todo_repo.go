package postgres

import (
	"context"
	"database/sql"
	"time"

	"ourdays/internal/domain"
)

type todoRepository struct {
	DB DBTX
}

func NewTodoRepository(db DBTX) domain.TodoRepository {
	return &todoRepository{DB: db}
}

func (r *todoRepository) ListOpenDueBefore(ctx context.Context, coupleID string, before time.Time, limit int) ([]*domain.Todo, error) {
	query := `
		SELECT t.id, t.couple_id, t.title, t.status, t.due_date, t.assignee_id, u.nickname
		FROM todos t
		LEFT JOIN users u ON u.id = t.assignee_id
		WHERE t.couple_id = $1
			AND t.deleted_at IS NULL
			AND t.status <> $2
			AND (t.due_date IS NULL OR t.due_date <= $3)
		ORDER BY t.due_date ASC NULLS LAST, t.created_at ASC
		LIMIT $4
	`
	rows, err := r.DB.QueryContext(ctx, query, coupleID, domain.TodoStatusDone, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []*domain.Todo{}
	for rows.Next() {
		t := &domain.Todo{}
		var due sql.NullTime
		var assigneeID, assigneeNickname sql.NullString
		if err := rows.Scan(&t.ID, &t.CoupleID, &t.Title, &t.Status, &due, &assigneeID, &assigneeNickname); err != nil {
			return nil, err
		}
		t.DueDate = timePtr(due)
		t.AssigneeID = stringPtr(assigneeID)
		t.AssigneeNickname = stringPtr(assigneeNickname)
		todos = append(todos, t)
	}
	return todos, rows.Err()
}
