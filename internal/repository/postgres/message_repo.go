package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ourdays/internal/domain"
)

type messageRepository struct {
	DB DBTX
}

func NewMessageRepository(db DBTX) domain.MessageRepository {
	return &messageRepository{DB: db}
}

// Upsert keeps one current row per author and couple.
func (r *messageRepository) Upsert(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO couple_messages (couple_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (couple_id, author_id)
		DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query, m.CoupleID, m.AuthorID, m.Content, m.UpdatedAt).Scan(&m.ID, &m.CreatedAt)
}

func (r *messageRepository) AppendHistory(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO message_history (couple_id, author_id, content, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, m.CoupleID, m.AuthorID, m.Content, m.UpdatedAt)
	return err
}

const currentMessageSelect = `
	SELECT m.id, m.couple_id, m.author_id, COALESCE(u.nickname, ''), m.content, m.created_at, m.updated_at
	FROM couple_messages m
	JOIN users u ON u.id = m.author_id
`

func (r *messageRepository) getCurrent(ctx context.Context, query string, args ...any) (*domain.Message, error) {
	m := &domain.Message{}
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&m.ID, &m.CoupleID, &m.AuthorID, &m.AuthorNickname, &m.Content, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// GetCurrentByAuthor returns nil without error when the author has not written yet.
func (r *messageRepository) GetCurrentByAuthor(ctx context.Context, coupleID, authorID string) (*domain.Message, error) {
	return r.getCurrent(ctx, currentMessageSelect+`WHERE m.couple_id = $1 AND m.author_id = $2`, coupleID, authorID)
}

// GetCurrentForRecipient returns nil without error when the partner has not written yet.
func (r *messageRepository) GetCurrentForRecipient(ctx context.Context, coupleID, recipientID string) (*domain.Message, error) {
	query := currentMessageSelect + `
	WHERE m.couple_id = $1 AND m.author_id <> $2
	ORDER BY m.updated_at DESC
	LIMIT 1
	`
	return r.getCurrent(ctx, query, coupleID, recipientID)
}

func (r *messageRepository) ListHistory(ctx context.Context, coupleID, userID string, scope domain.MessageScope, p domain.PageRequest) ([]*domain.Message, int, error) {
	op := "<>"
	if scope == domain.MessageScopeSent {
		op = "="
	}
	where := fmt.Sprintf(`WHERE h.couple_id = $1 AND h.author_id %s $2`, op)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM message_history h `+where, coupleID, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT h.id, h.couple_id, h.author_id, COALESCE(u.nickname, ''), h.content, h.created_at
		FROM message_history h
		JOIN users u ON u.id = h.author_id
		` + where + `
		ORDER BY h.created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.QueryContext(ctx, query, coupleID, userID, p.Size, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages := []*domain.Message{}
	for rows.Next() {
		m := &domain.Message{}
		if err := rows.Scan(&m.ID, &m.CoupleID, &m.AuthorID, &m.AuthorNickname, &m.Content, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		m.UpdatedAt = m.CreatedAt
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}
