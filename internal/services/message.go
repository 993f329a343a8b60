package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ourdays/internal/domain"
)

type messageService struct {
	repos          domain.Repositories
	tx             domain.Transactor
	notifier       domain.Notifier
	contextTimeout time.Duration
	now            func() time.Time
}

func NewMessageService(repos domain.Repositories, tx domain.Transactor, notifier domain.Notifier, timeout time.Duration) domain.MessageService {
	return &messageService{
		repos:          repos,
		tx:             tx,
		notifier:       notifier,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// UpdateMyMessage replaces the caller's current message and records it in the history.
func (s *messageService) UpdateMyMessage(ctx context.Context, userID, content string) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	content = strings.TrimSpace(content)
	if n := utf8.RuneCountInString(content); n == 0 || n > domain.MaxMessageLength {
		return nil, domain.InvalidInputf("message must be 1 to %d characters", domain.MaxMessageLength)
	}

	m := &domain.Message{AuthorID: userID, Content: content, UpdatedAt: s.now()}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		member, err := activeMembership(ctx, repos.Members, userID)
		if err != nil {
			return err
		}
		m.CoupleID = member.CoupleID
		if err := repos.Messages.Upsert(ctx, m); err != nil {
			return fmt.Errorf("save message: %w", err)
		}
		if err := repos.Messages.AppendHistory(ctx, m); err != nil {
			return fmt.Errorf("append message history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyCoupleMembers(ctx, m.CoupleID, userID, domain.Notification{
		Title: "새 메시지",
		Body:  m.Content,
		URL:   "/",
		Tag:   "message:" + m.CoupleID,
	})
	return m, nil
}

func (s *messageService) History(ctx context.Context, userID string, scope domain.MessageScope, p domain.PageRequest) ([]*domain.Message, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	switch scope {
	case "":
		scope = domain.MessageScopeReceived
	case domain.MessageScopeReceived, domain.MessageScopeSent:
	default:
		return nil, 0, domain.InvalidInputf("scope must be received or sent")
	}

	member, err := activeMembership(ctx, s.repos.Members, userID)
	if err != nil {
		return nil, 0, err
	}
	messages, total, err := s.repos.Messages.ListHistory(ctx, member.CoupleID, userID, scope, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list message history: %w", err)
	}
	return messages, total, nil
}
