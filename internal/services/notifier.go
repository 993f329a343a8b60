package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ourdays/internal/domain"
)

type notifier struct {
	members      domain.CoupleMemberRepository
	users        domain.UserRepository
	emailService domain.EmailService
	baseURL      string
	timeout      time.Duration
	logger       *slog.Logger
}

// NewNotifier returns a Notifier that e-mails the other members of a couple. Links in
// notifications are resolved against baseURL.
func NewNotifier(
	members domain.CoupleMemberRepository,
	users domain.UserRepository,
	emailService domain.EmailService,
	baseURL string,
	timeout time.Duration,
	logger *slog.Logger,
) domain.Notifier {
	return &notifier{
		members:      members,
		users:        users,
		emailService: emailService,
		baseURL:      strings.TrimRight(baseURL, "/"),
		timeout:      timeout,
		logger:       logger,
	}
}

func (n *notifier) NotifyCoupleMembers(ctx context.Context, coupleID, excludeUserID string, note domain.Notification) {
	// Delivery outlives the request that triggered it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	members, err := n.members.ListActiveByCoupleID(ctx, coupleID)
	if err != nil {
		n.logger.ErrorContext(ctx, "notification recipients lookup failed", "couple_id", coupleID, "err", err)
		return
	}
	var ids []string
	for _, m := range members {
		if m.UserID != excludeUserID {
			ids = append(ids, m.UserID)
		}
	}
	if len(ids) == 0 {
		return
	}
	users, err := n.users.ListByIDs(ctx, ids)
	if err != nil {
		n.logger.ErrorContext(ctx, "notification recipients lookup failed", "couple_id", coupleID, "err", err)
		return
	}

	url := note.URL
	if n.baseURL != "" && strings.HasPrefix(url, "/") {
		url = n.baseURL + url
	}
	for _, u := range users {
		err := n.emailService.SendCoupleNotification(ctx, &domain.CoupleNotificationEmailData{
			Email:    u.Email,
			Nickname: u.Nickname,
			Title:    note.Title,
			Body:     note.Body,
			URL:      url,
		})
		if err != nil {
			n.logger.ErrorContext(ctx, "notification delivery failed", "couple_id", coupleID, "user_id", u.ID, "tag", note.Tag, "err", err)
		}
	}
}
