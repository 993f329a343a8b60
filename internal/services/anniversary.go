package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"ourdays/internal/domain"
	"ourdays/internal/projection"
)

const maxAnniversaryTitleLength = 100

type anniversaryService struct {
	repos          domain.Repositories
	tx             domain.Transactor
	notifier       domain.Notifier
	contextTimeout time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

func NewAnniversaryService(
	repos domain.Repositories,
	tx domain.Transactor,
	notifier domain.Notifier,
	timeout time.Duration,
	logger *slog.Logger,
) domain.AnniversaryService {
	return &anniversaryService{
		repos:          repos,
		tx:             tx,
		notifier:       notifier,
		contextTimeout: timeout,
		now:            time.Now,
		logger:         logger,
	}
}

func (s *anniversaryService) List(ctx context.Context, userID string) ([]*domain.Anniversary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	member, err := activeMembership(ctx, s.repos.Members, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.repos.Anniversaries.ListByCoupleID(ctx, member.CoupleID)
	if err != nil {
		return nil, fmt.Errorf("list anniversaries: %w", err)
	}
	if list == nil {
		list = []*domain.Anniversary{}
	}
	return list, nil
}

func (s *anniversaryService) Create(ctx context.Context, userID string, in domain.AnniversaryInput) (*domain.Anniversary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in.Title == nil || in.Date == nil {
		return nil, domain.InvalidInputf("title and date are required")
	}
	a := &domain.Anniversary{Type: domain.AnniversaryTypeRelationship}
	if err := applyAnniversaryInput(a, in, true); err != nil {
		return nil, err
	}

	now := s.now()
	a.CreatedAt, a.UpdatedAt = now, now
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		member, err := activeMembership(ctx, repos.Members, userID)
		if err != nil {
			return err
		}
		a.CoupleID = member.CoupleID
		if err := repos.Anniversaries.Create(ctx, a); err != nil {
			return fmt.Errorf("create anniversary: %w", err)
		}
		if a.Type == domain.AnniversaryTypeRelationship {
			return syncStartDate(ctx, repos, a.CoupleID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyCoupleMembers(ctx, a.CoupleID, userID, domain.Notification{
		Title: "새 기념일",
		Body:  a.Title,
		URL:   "/anniversaries",
		Tag:   "anniversary:" + a.ID,
	})
	return a, nil
}

func (s *anniversaryService) Update(ctx context.Context, userID, id string, in domain.AnniversaryInput) (*domain.Anniversary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	var updated *domain.Anniversary
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		member, err := activeMembership(ctx, repos.Members, userID)
		if err != nil {
			return err
		}
		a, err := repos.Anniversaries.GetByID(ctx, member.CoupleID, id)
		if err != nil {
			return err
		}
		wasRelationship := a.Type == domain.AnniversaryTypeRelationship
		if err := applyAnniversaryInput(a, in, false); err != nil {
			return err
		}
		a.UpdatedAt = now
		if err := repos.Anniversaries.Update(ctx, a); err != nil {
			return fmt.Errorf("update anniversary: %w", err)
		}
		if wasRelationship || a.Type == domain.AnniversaryTypeRelationship {
			if err := syncStartDate(ctx, repos, a.CoupleID, now); err != nil {
				return err
			}
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *anniversaryService) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	return s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		member, err := activeMembership(ctx, repos.Members, userID)
		if err != nil {
			return err
		}
		a, err := repos.Anniversaries.GetByID(ctx, member.CoupleID, id)
		if err != nil {
			return err
		}
		if err := repos.Anniversaries.SoftDelete(ctx, a.ID, now); err != nil {
			return fmt.Errorf("delete anniversary: %w", err)
		}
		if a.Type == domain.AnniversaryTypeRelationship {
			return syncStartDate(ctx, repos, a.CoupleID, now)
		}
		return nil
	})
}

// applyAnniversaryInput validates in and copies the set fields onto a.
// On create an unset IsRecurring defaults to true for birthdays.
func applyAnniversaryInput(a *domain.Anniversary, in domain.AnniversaryInput, creating bool) error {
	if in.Type != nil {
		if !in.Type.Storable() {
			return domain.InvalidInputf("anniversary type must be RELATIONSHIP or BIRTHDAY")
		}
		a.Type = *in.Type
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if n := utf8.RuneCountInString(title); n == 0 || n > maxAnniversaryTitleLength {
			return domain.InvalidInputf("title must be 1 to %d characters", maxAnniversaryTitleLength)
		}
		a.Title = title
	}
	if in.Date != nil {
		d, err := projection.ParseCalendarDate(*in.Date)
		if err != nil {
			return err
		}
		a.Date = d
	}
	switch {
	case in.IsRecurring != nil:
		a.IsRecurring = *in.IsRecurring
	case creating:
		a.IsRecurring = a.Type == domain.AnniversaryTypeBirthday
	}
	if a.Type == domain.AnniversaryTypeRelationship {
		a.IsRecurring = false
	}
	return nil
}

// syncStartDate sets the couple's start date to its earliest relationship anniversary.
func syncStartDate(ctx context.Context, repos domain.Repositories, coupleID string, now time.Time) error {
	earliest, err := repos.Anniversaries.EarliestRelationshipDate(ctx, coupleID)
	if err != nil {
		return fmt.Errorf("find relationship start: %w", err)
	}
	if err := repos.Couples.UpdateStartDate(ctx, coupleID, earliest, now); err != nil {
		return fmt.Errorf("update start date: %w", err)
	}
	return nil
}
