package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"ourdays/internal/domain"
	"ourdays/internal/projection"
)

type dashboardService struct {
	repos          domain.Repositories
	location       *time.Location
	contextTimeout time.Duration
	now            func() time.Time
}

// NewDashboardService returns a DashboardService that computes day counts in loc.
// A nil loc means UTC.
func NewDashboardService(repos domain.Repositories, loc *time.Location, timeout time.Duration) domain.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{
		repos:          repos,
		location:       loc,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	member, err := activeMembership(ctx, s.repos.Members, userID)
	if err != nil {
		return nil, err
	}
	coupleID := member.CoupleID
	now := s.now()
	ref := projection.NormalizeDate(now.In(s.location))

	var (
		anniversaries []*domain.Anniversary
		received      *domain.Message
		mine          *domain.Message
		todos         []*domain.Todo
		diaries       []*domain.Diary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if anniversaries, err = s.repos.Anniversaries.ListByCoupleID(gctx, coupleID); err != nil {
			return fmt.Errorf("list anniversaries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if received, err = s.repos.Messages.GetCurrentForRecipient(gctx, coupleID, userID); err != nil {
			return fmt.Errorf("get received message: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if mine, err = s.repos.Messages.GetCurrentByAuthor(gctx, coupleID, userID); err != nil {
			return fmt.Errorf("get own message: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if todos, err = s.repos.Todos.ListOpenDueBefore(gctx, coupleID, now.Add(domain.DashboardTodoWindow), domain.DashboardTodoLimit); err != nil {
			return fmt.Errorf("list todos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if diaries, err = s.repos.Diaries.ListRecent(gctx, coupleID, userID, now, domain.DashboardDiaryLimit); err != nil {
			return fmt.Errorf("list diaries: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if todos == nil {
		todos = []*domain.Todo{}
	}
	if diaries == nil {
		diaries = []*domain.Diary{}
	}
	return &domain.Dashboard{
		DDay:          buildDDay(anniversaries, ref),
		Messages:      domain.MessageSummary{Received: received, Mine: mine},
		Todos:         todos,
		RecentDiaries: diaries,
	}, nil
}

// buildDDay derives the day count from the earliest relationship anniversary and picks the
// next special event among birthdays, 100-day milestones and yearly anniversaries.
func buildDDay(anniversaries []*domain.Anniversary, ref time.Time) domain.DDaySummary {
	var start *time.Time
	var birthdays []*domain.Anniversary
	for _, a := range anniversaries {
		switch a.Type {
		case domain.AnniversaryTypeRelationship:
			if start == nil || a.Date.Before(*start) {
				d := a.Date
				start = &d
			}
		case domain.AnniversaryTypeBirthday:
			birthdays = append(birthdays, a)
		}
	}

	upcoming := projection.BuildUpcoming(birthdays, ref)
	if len(upcoming) > domain.DashboardUpcomingLimit {
		upcoming = upcoming[:domain.DashboardUpcomingLimit]
	}

	summary := domain.DDaySummary{StartDate: start, UpcomingAnniversaries: upcoming}
	if start == nil {
		summary.NextSpecialEvent = projection.MergeNextSpecial(projection.SpecialEvents(upcoming))
		return summary
	}
	summary.DaysCount = projection.RelationshipDayCount(*start, ref)
	summary.NextSpecialEvent = projection.MergeNextSpecial(
		projection.SpecialEvents(upcoming),
		projection.BuildMilestones(*start, ref),
		projection.BuildYearlyAnniversaries(*start, ref),
	)
	return summary
}
