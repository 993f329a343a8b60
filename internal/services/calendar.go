package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"ourdays/internal/domain"
	"ourdays/internal/projection"
)

const (
	maxLabelNameLength  = 32
	maxEventTitleLength = 80
	maxEventNoteLength  = 1000
)

var hexColorRegexp = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type calendarService struct {
	repos          domain.Repositories
	tx             domain.Transactor
	notifier       domain.Notifier
	contextTimeout time.Duration
	now            func() time.Time
}

func NewCalendarService(repos domain.Repositories, tx domain.Transactor, notifier domain.Notifier, timeout time.Duration) domain.CalendarService {
	return &calendarService{
		repos:          repos,
		tx:             tx,
		notifier:       notifier,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *calendarService) coupleOf(ctx context.Context, userID string) (string, error) {
	member, err := activeMembership(ctx, s.repos.Members, userID)
	if err != nil {
		return "", err
	}
	return member.CoupleID, nil
}

func (s *calendarService) ListLabels(ctx context.Context, userID string) ([]*domain.ScheduleLabel, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	coupleID, err := s.coupleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	labels, err := s.repos.Labels.ListByCoupleID(ctx, coupleID)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	return labels, nil
}

func (s *calendarService) CreateLabel(ctx context.Context, userID string, in domain.LabelInput) (*domain.ScheduleLabel, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in.Name == nil || in.Color == nil {
		return nil, domain.InvalidInputf("name and color are required")
	}
	l := &domain.ScheduleLabel{}
	if err := applyLabelInput(l, in); err != nil {
		return nil, err
	}
	coupleID, err := s.coupleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	l.CoupleID, l.CreatedAt, l.UpdatedAt = coupleID, now, now
	if err := s.repos.Labels.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create label: %w", err)
	}
	return l, nil
}

func (s *calendarService) UpdateLabel(ctx context.Context, userID, id string, in domain.LabelInput) (*domain.ScheduleLabel, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	coupleID, err := s.coupleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	l, err := s.repos.Labels.GetByID(ctx, coupleID, id)
	if err != nil {
		return nil, err
	}
	if err := applyLabelInput(l, in); err != nil {
		return nil, err
	}
	l.UpdatedAt = s.now()
	if err := s.repos.Labels.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update label: %w", err)
	}
	return l, nil
}

func (s *calendarService) DeleteLabel(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	coupleID, err := s.coupleOf(ctx, userID)
	if err != nil {
		return err
	}
	now := s.now()
	return s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if _, err := repos.Labels.GetByID(ctx, coupleID, id); err != nil {
			return err
		}
		if err := repos.Labels.SoftDelete(ctx, id, now); err != nil {
			return fmt.Errorf("delete label: %w", err)
		}
		return nil
	})
}

func applyLabelInput(l *domain.ScheduleLabel, in domain.LabelInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if n := utf8.RuneCountInString(name); n == 0 || n > maxLabelNameLength {
			return domain.InvalidInputf("label name must be 1 to %d characters", maxLabelNameLength)
		}
		l.Name = name
	}
	if in.Color != nil {
		if !hexColorRegexp.MatchString(*in.Color) {
			return domain.InvalidInputf("color must look like #RRGGBB")
		}
		l.Color = *in.Color
	}
	return nil
}

func validRange(from, to time.Time) error {
	if from.After(to) {
		return domain.InvalidInputf("from must not be after to")
	}
	return nil
}

func (s *calendarService) ListEvents(ctx context.Context, userID string, from, to time.Time) ([]*domain.ScheduleEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validRange(from, to); err != nil {
		return nil, err
	}
	coupleID, err := s.coupleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.repos.Events.ListInRange(ctx, coupleID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *calendarService) CreateEvent(ctx context.Context, userID string, in domain.ScheduleEventInput) (*domain.ScheduleEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in.Title == nil || in.Date == nil {
		return nil, domain.InvalidInputf("title and date are required")
	}
	coupleID, err := s.coupleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	e := &domain.ScheduleEvent{
		CoupleID:    coupleID,
		CreatedByID: userID,
		Type:        domain.ScheduleEventTypeEvent,
		AllDay:      true,
		Status:      domain.ScheduleEventStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.applyEventInput(ctx, e, in); err != nil {
		return nil, err
	}
	if err := s.repos.Events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.notifier.NotifyCoupleMembers(ctx, coupleID, userID, domain.Notification{
		Title: "새 일정",
		Body:  e.Title,
		URL:   "/schedule",
		Tag:   "schedule:" + e.ID,
	})
	return e, nil
}

func (s *calendarService) UpdateEvent(ctx context.Context, userID, id string, in domain.ScheduleEventInput) (*domain.ScheduleEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	coupleID, err := s.coupleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	e, err := s.repos.Events.GetByID(ctx, coupleID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyEventInput(ctx, e, in); err != nil {
		return nil, err
	}
	e.UpdatedAt = s.now()
	if err := s.repos.Events.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return e, nil
}

func (s *calendarService) DeleteEvent(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	coupleID, err := s.coupleOf(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.repos.Events.GetByID(ctx, coupleID, id); err != nil {
		return err
	}
	return s.repos.Events.SoftDelete(ctx, id, s.now())
}

// applyEventInput validates in and copies the set fields onto e. The date is parsed after the
// all-day flag so a flag change in the same request decides how the date is read.
func (s *calendarService) applyEventInput(ctx context.Context, e *domain.ScheduleEvent, in domain.ScheduleEventInput) error {
	if in.Type != nil {
		if !in.Type.Valid() {
			return domain.InvalidInputf("type must be EVENT or TASK")
		}
		e.Type = *in.Type
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if n := utf8.RuneCountInString(title); n == 0 || n > maxEventTitleLength {
			return domain.InvalidInputf("title must be 1 to %d characters", maxEventTitleLength)
		}
		e.Title = title
	}
	if in.Note != nil {
		note := strings.TrimSpace(*in.Note)
		if utf8.RuneCountInString(note) > maxEventNoteLength {
			return domain.InvalidInputf("note must be at most %d characters", maxEventNoteLength)
		}
		if note == "" {
			e.Note = nil
		} else {
			e.Note = &note
		}
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return domain.InvalidInputf("status must be PENDING or DONE")
		}
		e.Status = *in.Status
	}
	if in.AllDay != nil {
		e.AllDay = *in.AllDay
	}
	if in.Date != nil {
		parse := projection.ParseTimestamp
		if e.AllDay {
			parse = projection.ParseAllDayDate
		}
		d, err := parse(*in.Date)
		if err != nil {
			return err
		}
		e.Date = d
	} else if in.AllDay != nil && e.AllDay {
		e.Date = projection.NoonUTC(e.Date)
	}
	if in.LabelID != nil {
		if *in.LabelID == "" {
			e.LabelID, e.Label = nil, nil
		} else {
			label, err := s.repos.Labels.GetByID(ctx, e.CoupleID, *in.LabelID)
			if err != nil {
				return err
			}
			e.LabelID, e.Label = &label.ID, label
		}
	}
	// Only tasks carry a completion state.
	if e.Type != domain.ScheduleEventTypeTask {
		e.Status = domain.ScheduleEventStatusPending
	}
	return nil
}

func (s *calendarService) GetCalendar(ctx context.Context, userID string, from, to time.Time) (*domain.Calendar, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validRange(from, to); err != nil {
		return nil, err
	}
	coupleID, err := s.coupleOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	labels, err := s.repos.Labels.ListByCoupleID(ctx, coupleID)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	events, err := s.repos.Events.ListInRange(ctx, coupleID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	anniversaries, err := s.repos.Anniversaries.ListByCoupleID(ctx, coupleID)
	if err != nil {
		return nil, fmt.Errorf("list anniversaries: %w", err)
	}

	occurrences := projection.ExpandForRange(anniversaries, from, to)
	entries := make([]domain.CalendarEntry, 0, len(events)+len(occurrences))
	for _, e := range events {
		color := domain.DefaultScheduleColor
		if e.Label != nil {
			color = e.Label.Color
		}
		meta := map[string]any{
			"scheduleType": e.Type,
			"status":       e.Status,
			"allDay":       e.AllDay,
		}
		if e.LabelID != nil {
			meta["labelId"] = *e.LabelID
		}
		entries = append(entries, domain.CalendarEntry{
			Type:  domain.CalendarEntrySchedule,
			ID:    e.ID,
			Date:  e.Date,
			Title: e.Title,
			Color: color,
			Meta:  meta,
		})
	}
	for _, o := range occurrences {
		entries = append(entries, domain.CalendarEntry{
			Type:  domain.CalendarEntryAnniversary,
			ID:    o.Anniversary.ID,
			Date:  o.Date,
			Title: o.Anniversary.Title,
			Color: domain.AnniversaryCalendarColor,
			Meta: map[string]any{
				"anniversaryType": o.Anniversary.Type,
				"recurring":       o.Anniversary.IsRecurring,
			},
		})
	}

	if labels == nil {
		labels = []*domain.ScheduleLabel{}
	}
	return &domain.Calendar{Labels: labels, Entries: entries}, nil
}
