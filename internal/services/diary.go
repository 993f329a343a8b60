package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"ourdays/internal/domain"
	"ourdays/internal/projection"
)

const (
	maxDiaryTitleLength   = 120
	maxDiaryContentLength = 10000
	maxDiaryTagLength     = 40
)

type diaryService struct {
	repos          domain.Repositories
	tx             domain.Transactor
	notifier       domain.Notifier
	contextTimeout time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

func NewDiaryService(
	repos domain.Repositories,
	tx domain.Transactor,
	notifier domain.Notifier,
	timeout time.Duration,
	logger *slog.Logger,
) domain.DiaryService {
	return &diaryService{
		repos:          repos,
		tx:             tx,
		notifier:       notifier,
		contextTimeout: timeout,
		now:            time.Now,
		logger:         logger,
	}
}

func (s *diaryService) List(ctx context.Context, userID string, p domain.PageRequest) ([]*domain.Diary, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	member, err := activeMembership(ctx, s.repos.Members, userID)
	if err != nil {
		return nil, 0, err
	}
	diaries, total, err := s.repos.Diaries.ListVisible(ctx, member.CoupleID, userID, s.now(), p)
	if err != nil {
		return nil, 0, fmt.Errorf("list diaries: %w", err)
	}
	if diaries == nil {
		diaries = []*domain.Diary{}
	}
	return diaries, total, nil
}

func (s *diaryService) Get(ctx context.Context, userID, id string) (*domain.Diary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	member, err := activeMembership(ctx, s.repos.Members, userID)
	if err != nil {
		return nil, err
	}
	d, err := s.repos.Diaries.GetByID(ctx, member.CoupleID, id)
	if err != nil {
		return nil, err
	}
	if !d.VisibleTo(userID, s.now()) {
		return nil, domain.ErrDiaryHidden
	}
	return d, nil
}

func (s *diaryService) Create(ctx context.Context, userID string, in domain.DiaryInput) (*domain.Diary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in.Title == nil || in.Content == nil || in.RecordDate == nil {
		return nil, domain.InvalidInputf("title, content and record_date are required")
	}
	d := &domain.Diary{Visibility: domain.DiaryVisibilityBoth}
	if err := applyDiaryInput(d, in); err != nil {
		return nil, err
	}
	images, err := validateDiaryImages(in.Images)
	if err != nil {
		return nil, err
	}

	now := s.now()
	d.AuthorID, d.CreatedAt, d.UpdatedAt = userID, now, now
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		member, err := activeMembership(ctx, repos.Members, userID)
		if err != nil {
			return err
		}
		d.CoupleID = member.CoupleID
		if err := repos.Diaries.Create(ctx, d); err != nil {
			return fmt.Errorf("create diary: %w", err)
		}
		if len(images) == 0 {
			return nil
		}
		return s.storeImages(ctx, repos, d, images)
	})
	if err != nil {
		return nil, err
	}

	s.notifyPartner(ctx, d, "새 다이어리", now)
	return d, nil
}

func (s *diaryService) Update(ctx context.Context, userID, id string, in domain.DiaryInput) (*domain.Diary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var images []string
	if in.Images != nil {
		var err error
		if images, err = validateDiaryImages(in.Images); err != nil {
			return nil, err
		}
	}

	now := s.now()
	var updated *domain.Diary
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		d, err := s.authoredDiary(ctx, repos, userID, id)
		if err != nil {
			return err
		}
		if err := applyDiaryInput(d, in); err != nil {
			return err
		}
		d.UpdatedAt = now
		if err := repos.Diaries.Update(ctx, d); err != nil {
			return fmt.Errorf("update diary: %w", err)
		}
		if in.Images != nil {
			if err := s.storeImages(ctx, repos, d, images); err != nil {
				return err
			}
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyPartner(ctx, updated, "다이어리 수정", now)
	return updated, nil
}

func (s *diaryService) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	return s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		d, err := s.authoredDiary(ctx, repos, userID, id)
		if err != nil {
			return err
		}
		if err := repos.Diaries.SoftDelete(ctx, d.ID, now); err != nil {
			return fmt.Errorf("delete diary: %w", err)
		}
		return nil
	})
}

// authoredDiary loads a diary of the caller's couple and rejects anyone but its author.
func (s *diaryService) authoredDiary(ctx context.Context, repos domain.Repositories, userID, id string) (*domain.Diary, error) {
	member, err := activeMembership(ctx, repos.Members, userID)
	if err != nil {
		return nil, err
	}
	d, err := repos.Diaries.GetByID(ctx, member.CoupleID, id)
	if err != nil {
		return nil, err
	}
	if d.AuthorID != userID {
		return nil, domain.ErrNotDiaryAuthor
	}
	return d, nil
}

func (s *diaryService) storeImages(ctx context.Context, repos domain.Repositories, d *domain.Diary, urls []string) error {
	images, err := repos.Diaries.ReplaceImages(ctx, d.ID, urls)
	if err != nil {
		return fmt.Errorf("store diary images: %w", err)
	}
	d.Images = images
	d.CoverImageURL = nil
	if len(images) > 0 {
		cover := images[0].URL
		d.CoverImageURL = &cover
	}
	return nil
}

// notifyPartner stays quiet while the entry is private or still scheduled.
func (s *diaryService) notifyPartner(ctx context.Context, d *domain.Diary, title string, now time.Time) {
	if d.Visibility != domain.DiaryVisibilityBoth || (d.ScheduledAt != nil && now.Before(*d.ScheduledAt)) {
		s.logger.DebugContext(ctx, "diary notification held back", "diary_id", d.ID, "visibility", d.Visibility)
		return
	}
	s.notifier.NotifyCoupleMembers(ctx, d.CoupleID, d.AuthorID, domain.Notification{
		Title: title,
		Body:  d.Title,
		URL:   "/diary/" + d.ID,
		Tag:   "diary:" + d.ID,
	})
}

func applyDiaryInput(d *domain.Diary, in domain.DiaryInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if n := utf8.RuneCountInString(title); n == 0 || n > maxDiaryTitleLength {
			return domain.InvalidInputf("title must be 1 to %d characters", maxDiaryTitleLength)
		}
		d.Title = title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return domain.InvalidInputf("content must not be blank")
		}
		if utf8.RuneCountInString(*in.Content) > maxDiaryContentLength {
			return domain.InvalidInputf("content must be at most %d characters", maxDiaryContentLength)
		}
		d.Content = *in.Content
	}
	var err error
	if d.Mood, err = optionalTag("mood", in.Mood, d.Mood); err != nil {
		return err
	}
	if d.Weather, err = optionalTag("weather", in.Weather, d.Weather); err != nil {
		return err
	}
	if in.RecordDate != nil {
		if d.RecordDate, err = projection.ParseCalendarDate(*in.RecordDate); err != nil {
			return err
		}
	}
	if in.Visibility != nil {
		if !in.Visibility.Valid() {
			return domain.InvalidInputf("visibility must be BOTH or PRIVATE")
		}
		d.Visibility = *in.Visibility
	}
	if in.ScheduledAt != nil {
		if strings.TrimSpace(*in.ScheduledAt) == "" {
			d.ScheduledAt = nil
		} else {
			at, err := projection.ParseTimestamp(*in.ScheduledAt)
			if err != nil {
				return err
			}
			d.ScheduledAt = &at
		}
	}
	return nil
}

// optionalTag applies a short free-text field; an empty value clears it.
func optionalTag(field string, in, current *string) (*string, error) {
	if in == nil {
		return current, nil
	}
	v := strings.TrimSpace(*in)
	if v == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(v) > maxDiaryTagLength {
		return nil, domain.InvalidInputf("%s must be at most %d characters", field, maxDiaryTagLength)
	}
	return &v, nil
}

func validateDiaryImages(urls []string) ([]string, error) {
	if len(urls) > domain.MaxDiaryImages {
		return nil, domain.InvalidInputf("a diary holds at most %d images", domain.MaxDiaryImages)
	}
	out := make([]string, 0, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, domain.InvalidInputf("image url %q must be http or https", raw)
		}
		out = append(out, raw)
	}
	return out, nil
}
