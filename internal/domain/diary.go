package domain

import (
	"context"
	"time"
)

// DiaryVisibility says who can read a diary entry besides its author.
type DiaryVisibility string

const (
	DiaryVisibilityBoth    DiaryVisibility = "BOTH"
	DiaryVisibilityPrivate DiaryVisibility = "PRIVATE"
)

func (v DiaryVisibility) Valid() bool {
	return v == DiaryVisibilityBoth || v == DiaryVisibilityPrivate
}

// MaxDiaryImages caps the images attached to one entry.
const MaxDiaryImages = 10

// DiaryImage is an image attached to a diary entry. The lowest Order is the cover.
type DiaryImage struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// Diary is a diary entry written by one member of a couple. A shared entry with ScheduledAt set
// stays hidden from the partner until that moment.
// swagger:model Diary
type Diary struct {
	ID             string          `json:"id"`
	CoupleID       string          `json:"couple_id"`
	AuthorID       string          `json:"author_id"`
	AuthorNickname string          `json:"author_nickname"`
	Title          string          `json:"title"`
	Content        string          `json:"content"`
	Mood           *string         `json:"mood"`
	Weather        *string         `json:"weather"`
	RecordDate     time.Time       `json:"record_date"`
	Visibility     DiaryVisibility `json:"visibility"`
	ScheduledAt    *time.Time      `json:"scheduled_at"`
	Images         []DiaryImage    `json:"images,omitempty"`
	CoverImageURL  *string         `json:"cover_image_url"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      *time.Time      `json:"-"`
}

// VisibleTo reports whether viewerID may read the entry at now.
func (d *Diary) VisibleTo(viewerID string, now time.Time) bool {
	if d.DeletedAt != nil {
		return false
	}
	if d.AuthorID == viewerID {
		return true
	}
	if d.Visibility != DiaryVisibilityBoth {
		return false
	}
	return d.ScheduledAt == nil || !now.Before(*d.ScheduledAt)
}

// DiaryInput is the create/update body of a diary entry. Nil fields are left unchanged on
// update. A non-nil Images replaces every image; an empty scheduled_at clears the schedule.
type DiaryInput struct {
	Title       *string          `json:"title"`
	Content     *string          `json:"content"`
	Mood        *string          `json:"mood"`
	Weather     *string          `json:"weather"`
	RecordDate  *string          `json:"record_date"`
	Visibility  *DiaryVisibility `json:"visibility"`
	ScheduledAt *string          `json:"scheduled_at"`
	Images      []string         `json:"images"`
}

// DiaryRepository defines storage for diary entries. Reads never return soft-deleted entries.
type DiaryRepository interface {
	Create(ctx context.Context, d *Diary) error
	// GetByID returns the entry with its images.
	GetByID(ctx context.Context, coupleID, id string) (*Diary, error)
	Update(ctx context.Context, d *Diary) error
	// ReplaceImages drops the entry's images and stores urls in the given order.
	ReplaceImages(ctx context.Context, diaryID string, urls []string) ([]DiaryImage, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// ListVisible pages through the entries viewerID may read at now, newest record date first,
	// each with its cover image only.
	ListVisible(ctx context.Context, coupleID, viewerID string, now time.Time, p PageRequest) ([]*Diary, int, error)
	// ListRecent is ListVisible's first page without the count.
	ListRecent(ctx context.Context, coupleID, viewerID string, now time.Time, limit int) ([]*Diary, error)
}

// DiaryService manages diary entries. Only the author may edit or delete an entry.
type DiaryService interface {
	List(ctx context.Context, userID string, p PageRequest) ([]*Diary, int, error)
	Get(ctx context.Context, userID, id string) (*Diary, error)
	Create(ctx context.Context, userID string, in DiaryInput) (*Diary, error)
	Update(ctx context.Context, userID, id string, in DiaryInput) (*Diary, error)
	Delete(ctx context.Context, userID, id string) error
}
