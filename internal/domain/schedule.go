package domain

import (
	"context"
	"time"
)

// ScheduleEventType distinguishes plain events from tasks that can be checked off.
type ScheduleEventType string

const (
	ScheduleEventTypeEvent ScheduleEventType = "EVENT"
	ScheduleEventTypeTask  ScheduleEventType = "TASK"
)

// Valid reports whether t is a known event type.
func (t ScheduleEventType) Valid() bool {
	return t == ScheduleEventTypeEvent || t == ScheduleEventTypeTask
}

// ScheduleEventStatus is the completion state of a task.
type ScheduleEventStatus string

const (
	ScheduleEventStatusPending ScheduleEventStatus = "PENDING"
	ScheduleEventStatusDone    ScheduleEventStatus = "DONE"
)

// Valid reports whether s is a known status.
func (s ScheduleEventStatus) Valid() bool {
	return s == ScheduleEventStatusPending || s == ScheduleEventStatusDone
}

// Calendar colours.
const (
	DefaultScheduleColor     = "#F5B5CF"
	AnniversaryCalendarColor = "#c3d0e0"
)

// ScheduleLabel is a coloured tag for schedule events.
// swagger:model ScheduleLabel
type ScheduleLabel struct {
	ID        string     `json:"id"`
	CoupleID  string     `json:"couple_id"`
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// ScheduleEvent is a calendar entry of a couple.
// swagger:model ScheduleEvent
type ScheduleEvent struct {
	ID          string              `json:"id"`
	CoupleID    string              `json:"couple_id"`
	CreatedByID string              `json:"created_by_id"`
	Type        ScheduleEventType   `json:"type"`
	Title       string              `json:"title"`
	Note        *string             `json:"note"`
	Date        time.Time           `json:"date"`
	AllDay      bool                `json:"all_day"`
	Status      ScheduleEventStatus `json:"status"`
	LabelID     *string             `json:"label_id"`
	Label       *ScheduleLabel      `json:"label,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DeletedAt   *time.Time          `json:"-"`
}

// LabelInput carries label fields. Nil fields are left unchanged on update.
type LabelInput struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// ScheduleEventInput carries event fields. Nil fields are left unchanged on update.
// An empty Note or LabelID clears the stored value.
type ScheduleEventInput struct {
	Type    *ScheduleEventType   `json:"type"`
	Title   *string              `json:"title"`
	Note    *string              `json:"note"`
	Date    *string              `json:"date"`
	AllDay  *bool                `json:"all_day"`
	Status  *ScheduleEventStatus `json:"status"`
	LabelID *string              `json:"label_id"`
}

// CalendarEntryType tells schedule entries from projected anniversaries.
type CalendarEntryType string

const (
	CalendarEntrySchedule    CalendarEntryType = "SCHEDULE"
	CalendarEntryAnniversary CalendarEntryType = "ANNIVERSARY"
)

// CalendarEntry is one typed item of the merged calendar.
type CalendarEntry struct {
	Type  CalendarEntryType `json:"type"`
	ID    string            `json:"id"`
	Date  time.Time         `json:"date"`
	Title string            `json:"title"`
	Color string            `json:"color"`
	Meta  map[string]any    `json:"meta,omitempty"`
}

// Calendar is the merged calendar of a date range.
type Calendar struct {
	Labels  []*ScheduleLabel `json:"labels"`
	Entries []CalendarEntry  `json:"events"`
}

// ScheduleLabelRepository defines storage for labels. Reads skip soft-deleted rows.
type ScheduleLabelRepository interface {
	Create(ctx context.Context, l *ScheduleLabel) error
	GetByID(ctx context.Context, coupleID, id string) (*ScheduleLabel, error)
	Update(ctx context.Context, l *ScheduleLabel) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	ListByCoupleID(ctx context.Context, coupleID string) ([]*ScheduleLabel, error)
}

// ScheduleEventRepository defines storage for schedule events. Reads skip soft-deleted rows
// and attach the label when one is set.
type ScheduleEventRepository interface {
	Create(ctx context.Context, e *ScheduleEvent) error
	GetByID(ctx context.Context, coupleID, id string) (*ScheduleEvent, error)
	Update(ctx context.Context, e *ScheduleEvent) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// ListInRange returns events with from <= date <= to ordered by date then creation.
	ListInRange(ctx context.Context, coupleID string, from, to time.Time) ([]*ScheduleEvent, error)
}

// CalendarService defines schedule management and the merged calendar view.
type CalendarService interface {
	ListLabels(ctx context.Context, userID string) ([]*ScheduleLabel, error)
	CreateLabel(ctx context.Context, userID string, in LabelInput) (*ScheduleLabel, error)
	UpdateLabel(ctx context.Context, userID, id string, in LabelInput) (*ScheduleLabel, error)
	DeleteLabel(ctx context.Context, userID, id string) error
	ListEvents(ctx context.Context, userID string, from, to time.Time) ([]*ScheduleEvent, error)
	CreateEvent(ctx context.Context, userID string, in ScheduleEventInput) (*ScheduleEvent, error)
	UpdateEvent(ctx context.Context, userID, id string, in ScheduleEventInput) (*ScheduleEvent, error)
	DeleteEvent(ctx context.Context, userID, id string) error
	GetCalendar(ctx context.Context, userID string, from, to time.Time) (*Calendar, error)
}
