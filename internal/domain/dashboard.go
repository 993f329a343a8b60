package domain

import (
	"context"
	"time"
)

// Dashboard limits.
const (
	DashboardUpcomingLimit = 3
	DashboardTodoLimit     = 3
	DashboardTodoWindow    = 7 * 24 * time.Hour
	DashboardDiaryLimit    = 5
)

// Todo is a shared to-do item, read for the dashboard.
type Todo struct {
	ID               string     `json:"id"`
	CoupleID         string     `json:"couple_id"`
	Title            string     `json:"title"`
	Status           string     `json:"status"`
	DueDate          *time.Time `json:"due_date"`
	AssigneeID       *string    `json:"assignee_id"`
	AssigneeNickname *string    `json:"assignee_nickname,omitempty"`
}

// TodoStatusDone marks a finished to-do.
const TodoStatusDone = "DONE"

// TodoRepository defines the to-do reads the dashboard needs.
type TodoRepository interface {
	// ListOpenDueBefore returns undone to-dos with no due date or due on/before the given time,
	// ordered by due date.
	ListOpenDueBefore(ctx context.Context, coupleID string, before time.Time, limit int) ([]*Todo, error)
}


// DDaySummary is the relationship day count and projected anniversaries.
type DDaySummary struct {
	DaysCount             int                   `json:"days_count"`
	StartDate             *time.Time            `json:"start_date"`
	UpcomingAnniversaries []UpcomingAnniversary `json:"upcoming_anniversaries"`
	NextSpecialEvent      *SpecialEvent         `json:"next_special_event"`
}

// MessageSummary holds the partner's and the caller's current messages.
type MessageSummary struct {
	Received *Message `json:"received_message"`
	Mine     *Message `json:"my_message"`
}

// Dashboard is the home screen read model.
// swagger:model Dashboard
type Dashboard struct {
	DDay          DDaySummary    `json:"dday_summary"`
	Messages      MessageSummary `json:"message_summary"`
	Todos         []*Todo        `json:"todo_summary"`
	RecentDiaries []*Diary       `json:"recent_diaries"`
}

// DashboardService builds the dashboard of the caller's couple.
type DashboardService interface {
	GetDashboard(ctx context.Context, userID string) (*Dashboard, error)
}
