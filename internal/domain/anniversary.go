package domain

import (
	"context"
	"time"
)

// AnniversaryType classifies anniversaries. MILESTONE is derived and never stored.
type AnniversaryType string

const (
	AnniversaryTypeRelationship AnniversaryType = "RELATIONSHIP"
	AnniversaryTypeBirthday     AnniversaryType = "BIRTHDAY"
	AnniversaryTypeMilestone    AnniversaryType = "MILESTONE"
)

// Storable reports whether users may create anniversaries of this type.
func (t AnniversaryType) Storable() bool {
	return t == AnniversaryTypeRelationship || t == AnniversaryTypeBirthday
}

// Anniversary is a stored date of a couple.
// swagger:model Anniversary
type Anniversary struct {
	ID          string          `json:"id"`
	CoupleID    string          `json:"couple_id"`
	Title       string          `json:"title"`
	Date        time.Time       `json:"date"`
	IsRecurring bool            `json:"is_recurring"`
	Type        AnniversaryType `json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   *time.Time      `json:"-"`
}

// UpcomingAnniversary is a stored anniversary with its next occurrence relative to a reference date.
type UpcomingAnniversary struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Date           time.Time       `json:"date"`
	IsRecurring    bool            `json:"is_recurring"`
	Type           AnniversaryType `json:"type"`
	NextOccurrence time.Time       `json:"next_occurrence"`
	DaysUntil      int             `json:"days_until"`
}

// SpecialEvent is a projected occurrence: a birthday, a 100-day milestone or a yearly anniversary.
type SpecialEvent struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Type           AnniversaryType `json:"type"`
	NextOccurrence time.Time       `json:"date"`
	DaysUntil      int             `json:"days_until"`
	Description    string          `json:"description,omitempty"`
}

// AnniversaryInput carries create and update fields. Nil fields are left unchanged on update.
type AnniversaryInput struct {
	Title       *string          `json:"title"`
	Date        *string          `json:"date"`
	IsRecurring *bool            `json:"is_recurring"`
	Type        *AnniversaryType `json:"type"`
}

// AnniversaryRepository defines storage for anniversaries. Reads skip soft-deleted rows.
type AnniversaryRepository interface {
	Create(ctx context.Context, a *Anniversary) error
	GetByID(ctx context.Context, coupleID, id string) (*Anniversary, error)
	Update(ctx context.Context, a *Anniversary) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// ListByCoupleID returns anniversaries ordered by date ascending.
	ListByCoupleID(ctx context.Context, coupleID string) ([]*Anniversary, error)
	EarliestRelationshipDate(ctx context.Context, coupleID string) (*time.Time, error)
}

// AnniversaryService defines anniversary management for the caller's couple.
type AnniversaryService interface {
	List(ctx context.Context, userID string) ([]*Anniversary, error)
	Create(ctx context.Context, userID string, in AnniversaryInput) (*Anniversary, error)
	Update(ctx context.Context, userID, id string, in AnniversaryInput) (*Anniversary, error)
	Delete(ctx context.Context, userID, id string) error
}
