package domain

import (
	"context"
	"time"
)

// DefaultPlaceCategoryKey identifies the system place category every couple starts with.
const DefaultPlaceCategoryKey = "default"

// PlaceCategory groups saved places of a couple. System categories are created by the service
// itself; their name is fixed and they cannot be deleted.
// swagger:model PlaceCategory
type PlaceCategory struct {
	ID        string     `json:"id"`
	CoupleID  string     `json:"couple_id"`
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	Icon      *string    `json:"icon"`
	IsSystem  bool       `json:"is_system"`
	SystemKey string     `json:"system_key,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// NewDefaultPlaceCategory returns the system category created with every couple.
func NewDefaultPlaceCategory(coupleID string, now time.Time) *PlaceCategory {
	return &PlaceCategory{
		CoupleID:  coupleID,
		Name:      "기본",
		Color:     DefaultThemeColor,
		IsSystem:  true,
		SystemKey: DefaultPlaceCategoryKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PlaceCategoryInput is the create/update body of a place category. Nil fields are left
// unchanged on update; an empty icon clears it.
type PlaceCategoryInput struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// PlaceCategoryRepository defines storage for place categories.
type PlaceCategoryRepository interface {
	Create(ctx context.Context, pc *PlaceCategory) error
	GetByID(ctx context.Context, coupleID, id string) (*PlaceCategory, error)
	// ListByCoupleID returns system categories first, then the rest by name.
	ListByCoupleID(ctx context.Context, coupleID string) ([]*PlaceCategory, error)
	Update(ctx context.Context, pc *PlaceCategory) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	SoftDeleteByCoupleID(ctx context.Context, coupleID string, at time.Time) error
}

// PlaceCategoryService manages the place categories of the caller's couple.
type PlaceCategoryService interface {
	List(ctx context.Context, userID string) ([]*PlaceCategory, error)
	Create(ctx context.Context, userID string, in PlaceCategoryInput) (*PlaceCategory, error)
	Update(ctx context.Context, userID, id string, in PlaceCategoryInput) (*PlaceCategory, error)
	Delete(ctx context.Context, userID, id string) error
}
