package domain

import (
	"context"
	"time"
)

// User represents a registered user.
// swagger:model User
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Nickname   string    `json:"nickname"`
	ThemeColor string    `json:"theme_color"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultThemeColor is used for users who never picked a theme.
const DefaultThemeColor = "#F5B5CF"

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	ListByIDs(ctx context.Context, ids []string) ([]*User, error)
	UpdateNickname(ctx context.Context, id, nickname string, updatedAt time.Time) error
	UpdateThemeColor(ctx context.Context, id, themeColor string, updatedAt time.Time) error
}

// UserService defines profile settings operations for the authenticated user.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateNickname(ctx context.Context, id, nickname string) (*User, error)
	UpdateTheme(ctx context.Context, id, themeColor string) (*User, error)
}
