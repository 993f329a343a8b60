package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ourdays/internal/domain"
)

const maxNicknameLength = 20

type userService struct {
	userRepo       domain.UserRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewUserService creates a UserService for profile settings.
func NewUserService(userRepo domain.UserRepository, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) UpdateNickname(ctx context.Context, id, nickname string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	nickname = strings.TrimSpace(nickname)
	if n := utf8.RuneCountInString(nickname); n == 0 || n > maxNicknameLength {
		return nil, domain.InvalidInputf("nickname must be 1 to %d characters", maxNicknameLength)
	}
	if err := s.userRepo.UpdateNickname(ctx, id, nickname, s.now()); err != nil {
		return nil, fmt.Errorf("update nickname: %w", err)
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) UpdateTheme(ctx context.Context, id, themeColor string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	themeColor = strings.TrimSpace(themeColor)
	if !hexColorRegexp.MatchString(themeColor) {
		return nil, domain.InvalidInputf("theme color must look like #RRGGBB")
	}
	if err := s.userRepo.UpdateThemeColor(ctx, id, strings.ToUpper(themeColor), s.now()); err != nil {
		return nil, fmt.Errorf("update theme: %w", err)
	}
	return s.userRepo.GetByID(ctx, id)
}
