package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ourdays/internal/domain"
)

const (
	maxPlaceCategoryNameLength = 32
	maxPlaceCategoryIconLength = 40
)

type placeCategoryService struct {
	repos          domain.Repositories
	contextTimeout time.Duration
	now            func() time.Time
}

func NewPlaceCategoryService(repos domain.Repositories, timeout time.Duration) domain.PlaceCategoryService {
	return &placeCategoryService{
		repos:          repos,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *placeCategoryService) List(ctx context.Context, userID string) ([]*domain.PlaceCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	member, err := activeMembership(ctx, s.repos.Members, userID)
	if err != nil {
		return nil, err
	}
	categories, err := s.repos.PlaceCategories.ListByCoupleID(ctx, member.CoupleID)
	if err != nil {
		return nil, fmt.Errorf("list place categories: %w", err)
	}
	if categories == nil {
		categories = []*domain.PlaceCategory{}
	}
	return categories, nil
}

func (s *placeCategoryService) Create(ctx context.Context, userID string, in domain.PlaceCategoryInput) (*domain.PlaceCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in.Name == nil || in.Color == nil {
		return nil, domain.InvalidInputf("name and color are required")
	}
	pc := &domain.PlaceCategory{}
	if err := applyPlaceCategoryInput(pc, in); err != nil {
		return nil, err
	}
	member, err := activeMembership(ctx, s.repos.Members, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	pc.CoupleID, pc.CreatedAt, pc.UpdatedAt = member.CoupleID, now, now
	if err := s.repos.PlaceCategories.Create(ctx, pc); err != nil {
		return nil, fmt.Errorf("create place category: %w", err)
	}
	return pc, nil
}

// Update may recolor a system category but rejects any name for it.
func (s *placeCategoryService) Update(ctx context.Context, userID, id string, in domain.PlaceCategoryInput) (*domain.PlaceCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	member, err := activeMembership(ctx, s.repos.Members, userID)
	if err != nil {
		return nil, err
	}
	pc, err := s.repos.PlaceCategories.GetByID(ctx, member.CoupleID, id)
	if err != nil {
		return nil, err
	}
	if pc.IsSystem && in.Name != nil {
		return nil, domain.ErrSystemCategoryLocked
	}
	if err := applyPlaceCategoryInput(pc, in); err != nil {
		return nil, err
	}
	pc.UpdatedAt = s.now()
	if err := s.repos.PlaceCategories.Update(ctx, pc); err != nil {
		return nil, fmt.Errorf("update place category: %w", err)
	}
	return pc, nil
}

func (s *placeCategoryService) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	member, err := activeMembership(ctx, s.repos.Members, userID)
	if err != nil {
		return err
	}
	pc, err := s.repos.PlaceCategories.GetByID(ctx, member.CoupleID, id)
	if err != nil {
		return err
	}
	if pc.IsSystem {
		return domain.ErrSystemCategoryLocked
	}
	if err := s.repos.PlaceCategories.SoftDelete(ctx, pc.ID, s.now()); err != nil {
		return fmt.Errorf("delete place category: %w", err)
	}
	return nil
}

func applyPlaceCategoryInput(pc *domain.PlaceCategory, in domain.PlaceCategoryInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if n := utf8.RuneCountInString(name); n == 0 || n > maxPlaceCategoryNameLength {
			return domain.InvalidInputf("category name must be 1 to %d characters", maxPlaceCategoryNameLength)
		}
		pc.Name = name
	}
	if in.Color != nil {
		if !hexColorRegexp.MatchString(*in.Color) {
			return domain.InvalidInputf("color must look like #RRGGBB")
		}
		pc.Color = *in.Color
	}
	if in.Icon != nil {
		icon := strings.TrimSpace(*in.Icon)
		switch {
		case icon == "":
			pc.Icon = nil
		case utf8.RuneCountInString(icon) > maxPlaceCategoryIconLength:
			return domain.InvalidInputf("icon must be at most %d characters", maxPlaceCategoryIconLength)
		default:
			pc.Icon = &icon
		}
	}
	return nil
}
