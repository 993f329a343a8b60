package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ourdays/internal/domain"
)

type coupleService struct {
	repos          domain.Repositories
	tx             domain.Transactor
	notifier       domain.Notifier
	maxMembers     int
	contextTimeout time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

// NewCoupleService returns the couple lifecycle service. maxMembers below 1 falls back to
// domain.DefaultMaxMembers.
func NewCoupleService(
	repos domain.Repositories,
	tx domain.Transactor,
	notifier domain.Notifier,
	maxMembers int,
	timeout time.Duration,
	logger *slog.Logger,
) domain.CoupleService {
	if maxMembers < 1 {
		maxMembers = domain.DefaultMaxMembers
	}
	return &coupleService{
		repos:          repos,
		tx:             tx,
		notifier:       notifier,
		maxMembers:     maxMembers,
		contextTimeout: timeout,
		now:            time.Now,
		logger:         logger,
	}
}

func newInviteCode() string {
	return strings.ToUpper(uuid.NewString()[:domain.InviteCodeLength])
}

// activeMembership returns the caller's active membership or domain.ErrNotInCouple.
func activeMembership(ctx context.Context, members domain.CoupleMemberRepository, userID string) (*domain.CoupleMember, error) {
	m, err := members.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotInCouple) {
			return nil, err
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

// ensureUnpaired fails with domain.ErrAlreadyPaired when the user has an active membership.
func ensureUnpaired(ctx context.Context, members domain.CoupleMemberRepository, userID string) error {
	_, err := members.GetActiveByUserID(ctx, userID)
	switch {
	case err == nil:
		return domain.ErrAlreadyPaired
	case errors.Is(err, domain.ErrNotInCouple):
		return nil
	default:
		return fmt.Errorf("get membership: %w", err)
	}
}

func (s *coupleService) CreateCouple(ctx context.Context, userID string) (*domain.CoupleWithInvite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	var out *domain.CoupleWithInvite
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if err := ensureUnpaired(ctx, repos.Members, userID); err != nil {
			return err
		}

		couple := domain.NewCouple(now)
		if err := repos.Couples.Create(ctx, couple); err != nil {
			return fmt.Errorf("create couple: %w", err)
		}
		owner := domain.NewCoupleMember(couple.ID, userID, domain.MemberRoleOwner, now)
		if err := repos.Members.Create(ctx, owner); err != nil {
			return fmt.Errorf("create owner membership: %w", err)
		}
		if err := repos.PlaceCategories.Create(ctx, domain.NewDefaultPlaceCategory(couple.ID, now)); err != nil {
			return fmt.Errorf("create default place category: %w", err)
		}
		invite := domain.NewCoupleInvite(couple.ID, userID, newInviteCode(), now)
		if err := repos.Invites.Create(ctx, invite); err != nil {
			return fmt.Errorf("create invite: %w", err)
		}

		out = &domain.CoupleWithInvite{Couple: couple, InviteCode: invite.Code}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "couple created", "couple_id", out.Couple.ID, "user_id", userID)
	return out, nil
}

func (s *coupleService) JoinCouple(ctx context.Context, userID, code string) (*domain.Couple, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.InvalidInputf("invite code is required")
	}

	now := s.now()
	var joined *domain.Couple
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if err := ensureUnpaired(ctx, repos.Members, userID); err != nil {
			return err
		}

		invite, err := repos.Invites.GetByCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}
		if invite.Status != domain.InviteStatusActive {
			return domain.ErrInviteUnavailable
		}
		if invite.Expired(now) {
			return domain.ErrInviteExpired
		}

		couple, err := repos.Couples.GetByIDForUpdate(ctx, invite.CoupleID)
		if err != nil {
			return err
		}
		if couple.IsDeleted() {
			return domain.ErrCoupleNotFound
		}

		count, err := repos.Members.CountActive(ctx, couple.ID)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		if count >= s.maxMembers {
			return domain.ErrCoupleFull
		}

		prior, err := repos.Members.GetByCoupleAndUser(ctx, couple.ID, userID)
		if err != nil && !errors.Is(err, domain.ErrNotInCouple) {
			return fmt.Errorf("get prior membership: %w", err)
		}
		if couple.Status == domain.CoupleStatusDisconnected && prior == nil {
			return domain.ErrNotFormerMember
		}
		if prior != nil {
			if err := repos.Members.Reactivate(ctx, prior.ID, now); err != nil {
				return fmt.Errorf("reactivate membership: %w", err)
			}
		} else {
			member := domain.NewCoupleMember(couple.ID, userID, domain.MemberRolePartner, now)
			if err := repos.Members.Create(ctx, member); err != nil {
				return fmt.Errorf("create membership: %w", err)
			}
		}

		invite.RecordUse(now)
		if err := repos.Invites.UpdateUsage(ctx, invite); err != nil {
			return fmt.Errorf("record invite use: %w", err)
		}

		next := domain.NextCoupleState(couple.Status, count+1, s.maxMembers)
		couple.Status = next.Status
		if couple.Status == domain.CoupleStatusActive && couple.ActivatedAt == nil {
			couple.ActivatedAt = &now
		}
		couple.UpdatedAt = now
		if err := repos.Couples.UpdateState(ctx, couple); err != nil {
			return fmt.Errorf("update couple state: %w", err)
		}

		joined = couple
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "couple joined", "couple_id", joined.ID, "user_id", userID, "status", joined.Status)
	s.notifier.NotifyCoupleMembers(ctx, joined.ID, userID, domain.Notification{
		Title: "커플 연결",
		Body:  "상대방이 커플에 참여했어요.",
		URL:   "/",
		Tag:   "couple:" + joined.ID,
	})
	return joined, nil
}

func (s *coupleService) ReissueInvite(ctx context.Context, userID string) (*domain.CoupleInvite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	var invite *domain.CoupleInvite
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		member, err := activeMembership(ctx, repos.Members, userID)
		if err != nil {
			return err
		}
		couple, err := repos.Couples.GetByIDForUpdate(ctx, member.CoupleID)
		if err != nil {
			return err
		}
		if couple.IsDeleted() {
			return domain.ErrCoupleNotFound
		}
		if couple.Status == domain.CoupleStatusActive {
			return domain.ErrCoupleConnected
		}

		if err := repos.Invites.RevokeActiveByCoupleID(ctx, couple.ID, now); err != nil {
			return fmt.Errorf("revoke invites: %w", err)
		}
		invite = domain.NewCoupleInvite(couple.ID, userID, newInviteCode(), now)
		if err := repos.Invites.Create(ctx, invite); err != nil {
			return fmt.Errorf("create invite: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *coupleService) CancelPending(ctx context.Context, userID string) (*domain.CancelResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var result *domain.CancelResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		member, err := repos.Members.GetActiveByUserID(ctx, userID)
		if errors.Is(err, domain.ErrNotInCouple) {
			// A repeated cancel finds the couple already gone and succeeds without changes.
			latest, err := repos.Members.GetLatestByUserID(ctx, userID)
			if err != nil {
				return err
			}
			couple, err := repos.Couples.GetByID(ctx, latest.CoupleID)
			if err != nil {
				return err
			}
			if !couple.IsDeleted() {
				return domain.ErrNotInCouple
			}
			result = &domain.CancelResult{CoupleID: couple.ID, Cancelled: false}
			return nil
		}
		if err != nil {
			return fmt.Errorf("get membership: %w", err)
		}

		couple, err := repos.Couples.GetByIDForUpdate(ctx, member.CoupleID)
		if err != nil {
			return err
		}
		count, err := repos.Members.CountActive(ctx, couple.ID)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		if couple.Status != domain.CoupleStatusPending || count != 1 {
			return domain.ErrCoupleNotPending
		}

		if err := s.dissolve(ctx, repos, couple.ID); err != nil {
			return err
		}
		result = &domain.CancelResult{CoupleID: couple.ID, Cancelled: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Cancelled {
		s.logger.InfoContext(ctx, "pending couple cancelled", "couple_id", result.CoupleID, "user_id", userID)
	}
	return result, nil
}

// dissolve soft-deletes a couple with its memberships and place categories and revokes its
// outstanding invites.
func (s *coupleService) dissolve(ctx context.Context, repos domain.Repositories, coupleID string) error {
	now := s.now()
	if err := repos.Couples.SoftDelete(ctx, coupleID, now); err != nil {
		return fmt.Errorf("delete couple: %w", err)
	}
	if err := repos.Members.SoftDeleteByCoupleID(ctx, coupleID, now); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}
	if err := repos.Invites.RevokeActiveByCoupleID(ctx, coupleID, now); err != nil {
		return fmt.Errorf("revoke invites: %w", err)
	}
	if err := repos.PlaceCategories.SoftDeleteByCoupleID(ctx, coupleID, now); err != nil {
		return fmt.Errorf("delete place categories: %w", err)
	}
	return nil
}

func (s *coupleService) LeaveCouple(ctx context.Context, userID string) (*domain.LeaveResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	var result *domain.LeaveResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		member, err := activeMembership(ctx, repos.Members, userID)
		if err != nil {
			return err
		}
		couple, err := repos.Couples.GetByIDForUpdate(ctx, member.CoupleID)
		if err != nil {
			return err
		}
		count, err := repos.Members.CountActive(ctx, couple.ID)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}

		if err := repos.Members.SoftDelete(ctx, member.ID, now); err != nil {
			return fmt.Errorf("leave couple: %w", err)
		}

		next := domain.NextCoupleState(couple.Status, count-1, s.maxMembers)
		if next.Deleted {
			if err := s.dissolve(ctx, repos, couple.ID); err != nil {
				return err
			}
			result = &domain.LeaveResult{CoupleID: couple.ID, Status: domain.CoupleStatusNone, CoupleDeleted: true}
			return nil
		}

		couple.Status = next.Status
		couple.UpdatedAt = now
		if err := repos.Couples.UpdateState(ctx, couple); err != nil {
			return fmt.Errorf("update couple state: %w", err)
		}
		result = &domain.LeaveResult{CoupleID: couple.ID, Status: couple.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "couple left", "couple_id", result.CoupleID, "user_id", userID, "couple_deleted", result.CoupleDeleted)
	if !result.CoupleDeleted {
		s.notifier.NotifyCoupleMembers(ctx, result.CoupleID, userID, domain.Notification{
			Title: "커플 연결 해제",
			Body:  "상대방이 커플을 떠났어요.",
			URL:   "/",
			Tag:   "couple:" + result.CoupleID,
		})
	}
	return result, nil
}

func (s *coupleService) GetStatus(ctx context.Context, userID string) (*domain.CoupleStatusView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	none := &domain.CoupleStatusView{Status: domain.CoupleStatusNone}
	member, err := s.repos.Members.GetActiveByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotInCouple) {
		return none, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}

	couple, err := s.repos.Couples.GetByID(ctx, member.CoupleID)
	if errors.Is(err, domain.ErrCoupleNotFound) {
		return none, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get couple: %w", err)
	}
	if couple.IsDeleted() {
		return none, nil
	}

	view := &domain.CoupleStatusView{Status: couple.Status, Couple: couple}

	invite, err := s.repos.Invites.GetActiveByCoupleID(ctx, couple.ID)
	switch {
	case err == nil:
		view.InviteCode = &invite.Code
	case !errors.Is(err, domain.ErrInviteNotFound):
		return nil, fmt.Errorf("get invite: %w", err)
	}

	members, err := s.repos.Members.ListActiveByCoupleID(ctx, couple.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := s.repos.Users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list member profiles: %w", err)
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, m := range members {
		p := &domain.MemberProfile{UserID: m.UserID, Role: m.Role}
		if u, ok := byID[m.UserID]; ok {
			p.Nickname = u.Nickname
			p.Email = u.Email
		}
		view.Members = append(view.Members, p)
	}
	return view, nil
}
