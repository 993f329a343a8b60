package domain

import (
	"context"
	"time"
)

// DefaultMaxMembers is the number of active members that makes a couple ACTIVE.
const DefaultMaxMembers = 2

// CoupleStatus is the lifecycle state of a couple.
type CoupleStatus string

const (
	CoupleStatusPending      CoupleStatus = "PENDING"
	CoupleStatusActive       CoupleStatus = "ACTIVE"
	CoupleStatusDisconnected CoupleStatus = "DISCONNECTED"
	// CoupleStatusNone is reported to users without a live couple. It is never stored.
	CoupleStatusNone CoupleStatus = "NONE"
)

// Couple is the aggregate root of a paired relationship.
// swagger:model Couple
type Couple struct {
	ID          string       `json:"id"`
	StartDate   *time.Time   `json:"start_date"`
	Status      CoupleStatus `json:"status"`
	ActivatedAt *time.Time   `json:"activated_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DeletedAt   *time.Time   `json:"-"`
}

// NewCouple returns a pending couple. ID is set by the repository on create.
func NewCouple(now time.Time) *Couple {
	return &Couple{
		Status:    CoupleStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsDeleted reports whether the couple was soft-deleted.
func (c *Couple) IsDeleted() bool {
	return c.DeletedAt != nil
}

// CoupleState is the outcome of a membership change.
type CoupleState struct {
	Status  CoupleStatus
	Deleted bool
}

// NextCoupleState derives the couple state from its current status and the number of
// active members after a membership mutation.
//
//	0 members            -> deleted
//	>= maxMembers        -> ACTIVE
//	fewer, never active  -> PENDING
//	fewer, was active    -> DISCONNECTED
func NextCoupleState(current CoupleStatus, activeCount, maxMembers int) CoupleState {
	if maxMembers < 1 {
		maxMembers = DefaultMaxMembers
	}
	switch {
	case activeCount <= 0:
		return CoupleState{Status: current, Deleted: true}
	case activeCount >= maxMembers:
		return CoupleState{Status: CoupleStatusActive}
	case current == CoupleStatusActive || current == CoupleStatusDisconnected:
		return CoupleState{Status: CoupleStatusDisconnected}
	default:
		return CoupleState{Status: CoupleStatusPending}
	}
}

// MemberRole is the role a user holds inside a couple.
type MemberRole string

const (
	MemberRoleOwner   MemberRole = "OWNER"
	MemberRolePartner MemberRole = "PARTNER"
)

// CoupleMember links a user to a couple. A non-nil DeletedAt means the user left.
// swagger:model CoupleMember
type CoupleMember struct {
	ID        string     `json:"id"`
	CoupleID  string     `json:"couple_id"`
	UserID    string     `json:"user_id"`
	Role      MemberRole `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// NewCoupleMember returns a membership. ID is set by the repository on create.
func NewCoupleMember(coupleID, userID string, role MemberRole, now time.Time) *CoupleMember {
	return &CoupleMember{
		CoupleID:  coupleID,
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive reports whether the membership has not been left.
func (m *CoupleMember) IsActive() bool {
	return m.DeletedAt == nil
}

// InviteStatus is the state of an invite code.
type InviteStatus string

const (
	InviteStatusActive   InviteStatus = "ACTIVE"
	InviteStatusConsumed InviteStatus = "CONSUMED"
	InviteStatusRevoked  InviteStatus = "REVOKED"
)

// InviteCodeLength is the length of generated invite codes.
const InviteCodeLength = 8

// CoupleInvite is a short code that lets a partner join a couple.
// swagger:model CoupleInvite
type CoupleInvite struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	CoupleID    string       `json:"couple_id"`
	CreatedByID string       `json:"created_by_id"`
	Status      InviteStatus `json:"status"`
	Uses        int          `json:"uses"`
	MaxUses     int          `json:"max_uses"`
	ExpiresAt   *time.Time   `json:"expires_at"`
	ConsumedAt  *time.Time   `json:"consumed_at"`
	RevokedAt   *time.Time   `json:"revoked_at"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewCoupleInvite returns a single-use active invite. ID is set by the repository on create.
func NewCoupleInvite(coupleID, createdByID, code string, now time.Time) *CoupleInvite {
	return &CoupleInvite{
		Code:        code,
		CoupleID:    coupleID,
		CreatedByID: createdByID,
		Status:      InviteStatusActive,
		MaxUses:     1,
		CreatedAt:   now,
	}
}

// Expired reports whether the invite has an expiry in the past.
func (i *CoupleInvite) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}

// RecordUse counts one use and flips the invite to CONSUMED once it reaches MaxUses.
func (i *CoupleInvite) RecordUse(now time.Time) {
	i.Uses++
	if i.Uses >= i.MaxUses {
		i.Status = InviteStatusConsumed
		i.ConsumedAt = &now
	}
}

// CoupleRepository defines storage for couples. Lookups include soft-deleted rows.
type CoupleRepository interface {
	Create(ctx context.Context, c *Couple) error
	GetByID(ctx context.Context, id string) (*Couple, error)
	// GetByIDForUpdate locks the couple row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*Couple, error)
	UpdateState(ctx context.Context, c *Couple) error
	UpdateStartDate(ctx context.Context, id string, startDate *time.Time, updatedAt time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// CoupleMemberRepository defines storage for memberships.
type CoupleMemberRepository interface {
	Create(ctx context.Context, m *CoupleMember) error
	GetActiveByUserID(ctx context.Context, userID string) (*CoupleMember, error)
	// GetLatestByUserID returns the most recent membership of the user, left or not.
	GetLatestByUserID(ctx context.Context, userID string) (*CoupleMember, error)
	// GetByCoupleAndUser returns the membership of the user on the couple, left or not.
	GetByCoupleAndUser(ctx context.Context, coupleID, userID string) (*CoupleMember, error)
	ListActiveByCoupleID(ctx context.Context, coupleID string) ([]*CoupleMember, error)
	CountActive(ctx context.Context, coupleID string) (int, error)
	Reactivate(ctx context.Context, id string, at time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	SoftDeleteByCoupleID(ctx context.Context, coupleID string, at time.Time) error
}

// CoupleInviteRepository defines storage for invite codes.
type CoupleInviteRepository interface {
	Create(ctx context.Context, inv *CoupleInvite) error
	// GetByCodeForUpdate locks the invite row until the surrounding transaction ends.
	GetByCodeForUpdate(ctx context.Context, code string) (*CoupleInvite, error)
	GetActiveByCoupleID(ctx context.Context, coupleID string) (*CoupleInvite, error)
	UpdateUsage(ctx context.Context, inv *CoupleInvite) error
	RevokeActiveByCoupleID(ctx context.Context, coupleID string, at time.Time) error
}

// CoupleWithInvite is returned on couple creation so the owner can share the code.
type CoupleWithInvite struct {
	Couple     *Couple `json:"couple"`
	InviteCode string  `json:"invite_code"`
}

// MemberProfile is a member of a couple with public profile fields.
type MemberProfile struct {
	UserID   string     `json:"user_id"`
	Role     MemberRole `json:"role"`
	Nickname string     `json:"nickname"`
	Email    string     `json:"email"`
}

// CoupleStatusView is the couple status as seen by one user.
type CoupleStatusView struct {
	Status     CoupleStatus     `json:"status"`
	Couple     *Couple          `json:"couple,omitempty"`
	InviteCode *string          `json:"invite_code"`
	Members    []*MemberProfile `json:"members,omitempty"`
}

// CancelResult reports the outcome of cancelling a pending couple.
type CancelResult struct {
	CoupleID string `json:"couple_id"`
	// Cancelled is false when the couple was already gone and the call was a no-op.
	Cancelled bool `json:"cancelled"`
}

// LeaveResult reports the outcome of leaving a couple.
type LeaveResult struct {
	CoupleID      string       `json:"couple_id"`
	Status        CoupleStatus `json:"status"`
	CoupleDeleted bool         `json:"couple_deleted"`
}

// CoupleService defines the couple lifecycle.
type CoupleService interface {
	CreateCouple(ctx context.Context, userID string) (*CoupleWithInvite, error)
	JoinCouple(ctx context.Context, userID, code string) (*Couple, error)
	ReissueInvite(ctx context.Context, userID string) (*CoupleInvite, error)
	CancelPending(ctx context.Context, userID string) (*CancelResult, error)
	LeaveCouple(ctx context.Context, userID string) (*LeaveResult, error)
	GetStatus(ctx context.Context, userID string) (*CoupleStatusView, error)
}
