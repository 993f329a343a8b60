package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these so callers can classify it with errors.Is.
// Anything that wraps none of them is an internal error.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
)

// Couple lifecycle errors.
var (
	ErrNotInCouple       = fmt.Errorf("%w: user is not in a couple", ErrNotFound)
	ErrAlreadyPaired     = fmt.Errorf("%w: user already belongs to a couple", ErrConflict)
	ErrCoupleNotFound    = fmt.Errorf("%w: couple not found", ErrNotFound)
	ErrCoupleFull        = fmt.Errorf("%w: couple is already full", ErrConflict)
	ErrCoupleNotPending  = fmt.Errorf("%w: couple is not pending", ErrConflict)
	ErrCoupleConnected   = fmt.Errorf("%w: couple is already connected", ErrConflict)
	ErrNotFormerMember   = fmt.Errorf("%w: only former members can rejoin a disconnected couple", ErrConflict)
	ErrInviteNotFound    = fmt.Errorf("%w: invalid invite code", ErrNotFound)
	ErrInviteUnavailable = fmt.Errorf("%w: invite code is no longer valid", ErrConflict)
	ErrInviteExpired     = fmt.Errorf("%w: invite code has expired", ErrConflict)
)

// Resource lookup errors.
var (
	ErrUserNotFound          = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrAnniversaryNotFound   = fmt.Errorf("%w: anniversary not found", ErrNotFound)
	ErrLabelNotFound         = fmt.Errorf("%w: label not found", ErrNotFound)
	ErrEventNotFound         = fmt.Errorf("%w: event not found", ErrNotFound)
	ErrDiaryNotFound         = fmt.Errorf("%w: diary not found", ErrNotFound)
	ErrPlaceCategoryNotFound = fmt.Errorf("%w: place category not found", ErrNotFound)
)

// Permission errors.
var (
	ErrNotDiaryAuthor = fmt.Errorf("%w: only the author can change this diary", ErrForbidden)
	ErrDiaryHidden    = fmt.Errorf("%w: diary is not shared with you", ErrForbidden)
)

// ErrSystemCategoryLocked rejects renaming or deleting a system place category.
var ErrSystemCategoryLocked = fmt.Errorf("%w: system place category cannot be renamed or deleted", ErrInvalidInput)

// InvalidInputf returns an ErrInvalidInput carrying a formatted reason.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
