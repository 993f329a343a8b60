package domain

import "context"

// Repositories bundles the repository ports that share one connection or transaction.
type Repositories struct {
	Users           UserRepository
	Couples         CoupleRepository
	Members         CoupleMemberRepository
	Invites         CoupleInviteRepository
	PlaceCategories PlaceCategoryRepository
	Anniversaries   AnniversaryRepository
	Labels          ScheduleLabelRepository
	Events          ScheduleEventRepository
	Messages        MessageRepository
	Todos           TodoRepository
	Diaries         DiaryRepository
}

// Transactor runs fn inside one transaction. The repositories handed to fn are valid only
// until fn returns. A nil return commits; an error or panic rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
