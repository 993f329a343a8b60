package services

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"ourdays/internal/domain"
)

// memStore is an in-memory implementation of every repository port plus domain.Transactor.
// Transactions run one at a time on a copy of the state that replaces the original only when
// fn succeeds.
type memStore struct {
	txMu  sync.Mutex
	state *memState
}

type memState struct {
	mu            sync.Mutex
	seq           int
	users         map[string]*domain.User
	couples       map[string]*domain.Couple
	members       map[string]*domain.CoupleMember
	invites       map[string]*domain.CoupleInvite
	categories    map[string]*domain.PlaceCategory
	anniversaries map[string]*domain.Anniversary
	labels        map[string]*domain.ScheduleLabel
	events        map[string]*domain.ScheduleEvent
	messages      map[string]*domain.Message
	history       []domain.Message
	todos         []*domain.Todo
	diaries       map[string]*domain.Diary
	// failures makes the named operation return the error, e.g. "Invites.UpdateUsage".
	failures map[string]error
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		users:         map[string]*domain.User{},
		couples:       map[string]*domain.Couple{},
		members:       map[string]*domain.CoupleMember{},
		invites:       map[string]*domain.CoupleInvite{},
		categories:    map[string]*domain.PlaceCategory{},
		anniversaries: map[string]*domain.Anniversary{},
		labels:        map[string]*domain.ScheduleLabel{},
		events:        map[string]*domain.ScheduleEvent{},
		messages:      map[string]*domain.Message{},
		diaries:       map[string]*domain.Diary{},
		failures:      map[string]error{},
	}}
}

func (s *memStore) repos() domain.Repositories {
	return s.state.repos()
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	work := s.state.clone()
	if err := fn(ctx, work.repos()); err != nil {
		return err
	}
	s.state.commit(work)
	return nil
}

func (s *memStore) addUser(id, email, nickname string) {
	s.state.users[id] = &domain.User{ID: id, Email: email, Nickname: nickname, ThemeColor: domain.DefaultThemeColor}
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		out[k] = copyOf(v)
	}
	return out
}

func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

func (st *memState) clone() *memState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return &memState{
		seq:           st.seq,
		users:         cloneMap(st.users),
		couples:       cloneMap(st.couples),
		members:       cloneMap(st.members),
		invites:       cloneMap(st.invites),
		categories:    cloneMap(st.categories),
		anniversaries: cloneMap(st.anniversaries),
		labels:        cloneMap(st.labels),
		events:        cloneMap(st.events),
		messages:      cloneMap(st.messages),
		history:       slices.Clone(st.history),
		todos:         st.todos,
		diaries:       cloneMap(st.diaries),
		failures:      st.failures,
	}
}

func (st *memState) commit(work *memState) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.seq = work.seq
	st.users = work.users
	st.couples = work.couples
	st.members = work.members
	st.invites = work.invites
	st.categories = work.categories
	st.anniversaries = work.anniversaries
	st.labels = work.labels
	st.events = work.events
	st.messages = work.messages
	st.history = work.history
	st.diaries = work.diaries
}

func (st *memState) nextID(prefix string) string {
	st.seq++
	return fmt.Sprintf("%s-%d", prefix, st.seq)
}

func (st *memState) fail(op string) error {
	return st.failures[op]
}

func (st *memState) repos() domain.Repositories {
	return domain.Repositories{
		Users:           memUsers{st},
		Couples:         memCouples{st},
		Members:         memMembers{st},
		Invites:         memInvites{st},
		PlaceCategories: memCategories{st},
		Anniversaries:   memAnniversaries{st},
		Labels:          memLabels{st},
		Events:          memEvents{st},
		Messages:        memMessages{st},
		Todos:           memTodos{st},
		Diaries:         memDiaries{st},
	}
}

type memUsers struct{ st *memState }

func (r memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	u, ok := r.st.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyOf(u), nil
}

func (r memUsers) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := []*domain.User{}
	for _, id := range ids {
		if u, ok := r.st.users[id]; ok {
			out = append(out, copyOf(u))
		}
	}
	return out, nil
}

func (r memUsers) UpdateNickname(ctx context.Context, id, nickname string, updatedAt time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	u, ok := r.st.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Nickname, u.UpdatedAt = nickname, updatedAt
	return nil
}

func (r memUsers) UpdateThemeColor(ctx context.Context, id, themeColor string, updatedAt time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	u, ok := r.st.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ThemeColor, u.UpdatedAt = themeColor, updatedAt
	return nil
}

type memCouples struct{ st *memState }

func (r memCouples) Create(ctx context.Context, c *domain.Couple) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c.ID = r.st.nextID("couple")
	r.st.couples[c.ID] = copyOf(c)
	return nil
}

func (r memCouples) GetByID(ctx context.Context, id string) (*domain.Couple, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c, ok := r.st.couples[id]
	if !ok {
		return nil, domain.ErrCoupleNotFound
	}
	return copyOf(c), nil
}

func (r memCouples) GetByIDForUpdate(ctx context.Context, id string) (*domain.Couple, error) {
	return r.GetByID(ctx, id)
}

func (r memCouples) UpdateState(ctx context.Context, c *domain.Couple) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	stored, ok := r.st.couples[c.ID]
	if !ok {
		return domain.ErrCoupleNotFound
	}
	stored.Status, stored.ActivatedAt, stored.UpdatedAt = c.Status, c.ActivatedAt, c.UpdatedAt
	return nil
}

func (r memCouples) UpdateStartDate(ctx context.Context, id string, startDate *time.Time, updatedAt time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if err := r.st.fail("Couples.UpdateStartDate"); err != nil {
		return err
	}
	stored, ok := r.st.couples[id]
	if !ok {
		return domain.ErrCoupleNotFound
	}
	stored.StartDate, stored.UpdatedAt = startDate, updatedAt
	return nil
}

func (r memCouples) SoftDelete(ctx context.Context, id string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if c, ok := r.st.couples[id]; ok && c.DeletedAt == nil {
		c.DeletedAt, c.UpdatedAt = &at, at
	}
	return nil
}

type memMembers struct{ st *memState }

func (r memMembers) activeOf(userID string) *domain.CoupleMember {
	for _, m := range r.st.members {
		if m.UserID == userID && m.IsActive() {
			return m
		}
	}
	return nil
}

func (r memMembers) Create(ctx context.Context, m *domain.CoupleMember) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.activeOf(m.UserID) != nil {
		return domain.ErrAlreadyPaired
	}
	for _, existing := range r.st.members {
		if existing.CoupleID == m.CoupleID && existing.UserID == m.UserID {
			return domain.ErrAlreadyPaired
		}
	}
	m.ID = r.st.nextID("member")
	r.st.members[m.ID] = copyOf(m)
	return nil
}

func (r memMembers) GetActiveByUserID(ctx context.Context, userID string) (*domain.CoupleMember, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if m := r.activeOf(userID); m != nil {
		return copyOf(m), nil
	}
	return nil, domain.ErrNotInCouple
}

func (r memMembers) GetLatestByUserID(ctx context.Context, userID string) (*domain.CoupleMember, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var latest *domain.CoupleMember
	for _, m := range r.st.members {
		if m.UserID == userID && (latest == nil || m.UpdatedAt.After(latest.UpdatedAt)) {
			latest = m
		}
	}
	if latest == nil {
		return nil, domain.ErrNotInCouple
	}
	return copyOf(latest), nil
}

func (r memMembers) GetByCoupleAndUser(ctx context.Context, coupleID, userID string) (*domain.CoupleMember, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, m := range r.st.members {
		if m.CoupleID == coupleID && m.UserID == userID {
			return copyOf(m), nil
		}
	}
	return nil, domain.ErrNotInCouple
}

func (r memMembers) ListActiveByCoupleID(ctx context.Context, coupleID string) ([]*domain.CoupleMember, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*domain.CoupleMember
	for _, m := range r.st.members {
		if m.CoupleID == coupleID && m.IsActive() {
			out = append(out, copyOf(m))
		}
	}
	slices.SortFunc(out, func(a, b *domain.CoupleMember) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r memMembers) CountActive(ctx context.Context, coupleID string) (int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	n := 0
	for _, m := range r.st.members {
		if m.CoupleID == coupleID && m.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r memMembers) Reactivate(ctx context.Context, id string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	m, ok := r.st.members[id]
	if !ok {
		return domain.ErrNotInCouple
	}
	if other := r.activeOf(m.UserID); other != nil && other.ID != id {
		return domain.ErrAlreadyPaired
	}
	m.DeletedAt, m.UpdatedAt = nil, at
	return nil
}

func (r memMembers) SoftDelete(ctx context.Context, id string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	m, ok := r.st.members[id]
	if !ok || !m.IsActive() {
		return domain.ErrNotInCouple
	}
	m.DeletedAt, m.UpdatedAt = &at, at
	return nil
}

func (r memMembers) SoftDeleteByCoupleID(ctx context.Context, coupleID string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, m := range r.st.members {
		if m.CoupleID == coupleID && m.IsActive() {
			m.DeletedAt, m.UpdatedAt = &at, at
		}
	}
	return nil
}

type memInvites struct{ st *memState }

func (r memInvites) Create(ctx context.Context, inv *domain.CoupleInvite) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, existing := range r.st.invites {
		if existing.Code == inv.Code {
			return domain.ErrConflict
		}
	}
	inv.ID = r.st.nextID("invite")
	r.st.invites[inv.ID] = copyOf(inv)
	return nil
}

func (r memInvites) GetByCodeForUpdate(ctx context.Context, code string) (*domain.CoupleInvite, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, inv := range r.st.invites {
		if inv.Code == code {
			return copyOf(inv), nil
		}
	}
	return nil, domain.ErrInviteNotFound
}

func (r memInvites) GetActiveByCoupleID(ctx context.Context, coupleID string) (*domain.CoupleInvite, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var latest *domain.CoupleInvite
	for _, inv := range r.st.invites {
		if inv.CoupleID == coupleID && inv.Status == domain.InviteStatusActive &&
			(latest == nil || inv.CreatedAt.After(latest.CreatedAt)) {
			latest = inv
		}
	}
	if latest == nil {
		return nil, domain.ErrInviteNotFound
	}
	return copyOf(latest), nil
}

func (r memInvites) UpdateUsage(ctx context.Context, inv *domain.CoupleInvite) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if err := r.st.fail("Invites.UpdateUsage"); err != nil {
		return err
	}
	stored, ok := r.st.invites[inv.ID]
	if !ok {
		return domain.ErrInviteNotFound
	}
	stored.Uses, stored.Status, stored.ConsumedAt = inv.Uses, inv.Status, inv.ConsumedAt
	return nil
}

func (r memInvites) RevokeActiveByCoupleID(ctx context.Context, coupleID string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, inv := range r.st.invites {
		if inv.CoupleID == coupleID && inv.Status == domain.InviteStatusActive {
			inv.Status, inv.RevokedAt = domain.InviteStatusRevoked, &at
		}
	}
	return nil
}

type memCategories struct{ st *memState }

func (r memCategories) Create(ctx context.Context, pc *domain.PlaceCategory) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	pc.ID = r.st.nextID("category")
	r.st.categories[pc.ID] = copyOf(pc)
	return nil
}

func (r memCategories) GetByID(ctx context.Context, coupleID, id string) (*domain.PlaceCategory, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	pc, ok := r.st.categories[id]
	if !ok || pc.CoupleID != coupleID || pc.DeletedAt != nil {
		return nil, domain.ErrPlaceCategoryNotFound
	}
	return copyOf(pc), nil
}

func (r memCategories) ListByCoupleID(ctx context.Context, coupleID string) ([]*domain.PlaceCategory, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := []*domain.PlaceCategory{}
	for _, pc := range r.st.categories {
		if pc.CoupleID == coupleID && pc.DeletedAt == nil {
			out = append(out, copyOf(pc))
		}
	}
	slices.SortFunc(out, func(a, b *domain.PlaceCategory) int {
		if a.IsSystem != b.IsSystem {
			if a.IsSystem {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (r memCategories) Update(ctx context.Context, pc *domain.PlaceCategory) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.categories[pc.ID]; !ok {
		return domain.ErrPlaceCategoryNotFound
	}
	r.st.categories[pc.ID] = copyOf(pc)
	return nil
}

func (r memCategories) SoftDelete(ctx context.Context, id string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	pc, ok := r.st.categories[id]
	if !ok || pc.IsSystem || pc.DeletedAt != nil {
		return domain.ErrPlaceCategoryNotFound
	}
	pc.DeletedAt = &at
	return nil
}

func (r memCategories) SoftDeleteByCoupleID(ctx context.Context, coupleID string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, pc := range r.st.categories {
		if pc.CoupleID == coupleID && pc.DeletedAt == nil {
			pc.DeletedAt = &at
		}
	}
	return nil
}

type memAnniversaries struct{ st *memState }

func (r memAnniversaries) Create(ctx context.Context, a *domain.Anniversary) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a.ID = r.st.nextID("anniversary")
	r.st.anniversaries[a.ID] = copyOf(a)
	return nil
}

func (r memAnniversaries) GetByID(ctx context.Context, coupleID, id string) (*domain.Anniversary, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a, ok := r.st.anniversaries[id]
	if !ok || a.CoupleID != coupleID || a.DeletedAt != nil {
		return nil, domain.ErrAnniversaryNotFound
	}
	return copyOf(a), nil
}

func (r memAnniversaries) Update(ctx context.Context, a *domain.Anniversary) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.anniversaries[a.ID]; !ok {
		return domain.ErrAnniversaryNotFound
	}
	r.st.anniversaries[a.ID] = copyOf(a)
	return nil
}

func (r memAnniversaries) SoftDelete(ctx context.Context, id string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a, ok := r.st.anniversaries[id]
	if !ok || a.DeletedAt != nil {
		return domain.ErrAnniversaryNotFound
	}
	a.DeletedAt, a.UpdatedAt = &at, at
	return nil
}

func (r memAnniversaries) ListByCoupleID(ctx context.Context, coupleID string) ([]*domain.Anniversary, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if err := r.st.fail("Anniversaries.ListByCoupleID"); err != nil {
		return nil, err
	}
	var out []*domain.Anniversary
	for _, a := range r.st.anniversaries {
		if a.CoupleID == coupleID && a.DeletedAt == nil {
			out = append(out, copyOf(a))
		}
	}
	slices.SortFunc(out, func(x, y *domain.Anniversary) int {
		return cmp.Or(x.Date.Compare(y.Date), x.CreatedAt.Compare(y.CreatedAt), cmp.Compare(x.ID, y.ID))
	})
	return out, nil
}

func (r memAnniversaries) EarliestRelationshipDate(ctx context.Context, coupleID string) (*time.Time, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var earliest *time.Time
	for _, a := range r.st.anniversaries {
		if a.CoupleID == coupleID && a.DeletedAt == nil && a.Type == domain.AnniversaryTypeRelationship &&
			(earliest == nil || a.Date.Before(*earliest)) {
			d := a.Date
			earliest = &d
		}
	}
	return earliest, nil
}

type memLabels struct{ st *memState }

func (r memLabels) Create(ctx context.Context, l *domain.ScheduleLabel) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	l.ID = r.st.nextID("label")
	r.st.labels[l.ID] = copyOf(l)
	return nil
}

func (r memLabels) GetByID(ctx context.Context, coupleID, id string) (*domain.ScheduleLabel, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	l, ok := r.st.labels[id]
	if !ok || l.CoupleID != coupleID || l.DeletedAt != nil {
		return nil, domain.ErrLabelNotFound
	}
	return copyOf(l), nil
}

func (r memLabels) Update(ctx context.Context, l *domain.ScheduleLabel) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.labels[l.ID]; !ok {
		return domain.ErrLabelNotFound
	}
	r.st.labels[l.ID] = copyOf(l)
	return nil
}

func (r memLabels) SoftDelete(ctx context.Context, id string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	l, ok := r.st.labels[id]
	if !ok || l.DeletedAt != nil {
		return domain.ErrLabelNotFound
	}
	l.DeletedAt = &at
	if err := r.st.fail("Labels.DetachEvents"); err != nil {
		return err
	}
	for _, e := range r.st.events {
		if e.LabelID != nil && *e.LabelID == id {
			e.LabelID, e.Label = nil, nil
		}
	}
	return nil
}

func (r memLabels) ListByCoupleID(ctx context.Context, coupleID string) ([]*domain.ScheduleLabel, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := []*domain.ScheduleLabel{}
	for _, l := range r.st.labels {
		if l.CoupleID == coupleID && l.DeletedAt == nil {
			out = append(out, copyOf(l))
		}
	}
	slices.SortFunc(out, func(a, b *domain.ScheduleLabel) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

type memEvents struct{ st *memState }

func (r memEvents) withLabel(e *domain.ScheduleEvent) *domain.ScheduleEvent {
	out := copyOf(e)
	out.Label = nil
	if e.LabelID != nil {
		if l, ok := r.st.labels[*e.LabelID]; ok && l.DeletedAt == nil {
			out.Label = copyOf(l)
		}
	}
	return out
}

func (r memEvents) Create(ctx context.Context, e *domain.ScheduleEvent) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	e.ID = r.st.nextID("event")
	r.st.events[e.ID] = copyOf(e)
	return nil
}

func (r memEvents) GetByID(ctx context.Context, coupleID, id string) (*domain.ScheduleEvent, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	e, ok := r.st.events[id]
	if !ok || e.CoupleID != coupleID || e.DeletedAt != nil {
		return nil, domain.ErrEventNotFound
	}
	return r.withLabel(e), nil
}

func (r memEvents) Update(ctx context.Context, e *domain.ScheduleEvent) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.events[e.ID]; !ok {
		return domain.ErrEventNotFound
	}
	r.st.events[e.ID] = copyOf(e)
	return nil
}

func (r memEvents) SoftDelete(ctx context.Context, id string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	e, ok := r.st.events[id]
	if !ok || e.DeletedAt != nil {
		return domain.ErrEventNotFound
	}
	e.DeletedAt = &at
	return nil
}

func (r memEvents) ListInRange(ctx context.Context, coupleID string, from, to time.Time) ([]*domain.ScheduleEvent, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := []*domain.ScheduleEvent{}
	for _, e := range r.st.events {
		if e.CoupleID == coupleID && e.DeletedAt == nil && !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, r.withLabel(e))
		}
	}
	slices.SortFunc(out, func(a, b *domain.ScheduleEvent) int {
		return cmp.Or(a.Date.Compare(b.Date), a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

type memMessages struct{ st *memState }

func (r memMessages) withNickname(m *domain.Message) *domain.Message {
	out := copyOf(m)
	if u, ok := r.st.users[m.AuthorID]; ok {
		out.AuthorNickname = u.Nickname
	}
	return out
}

func (r memMessages) Upsert(ctx context.Context, m *domain.Message) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	key := m.CoupleID + "|" + m.AuthorID
	if existing, ok := r.st.messages[key]; ok {
		m.ID, m.CreatedAt = existing.ID, existing.CreatedAt
	} else {
		m.ID, m.CreatedAt = r.st.nextID("message"), m.UpdatedAt
	}
	r.st.messages[key] = copyOf(m)
	return nil
}

func (r memMessages) AppendHistory(ctx context.Context, m *domain.Message) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	h := *m
	h.ID, h.CreatedAt = r.st.nextID("history"), m.UpdatedAt
	r.st.history = append(r.st.history, h)
	return nil
}

func (r memMessages) GetCurrentByAuthor(ctx context.Context, coupleID, authorID string) (*domain.Message, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if m, ok := r.st.messages[coupleID+"|"+authorID]; ok {
		return r.withNickname(m), nil
	}
	return nil, nil
}

func (r memMessages) GetCurrentForRecipient(ctx context.Context, coupleID, recipientID string) (*domain.Message, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var latest *domain.Message
	for _, m := range r.st.messages {
		if m.CoupleID == coupleID && m.AuthorID != recipientID && (latest == nil || m.UpdatedAt.After(latest.UpdatedAt)) {
			latest = m
		}
	}
	if latest == nil {
		return nil, nil
	}
	return r.withNickname(latest), nil
}

func (r memMessages) ListHistory(ctx context.Context, coupleID, userID string, scope domain.MessageScope, p domain.PageRequest) ([]*domain.Message, int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var matched []*domain.Message
	for i := len(r.st.history) - 1; i >= 0; i-- {
		h := &r.st.history[i]
		sent := h.AuthorID == userID
		if h.CoupleID == coupleID && sent == (scope == domain.MessageScopeSent) {
			matched = append(matched, r.withNickname(h))
		}
	}
	total := len(matched)
	start := min(p.Offset(), total)
	end := min(start+p.Size, total)
	return matched[start:end], total, nil
}

type memTodos struct{ st *memState }

func (r memTodos) ListOpenDueBefore(ctx context.Context, coupleID string, before time.Time, limit int) ([]*domain.Todo, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := []*domain.Todo{}
	for _, t := range r.st.todos {
		if t.CoupleID == coupleID && t.Status != domain.TodoStatusDone && (t.DueDate == nil || !t.DueDate.After(before)) {
			out = append(out, copyOf(t))
		}
	}
	slices.SortStableFunc(out, func(a, b *domain.Todo) int {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		return a.DueDate.Compare(*b.DueDate)
	})
	return out[:min(limit, len(out))], nil
}

type memDiaries struct{ st *memState }

func (r memDiaries) Create(ctx context.Context, d *domain.Diary) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if err := r.st.fail("Diaries.Create"); err != nil {
		return err
	}
	d.ID = r.st.nextID("diary")
	r.st.diaries[d.ID] = copyOf(d)
	return nil
}

func (r memDiaries) GetByID(ctx context.Context, coupleID, id string) (*domain.Diary, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	d, ok := r.st.diaries[id]
	if !ok || d.CoupleID != coupleID || d.DeletedAt != nil {
		return nil, domain.ErrDiaryNotFound
	}
	return copyOf(d), nil
}

func (r memDiaries) Update(ctx context.Context, d *domain.Diary) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.diaries[d.ID]; !ok {
		return domain.ErrDiaryNotFound
	}
	r.st.diaries[d.ID] = copyOf(d)
	return nil
}

func (r memDiaries) ReplaceImages(ctx context.Context, diaryID string, urls []string) ([]domain.DiaryImage, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if err := r.st.fail("Diaries.ReplaceImages"); err != nil {
		return nil, err
	}
	d, ok := r.st.diaries[diaryID]
	if !ok {
		return nil, domain.ErrDiaryNotFound
	}
	images := make([]domain.DiaryImage, 0, len(urls))
	for i, u := range urls {
		images = append(images, domain.DiaryImage{ID: r.st.nextID("image"), URL: u, Order: i})
	}
	d.Images = images
	d.CoverImageURL = nil
	if len(images) > 0 {
		cover := images[0].URL
		d.CoverImageURL = &cover
	}
	return slices.Clone(images), nil
}

func (r memDiaries) SoftDelete(ctx context.Context, id string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	d, ok := r.st.diaries[id]
	if !ok || d.DeletedAt != nil {
		return domain.ErrDiaryNotFound
	}
	d.DeletedAt = &at
	return nil
}

func (r memDiaries) visible(coupleID, viewerID string, now time.Time) []*domain.Diary {
	out := []*domain.Diary{}
	for _, d := range r.st.diaries {
		if d.CoupleID == coupleID && d.VisibleTo(viewerID, now) {
			c := copyOf(d)
			c.Images = nil
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Diary) int {
		return cmp.Or(b.RecordDate.Compare(a.RecordDate), b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (r memDiaries) ListVisible(ctx context.Context, coupleID, viewerID string, now time.Time, p domain.PageRequest) ([]*domain.Diary, int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	all := r.visible(coupleID, viewerID, now)
	start := min(p.Offset(), len(all))
	return all[start:min(start+p.Size, len(all))], len(all), nil
}

func (r memDiaries) ListRecent(ctx context.Context, coupleID, viewerID string, now time.Time, limit int) ([]*domain.Diary, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := r.visible(coupleID, viewerID, now)
	return out[:min(limit, len(out))], nil
}

type sentNotification struct {
	CoupleID      string
	ExcludeUserID string
	Notification  domain.Notification
}

// recordingNotifier records notifications instead of delivering them.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) NotifyCoupleMembers(ctx context.Context, coupleID, excludeUserID string, note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{CoupleID: coupleID, ExcludeUserID: excludeUserID, Notification: note})
}

func (n *recordingNotifier) all() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.sent)
}

// testClock advances by a minute on every reading so stored timestamps stay ordered.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{t: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
