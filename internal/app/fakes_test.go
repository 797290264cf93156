package app

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/asysc2020/relationship-manager-project/internal/domain/notify"
	"github.com/asysc2020/relationship-manager-project/internal/domain/outreach"
	"github.com/asysc2020/relationship-manager-project/internal/domain/relationship"
	"github.com/asysc2020/relationship-manager-project/internal/domain/user"
	idb "github.com/asysc2020/relationship-manager-project/internal/infra/database"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fakeUserRepo is an in-memory user.Repository returning the same
// sentinel errors as the Postgres implementation.
type fakeUserRepo struct {
	users     map[int64]*user.User
	nextID    int64
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*user.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return idb.ErrDuplicateEmail
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, idb.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, idb.ErrUserNotFound
}

func (r *fakeUserRepo) GetByFacebookID(ctx context.Context, facebookID string) (*user.User, error) {
	for _, u := range r.users {
		if u.FacebookID.Valid && u.FacebookID.String == facebookID {
			return u, nil
		}
	}
	return nil, idb.ErrUserNotFound
}

func (r *fakeUserRepo) SetTelegramChatID(ctx context.Context, id int64, chatID int64) error {
	u, ok := r.users[id]
	if !ok {
		return idb.ErrUserNotFound
	}
	u.TelegramChatID = sql.NullInt64{Int64: chatID, Valid: true}
	return nil
}

// fakeRelationshipRepo is an in-memory relationship.Repository.
type fakeRelationshipRepo struct {
	rels   map[int64]*relationship.Relationship
	nextID int64
}

func newFakeRelationshipRepo() *fakeRelationshipRepo {
	return &fakeRelationshipRepo{rels: make(map[int64]*relationship.Relationship)}
}

// add seeds a relationship directly, keeping the caller's ID and CreatedAt.
func (r *fakeRelationshipRepo) add(rel *relationship.Relationship) {
	r.rels[rel.ID] = rel
	if rel.ID > r.nextID {
		r.nextID = rel.ID
	}
}

func (r *fakeRelationshipRepo) Create(ctx context.Context, rel *relationship.Relationship) error {
	r.nextID++
	rel.ID = r.nextID
	rel.CreatedAt = time.Now()
	rel.UpdatedAt = rel.CreatedAt
	r.rels[rel.ID] = rel
	return nil
}

func (r *fakeRelationshipRepo) GetByID(ctx context.Context, id int64) (*relationship.Relationship, error) {
	rel, ok := r.rels[id]
	if !ok {
		return nil, idb.ErrRelationshipNotFound
	}
	return rel, nil
}

func (r *fakeRelationshipRepo) ListByUser(ctx context.Context, userID int64) ([]*relationship.Relationship, error) {
	rels := make([]*relationship.Relationship, 0)
	for _, rel := range r.rels {
		if rel.UserID == userID {
			rels = append(rels, rel)
		}
	}
	sort.Slice(rels, func(i, j int) bool {
		if rels[i].FirstName != rels[j].FirstName {
			return rels[i].FirstName < rels[j].FirstName
		}
		if rels[i].LastName != rels[j].LastName {
			return rels[i].LastName < rels[j].LastName
		}
		return rels[i].ID < rels[j].ID
	})
	return rels, nil
}

func (r *fakeRelationshipRepo) SetMethods(ctx context.Context, id int64, methods []string) error {
	rel, ok := r.rels[id]
	if !ok {
		return idb.ErrRelationshipNotFound
	}
	rel.Methods = append([]string{}, methods...)
	rel.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRelationshipRepo) ApplyFieldUpdate(ctx context.Context, id int64, upd relationship.FieldUpdate) error {
	rel, ok := r.rels[id]
	if !ok {
		return idb.ErrRelationshipNotFound
	}
	switch upd.Field {
	case relationship.UpdateFirstName:
		rel.FirstName = upd.Value
	case relationship.UpdateLastName:
		rel.LastName = upd.Value
	case relationship.UpdateCategory:
		rel.Category = relationship.Category(upd.Value)
	default:
		return relationship.ErrUnknownUpdateField
	}
	rel.UpdatedAt = time.Now()
	return nil
}

// fakeEventRepo is an in-memory outreach.Repository. Joined contact names
// and delivery channels are resolved against the relationship and user
// fakes, mirroring the SQL joins.
type fakeEventRepo struct {
	relRepo       *fakeRelationshipRepo
	userRepo      *fakeUserRepo
	events        map[int64]*outreach.Event
	nextID        int64
	bulkCreateErr error
}

func newFakeEventRepo(relRepo *fakeRelationshipRepo, userRepo *fakeUserRepo) *fakeEventRepo {
	return &fakeEventRepo{
		relRepo:  relRepo,
		userRepo: userRepo,
		events:   make(map[int64]*outreach.Event),
	}
}

// add seeds an event directly, keeping the caller's ID.
func (r *fakeEventRepo) add(ev *outreach.Event) {
	r.events[ev.ID] = ev
	if ev.ID > r.nextID {
		r.nextID = ev.ID
	}
}

func (r *fakeEventRepo) BulkCreate(ctx context.Context, events []*outreach.Event) error {
	if r.bulkCreateErr != nil {
		return r.bulkCreateErr
	}
	if len(events) == 0 {
		return nil
	}
	for _, ev := range events {
		stored := *ev
		r.nextID++
		stored.ID = r.nextID
		stored.CreatedAt = time.Now()
		r.events[stored.ID] = &stored
	}
	return nil
}

func (r *fakeEventRepo) HasSchedule(ctx context.Context, relationshipID int64) (bool, error) {
	for _, ev := range r.events {
		if ev.RelationshipID == relationshipID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEventRepo) ListByUser(ctx context.Context, userID int64) ([]*outreach.UserEvent, error) {
	events := make([]*outreach.UserEvent, 0)
	for _, ev := range r.events {
		if ev.UserID != userID {
			continue
		}
		ue := &outreach.UserEvent{Event: *ev}
		if rel, ok := r.relRepo.rels[ev.RelationshipID]; ok {
			ue.ContactFirstName = rel.FirstName
			ue.ContactLastName = rel.LastName
		}
		events = append(events, ue)
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].ScheduledAt.Equal(events[j].ScheduledAt) {
			return events[i].ScheduledAt.Before(events[j].ScheduledAt)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id int64, userID int64) error {
	ev, ok := r.events[id]
	if !ok || ev.UserID != userID {
		return idb.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) ListDue(ctx context.Context, before time.Time) ([]*outreach.DueReminder, error) {
	due := make([]*outreach.DueReminder, 0)
	for _, ev := range r.events {
		if !ev.ScheduledAt.Before(before) || ev.NotifiedAt.Valid {
			continue
		}
		dr := &outreach.DueReminder{Event: *ev}
		if rel, ok := r.relRepo.rels[ev.RelationshipID]; ok {
			dr.ContactFirstName = rel.FirstName
			dr.ContactLastName = rel.LastName
		}
		if u, ok := r.userRepo.users[ev.UserID]; ok {
			dr.TelegramChatID = u.TelegramChatID
		}
		due = append(due, dr)
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].ScheduledAt.Equal(due[j].ScheduledAt) {
			return due[i].ScheduledAt.Before(due[j].ScheduledAt)
		}
		return due[i].ID < due[j].ID
	})
	return due, nil
}

func (r *fakeEventRepo) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	ev, ok := r.events[id]
	if !ok {
		return idb.ErrEventNotFound
	}
	ev.NotifiedAt = sql.NullTime{Time: at, Valid: true}
	return nil
}

// fakeRecommendationRepo serves seeded method recommendations per category.
type fakeRecommendationRepo struct {
	byCategory map[relationship.Category][]string
}

func (r *fakeRecommendationRepo) ListByCategory(ctx context.Context, category relationship.Category) ([]*outreach.Recommendation, error) {
	methods := r.byCategory[category]
	recs := make([]*outreach.Recommendation, 0, len(methods))
	for i, m := range methods {
		recs = append(recs, &outreach.Recommendation{
			ID:       int32(i + 1),
			Category: category,
			Method:   m,
		})
	}
	return recs, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

// fakeNotifier records deliveries. A zero chat ID reports ErrNoRecipient,
// matching the real notifier contract; errs injects per-chat failures.
type fakeNotifier struct {
	sent []sentMessage
	errs map[int64]error
}

func (n *fakeNotifier) Send(recipientChatID int64, text string) error {
	if err, ok := n.errs[recipientChatID]; ok {
		return err
	}
	if recipientChatID == 0 {
		return notify.ErrNoRecipient
	}
	n.sent = append(n.sent, sentMessage{chatID: recipientChatID, text: text})
	return nil
}
