package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/asysc2020/relationship-manager-project/internal/app"
	"github.com/asysc2020/relationship-manager-project/internal/domain/outreach"
	"github.com/asysc2020/relationship-manager-project/internal/domain/relationship"
	"github.com/asysc2020/relationship-manager-project/internal/domain/user"
	"github.com/asysc2020/relationship-manager-project/internal/infra/config"
	idb "github.com/asysc2020/relationship-manager-project/internal/infra/database"
	"github.com/asysc2020/relationship-manager-project/internal/infra/metrics"
)

// In-memory repositories backing the HTTP tests. They return the same
// sentinel errors as the Postgres implementations so the full
// handler-service-repository path behaves like production.

type fakeUserRepo struct {
	users  map[int64]*user.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*user.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
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

type fakeRelationshipRepo struct {
	rels   map[int64]*relationship.Relationship
	nextID int64
}

func newFakeRelationshipRepo() *fakeRelationshipRepo {
	return &fakeRelationshipRepo{rels: make(map[int64]*relationship.Relationship)}
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

type fakeEventRepo struct {
	relRepo  *fakeRelationshipRepo
	userRepo *fakeUserRepo
	events   map[int64]*outreach.Event
	nextID   int64
}

func newFakeEventRepo(relRepo *fakeRelationshipRepo, userRepo *fakeUserRepo) *fakeEventRepo {
	return &fakeEventRepo{
		relRepo:  relRepo,
		userRepo: userRepo,
		events:   make(map[int64]*outreach.Event),
	}
}

func (r *fakeEventRepo) BulkCreate(ctx context.Context, events []*outreach.Event) error {
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
		return due[i].ScheduledAt.Before(due[j].ScheduledAt)
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

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// newTestServer assembles a full server on in-memory repositories.
func newTestServer(t *testing.T, loginRatePerMin int) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := newFakeUserRepo()
	relRepo := newFakeRelationshipRepo()
	eventRepo := newFakeEventRepo(relRepo, userRepo)
	recRepo := &fakeRecommendationRepo{byCategory: map[relationship.Category][]string{
		relationship.CategoryFriend:       {"call", "text", "email", "hang out"},
		relationship.CategoryFamily:       {"call", "text", "visit", "send photos"},
		relationship.CategoryProfessional: {"email", "call", "linkedin message", "coffee meeting"},
	}}

	cfg := &config.AppConfig{
		HTTPAddr:        ":0",
		SessionSecret:   "test-session-secret",
		Environment:     "test",
		LoginRatePerMin: loginRatePerMin,
	}

	m := metrics.New()
	services := Services{
		Auth:     app.NewAuthService(userRepo),
		Contacts: app.NewContactService(relRepo, recRepo),
		Schedule: app.NewScheduleService(relRepo, eventRepo, m, testLogger()),
	}

	return NewServer(cfg, services, m, testLogger())
}

// testClient drives the engine through httptest and carries the session
// cookie between requests like a browser.
type testClient struct {
	t       *testing.T
	engine  *gin.Engine
	cookies []*http.Cookie
}

func newTestClient(t *testing.T, server *Server) *testClient {
	return &testClient{t: t, engine: server.Engine()}
}

func (tc *testClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	tc.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(tc.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range tc.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	tc.engine.ServeHTTP(w, req)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		tc.cookies = cookies
	}
	return w
}

// register signs up a fresh account and leaves its session on the client.
func (tc *testClient) register(email string) {
	tc.t.Helper()
	w := tc.do(http.MethodPost, "/api/register", RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  "s3cret",
	})
	require.Equal(tc.t, http.StatusCreated, w.Code, w.Body.String())
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	env := decode(t, w)
	require.True(t, env.Success, "expected success envelope, got %q", env.Error)
	require.NoError(t, json.Unmarshal(env.Data, target))
}
