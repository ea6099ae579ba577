package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/lienquan/karahub/backend/internal/notifications"
	"github.com/lienquan/karahub/backend/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memNotifStore struct {
	records map[uint]*models.Notification
	nextID  uint
}

func newMemNotifStore() *memNotifStore {
	return &memNotifStore{records: make(map[uint]*models.Notification), nextID: 1}
}

func (s *memNotifStore) FindMergeTarget(recipientID string, sourceObjectID *string, eventType string, windowStart time.Time) (*models.Notification, error) {
	for _, n := range s.records {
		if n.RecipientID != recipientID || n.Type != eventType || n.IsRead || n.CreatedAt.Before(windowStart) {
			continue
		}
		if (n.SourceObjectID == nil) != (sourceObjectID == nil) {
			continue
		}
		if sourceObjectID != nil && *n.SourceObjectID != *sourceObjectID {
			continue
		}
		return n, nil
	}
	return nil, nil
}

func (s *memNotifStore) Insert(n *models.Notification) error {
	n.ID = s.nextID
	s.nextID++
	copied := *n
	s.records[n.ID] = &copied
	return nil
}

func (s *memNotifStore) UpdateMerge(id uint, actorID string, actionCount int, message string) error {
	n, ok := s.records[id]
	if !ok {
		return fmt.Errorf("notification %d not found", id)
	}
	n.ActorID = actorID
	n.ActionCount = actionCount
	n.Message = message
	return nil
}

func (s *memNotifStore) MarkRead(id uint) error {
	n, ok := s.records[id]
	if !ok {
		return fmt.Errorf("notification %d not found", id)
	}
	n.IsRead = true
	return nil
}

func (s *memNotifStore) Delete(id uint) error { delete(s.records, id); return nil }

func (s *memNotifStore) ListByRecipient(recipientID string, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.records {
		if n.RecipientID == recipientID && len(out) < limit {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (s *memNotifStore) FindFollowNotification(recipientID, actorID string) (*models.Notification, error) {
	for _, n := range s.records {
		if n.RecipientID == recipientID && n.ActorID == actorID && n.Type == models.NotificationTypeFollow {
			return n, nil
		}
	}
	return nil, nil
}

func (s *memNotifStore) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	for _, n := range s.records {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type memFollowStore struct{ edges map[string]bool }

func newMemFollowStore() *memFollowStore { return &memFollowStore{edges: make(map[string]bool)} }

func (f *memFollowStore) CreateFollow(follow *models.Follow) error {
	f.edges[follow.FollowerID+"->"+follow.FollowingID] = true
	return nil
}

func (f *memFollowStore) DeleteFollow(followerID, followingID string) error {
	delete(f.edges, followerID+"->"+followingID)
	return nil
}

func (f *memFollowStore) IsFollowing(followerID, followingID string) (bool, error) {
	return f.edges[followerID+"->"+followingID], nil
}

func (f *memFollowStore) GetFollowers(userID string) ([]models.User, error) {
	var users []models.User
	for edge := range f.edges {
		follower, following, _ := strings.Cut(edge, "->")
		if following == userID {
			users = append(users, models.User{ID: follower})
		}
	}
	return users, nil
}

func (f *memFollowStore) GetFollowing(userID string) ([]models.User, error) {
	var users []models.User
	for edge := range f.edges {
		follower, following, _ := strings.Cut(edge, "->")
		if follower == userID {
			users = append(users, models.User{ID: following})
		}
	}
	return users, nil
}

func (f *memFollowStore) GetFollowersCount(userID string) (int64, error) {
	users, _ := f.GetFollowers(userID)
	return int64(len(users)), nil
}

func (f *memFollowStore) GetFollowingCount(userID string) (int64, error) {
	users, _ := f.GetFollowing(userID)
	return int64(len(users)), nil
}

type memUserRepo struct{ users map[string]*models.User }

func (r *memUserRepo) CreateUser(user *models.User) error { r.users[user.ID] = user; return nil }

func (r *memUserRepo) GetUserByID(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) UpdateUser(user *models.User) error { r.users[user.ID] = user; return nil }
func (r *memUserRepo) DeleteUser(id string) error         { delete(r.users, id); return nil }
func (r *memUserRepo) SearchUsers(query string) ([]models.User, error) {
	return nil, nil
}

func (r *memUserRepo) ListUsers() ([]models.User, error) {
	var users []models.User
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

type nopPush struct{ sends int }

func (p *nopPush) Send(targetUserIDs []string, title, body string, data map[string]string) *notifications.PushResult {
	p.sends++
	id := fmt.Sprintf("push-%d", p.sends)
	return &notifications.PushResult{ProviderID: id, Recipients: 1}
}

func (p *nopPush) Cancel(providerID string) {}

type handlerFixture struct {
	handler *NotificationHandler
	store   *memNotifStore
	push    *nopPush
	echo    *echo.Echo
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	store := newMemNotifStore()
	follows := newMemFollowStore()
	push := &nopPush{}
	users := &memUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", FullName: "Minh Anh"},
		"u2": {ID: "u2", FullName: "Bao Tran"},
	}}

	engine := notifications.NewEngine(store, follows, push, notifications.NewResolver(users), nil, 0)
	handler := NewNotificationHandler(engine, store, users)

	e := echo.New()
	e.Validator = validators.NewValidator()

	return &handlerFixture{handler: handler, store: store, push: push, echo: e}
}

func (f *handlerFixture) request(method, path, body string) (*httptest.ResponseRecorder, echo.Context) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return rec, f.echo.NewContext(req, rec)
}

func TestTriggerEndpointCreated(t *testing.T) {
	f := newHandlerFixture(t)

	rec, c := f.request(http.MethodPost, "/api/v1/notifications/trigger",
		`{"actor_id":"u1","receiver_id":"u2","source_object_id":"m42","type":"like"}`)

	require.NoError(t, f.handler.Trigger(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"created"}`, rec.Body.String())
	assert.Equal(t, 1, f.push.sends)
}

func TestTriggerEndpointMerged(t *testing.T) {
	f := newHandlerFixture(t)

	body := `{"actor_id":"u1","receiver_id":"u2","source_object_id":"m42","type":"like"}`
	_, c := f.request(http.MethodPost, "/api/v1/notifications/trigger", body)
	require.NoError(t, f.handler.Trigger(c))

	rec, c := f.request(http.MethodPost, "/api/v1/notifications/trigger", body)
	require.NoError(t, f.handler.Trigger(c))
	assert.JSONEq(t, `{"status":"merged"}`, rec.Body.String())
	assert.Equal(t, 1, f.push.sends, "merge must not push again")
}

func TestTriggerEndpointIgnoredOnSelfAction(t *testing.T) {
	f := newHandlerFixture(t)

	rec, c := f.request(http.MethodPost, "/api/v1/notifications/trigger",
		`{"actor_id":"u1","receiver_id":"u1","source_object_id":"m42","type":"like"}`)

	require.NoError(t, f.handler.Trigger(c))
	assert.JSONEq(t, `{"status":"ignored"}`, rec.Body.String())
}

func TestTriggerEndpointMissingFieldRejected(t *testing.T) {
	f := newHandlerFixture(t)

	_, c := f.request(http.MethodPost, "/api/v1/notifications/trigger",
		`{"receiver_id":"u2","type":"like"}`)

	err := f.handler.Trigger(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestTriggerEndpointUnknownTypeRejected(t *testing.T) {
	f := newHandlerFixture(t)

	_, c := f.request(http.MethodPost, "/api/v1/notifications/trigger",
		`{"actor_id":"u1","receiver_id":"u2","type":"poke"}`)

	err := f.handler.Trigger(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestTriggerEndpointChatTypeRejected(t *testing.T) {
	f := newHandlerFixture(t)

	_, c := f.request(http.MethodPost, "/api/v1/notifications/trigger",
		`{"actor_id":"u1","receiver_id":"u2","type":"chat"}`)

	err := f.handler.Trigger(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Empty(t, f.store.records)
}

func TestFollowEndpointAndDuplicate(t *testing.T) {
	f := newHandlerFixture(t)

	body := `{"follower_id":"u1","following_id":"u2"}`
	rec, c := f.request(http.MethodPost, "/api/v1/notifications/follow", body)
	require.NoError(t, f.handler.Follow(c))
	assert.JSONEq(t, `{"success":true,"message":"Followed"}`, rec.Body.String())

	rec, c = f.request(http.MethodPost, "/api/v1/notifications/follow", body)
	require.NoError(t, f.handler.Follow(c))
	assert.JSONEq(t, `{"success":true,"message":"Already following"}`, rec.Body.String())
	assert.Equal(t, 1, f.push.sends)
}

func TestFollowEndpointSelfRejected(t *testing.T) {
	f := newHandlerFixture(t)

	_, c := f.request(http.MethodPost, "/api/v1/notifications/follow",
		`{"follower_id":"u1","following_id":"u1"}`)

	err := f.handler.Follow(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestUnfollowEndpointRetracts(t *testing.T) {
	f := newHandlerFixture(t)

	_, c := f.request(http.MethodPost, "/api/v1/notifications/follow",
		`{"follower_id":"u1","following_id":"u2"}`)
	require.NoError(t, f.handler.Follow(c))
	require.Len(t, f.store.records, 1)

	rec, c := f.request(http.MethodPost, "/api/v1/notifications/unfollow",
		`{"follower_id":"u1","following_id":"u2"}`)
	require.NoError(t, f.handler.Unfollow(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.store.records)
}

func TestChatEndpointDoesNotPersist(t *testing.T) {
	f := newHandlerFixture(t)

	rec, c := f.request(http.MethodPost, "/api/v1/notifications/chat",
		`{"sender_id":"u1","receiver_id":"u2","message_content":"see you at the booth"}`)

	require.NoError(t, f.handler.Chat(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.push.sends)
	assert.Empty(t, f.store.records)
}

func TestGetNotificationsEnrichedWithActor(t *testing.T) {
	f := newHandlerFixture(t)

	_, c := f.request(http.MethodPost, "/api/v1/notifications/trigger",
		`{"actor_id":"u1","receiver_id":"u2","source_object_id":"m42","type":"like"}`)
	require.NoError(t, f.handler.Trigger(c))

	rec, c := f.request(http.MethodGet, "/api/v1/notifications/u2", "")
	c.SetParamNames("userId")
	c.SetParamValues("u2")
	require.NoError(t, f.handler.GetNotifications(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"full_name":"Minh Anh"`)
	assert.Contains(t, rec.Body.String(), "Minh Anh liked your post.")
}

func TestMarkAsReadEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	_, c := f.request(http.MethodPost, "/api/v1/notifications/trigger",
		`{"actor_id":"u1","receiver_id":"u2","source_object_id":"m42","type":"like"}`)
	require.NoError(t, f.handler.Trigger(c))

	rec, c := f.request(http.MethodPut, "/api/v1/notifications/read/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, f.handler.MarkAsRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.store.records[1].IsRead)
}

func TestMarkAsReadInvalidID(t *testing.T) {
	f := newHandlerFixture(t)

	_, c := f.request(http.MethodPut, "/api/v1/notifications/read/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := f.handler.MarkAsRead(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetUnreadCountEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	for _, obj := range []string{"m1", "m2"} {
		_, c := f.request(http.MethodPost, "/api/v1/notifications/trigger",
			fmt.Sprintf(`{"actor_id":"u1","receiver_id":"u2","source_object_id":"%s","type":"like"}`, obj))
		require.NoError(t, f.handler.Trigger(c))
	}

	rec, c := f.request(http.MethodGet, "/api/v1/notifications/u2/unread-count", "")
	c.SetParamNames("userId")
	c.SetParamValues("u2")
	require.NoError(t, f.handler.GetUnreadCount(c))
	assert.JSONEq(t, `{"success":true,"data":{"count":2}}`, rec.Body.String())
}
