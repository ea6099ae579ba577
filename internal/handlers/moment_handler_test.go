package handlers

import (
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
)

type momentFixture struct {
	handler *MomentHandler
	store   *memNotifStore
	push    *nopPush
	moments *memMomentStore
	echo    *echo.Echo
}

func newMomentFixture(t *testing.T) *momentFixture {
	t.Helper()
	store := newMemNotifStore()
	push := &nopPush{}
	users := &memUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", FullName: "Minh Anh"},
		"u2": {ID: "u2", FullName: "Bao Tran"},
	}}
	moments := newMemMomentStore(&models.Moment{ID: "m42", UserID: "u2", CreatedAt: time.Now()})

	engine := notifications.NewEngine(store, newMemFollowStore(), push, notifications.NewResolver(users), nil, 0)
	handler := NewMomentHandler(moments, nil, engine)

	e := echo.New()
	e.Validator = validators.NewValidator()
	return &momentFixture{handler: handler, store: store, push: push, moments: moments, echo: e}
}

func (f *momentFixture) likeContext(method, momentID, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(momentID)
	return c, rec
}

func TestLikeMomentBumpsCounterAndNotifies(t *testing.T) {
	f := newMomentFixture(t)

	c, rec := f.likeContext(http.MethodPost, "m42", `{"user_id":"u1"}`)
	require.NoError(t, f.handler.LikeMoment(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), f.moments.moments["m42"].LikesCount)
	require.Len(t, f.store.records, 1)
	for _, n := range f.store.records {
		assert.Equal(t, models.NotificationTypeLike, n.Type)
		assert.Equal(t, "u2", n.RecipientID)
	}
	assert.Equal(t, 1, f.push.sends)
}

func TestLikeMomentMissingMoment(t *testing.T) {
	f := newMomentFixture(t)

	c, _ := f.likeContext(http.MethodPost, "nope", `{"user_id":"u1"}`)
	err := f.handler.LikeMoment(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestLikeMomentMissingUserRejected(t *testing.T) {
	f := newMomentFixture(t)

	c, _ := f.likeContext(http.MethodPost, "m42", `{}`)
	err := f.handler.LikeMoment(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, int64(0), f.moments.moments["m42"].LikesCount)
}

func TestUnlikeMomentDropsCounterButKeepsNotification(t *testing.T) {
	f := newMomentFixture(t)

	c, _ := f.likeContext(http.MethodPost, "m42", `{"user_id":"u1"}`)
	require.NoError(t, f.handler.LikeMoment(c))

	c, rec := f.likeContext(http.MethodDelete, "m42", "")
	require.NoError(t, f.handler.UnlikeMoment(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), f.moments.moments["m42"].LikesCount)
	assert.Len(t, f.store.records, 1, "unlike never retracts the notification")
}

func TestUnlikeMomentNeverGoesNegative(t *testing.T) {
	f := newMomentFixture(t)

	c, _ := f.likeContext(http.MethodDelete, "m42", "")
	require.NoError(t, f.handler.UnlikeMoment(c))
	assert.Equal(t, int64(0), f.moments.moments["m42"].LikesCount)
}
