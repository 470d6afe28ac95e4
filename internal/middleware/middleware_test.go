package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/helpdesk-api/internal/config"
	"github.com/yukikurage/helpdesk-api/internal/constants"
	"github.com/yukikurage/helpdesk-api/internal/logger"
	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/repository"
	"github.com/yukikurage/helpdesk-api/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newSessionRouter logs the caller in as the given user on /login.
func newSessionRouter(userID uint64, role models.UserRole) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.GET("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, userID)
		session.Set(constants.ContextKeyUserRole, string(role))
		if err := session.Save(); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func login(t *testing.T, r *gin.Engine) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	return w.Result().Cookies()
}

func do(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newSessionRouter(7, models.RoleAgent)
	r.GET("/me", RequireAuth(), func(c *gin.Context) {
		id, ok := GetUserID(c)
		require.True(t, ok)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", nil).Code)

	w := do(r, "/me", login(t, r))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"role":"agent"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	for _, tc := range []struct {
		role models.UserRole
		want int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleAgent, http.StatusForbidden},
	} {
		r := newSessionRouter(1, tc.role)
		r.GET("/admin", RequireAuth(), RequireRole(models.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		assert.Equal(t, tc.want, do(r, "/admin", login(t, r)).Code, tc.role)
	}
}

func TestGetUserID_Types(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)

	c.Set(constants.ContextKeyUserID, int64(5))
	id, ok := GetUserID(c)
	assert.True(t, ok)
	assert.EqualValues(t, 5, id)

	c.Set(constants.ContextKeyUserID, -1)
	_, ok = GetUserID(c)
	assert.False(t, ok)
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(config.LoggerConfig{Level: "info", Format: "json"}, &buf)

	r := gin.New()
	r.Use(RequestID(), RequestLogger(log))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderRequestID, "abc-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "http_request", line["msg"])
	assert.Equal(t, "/ping", line["path"])
	assert.EqualValues(t, 200, line["status"])
	assert.Equal(t, "abc-123", line["request_id"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get(constants.HeaderRequestID), 36)
}

func TestLoadTicket(t *testing.T) {
	store := repository.NewMemoryStore()
	notifications := services.NewNotificationService(store, nil, logger.Discard())
	tickets := services.NewTicketService(store, notifications, logger.Discard())
	_, err := tickets.CreateTicket(t.Context(), services.CreateTicketInput{Subject: "s", Description: "d", CreatedByID: 1})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/tickets/:id", LoadTicket(tickets, logger.Discard()), func(c *gin.Context) {
		ticket, ok := GetTicket(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": ticket.ID})
	})

	assert.Equal(t, http.StatusOK, do(r, "/tickets/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, "/tickets/2", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, "/tickets/abc", nil).Code)
}
